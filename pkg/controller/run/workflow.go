package run

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/report"
	"github.com/ghaup/ghaup/pkg/rewrite"
	"github.com/ghaup/ghaup/pkg/scan"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/ghaup/ghaup/pkg/version"
	"github.com/ghaup/ghaup/pkg/warning"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"golang.org/x/sync/errgroup"
)

// workflow is a scanned target file.
type workflow struct {
	path    string
	content string
	mode    fs.FileMode
	refs    []*action.Reference
}

// scanFiles reads and scans files in parallel.
// A file which isn't valid YAML is skipped with a warning.
// The result keeps the order of files and has nil for skipped files.
func (c *Controller) scanFiles(ctx context.Context, logE *logrus.Entry, files []string, agg *report.Aggregator) ([]*workflow, error) {
	workflows := make([]*workflow, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.param.Concurrency)
	for i, file := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}
			w, err := c.scanFile(logE.WithField("workflow_file", file), file, agg)
			if err != nil {
				return logerr.WithFields(err, logrus.Fields{ //nolint:wrapcheck
					"workflow_file": file,
				})
			}
			workflows[i] = w
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("scan workflow files: %w", err)
	}
	return workflows, nil
}

func (c *Controller) scanFile(logE *logrus.Entry, file string, agg *report.Aggregator) (*workflow, error) {
	stat, err := c.fs.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("get a workflow file's stat: %w", err)
	}
	b, err := afero.ReadFile(c.fs, file)
	if err != nil {
		return nil, fmt.Errorf("read a workflow file: %w", err)
	}
	result, err := scan.Scan(logE, file, b)
	if err != nil {
		logerr.WithError(logE, err).Warn("skip a file which can't be parsed")
		agg.AddWarnings(&warning.Warning{
			Kind:    warning.KindInvalidYAML,
			File:    file,
			Message: err.Error(),
		})
		return nil, nil //nolint:nilnil
	}
	agg.AddWarnings(result.Warnings...)
	logE.WithField("num_of_actions", len(result.References)).Debug("scanned a workflow file")
	return &workflow{
		path:    file,
		content: string(b),
		mode:    stat.Mode().Perm(),
		refs:    result.References,
	}, nil
}

// uniqueRefs returns the first occurrence of each identity@ref.
func uniqueRefs(workflows []*workflow) []*action.Reference {
	seen := map[string]struct{}{}
	refs := []*action.Reference{}
	for _, w := range workflows {
		if w == nil {
			continue
		}
		for _, ref := range w.refs {
			if _, ok := seen[ref.Key()]; ok {
				continue
			}
			seen[ref.Key()] = struct{}{}
			refs = append(refs, ref)
		}
	}
	return refs
}

// decide decides updates per identity@ref in parallel.
// Candidates of a repository are fetched once and shared via the fetcher's cache.
func (c *Controller) decide(ctx context.Context, logE *logrus.Entry, fetcher *fetch.Fetcher, p *policy, workflows []*workflow, agg *report.Aggregator) (map[string]*update.Decision, error) {
	refs := uniqueRefs(workflows)
	decisions := make([]*update.Decision, len(refs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.param.Concurrency)
	for i, ref := range refs {
		eg.Go(func() error {
			logE := logE.WithFields(logrus.Fields{
				"action": ref.Identity,
				"ref":    ref.Ref,
			})
			d, err := c.decideRef(ctx, logE, fetcher, p, ref, agg)
			if err != nil {
				return logerr.WithFields(err, logrus.Fields{ //nolint:wrapcheck
					"action": ref.Identity,
					"ref":    ref.Ref,
				})
			}
			decisions[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("decide updates: %w", err)
	}
	m := make(map[string]*update.Decision, len(decisions))
	for _, d := range decisions {
		m[d.Key()] = d
	}
	return m, nil
}

func (c *Controller) decideRef(ctx context.Context, logE *logrus.Entry, fetcher *fetch.Fetcher, p *policy, ref *action.Reference, agg *report.Aggregator) (*update.Decision, error) {
	in := &update.Input{
		Reference:    ref,
		Ignore:       p.ignorer,
		Strategy:     p.strategy,
		ReleaseTypes: p.releaseTypes,
	}
	if p.ignorer.Ignore(ref) {
		logE.Debug("ignore the action")
		return update.Decide(in).Decision, nil
	}
	result, err := fetcher.Fetch(ctx, logE, ref.Identity)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	agg.AddWarnings(result.Warnings...)
	in.Candidates = result.Candidates
	r := update.Decide(in)
	agg.AddWarnings(r.Warnings...)
	d := r.Decision
	if d.Applicable && d.Candidate != nil {
		c, err := fetcher.Describe(ctx, logE, ref.Identity, d.Candidate)
		if err != nil {
			return nil, fmt.Errorf("get the commit of the new version: %w", err)
		}
		d.Candidate = c
	}
	switch {
	case d.Applicable:
		logE.WithFields(logrus.Fields{
			"new_ref": d.NewRef,
			"bump":    d.Bump,
		}).Debug("the action can be updated")
	case d.Reason == update.ReasonUpToDate:
		logE.Info("the action is up to date")
	default:
		logE.WithField("reason", d.Reason).Debug("the action isn't updated")
	}
	return d, nil
}

func (c *Controller) rewriteFiles(ctx context.Context, logE *logrus.Entry, workflows []*workflow, decisions map[string]*update.Decision, agg *report.Aggregator) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.param.Concurrency)
	for _, w := range workflows {
		if w == nil {
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}
			rewriteFile(logE.WithField("workflow_file", w.path), w, decisions, agg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("rewrite workflow files: %w", err)
	}
	return nil
}

// rewriteFile applies decisions to a file and records its new content and changes.
func rewriteFile(logE *logrus.Entry, w *workflow, decisions map[string]*update.Decision, agg *report.Aggregator) {
	text := w.content
	applied := map[string]*update.Decision{}
	for _, ref := range rewriteOrder(w.refs) {
		d, ok := decisions[ref.Key()]
		if !ok || !d.Applicable {
			continue
		}
		result := rewrite.Rewrite(text, d)
		if result.Count == 0 {
			logE.WithField("action", ref.Key()).Warn("the reference isn't found in the file")
			agg.AddWarnings(&warning.Warning{
				Kind:    warning.KindRewriteDrift,
				File:    w.path,
				Action:  string(ref.Identity),
				Ref:     ref.Ref,
				Message: "the reference isn't found in the file, so the file isn't updated",
			})
			continue
		}
		text = result.Text
		applied[ref.Key()] = d
	}
	if len(applied) == 0 {
		return
	}
	oldLines := strings.Split(w.content, "\n")
	newLines := strings.Split(text, "\n")
	changes := []*report.Change{}
	for _, ref := range w.refs {
		d, ok := applied[ref.Key()]
		if !ok {
			continue
		}
		changes = append(changes, &report.Change{
			File:       w.path,
			Line:       ref.Line,
			Identity:   ref.Identity,
			OldRef:     d.OldRef,
			NewRef:     d.NewRef,
			Annotation: d.Annotation,
			Bump:       d.Bump,
			OldLine:    lineAt(oldLines, ref.Line),
			NewLine:    lineAt(newLines, ref.Line),
			Candidate:  d.Candidate,
		})
	}
	agg.AddFile(w.path, text, changes)
}

// rewriteOrder returns unique references of a file, the newest version first.
// A rewritten reference can be the old reference of another decision
// (v1 -> v2 and v2 -> v3), so newer references must be rewritten first
// not to rewrite a reference twice.
func rewriteOrder(refs []*action.Reference) []*action.Reference {
	arr := make([]*action.Reference, 0, len(refs))
	seen := map[string]struct{}{}
	for _, ref := range refs {
		if _, ok := seen[ref.Key()]; ok {
			continue
		}
		seen[ref.Key()] = struct{}{}
		arr = append(arr, ref)
	}
	slices.SortStableFunc(arr, func(a, b *action.Reference) int {
		if c, ok := version.Compare(a.Current(), b.Current()); ok && c != 0 {
			return -c
		}
		if as, bs := a.Current().IsSemver(), b.Current().IsSemver(); as != bs {
			if as {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Key(), b.Key())
	})
	return arr
}

func lineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

func (c *Controller) writeFiles(logE *logrus.Entry, workflows []*workflow, summary *report.Summary) error {
	modes := make(map[string]fs.FileMode, len(workflows))
	for _, w := range workflows {
		if w != nil {
			modes[w.path] = w.mode
		}
	}
	for _, file := range summary.Files {
		if err := afero.WriteFile(c.fs, file.Path, []byte(file.Content), modes[file.Path]); err != nil {
			return fmt.Errorf("write a workflow file: %w", logerr.WithFields(err, logrus.Fields{
				"workflow_file": file.Path,
			}))
		}
		logE.WithField("workflow_file", file.Path).Info("updated a workflow file")
	}
	return nil
}
