package list

import (
	"context"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/controller/run"
	"github.com/ghaup/ghaup/pkg/scan"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// List prints action references of target files.
// A file which can't be read or parsed is logged and skipped.
func (c *Controller) List(_ context.Context, logE *logrus.Entry) error {
	files, err := run.SearchFiles(c.fs, c.param.WorkflowFilePaths, c.cfg, c.param.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("search target files: %w", err)
	}

	tmpl, err := c.parseTemplate()
	if err != nil {
		return err
	}

	for _, file := range files {
		logE := logE.WithField("workflow_file", file)
		if err := c.listWorkflow(logE, file, tmpl); err != nil {
			logerr.WithError(logE, err).Error("list actions in a workflow file")
		}
	}
	return nil
}

func (c *Controller) parseTemplate() (*template.Template, error) {
	if c.param.LineTemplate == "" {
		return nil, nil //nolint:nilnil
	}
	tmpl, err := template.New("line").Parse(c.param.LineTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse line template: %w", err)
	}
	return tmpl, nil
}

func (c *Controller) listWorkflow(logE *logrus.Entry, file string, tmpl *template.Template) error {
	b, err := afero.ReadFile(c.fs, file)
	if err != nil {
		return fmt.Errorf("read a workflow file: %w", err)
	}
	result, err := scan.Scan(logE, file, b)
	if err != nil {
		return fmt.Errorf("scan a workflow file: %w", err)
	}
	for _, w := range result.Warnings {
		logE.Warn(w.String())
	}
	for _, ref := range result.References {
		name := string(ref.Identity)
		if c.excluded(name) {
			logE.WithField("action", name).Debug("exclude the action")
			continue
		}
		if c.param.Owner != "" && ref.Identity.Owner() != c.param.Owner {
			continue
		}
		if err := c.output(newActionInfo(ref), tmpl); err != nil {
			return err
		}
	}
	return nil
}

func newActionInfo(ref *action.Reference) *ActionInfo {
	return &ActionInfo{
		ActionName: string(ref.Identity),
		RepoOwner:  ref.Identity.Owner(),
		RepoName:   ref.Identity.RepoName(),
		Version:    ref.Ref,
		Comment:    ref.Annotation,
		FilePath:   ref.File,
		FileName:   filepath.Base(ref.File),
		LineNumber: ref.Line,
	}
}

func (c *Controller) output(info *ActionInfo, tmpl *template.Template) error {
	if tmpl != nil {
		if err := tmpl.Execute(c.stdout, info); err != nil {
			return fmt.Errorf("execute template: %w", err)
		}
		fmt.Fprintln(c.stdout)
		return nil
	}
	// <FilePath>,<LineNumber>,<ActionName>,<Version>,<Comment>
	fmt.Fprintf(c.stdout, "%s,%d,%s,%s,%s\n", info.FilePath, info.LineNumber, info.ActionName, info.Version, info.Comment)
	return nil
}

// excluded returns true if name matches an exclude pattern or doesn't match any include pattern.
func (c *Controller) excluded(name string) bool {
	for _, exclude := range c.param.Excludes {
		if exclude.MatchString(name) {
			return true
		}
	}
	if len(c.param.Includes) == 0 {
		return false
	}
	for _, include := range c.param.Includes {
		if include.MatchString(name) {
			return false
		}
	}
	return true
}
