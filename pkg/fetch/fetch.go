// Package fetch retrieves candidate versions of actions from the code host.
// Candidates are fetched once per repository per run through Cache,
// and are returned newest first.
// An action which can't be resolved or has no release yields no candidate and a warning;
// only an unavailable host is a fatal error.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/version"
	"github.com/ghaup/ghaup/pkg/warning"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

type Strategy string

const (
	// StrategyReleaseTag updates refs to the tag of the latest release.
	StrategyReleaseTag Strategy = "release-tag"
	// StrategyReleaseCommitSHA updates refs to the commit hash of the latest release's tag.
	StrategyReleaseCommitSHA Strategy = "release-commit-sha"
	// StrategyDefaultBranchSHA updates refs to the head commit hash of the default branch.
	StrategyDefaultBranchSHA Strategy = "default-branch-sha"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyReleaseTag, nil
	case StrategyReleaseTag, StrategyReleaseCommitSHA, StrategyDefaultBranchSHA:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("update_version_with must be %s, %s, or %s: %s", StrategyReleaseTag, StrategyReleaseCommitSHA, StrategyDefaultBranchSHA, s)
	}
}

// IsHash returns true if the strategy updates refs to commit hashes.
func (s Strategy) IsHash() bool {
	return s == StrategyReleaseCommitSHA || s == StrategyDefaultBranchSHA
}

// Candidate is a version known to exist upstream.
type Candidate struct {
	Tag          string
	Version      *version.Ref
	CommitHash   string
	Branch       string
	PublishOrder int64
	PublishedAt  time.Time
	CommitDate   time.Time
	Prerelease   bool
	URL          string
	CommitURL    string
}

// Ref returns the ref and the trailing comment which a reference is updated to.
func (c *Candidate) Ref(strategy Strategy) (string, string) {
	switch strategy {
	case StrategyReleaseCommitSHA:
		return c.CommitHash, c.Tag
	case StrategyDefaultBranchSHA:
		if c.Tag != "" {
			return c.CommitHash, c.Tag
		}
		return c.CommitHash, c.Branch
	default:
		return c.Tag, ""
	}
}

// Newer returns true if a is newer than b.
// Semantic versions are compared first and the publish order breaks ties.
// A candidate without a semantic version is older than one with it.
func Newer(a, b *Candidate) bool {
	if c, ok := version.Compare(a.Version, b.Version); ok {
		if c != 0 {
			return c > 0
		}
		return a.PublishOrder > b.PublishOrder
	}
	aSemver := a.Version.IsSemver()
	if aSemver != b.Version.IsSemver() {
		return aSemver
	}
	return a.PublishOrder > b.PublishOrder
}

// Sort sorts candidates newest first.
func Sort(candidates []*Candidate) {
	slices.SortStableFunc(candidates, func(a, b *Candidate) int {
		if Newer(a, b) {
			return -1
		}
		if Newer(b, a) {
			return 1
		}
		return 0
	})
}

type Result struct {
	Candidates []*Candidate
	Warnings   []*warning.Warning
}

type Fetcher struct {
	host     Host
	strategy Strategy
	cache    *Cache
}

func New(host Host, strategy Strategy, cache *Cache) *Fetcher {
	return &Fetcher{
		host:     host,
		strategy: strategy,
		cache:    cache,
	}
}

func (f *Fetcher) Strategy() Strategy {
	return f.strategy
}

// Fetch returns candidates of the repository of id.
// The error is non-nil only if the host is unavailable or ctx is canceled.
func (f *Fetcher) Fetch(ctx context.Context, logE *logrus.Entry, id action.Identity) (*Result, error) {
	repo := id.Repository()
	return f.cache.Get(ctx, repo, func(ctx context.Context) (*Result, error) {
		logE := logE.WithFields(logrus.Fields{
			"repository": repo,
			"strategy":   f.strategy,
		})
		logE.Debug("fetching candidates")
		if f.strategy == StrategyDefaultBranchSHA {
			return f.fetchDefaultBranch(ctx, logE, repo)
		}
		return f.fetchReleases(ctx, logE, repo)
	})
}

// Describe returns a copy of c with the URL and the date of its commit.
// c is returned as is if it already has the date or the strategy doesn't pin commits.
// The error is non-nil only if the host is unavailable or ctx is canceled.
func (f *Fetcher) Describe(ctx context.Context, logE *logrus.Entry, id action.Identity, c *Candidate) (*Candidate, error) {
	if !f.strategy.IsHash() || c.CommitHash == "" || !c.CommitDate.IsZero() {
		return c, nil
	}
	repo := id.Repository()
	commit, err := f.cache.getCommit(ctx, repo+"@"+c.CommitHash, func(ctx context.Context) (*Commit, error) {
		return f.host.GetCommit(ctx, repo, c.CommitHash)
	})
	if err != nil {
		if isFatal(err) {
			return nil, fmt.Errorf("get a commit: %w", logerr.WithFields(err, logrus.Fields{
				"repository":  repo,
				"commit_hash": c.CommitHash,
			}))
		}
		logerr.WithError(logE, err).WithField("commit_hash", c.CommitHash).Debug("get a commit")
		return c, nil
	}
	described := *c
	described.CommitDate = commit.Date
	if commit.URL != "" {
		described.CommitURL = commit.URL
	}
	return &described, nil
}

func isFatal(err error) bool {
	return errors.Is(err, ErrHostUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// recover converts a host error into a warning if the run can proceed.
func recoverHostError(logE *logrus.Entry, repo string, err error, message string) (*Result, error) {
	if isFatal(err) {
		return nil, fmt.Errorf("%s: %w", message, logerr.WithFields(err, logrus.Fields{
			"repository": repo,
		}))
	}
	logerr.WithError(logE, err).Warn(message)
	kind := warning.KindUnresolved
	msg := "the action can't be resolved"
	if !errors.Is(err, ErrNotFound) {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	return &Result{
		Candidates: []*Candidate{},
		Warnings: []*warning.Warning{
			{
				Kind:    kind,
				Action:  repo,
				Message: msg,
			},
		},
	}, nil
}

func publishOrder(t time.Time, fallback int) int64 {
	if t.IsZero() {
		return int64(fallback)
	}
	return t.UnixNano()
}

func (f *Fetcher) fetchReleases(ctx context.Context, logE *logrus.Entry, repo string) (*Result, error) {
	releases, err := f.host.ListReleases(ctx, repo)
	if err != nil {
		return recoverHostError(logE, repo, err, "list releases")
	}
	candidates := make([]*Candidate, 0, len(releases))
	for i, release := range releases {
		if release.Draft {
			continue
		}
		candidates = append(candidates, &Candidate{
			Tag:          release.Tag,
			Version:      version.Parse(release.Tag),
			CommitHash:   release.CommitHash,
			PublishOrder: publishOrder(release.PublishedAt, len(releases)-i),
			PublishedAt:  release.PublishedAt,
			Prerelease:   release.Prerelease,
			URL:          release.URL,
		})
	}
	if len(candidates) == 0 {
		logE.Warn("no release is found")
		return &Result{
			Candidates: candidates,
			Warnings: []*warning.Warning{
				{
					Kind:    warning.KindNoReleases,
					Action:  repo,
					Message: "no release is found",
				},
			},
		}, nil
	}
	if f.strategy == StrategyReleaseCommitSHA {
		candidates, err = f.resolveCommits(ctx, logE, repo, candidates)
		if err != nil {
			return nil, err
		}
	}
	Sort(candidates)
	return &Result{Candidates: candidates}, nil
}

func (f *Fetcher) listTags(ctx context.Context, logE *logrus.Entry, repo string) ([]*Tag, error) {
	tags, err := f.host.ListTags(ctx, repo)
	if err == nil {
		return tags, nil
	}
	if isFatal(err) {
		return nil, fmt.Errorf("list tags: %w", logerr.WithFields(err, logrus.Fields{
			"repository": repo,
		}))
	}
	logerr.WithError(logE, err).Debug("list tags")
	return nil, nil
}

// resolveCommits sets commit hashes of release tags.
// Releases whose tag can't be resolved are dropped.
func (f *Fetcher) resolveCommits(ctx context.Context, logE *logrus.Entry, repo string, candidates []*Candidate) ([]*Candidate, error) {
	tags, err := f.listTags(ctx, logE, repo)
	if err != nil {
		return nil, err
	}
	shas := make(map[string]string, len(tags))
	for _, tag := range tags {
		shas[tag.Name] = tag.CommitHash
	}
	arr := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.CommitHash == "" {
			c.CommitHash = shas[c.Tag]
		}
		if c.CommitHash == "" {
			sha, err := f.host.ResolveTag(ctx, repo, c.Tag)
			if err != nil {
				if isFatal(err) {
					return nil, fmt.Errorf("resolve a tag: %w", logerr.WithFields(err, logrus.Fields{
						"repository": repo,
						"tag":        c.Tag,
					}))
				}
				logerr.WithError(logE, err).WithField("tag", c.Tag).Debug("resolve a tag")
				continue
			}
			c.CommitHash = sha
		}
		arr = append(arr, c)
	}
	return arr, nil
}

func (f *Fetcher) fetchDefaultBranch(ctx context.Context, logE *logrus.Entry, repo string) (*Result, error) {
	branch, err := f.host.GetDefaultBranchHead(ctx, repo)
	if err != nil {
		return recoverHostError(logE, repo, err, "get the head of the default branch")
	}
	tags, err := f.listTags(ctx, logE, repo)
	if err != nil {
		return nil, err
	}
	tag := nearestTag(tags, branch.CommitHash)
	return &Result{
		Candidates: []*Candidate{
			{
				Tag:          tag,
				Version:      version.Parse(tag),
				CommitHash:   branch.CommitHash,
				Branch:       branch.Name,
				PublishOrder: publishOrder(branch.CommitDate, 1),
				PublishedAt:  branch.CommitDate,
				CommitDate:   branch.CommitDate,
				URL:          branch.URL,
				CommitURL:    branch.CommitURL,
			},
		},
	}, nil
}

// nearestTag returns the newest semantic version tag pointing at sha.
// It returns an empty string if no tag points at sha.
func nearestTag(tags []*Tag, sha string) string {
	var latest *version.Ref
	for _, tag := range tags {
		if tag.CommitHash != sha {
			continue
		}
		v := version.Parse(tag.Name)
		if !v.IsSemver() {
			continue
		}
		if c, _ := version.Compare(v, latest); latest == nil || c > 0 {
			latest = v
		}
	}
	return latest.String()
}
