package fetch

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Host if the repository or the ref doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrHostUnavailable is returned by Host if the host can't be queried at all,
	// e.g. it's unreachable, the credential is invalid, or the rate limit is exceeded.
	ErrHostUnavailable = errors.New("the host is unavailable")
)

// Host is the query interface of the code host.
// repo is formatted as owner/repo.
type Host interface {
	// ListReleases returns releases newest first.
	// CommitHash of a release may be empty if the host doesn't return it.
	ListReleases(ctx context.Context, repo string) ([]*Release, error)
	ListTags(ctx context.Context, repo string) ([]*Tag, error)
	GetDefaultBranchHead(ctx context.Context, repo string) (*Branch, error)
	ResolveTag(ctx context.Context, repo, tag string) (string, error)
	GetCommit(ctx context.Context, repo, sha string) (*Commit, error)
}

type Commit struct {
	URL  string
	Date time.Time
}

type Release struct {
	Tag         string
	CommitHash  string
	PublishedAt time.Time
	Prerelease  bool
	Draft       bool
	URL         string
}

type Tag struct {
	Name       string
	CommitHash string
}

type Branch struct {
	Name       string
	CommitHash string
	URL        string
	CommitURL  string
	CommitDate time.Time
}
