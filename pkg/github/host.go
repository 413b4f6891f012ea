package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/google/go-github/v74/github"
)

// RepositoriesService is the subset of the GitHub Repositories API Host uses.
type RepositoriesService interface {
	ListReleases(ctx context.Context, owner, repo string, opts *ListOptions) ([]*RepositoryRelease, *Response, error)
	ListTags(ctx context.Context, owner string, repo string, opts *ListOptions) ([]*RepositoryTag, *Response, error)
	GetCommitSHA1(ctx context.Context, owner, repo, ref, lastSHA string) (string, *Response, error)
	GetCommit(ctx context.Context, owner, repo, sha string, opts *ListOptions) (*RepositoryCommit, *Response, error)
	Get(ctx context.Context, owner, repo string) (*Repository, *Response, error)
}

const (
	perPage = 100
	// releases and tags are listed up to maxPages pages
	maxPages = 3
)

// Host implements fetch.Host.
type Host struct {
	repos RepositoriesService
}

func NewHost(repos RepositoriesService) *Host {
	return &Host{
		repos: repos,
	}
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("repository must be owner/repo: %s: %w", repo, fetch.ErrNotFound)
	}
	return owner, name, nil
}

// classifyError maps GitHub API errors to the errors of the fetch package.
func classifyError(resp *Response, err error) error {
	if err == nil {
		return nil
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%w: %w", fetch.ErrHostUnavailable, err)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", fetch.ErrHostUnavailable, err)
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", fetch.ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", fetch.ErrHostUnavailable, err)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", fetch.ErrHostUnavailable, err)
	}
	return err
}

func (h *Host) ListReleases(ctx context.Context, repo string) ([]*fetch.Release, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	releases := []*fetch.Release{}
	opts := &ListOptions{PerPage: perPage}
	for range maxPages {
		arr, resp, err := h.repos.ListReleases(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("list releases: %w", classifyError(resp, err))
		}
		for _, release := range arr {
			releases = append(releases, &fetch.Release{
				Tag:         release.GetTagName(),
				PublishedAt: release.GetPublishedAt().Time,
				Prerelease:  release.GetPrerelease(),
				Draft:       release.GetDraft(),
				URL:         release.GetHTMLURL(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return releases, nil
}

func (h *Host) ListTags(ctx context.Context, repo string) ([]*fetch.Tag, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	tags := []*fetch.Tag{}
	opts := &ListOptions{PerPage: perPage}
	for range maxPages {
		arr, resp, err := h.repos.ListTags(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", classifyError(resp, err))
		}
		for _, tag := range arr {
			tags = append(tags, &fetch.Tag{
				Name:       tag.GetName(),
				CommitHash: tag.GetCommit().GetSHA(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return tags, nil
}

func (h *Host) GetDefaultBranchHead(ctx context.Context, repo string) (*fetch.Branch, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	r, resp, err := h.repos.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("get a repository: %w", classifyError(resp, err))
	}
	branch := r.GetDefaultBranch()
	sha, resp, err := h.repos.GetCommitSHA1(ctx, owner, name, branch, "")
	if err != nil {
		return nil, fmt.Errorf("get the head of the default branch: %w", classifyError(resp, err))
	}
	b := &fetch.Branch{
		Name:       branch,
		CommitHash: sha,
		URL:        fmt.Sprintf("%s/tree/%s", r.GetHTMLURL(), branch),
	}
	commit, err := h.GetCommit(ctx, repo, sha)
	if err != nil {
		if errors.Is(err, fetch.ErrHostUnavailable) {
			return nil, err
		}
		return b, nil
	}
	b.CommitURL = commit.URL
	b.CommitDate = commit.Date
	return b, nil
}

// GetCommit returns the URL and the committer date of a commit.
func (h *Host) GetCommit(ctx context.Context, repo, sha string) (*fetch.Commit, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	commit, resp, err := h.repos.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("get a commit: %w", classifyError(resp, err))
	}
	return &fetch.Commit{
		URL:  commit.GetHTMLURL(),
		Date: commit.GetCommit().GetCommitter().GetDate().Time,
	}, nil
}

func (h *Host) ResolveTag(ctx context.Context, repo, tag string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}
	sha, resp, err := h.repos.GetCommitSHA1(ctx, owner, name, tag, "")
	if err != nil {
		return "", fmt.Errorf("get a commit hash of a tag: %w", classifyError(resp, err))
	}
	return sha, nil
}
