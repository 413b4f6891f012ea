package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/fetch"
)

const markdownTitle = "### GitHub Actions Version Updates\n"

// Markdown returns the description of updated actions such as a pull request body.
// Each updated action is listed once. It returns an empty string if nothing is changed.
func Markdown(summary *Summary, strategy fetch.Strategy, serverURL string) string {
	if !summary.Changed {
		return ""
	}
	serverURL = strings.TrimSuffix(serverURL, "/")
	items := map[string]struct{}{}
	for _, change := range summary.Changes {
		items[markdownItem(change, strategy, serverURL)] = struct{}{}
	}
	lines := make([]string, 0, len(items))
	for item := range items {
		lines = append(lines, item)
	}
	slices.Sort(lines)
	return markdownTitle + strings.Join(lines, "")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "an unknown date"
	}
	return t.UTC().Format(time.RFC3339)
}

func markdownItem(change *Change, strategy fetch.Strategy, serverURL string) string {
	repo := change.Identity.Repository()
	start := fmt.Sprintf("* **[%s](%s/%s)**", change.Identity, serverURL, repo)
	c := change.Candidate
	if c == nil {
		return fmt.Sprintf("%s was updated from `%s` to `%s`\n", start, change.OldRef, change.NewRef)
	}
	switch strategy {
	case fetch.StrategyReleaseCommitSHA:
		return fmt.Sprintf("%s added a new **[commit](%s)** to **[%s](%s)** Tag on %s\n",
			start, commitURL(c, serverURL, repo), c.Tag, releaseURL(c, serverURL, repo), formatDate(c.CommitDate))
	case fetch.StrategyDefaultBranchSHA:
		return fmt.Sprintf("%s added a new **[commit](%s)** to **[%s](%s)** branch on %s\n",
			start, commitURL(c, serverURL, repo), c.Branch, branchURL(c, serverURL, repo), formatDate(c.CommitDate))
	default:
		return fmt.Sprintf("%s published a new release **[%s](%s)** on %s\n",
			start, c.Tag, releaseURL(c, serverURL, repo), formatDate(c.PublishedAt))
	}
}

func releaseURL(c *fetch.Candidate, serverURL, repo string) string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s/%s/releases/tag/%s", serverURL, repo, c.Tag)
}

func commitURL(c *fetch.Candidate, serverURL, repo string) string {
	if c.CommitURL != "" {
		return c.CommitURL
	}
	return fmt.Sprintf("%s/%s/commit/%s", serverURL, repo, c.CommitHash)
}

func branchURL(c *fetch.Candidate, serverURL, repo string) string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s/%s/tree/%s", serverURL, repo, c.Branch)
}

// Identities returns updated identities without duplication.
func Identities(summary *Summary) []action.Identity {
	ids := make([]action.Identity, 0, len(summary.Changes))
	for _, change := range summary.Changes {
		ids = append(ids, change.Identity)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
