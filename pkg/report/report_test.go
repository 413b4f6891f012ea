package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/report"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/ghaup/ghaup/pkg/version"
	"github.com/ghaup/ghaup/pkg/warning"
	"github.com/google/go-cmp/cmp"
)

func TestAggregator(t *testing.T) {
	t.Parallel()
	agg := report.NewAggregator()
	var wg sync.WaitGroup
	for _, file := range []string{"b.yaml", "a.yaml", "c.yaml"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var changes []*report.Change
			if file != "c.yaml" {
				changes = []*report.Change{
					{File: file, Line: 9, Identity: "actions/setup-go", OldRef: "v4", NewRef: "v5"},
					{File: file, Line: 3, Identity: "actions/checkout", OldRef: "v2", NewRef: "v4"},
				}
			}
			agg.AddFile(file, "content of "+file, changes)
			agg.AddWarnings(&warning.Warning{
				Kind:    warning.KindNonSemver,
				Action:  "owner/repo",
				Ref:     "main",
				Message: "not semver",
			})
		}()
	}
	wg.Wait()
	summary := agg.Summary()
	if !summary.Changed {
		t.Fatal("summary must be changed")
	}
	got := make([]string, len(summary.Changes))
	for i, c := range summary.Changes {
		got[i] = c.File + ":" + c.Identity.String()
	}
	exp := []string{
		"a.yaml:actions/checkout",
		"a.yaml:actions/setup-go",
		"b.yaml:actions/checkout",
		"b.yaml:actions/setup-go",
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatal(diff)
	}
	if len(summary.Files) != 2 || summary.Files[0].Path != "a.yaml" || summary.Files[1].Content != "content of b.yaml" {
		t.Fatalf("unexpected files: %+v", summary.Files)
	}
	if len(summary.Warnings) != 1 {
		t.Fatalf("warnings must be deduplicated, got %d", len(summary.Warnings))
	}
}

func TestAggregator_unchanged(t *testing.T) {
	t.Parallel()
	agg := report.NewAggregator()
	agg.AddFile("a.yaml", "", nil)
	summary := agg.Summary()
	if summary.Changed || len(summary.Files) != 0 {
		t.Fatalf("summary must be unchanged: %+v", summary)
	}
	if report.Markdown(summary, fetch.StrategyReleaseTag, "https://github.com") != "" {
		t.Fatal("markdown must be empty")
	}
}

func TestMarkdown(t *testing.T) { //nolint:funlen
	t.Parallel()
	publishedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	commitDate := time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC)
	candidate := &fetch.Candidate{
		Tag:         "v4.1.0",
		Version:     version.Parse("v4.1.0"),
		CommitHash:  "b4ffde65f46336ab88eb53be808477a3936bae11",
		Branch:      "main",
		PublishedAt: publishedAt,
		CommitDate:  commitDate,
	}
	summary := &report.Summary{
		Changed: true,
		Changes: []*report.Change{
			{File: "a.yaml", Line: 1, Identity: "actions/checkout", OldRef: "v3", NewRef: "v4.1.0", Bump: update.BumpMajor, Candidate: candidate},
			{File: "b.yaml", Line: 1, Identity: "actions/checkout", OldRef: "v3", NewRef: "v4.1.0", Bump: update.BumpMajor, Candidate: candidate},
		},
	}
	data := []struct {
		name     string
		strategy fetch.Strategy
		exp      string
	}{
		{
			name:     "release tag",
			strategy: fetch.StrategyReleaseTag,
			exp: "### GitHub Actions Version Updates\n" +
				"* **[actions/checkout](https://github.com/actions/checkout)** published a new release " +
				"**[v4.1.0](https://github.com/actions/checkout/releases/tag/v4.1.0)** on 2024-05-01T10:00:00Z\n",
		},
		{
			name:     "release commit sha",
			strategy: fetch.StrategyReleaseCommitSHA,
			exp: "### GitHub Actions Version Updates\n" +
				"* **[actions/checkout](https://github.com/actions/checkout)** added a new " +
				"**[commit](https://github.com/actions/checkout/commit/b4ffde65f46336ab88eb53be808477a3936bae11)** to " +
				"**[v4.1.0](https://github.com/actions/checkout/releases/tag/v4.1.0)** Tag on 2024-04-30T08:00:00Z\n",
		},
		{
			name:     "default branch sha",
			strategy: fetch.StrategyDefaultBranchSHA,
			exp: "### GitHub Actions Version Updates\n" +
				"* **[actions/checkout](https://github.com/actions/checkout)** added a new " +
				"**[commit](https://github.com/actions/checkout/commit/b4ffde65f46336ab88eb53be808477a3936bae11)** to " +
				"**[main](https://github.com/actions/checkout/tree/main)** branch on 2024-04-30T08:00:00Z\n",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			got := report.Markdown(summary, d.strategy, "https://github.com/")
			if diff := cmp.Diff(d.exp, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	summary := &report.Summary{
		Changed: true,
		Changes: []*report.Change{
			{File: "a.yaml", Line: 3, Identity: "actions/checkout", OldRef: "v3", NewRef: "v4", Bump: update.BumpMajor},
		},
		Warnings: []*warning.Warning{},
	}
	buf := &bytes.Buffer{}
	if err := report.WriteJSON(buf, summary); err != nil {
		t.Fatal(err)
	}
	got := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	exp := map[string]any{
		"changed": true,
		"changes": []any{
			map[string]any{
				"file":    "a.yaml",
				"line":    float64(3),
				"action":  "actions/checkout",
				"old_ref": "v3",
				"new_ref": "v4",
				"bump":    "major",
			},
		},
		"warnings": []any{},
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestWriteSARIF(t *testing.T) {
	t.Parallel()
	summary := &report.Summary{
		Changed: true,
		Changes: []*report.Change{
			{File: ".github/workflows/ci.yaml", Line: 12, Identity: "actions/checkout", OldRef: "v3", NewRef: "abcdef1", Annotation: "v4.0.0"},
		},
		Warnings: []*warning.Warning{
			{Kind: warning.KindNonSemver, File: ".github/workflows/ci.yaml", Action: "owner/repo", Ref: "main", Message: "not semver"},
		},
	}
	buf := &bytes.Buffer{}
	if err := report.WriteSARIF(buf, summary, "v1.0.0"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{
		`"version": "2.1.0"`,
		`"ruleId": "outdated-action"`,
		`"text": "actions/checkout@v3 can be updated to abcdef1 # v4.0.0"`,
		`"startLine": 12`,
		`"ruleId": "warning/non-semver"`,
		`"level": "note"`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output must contain %s", s)
		}
	}
}

func TestTextWriter_Write(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	w := report.NewTextWriter(buf)
	w.Write(&report.Summary{
		Changed: true,
		Changes: []*report.Change{
			{
				File: "ci.yaml", Line: 5, Identity: "actions/checkout", OldRef: "v3", NewRef: "v4", Bump: update.BumpMajor,
				OldLine: "  - uses: actions/checkout@v3", NewLine: "  - uses: actions/checkout@v4",
			},
		},
		Warnings: []*warning.Warning{
			{Kind: warning.KindUnresolved, Action: "owner/unknown", Message: "the action can't be resolved"},
		},
	})
	out := buf.String()
	for _, s := range []string{
		"actions/checkout can be updated from v3 to v4 (major)",
		"ci.yaml:5",
		"- ",
		"+ ",
		"  - uses: actions/checkout@v4",
		"owner/unknown: the action can't be resolved",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output must contain %q: %s", s, out)
		}
	}
}
