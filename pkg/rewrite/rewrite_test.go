package rewrite_test

import (
	"testing"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/rewrite"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/google/go-cmp/cmp"
)

func decision(id, oldRef, newRef, annotation string) *update.Decision {
	return &update.Decision{
		Identity:   action.Identity(id),
		OldRef:     oldRef,
		NewRef:     newRef,
		Annotation: annotation,
		Applicable: true,
	}
}

func TestRewrite(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name     string
		text     string
		decision *update.Decision
		exp      string
		count    int
	}{
		{
			name:     "round trip",
			text:     "      - uses: actions/checkout@v2\n",
			decision: decision("actions/checkout", "v2", "v4", ""),
			exp:      "      - uses: actions/checkout@v4\n",
			count:    1,
		},
		{
			name: "multiple occurrences",
			text: `jobs:
  a:
    steps:
      - uses: actions/checkout@v2
  b:
    steps:
      - uses: actions/checkout@v2 # keep
      - uses: "actions/checkout@v2"
`,
			decision: decision("actions/checkout", "v2", "v4", ""),
			exp: `jobs:
  a:
    steps:
      - uses: actions/checkout@v4
  b:
    steps:
      - uses: actions/checkout@v4 # keep
      - uses: "actions/checkout@v4"
`,
			count: 3,
		},
		{
			name:     "single quotes",
			text:     "- uses: 'actions/checkout@v2'\n",
			decision: decision("actions/checkout", "v2", "v4", ""),
			exp:      "- uses: 'actions/checkout@v4'\n",
			count:    1,
		},
		{
			name: "boundaries",
			text: `- uses: owner/repo-extra@v1
- uses: other-owner/repo@v1
- uses: owner/repo@v10
- uses: owner/repo@v1
`,
			decision: decision("owner/repo", "v1", "v2", ""),
			exp: `- uses: owner/repo-extra@v1
- uses: other-owner/repo@v1
- uses: owner/repo@v10
- uses: owner/repo@v2
`,
			count: 1,
		},
		{
			name:     "end of text",
			text:     "uses: owner/repo@v1",
			decision: decision("owner/repo", "v1", "v2", ""),
			exp:      "uses: owner/repo@v2",
			count:    1,
		},
		{
			name:     "insert an annotation",
			text:     "- uses: owner/repo@v1.2.3\n",
			decision: decision("owner/repo", "v1.2.3", "abcdef1", "v1.3.0"),
			exp:      "- uses: owner/repo@abcdef1 # v1.3.0\n",
			count:    1,
		},
		{
			name:     "insert an annotation after the quote",
			text:     "- uses: \"owner/repo@v1.2.3\"\n",
			decision: decision("owner/repo", "v1.2.3", "abcdef1", "v1.3.0"),
			exp:      "- uses: \"owner/repo@abcdef1\" # v1.3.0\n",
			count:    1,
		},
		{
			name:     "replace an annotation",
			text:     "- uses: owner/repo@8e5e7e5ab8b370d6c329ec480221332ada57f0ab  # tag=v3.5.2\n",
			decision: decision("owner/repo", "8e5e7e5ab8b370d6c329ec480221332ada57f0ab", "b4ffde65f46336ab88eb53be808477a3936bae11", "v4.1.1"),
			exp:      "- uses: owner/repo@b4ffde65f46336ab88eb53be808477a3936bae11  # tag=v4.1.1\n",
			count:    1,
		},
		{
			name:     "remove a stale annotation",
			text:     "- uses: owner/repo@8e5e7e5ab8b370d6c329ec480221332ada57f0ab # v3.5.2\n- run: echo\n",
			decision: decision("owner/repo", "8e5e7e5ab8b370d6c329ec480221332ada57f0ab", "v4", ""),
			exp:      "- uses: owner/repo@v4\n- run: echo\n",
			count:    1,
		},
		{
			name:     "keep a comment with other text",
			text:     "- uses: owner/repo@v3 # 2 is broken\n",
			decision: decision("owner/repo", "v3", "v4", ""),
			exp:      "- uses: owner/repo@v4 # 2 is broken\n",
			count:    1,
		},
		{
			name:     "replace a branch annotation",
			text:     "- uses: owner/repo@1111111111111111111111111111111111111111 # main\n- run: echo\n",
			decision: decision("owner/repo", "1111111111111111111111111111111111111111", "2222222222222222222222222222222222222222", "main"),
			exp:      "- uses: owner/repo@2222222222222222222222222222222222222222 # main\n- run: echo\n",
			count:    1,
		},
		{
			name:     "replace a branch annotation with a tag",
			text:     "- uses: \"owner/repo@1111111111111111111111111111111111111111\" # main\n",
			decision: decision("owner/repo", "1111111111111111111111111111111111111111", "2222222222222222222222222222222222222222", "v1.4.0"),
			exp:      "- uses: \"owner/repo@2222222222222222222222222222222222222222\" # v1.4.0\n",
			count:    1,
		},
		{
			name:     "keep a word comment after a tag",
			text:     "- uses: owner/repo@v3 # pinned\n",
			decision: decision("owner/repo", "v3", "v4", ""),
			exp:      "- uses: owner/repo@v4 # pinned\n",
			count:    1,
		},
		{
			name:     "drift",
			text:     "- uses: owner/repo@v3\n",
			decision: decision("owner/repo", "v2", "v4", ""),
			exp:      "- uses: owner/repo@v3\n",
		},
		{
			name: "not applicable",
			text: "- uses: owner/repo@v2\n",
			decision: &update.Decision{
				Identity: "owner/repo",
				OldRef:   "v2",
			},
			exp: "- uses: owner/repo@v2\n",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			result := rewrite.Rewrite(d.text, d.decision)
			if diff := cmp.Diff(d.exp, result.Text); diff != "" {
				t.Fatal(diff)
			}
			if result.Count != d.count {
				t.Fatalf("wanted %d occurrences, got %d", d.count, result.Count)
			}
		})
	}
}

func TestRewrite_idempotent(t *testing.T) {
	t.Parallel()
	text := "- uses: owner/repo@v1.2.3\n"
	d := decision("owner/repo", "v1.2.3", "abcdef1", "v1.3.0")
	first := rewrite.Rewrite(text, d)
	second := rewrite.Rewrite(first.Text, d)
	if second.Count != 0 {
		t.Fatalf("the second rewrite must not match, got %d", second.Count)
	}
	if second.Text != first.Text {
		t.Fatal("the second rewrite must not change the text")
	}
}

func TestRewrite_defaultBranchHeads(t *testing.T) {
	t.Parallel()
	text := "      - uses: actions/checkout@main\n"
	oldRef := "main"
	for _, head := range []string{
		"1111111111111111111111111111111111111111",
		"2222222222222222222222222222222222222222",
		"3333333333333333333333333333333333333333",
	} {
		result := rewrite.Rewrite(text, decision("actions/checkout", oldRef, head, "main"))
		if result.Count != 1 {
			t.Fatalf("wanted 1 occurrence, got %d", result.Count)
		}
		exp := "      - uses: actions/checkout@" + head + " # main\n"
		if diff := cmp.Diff(exp, result.Text); diff != "" {
			t.Fatal(diff)
		}
		text = result.Text
		oldRef = head
	}
}
