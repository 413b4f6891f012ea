package update_test

import (
	"testing"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/ghaup/ghaup/pkg/version"
	"github.com/ghaup/ghaup/pkg/warning"
)

func reference(id, ref, annotation string) *action.Reference {
	return &action.Reference{
		Identity:   action.Identity(id),
		Ref:        ref,
		Kind:       version.Parse(ref).Kind,
		Annotation: annotation,
		File:       ".github/workflows/test.yaml",
		Line:       1,
		Column:     1,
	}
}

func TestDecide(t *testing.T) { //nolint:funlen
	t.Parallel()
	checkout := []*fetch.Candidate{
		candidate("v4.2.2", 4),
		candidate("v4.1.0", 3),
		candidate("v3.6.0", 2),
		candidate("v2.7.0", 1),
	}
	data := []struct {
		name       string
		input      *update.Input
		applicable bool
		newRef     string
		annotation string
		bump       update.Bump
		reason     string
		warnings   []warning.Kind
	}{
		{
			name: "major update",
			input: &update.Input{
				Reference:    reference("actions/checkout", "v2", ""),
				Candidates:   checkout,
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			applicable: true,
			newRef:     "v4.2.2",
			bump:       update.BumpMajor,
		},
		{
			name: "ignored identity@ref",
			input: &update.Input{
				Reference:    reference("actions/checkout", "v2", ""),
				Candidates:   checkout,
				Ignore:       update.NewIgnoreSet([]string{"actions/checkout@v2"}),
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			reason: update.ReasonIgnored,
		},
		{
			name: "ignore entry of another ref",
			input: &update.Input{
				Reference:    reference("actions/checkout", "v3", ""),
				Candidates:   checkout,
				Ignore:       update.NewIgnoreSet([]string{"actions/checkout@v2"}),
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			applicable: true,
			newRef:     "v4.2.2",
			bump:       update.BumpMajor,
		},
		{
			name: "ignored identity",
			input: &update.Input{
				Reference:    reference("actions/checkout", "v3", ""),
				Candidates:   checkout,
				Ignore:       update.NewIgnoreSet([]string{"actions/checkout"}),
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			reason: update.ReasonIgnored,
		},
		{
			name: "minor only",
			input: &update.Input{
				Reference:    reference("actions/checkout", "v3.5.0", ""),
				Candidates:   checkout,
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.ReleaseTypes{Minor: true},
			},
			applicable: true,
			newRef:     "v3.6.0",
			bump:       update.BumpMinor,
		},
		{
			name: "up to date",
			input: &update.Input{
				Reference:    reference("actions/checkout", "v4.2.2", ""),
				Candidates:   checkout,
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			reason: update.ReasonNoCandidate,
		},
		{
			name: "no candidate",
			input: &update.Input{
				Reference:    reference("actions/unknown", "v1", ""),
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			reason: update.ReasonNoCandidate,
		},
		{
			name: "non semver current",
			input: &update.Input{
				Reference:    reference("actions/checkout", "main", ""),
				Candidates:   checkout,
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.ReleaseTypes{Patch: true},
			},
			applicable: true,
			newRef:     "v4.2.2",
			bump:       update.BumpUnknown,
			warnings:   []warning.Kind{warning.KindNonSemver},
		},
		{
			name: "non semver current without candidates",
			input: &update.Input{
				Reference:    reference("actions/checkout", "main", ""),
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			reason:   update.ReasonNoCandidate,
			warnings: []warning.Kind{warning.KindNonSemver},
		},
		{
			name: "prerelease is skipped if current is stable",
			input: &update.Input{
				Reference: reference("actions/setup-go", "v5.0.0", ""),
				Candidates: []*fetch.Candidate{
					candidate("v6.0.0-beta.1", 2),
					candidate("v5.1.0", 1),
				},
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			applicable: true,
			newRef:     "v5.1.0",
			bump:       update.BumpMinor,
		},
		{
			name: "prerelease to prerelease",
			input: &update.Input{
				Reference: reference("actions/setup-go", "v6.0.0-beta.1", ""),
				Candidates: []*fetch.Candidate{
					candidate("v6.0.0-beta.2", 2),
					candidate("v5.1.0", 1),
				},
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			applicable: true,
			newRef:     "v6.0.0-beta.2",
			bump:       update.BumpPatch,
		},
		{
			name: "duplicated tags prefer the later publish order",
			input: &update.Input{
				Reference: reference("owner/repo", "v1.0.0", ""),
				Candidates: []*fetch.Candidate{
					{Tag: "v2.0.0", Version: version.Parse("v2.0.0"), PublishOrder: 1, CommitHash: "1111111"},
					{Tag: "v2.0.0", Version: version.Parse("v2.0.0"), PublishOrder: 2, CommitHash: "2222222"},
				},
				Strategy:     fetch.StrategyReleaseCommitSHA,
				ReleaseTypes: update.AllReleaseTypes(),
			},
			applicable: true,
			newRef:     "2222222",
			annotation: "v2.0.0",
			bump:       update.BumpMajor,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			result := update.Decide(d.input)
			decision := result.Decision
			if decision.Applicable != d.applicable {
				t.Fatalf("wanted applicable=%v, got %v (%s)", d.applicable, decision.Applicable, decision.Reason)
			}
			if decision.NewRef != d.newRef {
				t.Fatalf("wanted new ref %q, got %q", d.newRef, decision.NewRef)
			}
			if decision.Annotation != d.annotation {
				t.Fatalf("wanted annotation %q, got %q", d.annotation, decision.Annotation)
			}
			if decision.Bump != d.bump {
				t.Fatalf("wanted bump %q, got %q", d.bump, decision.Bump)
			}
			if !d.applicable && decision.Reason != d.reason {
				t.Fatalf("wanted reason %q, got %q", d.reason, decision.Reason)
			}
			if len(result.Warnings) != len(d.warnings) {
				t.Fatalf("wanted %d warnings, got %d", len(d.warnings), len(result.Warnings))
			}
			for i, w := range result.Warnings {
				if w.Kind != d.warnings[i] {
					t.Fatalf("wanted a %s warning, got %s", d.warnings[i], w.Kind)
				}
			}
		})
	}
}

func TestDecide_mixedEligibility(t *testing.T) {
	t.Parallel()
	// v1.2.4 is a patch and v1.3.0 is a minor update of v1.2.3.
	candidates := []*fetch.Candidate{
		candidate("v1.2.4", 3),
		candidate("v2.0.0", 2),
		candidate("v1.3.0", 1),
	}
	data := []struct {
		name  string
		types update.ReleaseTypes
		exp   string
	}{
		{name: "all", types: update.AllReleaseTypes(), exp: "v2.0.0"},
		{name: "minor and patch", types: update.ReleaseTypes{Minor: true, Patch: true}, exp: "v1.3.0"},
		{name: "major and patch", types: update.ReleaseTypes{Major: true, Patch: true}, exp: "v2.0.0"},
		{name: "patch", types: update.ReleaseTypes{Patch: true}, exp: "v1.2.4"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			result := update.Decide(&update.Input{
				Reference:    reference("owner/repo", "v1.2.3", ""),
				Candidates:   candidates,
				Strategy:     fetch.StrategyReleaseTag,
				ReleaseTypes: d.types,
			})
			if result.Decision.NewRef != d.exp {
				t.Fatalf("wanted %s, got %q", d.exp, result.Decision.NewRef)
			}
		})
	}
}

func TestDecide_hashAnnotation(t *testing.T) {
	t.Parallel()
	candidates := []*fetch.Candidate{
		{
			Tag:        "v1.3.0",
			Version:    version.Parse("v1.3.0"),
			CommitHash: "abcdef1",
			Branch:     "main",
		},
	}
	result := update.Decide(&update.Input{
		Reference:    reference("owner/repo", "v1.2.3", ""),
		Candidates:   candidates,
		Strategy:     fetch.StrategyDefaultBranchSHA,
		ReleaseTypes: update.AllReleaseTypes(),
	})
	d := result.Decision
	if !d.Applicable || d.NewRef != "abcdef1" || d.Annotation != "v1.3.0" {
		t.Fatalf("wanted abcdef1 # v1.3.0, got %+v", d)
	}

	// the rewritten reference is annotated, so no further decision is made.
	rerun := update.Decide(&update.Input{
		Reference:    reference("owner/repo", "abcdef1", "v1.3.0"),
		Candidates:   candidates,
		Strategy:     fetch.StrategyDefaultBranchSHA,
		ReleaseTypes: update.AllReleaseTypes(),
	})
	if rerun.Decision.Applicable {
		t.Fatalf("the decision must not be applicable on rerun: %+v", rerun.Decision)
	}
	if len(rerun.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", rerun.Warnings)
	}
}
