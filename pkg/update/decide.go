// Package update decides whether an action reference should be updated.
// Decide is a pure function of the reference, the candidates and the policy,
// so it's safe to call it concurrently and rerunning it on updated content is a no-op.
package update

import (
	"strings"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/version"
	"github.com/ghaup/ghaup/pkg/warning"
)

const (
	ReasonIgnored       = "ignored"
	ReasonNoCandidate   = "no eligible candidate"
	ReasonUpToDate      = "up to date"
	ReasonUnresolvedRef = "the candidate has no ref for the strategy"
)

// Ignorer reports whether a reference must be left as is.
type Ignorer interface {
	Ignore(ref *action.Reference) bool
}

// IgnoreSet is a set of `identity@ref` or `identity` entries.
// An entry without a ref ignores every ref of the identity.
type IgnoreSet map[string]struct{}

func NewIgnoreSet(entries []string) IgnoreSet {
	set := make(IgnoreSet, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		set[entry] = struct{}{}
	}
	return set
}

func (s IgnoreSet) Ignore(ref *action.Reference) bool {
	if _, ok := s[ref.Key()]; ok {
		return true
	}
	_, ok := s[string(ref.Identity)]
	return ok
}

type Input struct {
	Reference    *action.Reference
	Candidates   []*fetch.Candidate
	Ignore       Ignorer
	Strategy     fetch.Strategy
	ReleaseTypes ReleaseTypes
}

// Decision is the decision for an identity@ref.
// It's shared by every occurrence of the identity@ref.
type Decision struct {
	Identity   action.Identity
	OldRef     string
	NewRef     string
	Annotation string
	Bump       Bump
	Applicable bool
	Candidate  *fetch.Candidate
	Reason     string
}

// Key returns identity@oldRef.
func (d *Decision) Key() string {
	return action.Key(d.Identity, d.OldRef)
}

type Result struct {
	Decision *Decision
	Warnings []*warning.Warning
}

func Decide(in *Input) *Result {
	ref := in.Reference
	decision := &Decision{
		Identity: ref.Identity,
		OldRef:   ref.Ref,
	}
	result := &Result{
		Decision: decision,
	}
	if in.Ignore != nil && in.Ignore.Ignore(ref) {
		decision.Reason = ReasonIgnored
		return result
	}
	current := ref.Current()
	if !current.IsSemver() {
		result.Warnings = append(result.Warnings, &warning.Warning{
			Kind:    warning.KindNonSemver,
			File:    ref.File,
			Action:  string(ref.Identity),
			Ref:     ref.Ref,
			Message: "the action isn't pinned to a semantic version, so release types aren't applied",
		})
	}

	best := selectCandidate(current, Filter(current, in.Candidates, in.ReleaseTypes))
	if best == nil {
		decision.Reason = ReasonNoCandidate
		return result
	}
	newRef, annotation := best.Ref(in.Strategy)
	if newRef == "" {
		decision.Reason = ReasonUnresolvedRef
		return result
	}
	if newRef == ref.Ref {
		decision.Reason = ReasonUpToDate
		return result
	}
	bump, _ := Classify(current, best.Version)
	decision.NewRef = newRef
	decision.Annotation = annotation
	decision.Bump = bump
	decision.Candidate = best
	decision.Applicable = true
	return result
}

// selectCandidate returns the newest candidate.
// Prereleases are skipped unless the current version is a prerelease.
func selectCandidate(current *version.Ref, candidates []*fetch.Candidate) *fetch.Candidate {
	allowPrerelease := current.IsSemver() && !current.IsStable()
	var best *fetch.Candidate
	for _, candidate := range candidates {
		if !allowPrerelease && isPrerelease(candidate) {
			continue
		}
		if best == nil || fetch.Newer(candidate, best) {
			best = candidate
		}
	}
	return best
}

func isPrerelease(c *fetch.Candidate) bool {
	return c.Prerelease || (c.Version.IsSemver() && !c.Version.IsStable())
}
