package update

import (
	"fmt"
	"strings"

	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/version"
)

// Bump is the significance of an update.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"
	// BumpUnknown is the bump of an update from or to a ref which isn't a semantic version.
	BumpUnknown Bump = "unknown"
)

// ReleaseTypes is a set of allowed bumps.
type ReleaseTypes struct {
	Major bool
	Minor bool
	Patch bool
}

func AllReleaseTypes() ReleaseTypes {
	return ReleaseTypes{
		Major: true,
		Minor: true,
		Patch: true,
	}
}

// ParseReleaseTypes parses release types such as ["minor", "patch"].
// Empty input allows all bumps.
func ParseReleaseTypes(types []string) (ReleaseTypes, error) {
	rt := ReleaseTypes{}
	for _, t := range types {
		switch Bump(strings.ToLower(strings.TrimSpace(t))) {
		case BumpMajor:
			rt.Major = true
		case BumpMinor:
			rt.Minor = true
		case BumpPatch:
			rt.Patch = true
		case "":
		default:
			return rt, fmt.Errorf("release type must be major, minor, or patch: %s", t)
		}
	}
	if rt == (ReleaseTypes{}) {
		return AllReleaseTypes(), nil
	}
	return rt, nil
}

func (rt ReleaseTypes) All() bool {
	return rt.Major && rt.Minor && rt.Patch
}

func (rt ReleaseTypes) Allows(b Bump) bool {
	switch b {
	case BumpMajor:
		return rt.Major
	case BumpMinor:
		return rt.Minor
	case BumpPatch:
		return rt.Patch
	default:
		return rt.All()
	}
}

func (rt ReleaseTypes) String() string {
	arr := make([]string, 0, 3) //nolint:mnd
	if rt.Major {
		arr = append(arr, string(BumpMajor))
	}
	if rt.Minor {
		arr = append(arr, string(BumpMinor))
	}
	if rt.Patch {
		arr = append(arr, string(BumpPatch))
	}
	return strings.Join(arr, ",")
}

// Classify returns the bump from `from` to `to`.
// The most significant differing component determines the bump,
// and a difference only in the prerelease is a patch.
// ok is false if `to` isn't newer than `from`.
// If either isn't a semantic version, Classify returns BumpUnknown and true.
func Classify(from, to *version.Ref) (Bump, bool) {
	c, ok := version.Compare(to, from)
	if !ok {
		return BumpUnknown, true
	}
	if c <= 0 {
		return "", false
	}
	fromMajor, fromMinor, _ := from.Core()
	toMajor, toMinor, _ := to.Core()
	switch {
	case fromMajor != toMajor:
		return BumpMajor, true
	case fromMinor != toMinor:
		return BumpMinor, true
	default:
		return BumpPatch, true
	}
}

// Filter returns candidates whose bump from current is allowed, keeping the order.
// If current isn't a semantic version, bumps are undefined and all candidates are returned.
// Candidates which aren't semantic versions are returned only if all bumps are allowed.
func Filter(current *version.Ref, candidates []*fetch.Candidate, allowed ReleaseTypes) []*fetch.Candidate {
	if !current.IsSemver() {
		return candidates
	}
	arr := make([]*fetch.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		bump, ok := Classify(current, candidate.Version)
		if !ok || !allowed.Allows(bump) {
			continue
		}
		arr = append(arr, candidate)
	}
	return arr
}
