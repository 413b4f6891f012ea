// Package version classifies the ref of an action reference and orders semantic versions.
// A ref is one of a semantic version tag (e.g. v4, v1.2.3, v2.0.0-rc.1),
// a commit hash (full or abbreviated), or an opaque string such as a branch name.
// Parsing never fails: anything that isn't a semantic version or a commit hash
// is classified as KindOther.
package version

import (
	"regexp"

	goversion "github.com/hashicorp/go-version"
)

type Kind int

const (
	KindOther Kind = iota
	KindSemver
	KindHash
)

func (k Kind) String() string {
	switch k {
	case KindSemver:
		return "semver"
	case KindHash:
		return "hash"
	default:
		return "other"
	}
}

const fullHashLength = 40

var (
	hashPattern      = regexp.MustCompile(`^[0-9a-f]{7,40}$`)
	hexLetterPattern = regexp.MustCompile(`[a-f]`)
	// optional single letter prefix, MAJOR[.MINOR[.PATCH]][-prerelease][+build]
	semverPattern = regexp.MustCompile(`^([A-Za-z]?)(\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?)$`)
)

// Ref is a classified ref.
type Ref struct {
	Raw    string
	Kind   Kind
	Prefix string
	semver *goversion.Version
}

// Parse classifies a raw ref.
// Missing minor and patch components are treated as zero, so v4 is equal to v4.0.0.
func Parse(raw string) *Ref {
	ref := &Ref{Raw: raw}
	if isHash(raw) {
		ref.Kind = KindHash
		return ref
	}
	matches := semverPattern.FindStringSubmatch(raw)
	if matches == nil {
		return ref
	}
	v, err := goversion.NewVersion(matches[2])
	if err != nil {
		return ref
	}
	ref.Kind = KindSemver
	ref.Prefix = matches[1]
	ref.semver = v
	return ref
}

func isHash(raw string) bool {
	if !hashPattern.MatchString(raw) {
		return false
	}
	if len(raw) == fullHashLength {
		return true
	}
	// 1234567 is a version, not an abbreviated hash
	return hexLetterPattern.MatchString(raw)
}

func (r *Ref) IsSemver() bool {
	return r != nil && r.Kind == KindSemver
}

func (r *Ref) IsHash() bool {
	return r != nil && r.Kind == KindHash
}

// Core returns major, minor and patch.
// It returns zeros if the ref isn't a semantic version.
func (r *Ref) Core() (int, int, int) {
	if !r.IsSemver() {
		return 0, 0, 0
	}
	seg := r.semver.Segments()
	parts := [3]int{}
	copy(parts[:], seg)
	return parts[0], parts[1], parts[2]
}

func (r *Ref) Prerelease() string {
	if !r.IsSemver() {
		return ""
	}
	return r.semver.Prerelease()
}

// IsStable returns true if the ref is a semantic version without a prerelease.
func (r *Ref) IsStable() bool {
	return r.IsSemver() && r.semver.Prerelease() == ""
}

func (r *Ref) String() string {
	if r == nil {
		return ""
	}
	return r.Raw
}

// Compare compares two semantic versions component-wise.
// A version without a prerelease ranks above the same version with a prerelease.
// ok is false if either ref isn't a semantic version; opaque refs are never ordered.
func Compare(a, b *Ref) (int, bool) {
	if !a.IsSemver() || !b.IsSemver() {
		return 0, false
	}
	return a.semver.Compare(b.semver), true
}
