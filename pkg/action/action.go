// Package action models references to GitHub Actions and reusable workflows.
// A reference is the `uses:` value of a workflow step or job such as
// `actions/checkout@v4` or `owner/repo/path/to/workflow.yaml@<commit hash> # v1.2.3`.
package action

import (
	"regexp"
	"strings"

	"github.com/ghaup/ghaup/pkg/version"
)

// Identity is the host path of an action without the ref.
// e.g. actions/checkout, github/codeql-action/init
type Identity string

func (id Identity) split() []string {
	return strings.SplitN(string(id), "/", 3) //nolint:mnd
}

func (id Identity) Owner() string {
	return id.split()[0]
}

func (id Identity) RepoName() string {
	a := id.split()
	if len(a) < 2 { //nolint:mnd
		return ""
	}
	return a[1]
}

// Repository returns owner/repo.
// Actions in a sub directory share releases with their repository.
func (id Identity) Repository() string {
	return id.Owner() + "/" + id.RepoName()
}

func (id Identity) String() string {
	return string(id)
}

// Reference is a single occurrence of identity@ref in a file.
type Reference struct {
	Identity   Identity
	Ref        string
	Kind       version.Kind
	Annotation string
	File       string
	Line       int
	Column     int
}

// Key returns identity@ref.
func (r *Reference) Key() string {
	return Key(r.Identity, r.Ref)
}

func Key(id Identity, ref string) string {
	return string(id) + "@" + ref
}

// Current returns the version the reference is pinned to.
// A commit hash annotated with a semantic version (`@<sha> # v1.2.3`) is pinned to the annotation.
func (r *Reference) Current() *version.Ref {
	ref := version.Parse(r.Ref)
	if ref.Kind != version.KindHash || r.Annotation == "" {
		return ref
	}
	if a := version.Parse(r.Annotation); a.IsSemver() {
		return a
	}
	return ref
}

// Parse parses a `uses:` value.
// It returns false if the value isn't a remote action with a ref, e.g. a local action `./foo` or a docker image.
func Parse(uses string) (Identity, string, bool) {
	if strings.HasPrefix(uses, "./") || strings.HasPrefix(uses, "docker://") {
		return "", "", false
	}
	name, ref, ok := strings.Cut(uses, "@")
	if !ok || name == "" || ref == "" {
		return "", "", false
	}
	id := Identity(name)
	if id.RepoName() == "" || id.Owner() == "" {
		return "", "", false
	}
	for i := range len(name) {
		if !IsIdentityByte(name[i]) {
			return "", "", false
		}
	}
	return id, ref, true
}

// IsIdentityByte returns true if b can be a part of an identity.
func IsIdentityByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return b == '-' || b == '_' || b == '.' || b == '/'
}

var (
	annotationPattern     = regexp.MustCompile(`^[ \t]+#[ \t]*(?:tag=)?([vV]?\d[0-9A-Za-z.+-]*)`)
	hashAnnotationPattern = regexp.MustCompile(`^[ \t]+#[ \t]*(?:tag=)?([^\s#]+)[ \t]*(?:\r?\n|\r?$)`)
)

// ParseAnnotation parses a version comment at the head of s, e.g. ` # v1.2.3`.
// It returns the version and the length of the comment in s.
// If s doesn't start with a version comment, it returns an empty string and 0.
func ParseAnnotation(s string) (string, int) {
	return parseAnnotation(annotationPattern, s)
}

// ParseHashAnnotation parses the comment following a commit hash.
// In addition to a version, a comment consisting of a single word such as
// a branch name or a tag name is accepted, e.g. ` # main`.
func ParseHashAnnotation(s string) (string, int) {
	if a, n := ParseAnnotation(s); n != 0 {
		return a, n
	}
	return parseAnnotation(hashAnnotationPattern, s)
}

func parseAnnotation(pattern *regexp.Regexp, s string) (string, int) {
	m := pattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", 0
	}
	return s[m[2]:m[3]], m[3]
}
