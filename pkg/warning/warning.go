// Package warning defines recoverable problems found during a run.
// Warnings never abort a run; they are collected and reported at the end.
package warning

import "fmt"

type Kind string

const (
	KindNonSemver    Kind = "non-semver"
	KindUnresolved   Kind = "unresolved"
	KindNoReleases   Kind = "no-releases"
	KindInvalidYAML  Kind = "invalid-yaml"
	KindRewriteDrift Kind = "rewrite-drift"
	KindUnsupported  Kind = "unsupported"
)

type Warning struct {
	Kind    Kind   `json:"kind"`
	File    string `json:"file,omitempty"`
	Action  string `json:"action,omitempty"`
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message"`
}

func (w *Warning) String() string {
	s := w.Message
	if w.Action != "" {
		a := w.Action
		if w.Ref != "" {
			a += "@" + w.Ref
		}
		s = fmt.Sprintf("%s: %s", a, s)
	}
	if w.File != "" {
		s = fmt.Sprintf("%s: %s", w.File, s)
	}
	return s
}

// Key identifies duplicated warnings.
func (w *Warning) Key() string {
	return string(w.Kind) + "\x00" + w.File + "\x00" + w.Action + "\x00" + w.Ref + "\x00" + w.Message
}
