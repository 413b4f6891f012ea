// Package report collects the outcome of a run and renders it.
package report

import (
	"cmp"
	"slices"
	"sync"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/fetch"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/ghaup/ghaup/pkg/warning"
)

// Change is an updated occurrence of a reference.
type Change struct {
	File       string           `json:"file"`
	Line       int              `json:"line"`
	Identity   action.Identity  `json:"action"`
	OldRef     string           `json:"old_ref"`
	NewRef     string           `json:"new_ref"`
	Annotation string           `json:"annotation,omitempty"`
	Bump       update.Bump      `json:"bump"`
	OldLine    string           `json:"-"`
	NewLine    string           `json:"-"`
	Candidate  *fetch.Candidate `json:"-"`
}

// File is the new content of a changed file.
type File struct {
	Path    string
	Content string
}

type Summary struct {
	Changed  bool               `json:"changed"`
	Changes  []*Change          `json:"changes"`
	Files    []*File            `json:"-"`
	Warnings []*warning.Warning `json:"warnings"`
}

// Aggregator collects changes and warnings of a run.
// It's safe for concurrent use.
type Aggregator struct {
	mutex    sync.Mutex
	files    map[string]*File
	changes  []*Change
	warnings map[string]*warning.Warning
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		files:    map[string]*File{},
		changes:  []*Change{},
		warnings: map[string]*warning.Warning{},
	}
}

// AddFile records the new content of a file and its changes.
// A file without changes is ignored.
func (a *Aggregator) AddFile(path, content string, changes []*Change) {
	if len(changes) == 0 {
		return
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.files[path] = &File{
		Path:    path,
		Content: content,
	}
	a.changes = append(a.changes, changes...)
}

// AddWarnings records warnings. Duplicated warnings are recorded once.
func (a *Aggregator) AddWarnings(warnings ...*warning.Warning) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	for _, w := range warnings {
		if w == nil {
			continue
		}
		a.warnings[w.Key()] = w
	}
}

// Summary returns the collected outcome sorted by file and position.
func (a *Aggregator) Summary() *Summary {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	changes := slices.Clone(a.changes)
	slices.SortStableFunc(changes, func(x, y *Change) int {
		return cmp.Or(
			cmp.Compare(x.File, y.File),
			cmp.Compare(x.Line, y.Line),
			cmp.Compare(x.Identity, y.Identity),
		)
	})
	files := make([]*File, 0, len(a.files))
	for _, f := range a.files {
		files = append(files, f)
	}
	slices.SortFunc(files, func(x, y *File) int {
		return cmp.Compare(x.Path, y.Path)
	})
	warnings := make([]*warning.Warning, 0, len(a.warnings))
	for _, w := range a.warnings {
		warnings = append(warnings, w)
	}
	slices.SortFunc(warnings, func(x, y *warning.Warning) int {
		return cmp.Or(
			cmp.Compare(x.File, y.File),
			cmp.Compare(x.Action, y.Action),
			cmp.Compare(x.Ref, y.Ref),
			cmp.Compare(x.Kind, y.Kind),
			cmp.Compare(x.Message, y.Message),
		)
	})
	return &Summary{
		Changed:  len(changes) > 0,
		Changes:  changes,
		Files:    files,
		Warnings: warnings,
	}
}
