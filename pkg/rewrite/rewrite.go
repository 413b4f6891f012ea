// Package rewrite replaces action references in the raw text of a file.
// It doesn't parse the document, so formatting and comments are kept byte for byte.
package rewrite

import (
	"strings"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/update"
	"github.com/ghaup/ghaup/pkg/version"
)

type Result struct {
	Text string
	// Count is the number of replaced occurrences.
	// Zero means the file doesn't contain the reference anymore.
	Count int
}

// Rewrite replaces every occurrence of identity@oldRef in text with identity@newRef.
// The token may be quoted. An occurrence must be delimited on both sides,
// so owner/repo@v1 never matches owner/repo-extra@v1 or owner/repo@v10.
//
// If the decision has an annotation, the version comment following the token
// is updated or a new one is appended.
// If it doesn't, a comment consisting only of a version is removed.
// The comment of a commit hash may also be a branch name or a tag name,
// which is replaced in the same way.
func Rewrite(text string, d *update.Decision) *Result {
	if !d.Applicable || d.NewRef == "" || d.NewRef == d.OldRef {
		return &Result{Text: text}
	}
	parse := action.ParseAnnotation
	if version.Parse(d.OldRef).IsHash() {
		parse = action.ParseHashAnnotation
	}
	token := d.Key()
	replacement := action.Key(d.Identity, d.NewRef)
	var b strings.Builder
	b.Grow(len(text))
	count := 0
	pos := 0
	for {
		idx := strings.Index(text[pos:], token)
		if idx == -1 {
			break
		}
		start := pos + idx
		end := start + len(token)
		if !isStart(text, start) || !isEnd(text, end) {
			b.WriteString(text[pos : start+1])
			pos = start + 1
			continue
		}
		b.WriteString(text[pos:start])
		b.WriteString(replacement)
		if end < len(text) && isQuote(text[end]) {
			b.WriteByte(text[end])
			end++
		}
		pos = end + writeAnnotation(&b, text[end:], d.Annotation, parse)
		count++
	}
	b.WriteString(text[pos:])
	if count == 0 {
		return &Result{Text: text}
	}
	return &Result{
		Text:  b.String(),
		Count: count,
	}
}

// writeAnnotation writes the version comment of the new ref and
// returns the length of the existing comment in rest which is consumed.
func writeAnnotation(b *strings.Builder, rest, annotation string, parse func(string) (string, int)) int {
	current, n := parse(rest)
	if n == 0 {
		if annotation != "" {
			b.WriteString(" # ")
			b.WriteString(annotation)
		}
		return 0
	}
	if annotation != "" {
		b.WriteString(rest[:n-len(current)])
		b.WriteString(annotation)
		return n
	}
	if strings.TrimRight(lineOf(rest[n:]), " \t\r") == "" {
		return n
	}
	return 0
}

func lineOf(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func isStart(text string, start int) bool {
	return start == 0 || !action.IsIdentityByte(text[start-1])
}

func isEnd(text string, end int) bool {
	if end == len(text) {
		return true
	}
	switch text[end] {
	case ' ', '\t', '\r', '\n', '"', '\'', '#':
		return true
	}
	return false
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}
