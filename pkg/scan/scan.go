// Package scan finds action references in workflow files and composite action metadata.
// It parses a file as YAML to find every `uses` key wherever it's nested,
// and locates each value in the raw text to record its position and
// the trailing version comment.
package scan

import (
	"fmt"
	"strings"

	"github.com/ghaup/ghaup/pkg/action"
	"github.com/ghaup/ghaup/pkg/version"
	"github.com/ghaup/ghaup/pkg/warning"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/sirupsen/logrus"
)

const usesKey = "uses"

// Result is references and warnings found in a file.
type Result struct {
	References []*action.Reference
	Warnings   []*warning.Warning
}

// Scan returns references found in content in the order of appearance.
// Local actions, docker images and expressions are skipped.
// Other values without a ref are reported as unsupported.
func Scan(logE *logrus.Entry, filePath string, content []byte) (*Result, error) {
	file, err := parser.ParseBytes(content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse a workflow file as YAML: %w", err)
	}
	s := &scanner{
		logE:  logE,
		file:  filePath,
		lines: strings.Split(string(content), "\n"),
		refs:  []*action.Reference{},
	}
	for _, doc := range file.Docs {
		s.walk(doc)
	}
	return &Result{
		References: s.refs,
		Warnings:   s.warnings,
	}, nil
}

type scanner struct {
	logE     *logrus.Entry
	file     string
	lines    []string
	refs     []*action.Reference
	warnings []*warning.Warning
}

func (s *scanner) walk(node ast.Node) {
	switch n := node.(type) {
	case *ast.DocumentNode:
		s.walk(n.Body)
	case *ast.MappingNode:
		for _, value := range n.Values {
			s.walk(value)
		}
	case *ast.MappingValueNode:
		if s.visitUses(n) {
			return
		}
		s.walk(n.Value)
	case *ast.SequenceNode:
		for _, value := range n.Values {
			s.walk(value)
		}
	case *ast.TagNode:
		s.walk(n.Value)
	case *ast.AnchorNode:
		s.walk(n.Value)
	}
}

// visitUses returns true if node is a `uses` key.
func (s *scanner) visitUses(node *ast.MappingValueNode) bool {
	key, ok := node.Key.(*ast.StringNode)
	if !ok || key.Value != usesKey {
		return false
	}
	value, ok := node.Value.(*ast.StringNode)
	if !ok {
		return true
	}
	id, ref, ok := action.Parse(value.Value)
	if !ok {
		s.unsupported(value)
		return true
	}
	pos := value.GetToken().Position
	reference := &action.Reference{
		Identity: id,
		Ref:      ref,
		Kind:     version.Parse(ref).Kind,
		File:     s.file,
		Line:     pos.Line,
		Column:   pos.Column,
	}
	s.locate(reference)
	s.refs = append(s.refs, reference)
	return true
}

func (s *scanner) unsupported(value *ast.StringNode) {
	uses := value.Value
	logE := s.logE.WithField("uses", uses)
	if isSkipped(uses) {
		logE.Debug("ignore a reference which isn't a remote action")
		return
	}
	logE.Debug("ignore an action in an unsupported format")
	s.warnings = append(s.warnings, &warning.Warning{
		Kind:    warning.KindUnsupported,
		File:    s.file,
		Action:  uses,
		Message: fmt.Sprintf("the action is in an unsupported format (line %d)", value.GetToken().Position.Line),
	})
}

func isSkipped(uses string) bool {
	return uses == "" || strings.HasPrefix(uses, "./") || strings.HasPrefix(uses, "docker://") || strings.Contains(uses, "${{")
}

// locate fixes the column with the raw text and reads the version comment after the reference.
func (s *scanner) locate(ref *action.Reference) {
	if ref.Line < 1 || ref.Line > len(s.lines) {
		return
	}
	line := s.lines[ref.Line-1]
	token := ref.Key()
	start := max(ref.Column-1, 0)
	if start > len(line) {
		start = 0
	}
	idx := strings.Index(line[start:], token)
	if idx == -1 {
		start = 0
		idx = strings.Index(line, token)
		if idx == -1 {
			return
		}
	}
	idx += start
	ref.Column = idx + 1
	rest := line[idx+len(token):]
	if rest != "" && (rest[0] == '"' || rest[0] == '\'') {
		rest = rest[1:]
	}
	if ref.Kind == version.KindHash {
		ref.Annotation, _ = action.ParseHashAnnotation(rest)
		return
	}
	ref.Annotation, _ = action.ParseAnnotation(rest)
}
