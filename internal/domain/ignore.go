package domain

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mouse-blink/f2fguard/internal/adapter"
)

const ignoreDirective = "f2fguard:ignore"

// ignoreRule is what a "# f2fguard:ignore" comment suppresses: everything,
// or only the parameters it names ("# f2fguard:ignore x, y").
type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(param string) bool {
	if r.all {
		return true
	}

	_, ok := r.names[param]

	return ok
}

func (r ignoreRule) empty() bool {
	return !r.all && len(r.names) == 0
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

// parseIgnoreDirective reads one comment. Text after a second "#" is free
// form, so "# f2fguard:ignore x  # legacy" names only x.
func parseIgnoreDirective(comment string) (ignoreRule, bool) {
	s := strings.TrimSpace(comment)
	if !strings.HasPrefix(s, "#") {
		return ignoreRule{}, false
	}

	s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimPrefix(s, ignoreDirective)
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '#' {
		return ignoreRule{}, false
	}

	if i := strings.Index(rest, "#"); i >= 0 {
		rest = rest[:i]
	}

	rule := ignoreRule{names: make(map[string]struct{})}

	for _, part := range strings.Split(rest, ",") {
		if name := strings.TrimSpace(part); name != "" {
			rule.names[name] = struct{}{}
		}
	}

	if len(rule.names) == 0 {
		return ignoreRule{all: true}, true
	}

	return rule, true
}

// ignoreIndex answers directive lookups for one unit by line.
type ignoreIndex struct {
	lines [][]byte
	file  ignoreRule
}

func newIgnoreIndex(unit *adapter.Unit) *ignoreIndex {
	idx := &ignoreIndex{lines: bytes.Split(unit.Source, []byte("\n"))}

	// The module header ends at the first line that is neither blank nor a comment.
	for _, line := range idx.lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}

		if trimmed[0] != '#' {
			break
		}

		if rule, ok := parseIgnoreDirective(string(trimmed)); ok {
			mergeIgnoreRule(&idx.file, rule)
		}
	}

	return idx
}

// forDefinition merges the unit rule with the comments directly above the
// definition (and above its class, for methods) and a trailing comment on
// its header line.
func (idx *ignoreIndex) forDefinition(node *sitter.Node) ignoreRule {
	rule := ignoreRule{}
	mergeIgnoreRule(&rule, idx.file)

	for _, anchor := range definitionAnchors(node) {
		mergeIgnoreRule(&rule, idx.above(int(anchor.StartPoint().Row)))
	}

	mergeIgnoreRule(&rule, idx.trailing(int(node.StartPoint().Row)))

	return rule
}

// above collects directives from the comment lines immediately preceding row.
func (idx *ignoreIndex) above(row int) ignoreRule {
	var rule ignoreRule

	for i := row - 1; i >= 0 && i < len(idx.lines); i-- {
		trimmed := bytes.TrimSpace(idx.lines[i])
		if len(trimmed) == 0 || trimmed[0] != '#' {
			break
		}

		if r, ok := parseIgnoreDirective(string(trimmed)); ok {
			mergeIgnoreRule(&rule, r)
		}
	}

	return rule
}

func (idx *ignoreIndex) trailing(row int) ignoreRule {
	if row < 0 || row >= len(idx.lines) {
		return ignoreRule{}
	}

	line := string(idx.lines[row])

	i := strings.Index(line, "# "+ignoreDirective)
	if i < 0 {
		i = strings.Index(line, "#"+ignoreDirective)
	}

	if i < 0 {
		return ignoreRule{}
	}

	rule, _ := parseIgnoreDirective(line[i:])

	return rule
}

// definitionAnchors returns the nodes whose preceding comments apply to a
// definition: the definition itself (or its first decorator) and, for a
// method, its class.
func definitionAnchors(node *sitter.Node) []*sitter.Node {
	anchor := node
	if parent := node.Parent(); parent != nil && parent.Type() == nodeDecorated {
		anchor = parent
	}

	anchors := []*sitter.Node{anchor}

	block := anchor.Parent()
	if block == nil || block.Type() != "block" {
		return anchors
	}

	class := block.Parent()
	if class == nil || class.Type() != nodeClass {
		return anchors
	}

	if parent := class.Parent(); parent != nil && parent.Type() == nodeDecorated {
		class = parent
	}

	return append(anchors, class)
}
