package adapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

// PythonFileAdapter turns Python source into a syntax tree so the domain
// layer can inspect declarations and call sites without executing anything.
type PythonFileAdapter interface {
	// Parse builds a syntax tree for the provided filename/source pair. The
	// returned unit owns the tree and must be closed by the caller.
	Parse(ctx context.Context, filename m.Path, src []byte) (*Unit, error)
}

// Unit is one parsed Python source file.
type Unit struct {
	Path   m.Path
	Source []byte
	tree   *sitter.Tree
}

// Root returns the module node of the unit.
func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// Text returns the source text spanned by node.
func (u *Unit) Text(node *sitter.Node) string {
	return node.Content(u.Source)
}

// Close releases the syntax tree.
func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// SyntaxError reports the first position tree-sitter could not parse.
type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
}

// LocalPythonFileAdapter provides a PythonFileAdapter backed by tree-sitter.
type LocalPythonFileAdapter struct{}

// NewLocalPythonFileAdapter constructs a LocalPythonFileAdapter.
func NewLocalPythonFileAdapter() *LocalPythonFileAdapter {
	return &LocalPythonFileAdapter{}
}

// Parse builds a syntax tree with a fresh parser, so callers analyzing files
// concurrently never share parser state.
func (a *LocalPythonFileAdapter) Parse(ctx context.Context, filename m.Path, src []byte) (*Unit, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	unit := &Unit{Path: filename, Source: src, tree: tree}

	root := tree.RootNode()
	if root.HasError() {
		defer unit.Close()

		return nil, firstSyntaxError(root)
	}

	return unit, nil
}

func firstSyntaxError(node *sitter.Node) error {
	if node.Type() == "ERROR" || node.IsMissing() {
		point := node.StartPoint()
		return &SyntaxError{Line: int(point.Row) + 1, Column: int(point.Column) + 1}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() {
			continue
		}

		if err := firstSyntaxError(child); err != nil {
			return err
		}
	}

	point := node.StartPoint()

	return &SyntaxError{Line: int(point.Row) + 1, Column: int(point.Column) + 1}
}
