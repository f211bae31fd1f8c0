package domain

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// Definition is a function definition node together with the unit it belongs to.
type Definition struct {
	Unit *adapter.Unit
	Node *sitter.Node
	Line int
}

// Locator resolves a callable to its definition node.
type Locator interface {
	// Locate reads and re-parses path, then searches it. The returned
	// definition owns a fresh unit; release it with Close.
	Locate(ctx context.Context, path m.Path, name string, line int) (*Definition, error)
	// Find searches an already parsed unit.
	Find(unit *adapter.Unit, name string, line int) (*Definition, error)
	// FindClass returns the class definition called class, which may be a
	// dotted path to a nested class, or nil. A non-zero line must match the
	// innermost class; otherwise the last binding wins.
	FindClass(unit *adapter.Unit, class string, line int) *sitter.Node
	// FindMethod searches only the body of class. A non-zero line must match
	// the method; otherwise the last binding wins.
	FindMethod(unit *adapter.Unit, class *sitter.Node, owner, name string, line int) (*Definition, error)
}

type locator struct {
	fsAdapter adapter.SourceFSAdapter
	pyAdapter adapter.PythonFileAdapter
}

// NewLocator constructs a Locator backed by the provided adapters.
func NewLocator(fsAdapter adapter.SourceFSAdapter, pyAdapter adapter.PythonFileAdapter) Locator {
	return &locator{fsAdapter: fsAdapter, pyAdapter: pyAdapter}
}

// Close releases the unit owned by a definition obtained from Locate.
func (d *Definition) Close() {
	if d != nil && d.Unit != nil {
		d.Unit.Close()
	}
}

func (l *locator) Locate(ctx context.Context, path m.Path, name string, line int) (*Definition, error) {
	unit, err := loadUnit(ctx, l.fsAdapter, l.pyAdapter, path)
	if err != nil {
		return nil, err
	}

	def, err := l.Find(unit, name, line)
	if err != nil {
		unit.Close()
		return nil, err
	}

	return def, nil
}

// Find walks the tree breadth-first. A definition starting exactly on line
// wins; otherwise the first definition with a matching name is used, which
// keeps same-named functions in one file apart.
func (l *locator) Find(unit *adapter.Unit, name string, line int) (*Definition, error) {
	var fallback *sitter.Node

	queue := []*sitter.Node{unit.Root()}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if node.Type() == nodeFunction && definitionName(unit, node) == name {
			start := int(node.StartPoint().Row) + 1
			if start == line {
				return &Definition{Unit: unit, Node: node, Line: start}, nil
			}

			if fallback == nil {
				fallback = node
			}
		}

		for i := 0; i < int(node.NamedChildCount()); i++ {
			queue = append(queue, node.NamedChild(i))
		}
	}

	if fallback == nil {
		return nil, &LocateError{Path: unit.Path, Function: name, Line: line}
	}

	return &Definition{Unit: unit, Node: fallback, Line: int(fallback.StartPoint().Row) + 1}, nil
}

func (l *locator) FindClass(unit *adapter.Unit, class string, line int) *sitter.Node {
	scope := unit.Root()
	parts := strings.Split(class, ".")

	for i, part := range parts {
		want := 0
		if i == len(parts)-1 {
			want = line
		}

		scope = lastDefinition(unit, scope, nodeClass, part, want)
		if scope == nil {
			return nil
		}

		if body := scope.ChildByFieldName("body"); body != nil && i < len(parts)-1 {
			scope = body
		}
	}

	return scope
}

func (l *locator) FindMethod(unit *adapter.Unit, class *sitter.Node, owner, name string, line int) (*Definition, error) {
	var node *sitter.Node
	if body := class.ChildByFieldName("body"); body != nil {
		node = lastDefinition(unit, body, nodeFunction, name, line)
	}

	if node == nil {
		return nil, &LocateError{Path: unit.Path, Function: owner + "." + name, Line: line}
	}

	return &Definition{Unit: unit, Node: node, Line: int(node.StartPoint().Row) + 1}, nil
}

// lastDefinition scans the statements of scope, descending into compound
// statements but not into other definitions, for a definition of the given
// node type and name.
func lastDefinition(unit *adapter.Unit, scope *sitter.Node, kind, name string, line int) *sitter.Node {
	var found *sitter.Node

	for i := 0; i < int(scope.NamedChildCount()); i++ {
		child := scope.NamedChild(i)
		if child.Type() == nodeDecorated {
			child = child.ChildByFieldName("definition")
			if child == nil {
				continue
			}
		}

		switch {
		case child.Type() == kind && definitionName(unit, child) == name:
			if line == 0 || int(child.StartPoint().Row)+1 == line {
				found = child
			}
		case containers[child.Type()]:
			if nested := lastDefinition(unit, child, kind, name, line); nested != nil {
				found = nested
			}
		}
	}

	return found
}

// loadUnit reads and parses one unit, reporting any failure as a LoadError.
func loadUnit(ctx context.Context, fsAdapter adapter.SourceFSAdapter, pyAdapter adapter.PythonFileAdapter, path m.Path) (*adapter.Unit, error) {
	src, err := fsAdapter.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	unit, err := pyAdapter.Parse(ctx, path, src)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return unit, nil
}
