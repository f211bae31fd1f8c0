package domain

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/mouse-blink/f2fguard/internal/adapter"
	m "github.com/mouse-blink/f2fguard/internal/model"
)

const constructorName = "__init__"

// Syntax node types of the tree-sitter Python grammar used by the analyzer.
const (
	nodeFunction     = "function_definition"
	nodeClass        = "class_definition"
	nodeDecorated    = "decorated_definition"
	nodeIdentifier   = "identifier"
	nodeCall         = "call"
	nodeAttribute    = "attribute"
	nodeKeywordArg   = "keyword_argument"
	nodeParenthesize = "parenthesized_expression"
)

// containers are module-level statements whose blocks still define module members.
var containers = map[string]bool{
	"if_statement":        true,
	"elif_clause":         true,
	"else_clause":         true,
	"try_statement":       true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
	"with_statement":      true,
	"block":               true,
}

// declarationReader derives declarations and parameter lists from a parsed
// unit, standing in for runtime introspection of the module.
type declarationReader struct {
	annotations AnnotationParser
	log         *zap.SugaredLogger
}

func newDeclarationReader(annotations AnnotationParser, log *zap.SugaredLogger) *declarationReader {
	return &declarationReader{annotations: annotations, log: log}
}

// Declarations enumerates module-level functions and classes in source order.
func (r *declarationReader) Declarations(unit *adapter.Unit) []m.Declaration {
	var decls []m.Declaration

	r.collect(unit, newIgnoreIndex(unit), unit.Root(), &decls)

	return decls
}

func (r *declarationReader) collect(unit *adapter.Unit, ignores *ignoreIndex, node *sitter.Node, decls *[]m.Declaration) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeDecorated {
			child = child.ChildByFieldName("definition")
			if child == nil {
				continue
			}
		}

		switch {
		case child.Type() == nodeFunction:
			record := r.Record(unit, ignores, child, "", false)
			*decls = append(*decls, m.Declaration{Kind: m.DeclarationFunction, Function: &record})
		case child.Type() == nodeClass:
			*decls = append(*decls, r.classDeclaration(unit, ignores, child))
		case containers[child.Type()]:
			r.collect(unit, ignores, child, decls)
		}
	}
}

func (r *declarationReader) classDeclaration(unit *adapter.Unit, ignores *ignoreIndex, node *sitter.Node) m.Declaration {
	name := unit.Text(node.ChildByFieldName("name"))
	decl := m.Declaration{
		Kind:  m.DeclarationClass,
		Class: name,
		Line:  int(node.StartPoint().Row) + 1,
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}

	// The last __init__ in the class body is the one Python binds.
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == nodeDecorated {
			child = child.ChildByFieldName("definition")
		}

		if child == nil || child.Type() != nodeFunction || definitionName(unit, child) != constructorName {
			continue
		}

		record := r.Record(unit, ignores, child, name, true)
		decl.Constructor = &record
	}

	return decl
}

// Record builds the FunctionRecord of a function definition node. owner is
// the enclosing class name for methods; receiver marks the first positional
// parameter as the implicit instance or class, unless the method is a
// staticmethod.
func (r *declarationReader) Record(unit *adapter.Unit, ignores *ignoreIndex, node *sitter.Node, owner string, receiver bool) m.FunctionRecord {
	name := definitionName(unit, node)

	qualified := name
	if owner != "" {
		qualified = owner + "." + name
	}

	record := m.FunctionRecord{
		Name:          name,
		QualifiedName: qualified,
		Path:          unit.Path,
		Line:          int(node.StartPoint().Row) + 1,
		Async:         node.ChildCount() > 0 && node.Child(0).Type() == "async",
	}

	params := node.ChildByFieldName("parameters")
	if params != nil {
		record.Parameters = r.parameters(unit, params, qualified)
	}

	if receiver && !decoratedWith(unit, node, "staticmethod") {
		markReceiver(record.Parameters)
	}

	if rule := ignores.forDefinition(node); !rule.empty() {
		record.Ignored = rule.all

		for i := range record.Parameters {
			record.Parameters[i].Ignored = rule.ignores(record.Parameters[i].Name)
		}
	}

	return record
}

func (r *declarationReader) parameters(unit *adapter.Unit, params *sitter.Node, function string) []m.ParameterAnnotation {
	var out []m.ParameterAnnotation

	kind := m.PositionalOrKeyword

	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)

		switch child.Type() {
		case nodeIdentifier:
			out = append(out, m.ParameterAnnotation{Name: unit.Text(child), Kind: kind})
		case "default_parameter":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil && nameNode.Type() == nodeIdentifier {
				out = append(out, m.ParameterAnnotation{Name: unit.Text(nameNode), Kind: kind})
			}
		case "typed_default_parameter":
			param := m.ParameterAnnotation{Name: unit.Text(child.ChildByFieldName("name")), Kind: kind}
			out = append(out, r.annotate(unit, param, child.ChildByFieldName("type"), function))
		case "typed_parameter":
			param, next := typedParameterTarget(unit, child, kind)
			kind = next
			out = append(out, r.annotate(unit, param, child.ChildByFieldName("type"), function))
		case "list_splat_pattern":
			out = append(out, m.ParameterAnnotation{Name: splatName(unit, child), Kind: m.VarPositional})
			kind = m.KeywordOnly
		case "dictionary_splat_pattern":
			out = append(out, m.ParameterAnnotation{Name: splatName(unit, child), Kind: m.VarKeyword})
		case "keyword_separator":
			kind = m.KeywordOnly
		case "positional_separator":
			for j := range out {
				out[j].Kind = m.PositionalOnly
			}
		}
	}

	return out
}

// typedParameterTarget resolves the name and kind of "x: T", "*args: T" and
// "**kwargs: T", returning the kind that applies to the parameters after it.
func typedParameterTarget(unit *adapter.Unit, node *sitter.Node, kind m.ParamKind) (m.ParameterAnnotation, m.ParamKind) {
	target := node.NamedChild(0)
	if target == nil {
		return m.ParameterAnnotation{Kind: kind}, kind
	}

	switch target.Type() {
	case "list_splat_pattern":
		return m.ParameterAnnotation{Name: splatName(unit, target), Kind: m.VarPositional}, m.KeywordOnly
	case "dictionary_splat_pattern":
		return m.ParameterAnnotation{Name: splatName(unit, target), Kind: m.VarKeyword}, kind
	default:
		return m.ParameterAnnotation{Name: unit.Text(target), Kind: kind}, kind
	}
}

func (r *declarationReader) annotate(unit *adapter.Unit, param m.ParameterAnnotation, typeNode *sitter.Node, function string) m.ParameterAnnotation {
	if typeNode == nil {
		return param
	}

	param.Annotation = unit.Text(typeNode)

	t, err := r.annotations.Parse(param.Annotation)
	if err != nil {
		r.log.Warnw("Unparsable annotation treated as unsupported",
			"function", function, "parameter", param.Name, "error", err)
	}

	param.Type = &t

	return param
}

func markReceiver(params []m.ParameterAnnotation) {
	if len(params) == 0 {
		return
	}

	if params[0].Kind == m.PositionalOnly || params[0].Kind == m.PositionalOrKeyword {
		params[0].Receiver = true
	}
}

// decoratedWith reports whether node carries @name or @module.name.
func decoratedWith(unit *adapter.Unit, node *sitter.Node, name string) bool {
	parent := node.Parent()
	if parent == nil || parent.Type() != nodeDecorated {
		return false
	}

	for i := 0; i < int(parent.NamedChildCount()); i++ {
		child := parent.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}

		text := strings.TrimSpace(strings.TrimPrefix(unit.Text(child), "@"))
		if text == name || strings.HasSuffix(text, "."+name) {
			return true
		}
	}

	return false
}

func definitionName(unit *adapter.Unit, node *sitter.Node) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}

	return unit.Text(nameNode)
}

func splatName(unit *adapter.Unit, node *sitter.Node) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == nodeIdentifier {
			return unit.Text(child)
		}
	}

	return ""
}
