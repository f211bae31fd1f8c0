package domain

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

// maxForwardDepth bounds how many nested string forward references are unwrapped.
const maxForwardDepth = 4

// AnnotationParser turns the source text of a parameter annotation into a
// normalized type expression.
type AnnotationParser interface {
	Parse(text string) (m.TypeExpr, error)
}

// typeUnion is the root of the annotation grammar: one or more terms joined by "|".
type typeUnion struct {
	Members []*typeTerm `parser:"@@ ( '|' @@ )*"`
}

type typeTerm struct {
	None     bool       `parser:"  @'None'"`
	Ellipsis bool       `parser:"| @Ellipsis"`
	Forward  *string    `parser:"| @String"`
	Number   *string    `parser:"| @Number"`
	List     *typeList  `parser:"| @@"`
	Group    *typeGroup `parser:"| @@"`
	Ref      *typeRef   `parser:"| @@"`
}

// typeList is a bracketed list of types, as in Callable[[int, str], None].
type typeList struct {
	Items []*typeUnion `parser:"'[' ( @@ ( ',' @@ )* )? ']'"`
}

type typeGroup struct {
	Items []*typeUnion `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
}

// typeRef is a dotted name with optional subscript arguments.
type typeRef struct {
	Name []string     `parser:"@Ident ( '.' @Ident )*"`
	Args []*typeUnion `parser:"( '[' ( @@ ( ',' @@ )* )? ']' )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[\[\]().,|]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// qualifiers are module prefixes that do not change the meaning of a type name.
var qualifiers = []string{"typing_extensions.", "typing.", "builtins."}

// aliases maps legacy typing names onto the builtin they stand for.
var aliases = map[string]string{
	"List":  "list",
	"Dict":  "dict",
	"Tuple": "tuple",
	"Text":  "str",
}

type annotationParser struct {
	parser *participle.Parser[typeUnion]
}

// NewAnnotationParser builds the participle grammar for Python type annotations.
func NewAnnotationParser() AnnotationParser {
	return &annotationParser{
		parser: participle.MustBuild[typeUnion](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace", "Comment"),
			participle.UseLookahead(2),
		),
	}
}

// Parse parses an annotation such as "int | None", "Optional[list[int]]" or "'Dict[str, int]'".
func (p *annotationParser) Parse(text string) (m.TypeExpr, error) {
	return p.parse(text, 0)
}

func (p *annotationParser) parse(text string, depth int) (m.TypeExpr, error) {
	root, err := p.parser.ParseString("", text)
	if err != nil {
		return m.TypeExpr{Kind: m.TypeUnknown}, fmt.Errorf("invalid annotation %q: %w", text, err)
	}

	return p.convertUnion(root, depth)
}

func (p *annotationParser) convertUnion(u *typeUnion, depth int) (m.TypeExpr, error) {
	members := make([]m.TypeExpr, 0, len(u.Members))

	for _, term := range u.Members {
		t, err := p.convertTerm(term, depth)
		if err != nil {
			return m.TypeExpr{Kind: m.TypeUnknown}, err
		}

		members = append(members, t)
	}

	if len(members) == 1 {
		return members[0], nil
	}

	return flattenUnion(members), nil
}

func (p *annotationParser) convertTerm(term *typeTerm, depth int) (m.TypeExpr, error) {
	switch {
	case term.None:
		return m.NoneType(), nil
	case term.Forward != nil:
		if depth >= maxForwardDepth {
			return m.TypeExpr{Kind: m.TypeUnknown}, fmt.Errorf("forward reference nested too deeply: %s", *term.Forward)
		}

		return p.parse(unquote(*term.Forward), depth+1)
	case term.Group != nil:
		if len(term.Group.Items) != 1 {
			return m.TypeExpr{Kind: m.TypeUnknown}, nil
		}

		return p.convertUnion(term.Group.Items[0], depth)
	case term.Ref != nil:
		return p.convertRef(term.Ref, depth)
	default:
		return m.TypeExpr{Kind: m.TypeUnknown}, nil
	}
}

func (p *annotationParser) convertRef(ref *typeRef, depth int) (m.TypeExpr, error) {
	name := normalizeTypeName(strings.Join(ref.Name, "."))
	if name == "NoneType" {
		return m.NoneType(), nil
	}

	switch {
	case len(ref.Args) == 0:
		return m.Scalar(name), nil
	case name == "Literal":
		// Literal arguments are values, not types.
		return m.Generic(name), nil
	case name == "Annotated":
		// Only the first argument is a type; the rest is metadata.
		return p.convertUnion(ref.Args[0], depth)
	}

	args := make([]m.TypeExpr, 0, len(ref.Args))

	for _, arg := range ref.Args {
		t, err := p.convertUnion(arg, depth)
		if err != nil {
			return m.TypeExpr{Kind: m.TypeUnknown}, err
		}

		args = append(args, t)
	}

	switch name {
	case "Optional":
		return flattenUnion(append(args, m.NoneType())), nil
	case "Union":
		return flattenUnion(args), nil
	default:
		return m.Generic(name, args...), nil
	}
}

func normalizeTypeName(name string) string {
	for _, q := range qualifiers {
		name = strings.TrimPrefix(name, q)
	}

	if alias, ok := aliases[name]; ok {
		return alias
	}

	return name
}

// flattenUnion merges nested unions so Optional[int | str] has three direct members.
func flattenUnion(members []m.TypeExpr) m.TypeExpr {
	flat := make([]m.TypeExpr, 0, len(members))

	for _, member := range members {
		if member.Kind == m.TypeUnion {
			flat = append(flat, member.Args...)
			continue
		}

		flat = append(flat, member)
	}

	return m.Union(flat...)
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}

	return s
}
