package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

const declarationsFixture = `
import F2F

def plain(a: int, b=1, *args: int, c: str, d: float = 2.0, **kw: dict):
    pass

async def fetch(url: str, /, timeout: float):
    pass

@decorator
def decorated(x: bytes):
    pass

if True:
    def conditional(y: int):
        pass
else:
    def conditional(y: str):
        pass

try:
    def guarded(z: bool):
        pass
except ImportError:
    pass

class Empty:
    pass

class Point:
    def __init__(self, x: int):
        pass

    def __init__(self, x: int, y: int):
        pass

    def helper(self, q: str):
        pass

def outer():
    def inner(w: int):
        pass
`

func TestDeclarationReader_Declarations(t *testing.T) {
	unit := parseSource(t, declarationsFixture)

	decls := newTestReader().Declarations(unit)

	var names []string
	for _, decl := range decls {
		if decl.Kind == m.DeclarationClass {
			names = append(names, "class "+decl.Class)
			continue
		}

		names = append(names, decl.Function.Name)
	}

	assert.Equal(t, []string{
		"plain", "fetch", "decorated", "conditional", "conditional", "guarded",
		"class Empty", "class Point", "outer",
	}, names)

	assert.Equal(t, 10, decls[2].Function.Line)
	assert.Equal(t, 14, decls[3].Function.Line)
	assert.Equal(t, 17, decls[4].Function.Line)

	empty := decls[6]
	assert.Nil(t, empty.Constructor)
	assert.Nil(t, empty.Callable())
	assert.Equal(t, 26, empty.Line)

	point := decls[7]
	require.NotNil(t, point.Constructor)
	assert.Equal(t, 33, point.Constructor.Line)
	assert.Equal(t, "Point.__init__", point.Constructor.QualifiedName)
	assert.Same(t, point.Constructor, point.Callable())
}

func TestDeclarationReader_Parameters(t *testing.T) {
	unit := parseSource(t, declarationsFixture)
	decls := newTestReader().Declarations(unit)

	type param struct {
		Name       string
		Kind       m.ParamKind
		Annotation string
		Receiver   bool
	}

	simplify := func(params []m.ParameterAnnotation) []param {
		out := make([]param, 0, len(params))
		for _, p := range params {
			out = append(out, param{p.Name, p.Kind, p.Annotation, p.Receiver})
		}

		return out
	}

	assert.Equal(t, []param{
		{"a", m.PositionalOrKeyword, "int", false},
		{"b", m.PositionalOrKeyword, "", false},
		{"args", m.VarPositional, "int", false},
		{"c", m.KeywordOnly, "str", false},
		{"d", m.KeywordOnly, "float", false},
		{"kw", m.VarKeyword, "dict", false},
	}, simplify(decls[0].Function.Parameters))

	assert.True(t, decls[1].Function.Async)
	assert.Equal(t, []param{
		{"url", m.PositionalOnly, "str", false},
		{"timeout", m.PositionalOrKeyword, "float", false},
	}, simplify(decls[1].Function.Parameters))

	assert.Equal(t, []param{
		{"self", m.PositionalOrKeyword, "", true},
		{"x", m.PositionalOrKeyword, "int", false},
		{"y", m.PositionalOrKeyword, "int", false},
	}, simplify(decls[7].Constructor.Parameters))
}

func TestDeclarationReader_ParsedTypes(t *testing.T) {
	unit := parseSource(t, `
def f(a: Optional[list[int]], b: "Dict[str, int]", c: int if FAST else float, d):
    pass
`)

	decls := newTestReader().Declarations(unit)
	require.Len(t, decls, 1)

	params := decls[0].Function.Parameters
	require.Len(t, params, 4)

	require.NotNil(t, params[0].Type)
	assert.Equal(t, "list[int] | None", params[0].Type.String())
	assert.Equal(t, "dict[str, int]", params[1].Type.String())
	require.NotNil(t, params[2].Type)
	assert.Equal(t, m.TypeUnknown, params[2].Type.Kind)
	assert.True(t, params[2].Annotated())
	assert.Nil(t, params[3].Type)
	assert.False(t, params[3].Annotated())
}
