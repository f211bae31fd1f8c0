package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

func TestAnnotationParser_Parse(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"int", "int"},
		{"  str ", "str"},
		{"None", "None"},
		{"list[int]", "list[int]"},
		{"List[str]", "list[str]"},
		{"typing.List[float]", "list[float]"},
		{"dict[str, int]", "dict[str, int]"},
		{"Dict[str, List[int]]", "dict[str, list[int]]"},
		{"tuple[int, ...]", "tuple[int, ?]"},
		{"Tuple", "tuple"},
		{"typing.Text", "str"},
		{"int | None", "int | None"},
		{"Optional[int]", "int | None"},
		{"Optional[int | str]", "int | str | None"},
		{"Union[int, str]", "int | str"},
		{"Union[int, Union[str, bytes]]", "int | str | bytes"},
		{"'int'", "int"},
		{`"Optional[List[int]]"`, "list[int] | None"},
		{"Annotated[int, 'positive']", "int"},
		{"Annotated[list[str], 'non-empty']", "list[str]"},
		{"Literal['a b', 'c']", "Literal[]"},
		{"builtins.bytes", "bytes"},
		{"mypkg.models.User", "mypkg.models.User"},
		{"NoneType", "None"},
		{"Callable[[int, str], None]", "Callable[?, None]"},
		{"(int)", "int"},
	}

	parser := NewAnnotationParser()

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parser.Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAnnotationParser_Invalid(t *testing.T) {
	parser := NewAnnotationParser()

	for _, text := range []string{"", "list[", "int |", "@@", "'list['", "type(None)"} {
		t.Run(text, func(t *testing.T) {
			got, err := parser.Parse(text)
			require.Error(t, err)
			assert.Equal(t, m.TypeUnknown, got.Kind)
		})
	}
}

func TestAnnotationParser_NestedForwardReferences(t *testing.T) {
	parser := NewAnnotationParser()

	got, err := parser.Parse(`"'int'"`)
	require.NoError(t, err)
	assert.Equal(t, m.Scalar("int"), got)

	_, err = parser.Parse(`"'\"int\"'"`)
	require.Error(t, err)
}
