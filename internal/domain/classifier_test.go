package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		in   m.TypeExpr
		want []string
	}{
		{"bool before int", m.Scalar("bool"), []string{"validate_Bool"}},
		{"int", m.Scalar("int"), []string{"validate_Int"}},
		{"float", m.Scalar("float"), []string{"validate_Float"}},
		{"str", m.Scalar("str"), []string{"validate_String"}},
		{"bytes", m.Scalar("bytes"), []string{"validate_Bytes"}},
		{"bare list", m.Scalar("list"), []string{"validate_List"}},
		{"bare dict", m.Scalar("dict"), []string{"validate_Dict"}},
		{"bare tuple", m.Scalar("tuple"), []string{"validate_Tuple"}},
		{"list of int", m.Generic("list", m.Scalar("int")), []string{"validate_Numeric_List"}},
		{"list of float", m.Generic("list", m.Scalar("float")), []string{"validate_Numeric_List"}},
		{"list of str", m.Generic("list", m.Scalar("str")), []string{"validate_String_List"}},
		{"list of bool", m.Generic("list", m.Scalar("bool")), []string{"validate_List"}},
		{"list of custom", m.Generic("list", m.Scalar("User")), []string{"validate_List"}},
		{"list of list of int", m.Generic("list", m.Generic("list", m.Scalar("int"))), []string{"validate_List"}},
		{"list of optional int", m.Generic("list", m.Union(m.Scalar("int"), m.NoneType())), []string{"validate_List"}},
		{"dict", m.Generic("dict", m.Scalar("str"), m.Scalar("int")), []string{"validate_Dict"}},
		{"tuple", m.Generic("tuple", m.Scalar("int"), m.Scalar("str")), []string{"validate_Tuple"}},
		{"optional int", m.Union(m.Scalar("int"), m.NoneType()), []string{"validate_Int"}},
		{"int or str", m.Union(m.Scalar("int"), m.Scalar("str")), []string{"validate_Int", "validate_String"}},
		{"int or custom", m.Union(m.Scalar("int"), m.Scalar("User")), []string{"validate_Int"}},
		{"union of same", m.Union(m.Scalar("int"), m.Scalar("int")), []string{"validate_Int"}},
		{"all null union", m.Union(m.NoneType()), []string{}},
		{"all unsupported union", m.Union(m.Scalar("User"), m.NoneType()), []string{}},
		{"custom class", m.Scalar("User"), []string{}},
		{"custom generic", m.Generic("Sequence", m.Scalar("int")), []string{}},
		{"None", m.NoneType(), []string{}},
		{"unknown", m.TypeExpr{}, []string{}},
	}

	classifier := NewClassifier(m.DefaultValidatorNaming())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.in).Sorted())
		})
	}
}

func TestClassifier_UsesConfiguredPrefix(t *testing.T) {
	classifier := NewClassifier(m.ValidatorNaming{Namespace: "V", Prefix: "check_", TargetKeyword: "value"})

	assert.Equal(t, []string{"check_Numeric_List"}, classifier.Classify(m.Generic("list", m.Scalar("int"))).Sorted())
}

func TestClassifier_FromAnnotationText(t *testing.T) {
	parser := NewAnnotationParser()
	classifier := NewClassifier(m.DefaultValidatorNaming())

	tests := map[string][]string{
		"Optional[List[int]]":   {"validate_Numeric_List"},
		"int | str | None":      {"validate_Int", "validate_String"},
		"typing.Dict[str, int]": {"validate_Dict"},
		"'bool'":                {"validate_Bool"},
		"Annotated[str, 'x']":   {"validate_String"},
	}

	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			parsed, err := parser.Parse(text)
			assert.NoError(t, err)
			assert.Equal(t, want, classifier.Classify(parsed).Sorted())
		})
	}
}
