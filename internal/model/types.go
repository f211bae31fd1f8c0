package model

import "strings"

// TypeKind classifies the shape of a parsed type expression.
type TypeKind int

const (
	// TypeUnknown is anything the annotation grammar could not make sense of.
	TypeUnknown TypeKind = iota
	// TypeNone is the null type.
	TypeNone
	// TypeName is a bare, possibly dotted, type name such as int or mypkg.User.
	TypeName
	// TypeGeneric is a subscripted name such as list[int].
	TypeGeneric
	// TypeUnion is an optional or union type; Args holds the members.
	TypeUnion
)

// TypeExpr is a declared parameter type in normalized form.
type TypeExpr struct {
	Kind TypeKind
	Name string
	Args []TypeExpr
}

// Scalar builds a name type.
func Scalar(name string) TypeExpr {
	return TypeExpr{Kind: TypeName, Name: name}
}

// Generic builds a subscripted type.
func Generic(name string, args ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeGeneric, Name: name, Args: args}
}

// Union builds a union of the given members.
func Union(members ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: TypeUnion, Args: members}
}

// NoneType is the null member of an optional type.
func NoneType() TypeExpr {
	return TypeExpr{Kind: TypeNone}
}

func (t TypeExpr) String() string {
	switch t.Kind {
	case TypeNone:
		return "None"
	case TypeName:
		return t.Name
	case TypeGeneric:
		return t.Name + "[" + joinTypes(t.Args, ", ") + "]"
	case TypeUnion:
		return joinTypes(t.Args, " | ")
	default:
		return "?"
	}
}

func joinTypes(types []TypeExpr, sep string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, t.String())
	}

	return strings.Join(parts, sep)
}
