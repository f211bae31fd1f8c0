package domain

import (
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// Classifier maps a declared parameter type to the validators it requires.
type Classifier interface {
	Classify(t m.TypeExpr) m.ValidatorSet
}

type classifier struct {
	naming m.ValidatorNaming
}

// NewClassifier creates a Classifier producing identifiers with the given naming.
func NewClassifier(naming m.ValidatorNaming) Classifier {
	return &classifier{naming: naming}
}

// Classify returns the required validator set for t. Types outside the
// supported catalog yield an empty set: their own constructors are
// responsible for validating them.
func (c *classifier) Classify(t m.TypeExpr) m.ValidatorSet {
	switch t.Kind {
	case m.TypeName:
		return c.set(c.suffixForName(t.Name))
	case m.TypeGeneric:
		return c.set(c.suffixForGeneric(t))
	case m.TypeUnion:
		required := make(m.ValidatorSet)

		for _, member := range t.Args {
			if member.Kind == m.TypeNone {
				continue
			}

			required = required.Union(c.Classify(member))
		}

		return required
	default:
		return m.ValidatorSet{}
	}
}

// suffixForName checks bool ahead of int so a boolean never demands the integer validator.
func (c *classifier) suffixForName(name string) string {
	switch name {
	case "bool":
		return m.SuffixBool
	case "int":
		return m.SuffixInt
	case "float":
		return m.SuffixFloat
	case "str":
		return m.SuffixString
	case "bytes":
		return m.SuffixBytes
	case "list":
		return m.SuffixList
	case "dict":
		return m.SuffixDict
	case "tuple":
		return m.SuffixTuple
	default:
		return ""
	}
}

// suffixForGeneric only looks one level deep: list[list[int]] is a plain list.
func (c *classifier) suffixForGeneric(t m.TypeExpr) string {
	switch t.Name {
	case "list":
		if len(t.Args) == 0 || t.Args[0].Kind != m.TypeName {
			return m.SuffixList
		}

		switch t.Args[0].Name {
		case "int", "float":
			return m.SuffixNumericList
		case "str":
			return m.SuffixStringList
		default:
			return m.SuffixList
		}
	case "dict":
		return m.SuffixDict
	case "tuple":
		return m.SuffixTuple
	default:
		return ""
	}
}

func (c *classifier) set(suffix string) m.ValidatorSet {
	if suffix == "" {
		return m.ValidatorSet{}
	}

	return m.NewValidatorSet(c.naming.Identifier(suffix))
}
