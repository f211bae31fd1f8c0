package model

import "sort"

// Validator name suffixes understood by the classifier. A full validator
// identifier is the configured prefix followed by one of these.
const (
	SuffixBool        = "Bool"
	SuffixInt         = "Int"
	SuffixFloat       = "Float"
	SuffixString      = "String"
	SuffixBytes       = "Bytes"
	SuffixNumericList = "Numeric_List"
	SuffixStringList  = "String_List"
	SuffixList        = "List"
	SuffixDict        = "Dict"
	SuffixTuple       = "Tuple"
)

// ValidatorNaming locates validator calls in analyzed source:
// <Namespace>.<Prefix><Suffix>(param) or <Namespace>.<Prefix><Suffix>(<TargetKeyword>=param).
type ValidatorNaming struct {
	Namespace     string `yaml:"namespace"`
	Prefix        string `yaml:"prefix"`
	TargetKeyword string `yaml:"target_keyword"`
}

// DefaultValidatorNaming matches the F2F validator library.
func DefaultValidatorNaming() ValidatorNaming {
	return ValidatorNaming{
		Namespace:     "F2F",
		Prefix:        "validate_",
		TargetKeyword: "target",
	}
}

// Identifier returns the validator identifier for a suffix.
func (n ValidatorNaming) Identifier(suffix string) string {
	return n.Prefix + suffix
}

// ValidatorSet is an unordered set of validator identifiers.
type ValidatorSet map[string]struct{}

// NewValidatorSet builds a set from identifiers.
func NewValidatorSet(ids ...string) ValidatorSet {
	s := make(ValidatorSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Add inserts an identifier.
func (s ValidatorSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports membership.
func (s ValidatorSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set holding the members of both sets.
func (s ValidatorSet) Union(other ValidatorSet) ValidatorSet {
	out := make(ValidatorSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}

	for id := range other {
		out[id] = struct{}{}
	}

	return out
}

// Minus returns the members of s that are not in other.
func (s ValidatorSet) Minus(other ValidatorSet) ValidatorSet {
	out := make(ValidatorSet)

	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}

	return out
}

// Sorted returns the identifiers in lexical order.
func (s ValidatorSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// RequiredValidatorSet maps a parameter name to the validators its declared type demands.
type RequiredValidatorSet map[string]ValidatorSet

// ActualValidatorSet maps a parameter name to the validators invoked on it.
type ActualValidatorSet map[string]ValidatorSet

// Record adds a (parameter, validator) pair.
func (a ActualValidatorSet) Record(param, validator string) {
	set, ok := a[param]
	if !ok {
		set = make(ValidatorSet)
		a[param] = set
	}

	set.Add(validator)
}
