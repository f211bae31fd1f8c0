package model

// ParamKind mirrors the way Python binds an argument to a parameter.
type ParamKind string

const (
	// PositionalOnly parameters are declared before a "/" separator.
	PositionalOnly ParamKind = "positional_only"
	// PositionalOrKeyword is the default parameter kind.
	PositionalOrKeyword ParamKind = "positional_or_keyword"
	// KeywordOnly parameters are declared after "*" or "*args".
	KeywordOnly ParamKind = "keyword_only"
	// VarPositional is the "*args" collector.
	VarPositional ParamKind = "var_positional"
	// VarKeyword is the "**kwargs" collector.
	VarKeyword ParamKind = "var_keyword"
)

// Variadic reports whether the kind collects an arbitrary number of arguments.
func (k ParamKind) Variadic() bool {
	return k == VarPositional || k == VarKeyword
}

// ParameterAnnotation is one declared parameter of a callable.
type ParameterAnnotation struct {
	Name       string    `yaml:"name"`
	Kind       ParamKind `yaml:"kind"`
	Annotation string    `yaml:"annotation,omitempty"` // raw annotation source, empty when undeclared
	Type       *TypeExpr `yaml:"-"`
	Receiver   bool      `yaml:"receiver,omitempty"` // implicit "self" of a constructor
	Ignored    bool      `yaml:"ignored,omitempty"`  // named by an ignore directive
}

// Annotated reports whether the parameter carries a declared type.
func (p ParameterAnnotation) Annotated() bool {
	return p.Annotation != ""
}

// Exempt reports whether the parameter is excluded from annotation and
// coverage requirements.
func (p ParameterAnnotation) Exempt() bool {
	return p.Receiver || p.Ignored || p.Kind.Variadic()
}

// FunctionRecord describes a callable recovered from a parsed unit.
type FunctionRecord struct {
	Name          string                `yaml:"name"`
	QualifiedName string                `yaml:"qualified_name"`
	Path          Path                  `yaml:"path"`
	Line          int                   `yaml:"line"`
	Async         bool                  `yaml:"async,omitempty"`
	Ignored       bool                  `yaml:"ignored,omitempty"`
	Parameters    []ParameterAnnotation `yaml:"parameters"`
}

// DeclarationKind tags the variant held by a Declaration.
type DeclarationKind string

const (
	// DeclarationFunction is a module-level function definition.
	DeclarationFunction DeclarationKind = "function"
	// DeclarationClass is a module-level class definition.
	DeclarationClass DeclarationKind = "class"
)

// Declaration is a module-level definition found in a unit. Exactly one of
// Function or Class is meaningful, depending on Kind.
type Declaration struct {
	Kind     DeclarationKind
	Function *FunctionRecord

	Class       string
	Line        int
	Constructor *FunctionRecord // nil when the class declares no __init__
}

// Callable returns the record to analyze for this declaration, or nil when
// the declaration has nothing to check.
func (d Declaration) Callable() *FunctionRecord {
	if d.Kind == DeclarationClass {
		return d.Constructor
	}

	return d.Function
}
