package model

// ParameterReport is the coverage verdict for one parameter.
type ParameterReport struct {
	Parameter  string   `yaml:"parameter"`
	Annotation string   `yaml:"annotation,omitempty"`
	Required   []string `yaml:"required,omitempty"`
	Actual     []string `yaml:"actual,omitempty"`
	Missing    []string `yaml:"missing,omitempty"`
	Extra      []string `yaml:"extra,omitempty"`
}

// Covered reports whether the parameter has neither missing nor extra validators.
func (r ParameterReport) Covered() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// FunctionReport is the verdict for one callable. Err holds the first defect
// found; Failure is its persisted message.
type FunctionReport struct {
	Record     FunctionRecord    `yaml:"record"`
	Parameters []ParameterReport `yaml:"parameters,omitempty"`
	Err        error             `yaml:"-"`
	Failure    string            `yaml:"failure,omitempty"`
}

// Passed reports whether the callable is fully covered.
func (r FunctionReport) Passed() bool {
	return r.Err == nil && r.Failure == ""
}

// FileResult holds the verdicts for every callable of one unit.
type FileResult struct {
	Source    File             `yaml:"source"`
	Functions []FunctionReport `yaml:"functions,omitempty"`
	Err       error            `yaml:"-"`
	Failure   string           `yaml:"failure,omitempty"` // unit-level failure (load, unsupported input)
}

// Passed reports whether the unit loaded and every callable passed.
func (r FileResult) Passed() bool {
	if r.Err != nil || r.Failure != "" {
		return false
	}

	for _, fn := range r.Functions {
		if !fn.Passed() {
			return false
		}
	}

	return true
}

// FirstError returns the unit-level error, or the error of the first failing
// callable, or nil.
func (r FileResult) FirstError() error {
	if r.Err != nil {
		return r.Err
	}

	for _, fn := range r.Functions {
		if fn.Err != nil {
			return fn.Err
		}
	}

	return nil
}

// FailedFunctions counts callables with a defect.
func (r FileResult) FailedFunctions() int {
	count := 0

	for _, fn := range r.Functions {
		if !fn.Passed() {
			count++
		}
	}

	return count
}

// CallableRequirement lists the validators each parameter of a callable demands.
type CallableRequirement struct {
	Record   FunctionRecord      `yaml:"record"`
	Required map[string][]string `yaml:"required,omitempty"` // parameter -> sorted identifiers
}

// UnitRequirements is the listing of one unit's callables.
type UnitRequirements struct {
	Path      Path
	Callables []CallableRequirement
	Err       error
}
