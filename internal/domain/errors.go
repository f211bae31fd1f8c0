package domain

import (
	"errors"
	"fmt"
	"strings"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

// ErrorCode identifies the category of an analysis failure.
type ErrorCode int

const (
	// UnknownErrorCode is never produced by the analyzer itself.
	UnknownErrorCode ErrorCode = iota
	// LoadErrorCode marks an unreadable or unparsable unit.
	LoadErrorCode
	// LocateErrorCode marks a callable whose definition node was not found.
	LocateErrorCode
	// MissingAnnotationErrorCode marks a coverable parameter without a declared type.
	MissingAnnotationErrorCode
	// CoverageErrorCode marks missing or superfluous validator calls.
	CoverageErrorCode
	// UnsupportedInputErrorCode marks a path that is not an analyzable unit.
	UnsupportedInputErrorCode
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	switch c {
	case LoadErrorCode:
		return "LoadError"
	case LocateErrorCode:
		return "LocateError"
	case MissingAnnotationErrorCode:
		return "MissingAnnotationError"
	case CoverageErrorCode:
		return "CoverageError"
	case UnsupportedInputErrorCode:
		return "UnsupportedInputError"
	default:
		return "UnknownError"
	}
}

// ErrNotSourceFile is the reason a directory is rejected where one unit is expected.
var ErrNotSourceFile = errors.New("a directory, not a source file")

// ErrCheckFailed is returned by the workflow when at least one unit failed.
var ErrCheckFailed = errors.New("validation coverage check failed")

// AnalysisError is implemented by every failure the analyzer reports.
type AnalysisError interface {
	error
	Code() ErrorCode
}

// LoadError reports a unit that could not be read or parsed.
type LoadError struct {
	Path m.Path
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: cannot load %s: %v", e.Code(), e.Path, e.Err)
}

// Code implements AnalysisError.
func (e *LoadError) Code() ErrorCode { return LoadErrorCode }

func (e *LoadError) Unwrap() error { return e.Err }

// LocateError reports a callable with no matching definition node.
type LocateError struct {
	Path     m.Path
	Function string
	Line     int
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("%s: no definition of %q found in %s (line %d)", e.Code(), e.Function, e.Path, e.Line)
}

// Code implements AnalysisError.
func (e *LocateError) Code() ErrorCode { return LocateErrorCode }

// MissingAnnotationError reports a coverable parameter without a declared type.
type MissingAnnotationError struct {
	Function  string
	Parameter string
}

func (e *MissingAnnotationError) Error() string {
	return fmt.Sprintf("%s: %s: parameter %q has no type annotation", e.Code(), e.Function, e.Parameter)
}

// Code implements AnalysisError.
func (e *MissingAnnotationError) Code() ErrorCode { return MissingAnnotationErrorCode }

// CoverageError reports a parameter whose validator calls do not match its declared type.
type CoverageError struct {
	Function  string
	Parameter string
	Missing   []string
	Extra     []string
}

func (e *CoverageError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}

	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ", "))
	}

	return fmt.Sprintf("%s: %s: parameter %q: %s", e.Code(), e.Function, e.Parameter, strings.Join(parts, "; "))
}

// Code implements AnalysisError.
func (e *CoverageError) Code() ErrorCode { return CoverageErrorCode }

// UnsupportedInputError reports a path that is missing or not a Python unit.
type UnsupportedInputError struct {
	Path   m.Path
	Reason error
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code(), e.Path, e.Reason)
}

// Code implements AnalysisError.
func (e *UnsupportedInputError) Code() ErrorCode { return UnsupportedInputErrorCode }

func (e *UnsupportedInputError) Unwrap() error { return e.Reason }

// CodeOf returns the ErrorCode of err, or UnknownErrorCode when err is not an AnalysisError.
func CodeOf(err error) ErrorCode {
	var ae AnalysisError
	if errors.As(err, &ae) {
		return ae.Code()
	}

	return UnknownErrorCode
}
