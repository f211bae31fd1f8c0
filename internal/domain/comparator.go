package domain

import (
	m "github.com/mouse-blink/f2fguard/internal/model"
)

// Comparator reconciles required and actual validator sets for one callable.
type Comparator interface {
	Compare(record m.FunctionRecord, required m.RequiredValidatorSet, actual m.ActualValidatorSet) ([]m.ParameterReport, error)
}

type comparator struct{}

// NewComparator creates a Comparator.
func NewComparator() Comparator {
	return &comparator{}
}

// Compare visits parameters in declaration order and returns a report for
// each checked one. The error is the first defect found, if any.
func (c *comparator) Compare(record m.FunctionRecord, required m.RequiredValidatorSet, actual m.ActualValidatorSet) ([]m.ParameterReport, error) {
	var (
		reports  []m.ParameterReport
		firstErr error
	)

	for _, param := range record.Parameters {
		if param.Exempt() {
			continue
		}

		if !param.Annotated() {
			reports = append(reports, m.ParameterReport{Parameter: param.Name})

			if firstErr == nil {
				firstErr = &MissingAnnotationError{Function: record.QualifiedName, Parameter: param.Name}
			}

			continue
		}

		want := required[param.Name]
		if len(want) == 0 {
			continue
		}

		got := actual[param.Name]
		report := m.ParameterReport{
			Parameter:  param.Name,
			Annotation: param.Annotation,
			Required:   want.Sorted(),
			Actual:     got.Sorted(),
			Missing:    want.Minus(got).Sorted(),
			Extra:      got.Minus(want).Sorted(),
		}
		reports = append(reports, report)

		if !report.Covered() && firstErr == nil {
			firstErr = &CoverageError{
				Function:  record.QualifiedName,
				Parameter: param.Name,
				Missing:   report.Missing,
				Extra:     report.Extra,
			}
		}
	}

	return reports, firstErr
}
