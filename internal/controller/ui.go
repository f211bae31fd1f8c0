// Package controller renders analysis results for the f2fguard CLI.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

// UI defines how results reach the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayResults shows coverage verdicts, one entry per analyzed unit.
	DisplayResults(results []m.FileResult) error
	// DisplayRequirements shows the validators each callable must apply.
	DisplayRequirements(units []m.UnitRequirements) error
}

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// verdict is one display row shared by the plain and interactive UIs.
type verdict struct {
	passed   bool
	unit     string
	callable string
	line     int
	detail   string
}

// verdicts flattens results into rows: one per callable, or one per unit
// when the unit itself failed.
func verdicts(results []m.FileResult) []verdict {
	var rows []verdict

	for _, result := range results {
		unit := string(result.Source.Path)

		if result.Err != nil || result.Failure != "" {
			rows = append(rows, verdict{unit: unit, callable: "-", detail: failureText(result.Err, result.Failure)})
			continue
		}

		for _, fn := range result.Functions {
			rows = append(rows, verdict{
				passed:   fn.Passed(),
				unit:     unit,
				callable: fn.Record.QualifiedName,
				line:     fn.Record.Line,
				detail:   failureText(fn.Err, fn.Failure),
			})
		}
	}

	return rows
}

func failureText(err error, failure string) string {
	if err != nil {
		return err.Error()
	}

	return failure
}

// summary counts units and callables for the footer of both UIs.
type summary struct {
	units, failedUnits, callables, failedCallables int
}

func summarize(results []m.FileResult) summary {
	var s summary

	for _, result := range results {
		s.units++
		s.callables += len(result.Functions)
		s.failedCallables += result.FailedFunctions()

		if !result.Passed() {
			s.failedUnits++
		}
	}

	return s
}
