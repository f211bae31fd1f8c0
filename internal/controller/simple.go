package controller

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

// SimpleUI implements UI using plain tables on the command output.
type SimpleUI struct {
	cmd  *cobra.Command
	pass *color.Color
	fail *color.Color
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{
		cmd:  cmd,
		pass: color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
}

// DisplayResults prints one row per callable and a summary footer.
func (s *SimpleUI) DisplayResults(results []m.FileResult) error {
	if len(results) == 0 {
		s.printf("No Python source files found\n")
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "File", "Callable", "Line", "Detail"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, row := range verdicts(results) {
		line := "-"
		if row.line > 0 {
			line = fmt.Sprintf("%d", row.line)
		}

		table.Append([]string{s.status(row.passed), row.unit, row.callable, line, row.detail})
	}

	sum := summarize(results)
	table.SetFooter([]string{
		"",
		fmt.Sprintf("Files %d (%d failed)", sum.units, sum.failedUnits),
		fmt.Sprintf("Callables %d (%d failed)", sum.callables, sum.failedCallables),
		"",
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayRequirements prints the required validators of every annotated parameter.
func (s *SimpleUI) DisplayRequirements(units []m.UnitRequirements) error {
	if len(units) == 0 {
		s.printf("No Python source files found\n")
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Callable", "Line", "Parameter", "Required"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	callables := 0

	for _, unit := range units {
		if unit.Err != nil {
			table.Append([]string{string(unit.Path), "-", "-", "-", s.fail.Sprint(unit.Err.Error())})
			continue
		}

		for _, callable := range unit.Callables {
			callables++

			params := make([]string, 0, len(callable.Required))
			for param := range callable.Required {
				params = append(params, param)
			}

			sort.Strings(params)

			if len(params) == 0 {
				table.Append([]string{string(unit.Path), callable.Record.QualifiedName, fmt.Sprintf("%d", callable.Record.Line), "-", "-"})
				continue
			}

			for _, param := range params {
				table.Append([]string{
					string(unit.Path),
					callable.Record.QualifiedName,
					fmt.Sprintf("%d", callable.Record.Line),
					param,
					strings.Join(callable.Required[param], ", "),
				})
			}
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(units)), fmt.Sprintf("Callables %d", callables), "", "", ""})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

func (s *SimpleUI) status(passed bool) string {
	if passed {
		return s.pass.Sprint("PASS")
	}

	return s.fail.Sprint("FAIL")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
