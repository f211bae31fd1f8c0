package controller

import (
	"fmt"
	"io"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/f2fguard/internal/model"
)

// pageThreshold is the number of rows printed directly before switching to
// the interactive list.
const pageThreshold = 30

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	// run starts the interactive program; replaced in tests.
	run func(model tea.Model) error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	t := &TUI{output: output}
	t.run = func(model tea.Model) error {
		_, err := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen()).Run()
		return err
	}

	return t
}

// DisplayResults prints the verdicts, paging through a list when they do not fit.
func (t *TUI) DisplayResults(results []m.FileResult) error {
	rows := verdicts(results)
	sum := summarize(results)

	if len(rows) > pageThreshold {
		return t.run(newResultsModel(rows, sum))
	}

	var b strings.Builder

	for _, row := range rows {
		b.WriteString(renderVerdict(row))
		b.WriteString("\n")
	}

	b.WriteString(renderSummary(sum))
	b.WriteString("\n")

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayRequirements prints each callable followed by its parameter requirements.
func (t *TUI) DisplayRequirements(units []m.UnitRequirements) error {
	var b strings.Builder

	for _, unit := range units {
		b.WriteString(pathStyle.Render(string(unit.Path)))
		b.WriteString("\n")

		if unit.Err != nil {
			b.WriteString("  " + failStyle.Render(unit.Err.Error()) + "\n")
			continue
		}

		for _, callable := range unit.Callables {
			fmt.Fprintf(&b, "  %s %s\n", callable.Record.QualifiedName, dimStyle.Render(fmt.Sprintf(":%d", callable.Record.Line)))

			params := make([]string, 0, len(callable.Required))
			for param := range callable.Required {
				params = append(params, param)
			}

			sort.Strings(params)

			for _, param := range params {
				fmt.Fprintf(&b, "    %s → %s\n", param, accentStyle.Render(strings.Join(callable.Required[param], ", ")))
			}
		}
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

func renderVerdict(row verdict) string {
	status := passStyle.Render("PASS")
	if !row.passed {
		status = failStyle.Render("FAIL")
	}

	location := row.unit
	if row.line > 0 {
		location = fmt.Sprintf("%s:%d", row.unit, row.line)
	}

	line := fmt.Sprintf("%s %s %s", status, row.callable, dimStyle.Render(location))
	if row.detail != "" {
		line += "\n     " + row.detail
	}

	return line
}

func renderSummary(sum summary) string {
	return fmt.Sprintf("Files: %s (%s failed)   Callables: %s (%s failed)",
		accentStyle.Render(fmt.Sprintf("%d", sum.units)),
		failStyle.Render(fmt.Sprintf("%d", sum.failedUnits)),
		accentStyle.Render(fmt.Sprintf("%d", sum.callables)),
		failStyle.Render(fmt.Sprintf("%d", sum.failedCallables)),
	)
}
