package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// verdictDelegate renders one verdict per line.
type verdictDelegate struct{}

func (d verdictDelegate) Height() int  { return 1 }
func (d verdictDelegate) Spacing() int { return 0 }
func (d verdictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d verdictDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	v, ok := item.(verdictItem)
	if !ok {
		return
	}

	status := passStyle.Render("PASS")
	if !v.row.passed {
		status = failStyle.Render("FAIL")
	}

	text := fmt.Sprintf("%s:%d %s", v.row.unit, v.row.line, v.row.callable)
	if v.row.detail != "" {
		text += "  " + v.row.detail
	}

	width := m.Width() - 6 // status (4) + spacing (2)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	if index == m.Index() {
		style = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
	}

	_, _ = fmt.Fprintf(w, "%s  %s", status, style.Render(truncateToWidth(text, width)))
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// resultsModel pages through verdicts that do not fit on one screen.
type resultsModel struct {
	width   int
	height  int
	items   list.Model
	summary summary
}

func newResultsModel(rows []verdict, sum summary) resultsModel {
	items := make([]list.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, verdictItem{row: row})
	}

	verdictList := list.New(items, verdictDelegate{}, 80, 20)
	verdictList.SetShowPagination(false)
	verdictList.SetShowFilter(true)
	verdictList.SetShowHelp(false)
	verdictList.SetShowTitle(false)
	verdictList.SetShowStatusBar(false)
	verdictList.FilterInput.Placeholder = "Filter by file or callable…"

	return resultsModel{items: verdictList, summary: sum, width: 80, height: 24}
}

func (m resultsModel) Init() tea.Cmd {
	return nil
}

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.items.SetWidth(max(m.width-4, 10))
		m.items.SetHeight(max(m.height-6, 5))

		return m, nil

	case tea.KeyMsg:
		if m.items.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd

	m.items, cmd = m.items.Update(msg)

	return m, cmd
}

func (m resultsModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	container := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("f2fguard validation coverage"),
		lipgloss.NewStyle().Padding(0, 0, 1, 2).Render(renderSummary(m.summary)),
		container.Render(m.items.View()),
		footerStyle.Render("↑/k up • ↓/j down • / filter • q quit"),
	)
}
