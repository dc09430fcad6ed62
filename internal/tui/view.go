package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Rana718/roster/internal/datatable"
)

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#767676")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(accent).Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	stripedStyle = cellStyle.Foreground(lipgloss.Color("#B0B0B0"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(accent).Padding(0, 1)
	pageStyle    = lipgloss.NewStyle().Padding(0, 1)
	dimStyle     = lipgloss.NewStyle().Foreground(muted)
	loadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB86C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

func (m Model) View() string {
	v := m.table.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render("roster · " + m.table.Title()))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if v.Loading {
		b.WriteString(loadingStyle.Render("Loading..."))
		b.WriteString("\n")
	}
	if m.width < CardBreakpoint {
		b.WriteString(renderCards(v.ViewModel, m.width))
	} else {
		b.WriteString(renderGrid(v.ViewModel, m.width))
	}
	b.WriteString("\n")

	b.WriteString(renderPager(v.Window))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(v.Summary))
	b.WriteString("\n")

	status := "?" + m.table.Query()
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}
	b.WriteString(dimStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(helpLine(m.search.Focused())))
	return b.String()
}

func renderGrid(vm datatable.ViewModel, width int) string {
	if vm.Empty {
		return dimStyle.Render(vm.Placeholder) + "\n"
	}

	rows := make([][]string, len(vm.Grid))
	for i, r := range vm.Grid {
		rows[i] = make([]string, len(r.Cells))
		for j, c := range r.Cells {
			rows[i][j] = datatable.Text(c.Value)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(vm.Headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(vm.Grid) && vm.Grid[row].Striped:
				return stripedStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

func renderCards(vm datatable.ViewModel, width int) string {
	if vm.Empty {
		return dimStyle.Render(vm.Placeholder) + "\n"
	}

	style := cardStyle
	if width > 4 {
		style = style.Width(width - 2)
	}

	cards := make([]string, 0, len(vm.Cards))
	for _, card := range vm.Cards {
		lines := make([]string, 0, len(card.Fields)+1)
		for _, f := range card.Fields {
			lines = append(lines, labelStyle.Render(f.Header+":")+" "+datatable.Text(f.Value))
		}
		if card.Actions != nil {
			lines = append(lines, datatable.Text(card.Actions.Value))
		}
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderPager(w datatable.Window) string {
	if w.PageCount == 0 {
		return ""
	}

	parts := make([]string, 0, len(w.Items)+2)
	prev := "‹ Prev"
	if !w.HasPrevious {
		prev = dimStyle.Render(prev)
	}
	parts = append(parts, prev)

	for _, item := range w.Items {
		switch {
		case item.Kind == datatable.Ellipsis:
			parts = append(parts, dimStyle.Render("…"))
		case item.Current:
			parts = append(parts, currentStyle.Render(item.Label))
		default:
			parts = append(parts, pageStyle.Render(item.Label))
		}
	}

	next := "Next ›"
	if !w.HasNext {
		next = dimStyle.Render(next)
	}
	parts = append(parts, next)
	return strings.Join(parts, " ")
}

func helpLine(searching bool) string {
	if searching {
		return fmt.Sprintf("%s %s · %s %s", keys.Blur.Help().Key, keys.Blur.Help().Desc,
			keys.Submit.Help().Key, keys.Submit.Help().Desc)
	}
	bindings := []key.Binding{keys.Prev, keys.Next, keys.First, keys.Last, keys.Search, keys.Quit}
	parts := make([]string, 0, len(bindings)+1)
	for _, k := range bindings {
		parts = append(parts, k.Help().Key+" "+k.Help().Desc)
	}
	parts = append(parts, "1-9 jump")
	return strings.Join(parts, " · ")
}

// Snapshot renders a table without the search box and key help.
func Snapshot(v datatable.View, width int) string {
	var b strings.Builder
	if width > 0 && width < CardBreakpoint {
		b.WriteString(renderCards(v.ViewModel, width))
	} else {
		b.WriteString(renderGrid(v.ViewModel, width))
	}
	b.WriteString("\n")
	if pager := renderPager(v.Window); pager != "" {
		b.WriteString(pager)
		b.WriteString("  ")
	}
	b.WriteString(v.Summary)
	b.WriteString("\n")
	return b.String()
}
