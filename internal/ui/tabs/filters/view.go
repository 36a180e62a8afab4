package filters

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
)

// View renders the filters tab.
func (m *Model) View() string {
	a := m.state.Selected()
	if a == nil {
		return styles.CenterBoth(components.RenderEmpty("No artist selected", "Pick an artist on the Artists tab (1)."), m.width, m.height)
	}

	f := m.Current()
	b := m.state.Bounds()

	name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(a.Profile.Color)).Render(a.Profile.Name)
	sections := []string{
		styles.TitleStyle.Render("Filters") + "  " + name,
		styles.HelpStyle.Render(fmt.Sprintf("Data available from %s to %s", b.First.Format(time.DateOnly), b.Last.Format(time.DateOnly))),
		"",
		m.renderRange(f),
		"",
		m.renderRegions(f, b.Regions),
		"",
		m.renderStatus(f),
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderRange(f models.Filter) string {
	days := styles.HelpStyle.Render(fmt.Sprintf("%d days", f.Days()))
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Date Range"),
		m.renderRow(rowFrom, "From", f.From.Format(time.DateOnly)),
		m.renderRow(rowTo, "To", f.To.Format(time.DateOnly)),
		days,
	))
}

func (m *Model) renderRow(row int, label, value string) string {
	cursor := "  "
	if m.cursor == row {
		cursor = styles.SelectedListItemStyle.Render("▶ ")
	}
	return cursor + lipgloss.NewStyle().Width(6).Foreground(styles.TextMuted).Render(label) + styles.KPIValueStyle.Render(value)
}

func (m *Model) renderRegions(f models.Filter, regions []string) string {
	rows := []string{styles.CardTitleStyle.Render(fmt.Sprintf("Regions (%d of %d)", len(f.Regions), len(regions)))}
	for i, r := range regions {
		box := "[ ]"
		if f.HasRegion(r) {
			box = styles.SuccessTextStyle.Render("[x]")
		}
		rows = append(rows, m.renderRow(rowRegions+i, "", box+" "+r))
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderStatus(f models.Filter) string {
	switch {
	case m.validation != "":
		return styles.ErrorTextStyle.Render("✗ " + m.validation)
	case f.From.After(f.To):
		return styles.WarningTextStyle.Render("⚠ From is after To")
	case len(f.Regions) == 0:
		return styles.WarningTextStyle.Render("⚠ No regions selected; every metric will be empty")
	case m.Dirty():
		return styles.InfoTextStyle.Render("Unapplied changes. Press enter to apply or r to reset.")
	}
	return styles.HelpStyle.Render("Filter applied.")
}
