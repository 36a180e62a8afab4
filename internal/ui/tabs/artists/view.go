package artists

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/zai-dashboard-tui/internal/config"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/zai-dashboard-tui/internal/version"
)

// View renders the artists tab.
func (m *Model) View() string {
	if m.state.IsCatalogLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderRanking(),
		m.renderSessionCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Zai Artist Intelligence")
	subtitle := styles.HelpStyle.Render("Artists ranked by total streams. Press enter to open a dashboard.")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderRanking() string {
	summaries := m.state.Summaries()
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Artists")), ""}

	if len(summaries) == 0 {
		rows = append(rows, components.RenderEmpty("No artist data found", "Run `zai generate` to create sample data."))
		return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	top := max(summaries[0].TotalStreams, 1)
	selected := m.state.SelectedID()
	barWidth := max(cardWidth-72, 10)

	for i, s := range summaries {
		rows = append(rows, m.renderRow(i, s, top, barWidth, s.Profile.ID == selected))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRow(i int, s models.ArtistSummary, top int64, barWidth int, active bool) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Profile.Color)).Width(20)
	if i == m.cursor {
		cursor = styles.SelectedListItemStyle.Render("▶ ")
		nameStyle = nameStyle.Bold(true)
	}

	marker := " "
	if active {
		marker = styles.SuccessTextStyle.Render("●")
	}

	rank := styles.HelpStyle.Width(4).Render("#" + strconv.Itoa(i+1))
	streams := styles.KPIValueStyle.Width(9).Align(lipgloss.Right).Render(components.FormatCount(s.TotalStreams))
	bar := components.RenderGradientBar(float64(s.TotalStreams)/float64(top), barWidth, "#7D56F4", s.Profile.Color)
	records := styles.HelpStyle.Render(fmt.Sprintf("%d records", s.Records))

	return fmt.Sprintf("%s%s %s %s %s %s  %s", cursor, marker, rank, nameStyle.Render(s.Profile.Name), streams, bar, records)
}

// renderSessionCard shows where the catalog came from.
func (m *Model) renderSessionCard() string {
	cardWidth := min(max(m.width-6, 40), 80)

	rows := []string{styles.CardTitleStyle.Render("Session"), ""}
	if m.config != nil {
		source := m.config.DataDir
		if m.config.DataSource == config.SourceSQLite {
			source = m.config.DatabasePath
		}
		rows = append(rows, renderConfigRow("Data source", m.config.DataSource))
		rows = append(rows, renderConfigRow("Location", source))
		rows = append(rows, renderConfigRow("Workers", strconv.Itoa(m.config.AggregationWorkers)))
		rows = append(rows, renderConfigRow("Watching", strconv.FormatBool(m.config.WatchData && m.config.DataSource != config.SourceSQLite)))
	}
	rows = append(rows, renderConfigRow("Artists", strconv.Itoa(m.state.ArtistCount())))
	rows = append(rows, renderConfigRow("Version", version.GetVersion()))

	return styles.CardStyle.Width(cardWidth).MarginTop(1).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().Width(14).Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
