package impact

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
)

// View renders the impact tab.
func (m *Model) View() string {
	report, err := m.state.Report()
	if placeholder, ok := components.ReportPlaceholder(report, err, m.state.IsReportLoading(), m.spinner, m.width, m.height); ok {
		return placeholder
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Global Impact"),
		m.renderRegions(report),
		"",
		m.renderGrowth(report),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderRegions(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render("Streams by Region")

	values := make([]float64, len(r.Regions))
	labels := make([]string, len(r.Regions))
	for i, s := range r.Regions {
		values[i] = float64(s.Streams)
		labels[i] = s.Region
	}
	chart := components.RenderBarChart(values, labels, min(m.width-8, 100), func(v float64) string {
		return components.FormatCount(int64(v))
	}, styles.Streams)

	return lipgloss.JoinVertical(lipgloss.Left, header, chart)
}

func (m *Model) renderGrowth(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render(fmt.Sprintf("Growth Momentum (last %d days)", analytics.GrowthWindowDays))
	if r.Growth == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			components.RenderMetricError("Growth momentum", r.Err(analytics.MetricGrowthMomentum)))
	}

	rows := make([]table.Row, 0, len(r.Growth))
	for _, g := range r.Growth {
		growth := styles.GetGrowthStyle(g.GrowthRate).Render(FormatGrowth(g.GrowthRate))
		rows = append(rows, table.Row{g.Region, components.FormatCount(g.Streams), growth})
	}
	note := styles.HelpStyle.Render("Each region is compared with the region before it in alphabetical order.")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		components.RenderTable(table.Row{"Region", "Streams", "Growth"}, rows, 2, 3),
		note,
	)
}

// FormatGrowth renders a growth rate as a signed percentage. A rate against
// a zero-stream predecessor is infinite and renders as "n/a".
func FormatGrowth(rate float64) string {
	if math.IsInf(rate, 0) || math.IsNaN(rate) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", rate*100)
}
