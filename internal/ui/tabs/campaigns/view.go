package campaigns

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
)

// View renders the campaigns tab.
func (m *Model) View() string {
	report, err := m.state.Report()
	if placeholder, ok := components.ReportPlaceholder(report, err, m.state.IsReportLoading(), m.spinner, m.width, m.height); ok {
		return placeholder
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Campaign ROI"),
		m.renderFunnel(report),
		"",
		m.renderEfficiency(report),
		"",
		m.renderROI(report),
		m.renderInsight(report),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderFunnel shows converted and non-converted streams per campaign.
func (m *Model) renderFunnel(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render("Conversion Funnel")
	if len(r.Funnel) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(components.NoData))
	}

	var top int64
	for _, s := range r.Funnel {
		top = max(top, s.Streams)
	}

	barWidth := max(min(m.width-60, 50), 10)
	rows := []string{header}
	for _, s := range r.Funnel {
		rows = append(rows, m.renderStage(s, top, barWidth))
	}
	rows = append(rows, components.RenderLegend([]components.LegendItem{
		{Label: "Premium conversions", Color: styles.Converted},
		{Label: "Not converted", Color: styles.Unconverted},
	}))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderStage(s models.FunnelStage, top int64, barWidth int) string {
	label := styles.ProgressLabelStyle.Width(18).Render(s.CampaignType)
	width := int(float64(s.Streams) / float64(max(top, 1)) * float64(barWidth))
	// Stacked against the stage's own streams; the bar length encodes volume.
	bar := components.RenderStackedBar(s.PremiumConversions, max(s.NonConverted, 0), s.Streams, width)

	conversion := 0.0
	if s.Streams > 0 {
		conversion = float64(s.PremiumConversions) / float64(s.Streams)
	}
	detail := styles.HelpStyle.Render(fmt.Sprintf("%s streams, %s converted (%.2f%%), %s not converted",
		components.FormatCount(s.Streams), components.FormatCount(s.PremiumConversions),
		conversion*100, components.FormatCount(s.NonConverted)))

	return label + lipgloss.NewStyle().Width(barWidth+1).Render(bar) + detail
}

func (m *Model) renderEfficiency(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render("Cost Efficiency")
	if len(r.Efficiency) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(components.NoData))
	}

	rows := make([]table.Row, 0, len(r.Efficiency))
	for _, p := range r.Efficiency {
		rows = append(rows, table.Row{p.CampaignType, fmt.Sprintf("$%.2f", p.MeanCPA), components.FormatCount(p.PremiumConversions)})
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		components.RenderTable(table.Row{"Campaign", "Mean CPA", "Premium Conversions"}, rows, 2, 3),
	)
}

func (m *Model) renderROI(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render("ROI by Campaign")
	if r.ROI == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			components.RenderMetricError("ROI ranking", r.Err(analytics.MetricROIRanking)))
	}

	values := make([]float64, len(r.ROI))
	labels := make([]string, len(r.ROI))
	for i, e := range r.ROI {
		values[i] = e.ROIPercent
		labels[i] = e.CampaignType
	}
	chart := components.RenderBarChart(values, labels, min(m.width-8, 100), func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	}, styles.Converted)

	return lipgloss.JoinVertical(lipgloss.Left, header, chart)
}

func (m *Model) renderInsight(r *analytics.Report) string {
	if r.Best == nil {
		return components.RenderMetricError("Best campaign", r.Err(analytics.MetricBestCampaign))
	}

	icon := styles.SuccessTextStyle.Render("💡")
	return styles.InsightCardStyle.Width(min(max(m.width-8, 40), 100)).Render(icon + " " + r.Insight())
}
