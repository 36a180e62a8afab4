package engagement

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
)

// View renders the engagement tab.
func (m *Model) View() string {
	report, err := m.state.Report()
	if placeholder, ok := components.ReportPlaceholder(report, err, m.state.IsReportLoading(), m.spinner, m.width, m.height); ok {
		return placeholder
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(report),
		m.renderKPIs(report),
		"",
		m.renderTrend(report),
		"",
		m.renderTracks(report),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(r *analytics.Report) string {
	name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.Artist.Color)).Render(r.Artist.Name)
	title := styles.TitleStyle.Render("Engagement") + "  " + name
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d records · %s to %s",
		r.Records, r.Filter.From.Format(time.DateOnly), r.Filter.To.Format(time.DateOnly)))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderKPIs(r *analytics.Report) string {
	if r.Engagement == nil {
		return components.RenderMetricError("Engagement", r.Err(analytics.MetricEngagement))
	}
	e := r.Engagement

	cards := []string{
		kpiCard("Total Streams", components.FormatCount(e.TotalStreams)),
		kpiCard("Avg Skip Rate", styles.GetRateStyle(e.MeanSkipRate, false).Render(fmt.Sprintf("%.1f%%", e.MeanSkipRate*100))),
		kpiCard("Playlist Reach", components.FormatCount(e.PlaylistReach)),
		kpiCard("Likes", components.FormatCount(e.Likes)),
		kpiCard("Shares", components.FormatCount(e.Shares)),
		kpiCard("Revenue", fmt.Sprintf("$%s", components.FormatCount(int64(e.Revenue)))),
	}

	// Wrap onto a second row on narrow terminals.
	perRow := max((m.width-6)/18, 1)
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:min(i+perRow, len(cards))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func kpiCard(label, value string) string {
	return styles.CardStyle.Width(16).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(label),
		styles.KPIValueStyle.Render(value),
	))
}

func (m *Model) renderTrend(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render("Stream Trend")
	if len(r.TimeSeries) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(components.NoData))
	}

	data := make([]float64, len(r.TimeSeries))
	for i, p := range r.TimeSeries {
		data[i] = float64(p.Streams)
	}
	first, last := r.TimeSeries[0].Date, r.TimeSeries[len(r.TimeSeries)-1].Date
	caption := fmt.Sprintf("Daily streams, %s to %s", first.Format(time.DateOnly), last.Format(time.DateOnly))

	chart := components.RenderLineChart(data, max(m.width-24, 20), 8, caption)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart)
}

// renderTracks renders the hitmaker matrix: streams against skip rate per
// track, with the skip rate of the track under the cursor.
func (m *Model) renderTracks(r *analytics.Report) string {
	header := styles.SubTitleStyle.Render("Track Performance")
	if r.Tracks == nil || len(r.Tracks.Ranked) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(components.NoData))
	}

	shown := r.Tracks.Ranked[:min(len(r.Tracks.Ranked), maxTrackRows)]
	rows := make([]table.Row, 0, len(shown))
	for i, t := range shown {
		marker := ""
		if i == m.track {
			marker = "▶"
		}
		rows = append(rows, table.Row{
			marker,
			i + 1,
			t.Track,
			components.FormatCount(t.Streams),
			fmt.Sprintf("%.1f%%", t.MeanSkipRate*100),
			t.Records,
		})
	}
	tbl := components.RenderTable(table.Row{"", "#", "Track", "Streams", "Skip Rate", "Records"}, rows, 2, 4, 5, 6)

	sections := []string{header, tbl}
	if m.track < len(shown) {
		name := shown[m.track].Track
		if rate, err := r.Tracks.SkipRate(name); err != nil {
			sections = append(sections, components.RenderMetricError(name, err))
		} else {
			sections = append(sections, "", m.skipBar.View(rate, name, min(m.width-8, 90)))
		}
	}
	if len(r.Tracks.Ranked) > len(shown) {
		sections = append(sections, styles.HelpStyle.Render(fmt.Sprintf("%d more tracks", len(r.Tracks.Ranked)-len(shown))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
