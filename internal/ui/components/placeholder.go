package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
)

// ReportPlaceholder renders what a report tab shows while it has no report
// to draw. It returns false when the report should be rendered instead.
func ReportPlaceholder(report *analytics.Report, err error, loading bool, s LoadingSpinner, width, height int) (string, bool) {
	switch {
	case report == nil && loading:
		return RenderSpinnerCentered(s, width, height), true
	case err != nil:
		return styles.CenterBoth(RenderErrorCard("Report unavailable", err, width-8), width, height), true
	case report == nil:
		return styles.CenterBoth(RenderEmpty("No artist selected", "Pick an artist on the Artists tab (1)."), width, height), true
	}
	return "", false
}

// RenderErrorCard renders err under title in a red-bordered card.
func RenderErrorCard(title string, err error, width int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.ErrorTextStyle.Bold(true).Render("✗ "+title),
		styles.HelpStyle.Render(err.Error()),
	)
	return styles.CardStyle.
		BorderForeground(styles.Error).
		Width(max(min(width, 80), 30)).
		Render(body)
}

// RenderEmpty renders a muted two-line empty state.
func RenderEmpty(title, hint string) string {
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", icon, styles.HelpStyle.Render(title)),
		styles.InfoTextStyle.Render("  ╰─▶ "+hint),
	)
}

// RenderMetricError renders the inline state of a metric that could not be
// computed for the current filter.
func RenderMetricError(metric string, err error) string {
	return styles.WarningTextStyle.Render(fmt.Sprintf("⚠ %s: %v", metric, err))
}
