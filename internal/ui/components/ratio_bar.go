package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/zai-dashboard-tui/internal/ui/styles"
)

const labelWidth = 18

// RatioBar renders a labelled progress bar for a ratio in [0,1], such as a
// skip rate or a premium conversion rate.
type RatioBar struct {
	progress       progress.Model
	higherIsBetter bool
}

// NewRatioBar creates a ratio bar. The gradient runs from red to green, or
// the other way round when higherIsBetter is false.
func NewRatioBar(higherIsBetter bool) RatioBar {
	from, to := "#ff6b6b", "#51cf66"
	if !higherIsBetter {
		from, to = to, from
	}
	p := progress.New(
		progress.WithScaledGradient(from, to),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return RatioBar{progress: p, higherIsBetter: higherIsBetter}
}

// View renders the bar with label and percentage.
func (r RatioBar) View(ratio float64, label string, width int) string {
	ratio = clampRatio(ratio)
	r.progress.Width = max(width-labelWidth-8, 10)

	percentStr := styles.GetRateStyle(ratio, r.higherIsBetter).
		Width(7).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", ratio*100))

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		styles.ProgressLabelStyle.Width(labelWidth).Render(label),
		r.progress.ViewAs(ratio),
		" ",
		percentStr,
	)
}

// ViewCompact renders the bar and percentage without a label.
func (r RatioBar) ViewCompact(ratio float64, width int) string {
	ratio = clampRatio(ratio)
	r.progress.Width = max(width-8, 5)

	percentStr := styles.GetRateStyle(ratio, r.higherIsBetter).Render(fmt.Sprintf("%.0f%%", ratio*100))
	return lipgloss.JoinHorizontal(lipgloss.Center, r.progress.ViewAs(ratio), " ", percentStr)
}

// RenderGradientBar renders a plain gradient bar, for places where a
// progress model per row would be wasteful.
func RenderGradientBar(ratio float64, width int, fromHex, toHex string) string {
	if width < 1 {
		return ""
	}
	filled := int(float64(width) * clampRatio(ratio))

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(interpolateColor(fromHex, toHex, t))).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

func clampRatio(r float64) float64 {
	return min(max(r, 0), 1)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*float64(to[0]-from[0]))
	g := int(float64(from[1]) + t*float64(to[1]-from[1]))
	b := int(float64(from[2]) + t*float64(to[2]-from[2]))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return [3]int{0, 0, 0}
	}
	var rgb [3]int
	_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &rgb[0], &rgb[1], &rgb[2])
	return rgb
}
