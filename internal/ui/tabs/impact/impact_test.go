package impact

import (
	"math"
	"strings"
	"testing"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/app"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

func withReport(r *analytics.Report) *app.State {
	state := app.NewState()
	state.SetReport(state.BeginReport(), r, nil)
	return state
}

func TestFormatGrowth(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "+0.0%"},
		{0.5, "+50.0%"},
		{-0.4, "-40.0%"},
		{math.Inf(1), "n/a"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		if got := FormatGrowth(tt.rate); got != tt.want {
			t.Errorf("FormatGrowth(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestModel_View(t *testing.T) {
	state := withReport(&analytics.Report{
		Regions: []models.RegionStat{
			{Region: "Brazil", Streams: 100},
			{Region: "Japan", Streams: 0},
			{Region: "USA", Streams: 90},
		},
		Growth: []models.GrowthPoint{
			{Region: "Brazil", Streams: 100, GrowthRate: 0},
			{Region: "Japan", Streams: 0, GrowthRate: -1},
			{Region: "USA", Streams: 90, GrowthRate: math.Inf(1)},
		},
	})
	m := New(state)
	m.SetSize(120, 60)

	view := m.View()
	for _, want := range []string{"Global Impact", "Streams by Region", "Brazil", "Japan", "USA", "-100.0%", "n/a", "Growth Momentum (last 30 days)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}

func TestModel_ViewGrowthError(t *testing.T) {
	state := withReport(&analytics.Report{
		Errors: map[string]error{
			analytics.MetricGrowthMomentum: &analytics.EmptyInputError{Metric: analytics.MetricGrowthMomentum},
		},
	})
	m := New(state)
	m.SetSize(120, 40)

	view := m.View()
	if !strings.Contains(view, "growth_momentum: no input groups") {
		t.Errorf("View should show the growth error:\n%s", view)
	}
	if !strings.Contains(view, "No data available") {
		t.Error("empty region chart should say no data")
	}
}

func TestModel_ViewNoSelection(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)
	if !strings.Contains(m.View(), "No artist selected") {
		t.Error("View should ask for a selection")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState())
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
	if updated, _ := m.Update(app.ReportReadyMsg{}); updated == nil {
		t.Error("Update returned nil model")
	}
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings empty")
	}
}
