package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

func testArtist(t *testing.T) *models.Artist {
	t.Helper()
	return &models.Artist{
		Profile: models.ArtistProfile{ID: "taylor_swift", Name: "Taylor Swift", Color: "#A52A2A"},
		Table:   fixture(t, 1200),
	}
}

func TestBuildReport(t *testing.T) {
	artist := testArtist(t)
	f := models.DefaultFilter(artist.Table)

	r, err := BuildReport(context.Background(), artist, f, Options{Workers: 4})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}
	if r.Records != artist.Table.Len() {
		t.Errorf("Records = %d, want %d", r.Records, artist.Table.Len())
	}
	if len(r.Errors) != 0 {
		t.Errorf("Errors = %v, want none", r.Errors)
	}

	named := r.Named()
	for _, name := range []string{
		MetricTimeSeries, MetricTrackSummary, MetricRegionSummary, MetricGrowthMomentum,
		MetricFunnel, MetricEfficiencyMatrix, MetricROIRanking, MetricBestCampaign, MetricEngagement,
	} {
		if _, ok := named[name]; !ok {
			t.Errorf("Named() missing %q", name)
		}
	}

	if r.Engagement.TotalStreams != artist.Table.TotalStreams() {
		t.Errorf("TotalStreams = %d, want %d", r.Engagement.TotalStreams, artist.Table.TotalStreams())
	}
	if !strings.Contains(r.Insight(), r.Best.CampaignType) {
		t.Errorf("Insight() = %q, want mention of %q", r.Insight(), r.Best.CampaignType)
	}
}

func TestBuildReport_InvalidRange(t *testing.T) {
	artist := testArtist(t)
	f := models.DefaultFilter(artist.Table)
	f.From, f.To = f.To, f.From

	_, err := BuildReport(context.Background(), artist, f, Options{})
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("BuildReport() error = %v, want InvalidRangeError", err)
	}
}

func TestBuildReport_EmptySelection(t *testing.T) {
	artist := testArtist(t)
	f := models.DefaultFilter(artist.Table)
	f.Regions = nil

	r, err := BuildReport(context.Background(), artist, f, Options{Workers: 2})
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	tests := []struct {
		metric string
		check  func(error) bool
	}{
		{MetricEngagement, func(err error) bool { var e *EmptyGroupError; return errors.As(err, &e) }},
		{MetricGrowthMomentum, func(err error) bool { var e *EmptyInputError; return errors.As(err, &e) }},
		{MetricROIRanking, func(err error) bool { var e *EmptyInputError; return errors.As(err, &e) }},
		{MetricBestCampaign, func(err error) bool { var e *EmptyInputError; return errors.As(err, &e) }},
	}
	named := r.Named()
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			if !tt.check(r.Err(tt.metric)) {
				t.Errorf("Err(%q) = %v", tt.metric, r.Err(tt.metric))
			}
			if _, ok := named[tt.metric]; ok {
				t.Errorf("Named() includes failed metric %q", tt.metric)
			}
		})
	}
	if r.Insight() != "" {
		t.Errorf("Insight() = %q, want empty", r.Insight())
	}
}

func TestBuildReport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	artist := testArtist(t)
	r, err := BuildReport(ctx, artist, models.DefaultFilter(artist.Table), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("BuildReport() error = %v, want context.Canceled", err)
	}
	if r != nil {
		t.Error("cancelled run returned a report")
	}
}

func TestReport_MarshalJSON(t *testing.T) {
	artist := testArtist(t)
	f := models.DefaultFilter(artist.Table)
	f.Regions = []string{"USA"}
	r, err := BuildReport(context.Background(), artist, f, Options{})
	if err != nil {
		t.Fatal(err)
	}
	r.Errors[MetricGrowthMomentum] = &EmptyInputError{Metric: MetricGrowthMomentum}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"artist", "time_series", "track_summary", "roi_ranking", "best_campaign", "errors"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("encoded report missing %q", key)
		}
	}
	if !strings.Contains(string(decoded["errors"]), "no input groups") {
		t.Errorf("errors = %s", decoded["errors"])
	}
}

func TestGrowthPoint_MarshalJSONInfinite(t *testing.T) {
	d := day(t, "2023-01-01")
	table := models.NewFactTable([]models.FactRecord{
		{Date: d, Region: "A", Streams: 0},
		{Date: d, Region: "B", Streams: 10},
	})
	growth, err := GrowthMomentum(All(table))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(growth)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"growth_rate":null`) {
		t.Errorf("Marshal() = %s, want null growth rate", data)
	}
}
