package synth

import (
	"context"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/loader"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Days = 20
	return opts
}

func TestGenerate_Shape(t *testing.T) {
	spec := DefaultArtists[0]
	table := Generate(spec, smallOptions())

	if got, want := table.Len(), 20*len(Regions); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	first, last, _ := table.DateBounds()
	if !first.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first date = %v", first)
	}
	if !last.Equal(time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last date = %v", last)
	}
	if got := table.Regions(); len(got) != len(Regions) {
		t.Errorf("Regions() = %v", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	spec := DefaultArtists[2]
	a := Generate(spec, smallOptions())
	b := Generate(spec, smallOptions())
	for i := 0; i < a.Len(); i++ {
		if a.Record(i) != b.Record(i) {
			t.Fatalf("record %d differs between runs", i)
		}
	}

	other := smallOptions()
	other.Seed = 7
	c := Generate(spec, other)
	if slices.Equal(a.Streams, c.Streams) {
		t.Error("different seeds produced identical streams")
	}
}

func TestGenerate_Invariants(t *testing.T) {
	cpa := map[string]float64{}
	for _, c := range Campaigns {
		cpa[c.Name] = c.CostPerAcquisition
	}

	for _, spec := range DefaultArtists {
		t.Run(spec.ID, func(t *testing.T) {
			table := Generate(spec, smallOptions())
			for i := 0; i < table.Len(); i++ {
				r := table.Record(i)
				if r.SkipRate < 0.15 || r.SkipRate > 0.45 {
					t.Fatalf("skip rate %v out of range", r.SkipRate)
				}
				if r.PremiumConversions > r.Streams || r.Likes > r.Streams || r.Shares > r.Streams {
					t.Fatalf("record %d exceeds streams: %+v", i, r)
				}
				if r.PlaylistReach < r.Streams {
					t.Fatalf("reach %d below streams %d", r.PlaylistReach, r.Streams)
				}
				if !slices.Contains(spec.Songs, r.Track) {
					t.Fatalf("unknown track %q", r.Track)
				}
				if r.CostPerAcquisition != cpa[r.CampaignType] {
					t.Fatalf("CPA %v for %s", r.CostPerAcquisition, r.CampaignType)
				}

				wantRevenue := float64(r.Streams)*0.003 + float64(r.PremiumConversions)*5
				if math.Abs(r.Revenue-wantRevenue) > 1e-9 {
					t.Fatalf("revenue %v, want %v", r.Revenue, wantRevenue)
				}
				spend := float64(r.PremiumConversions) * r.CostPerAcquisition
				wantROI := 0.0
				if spend > 0 {
					wantROI = math.Round((r.Revenue-spend)/spend*100) / 100
				}
				if r.ROI != wantROI {
					t.Fatalf("ROI %v, want %v", r.ROI, wantROI)
				}
			}
		})
	}
}

func TestGenerateAll(t *testing.T) {
	reg := loader.NewRegistry()
	artists := GenerateAll(DefaultArtists, reg, smallOptions())
	if len(artists) != len(DefaultArtists) {
		t.Fatalf("GenerateAll() returned %d artists", len(artists))
	}
	if artists[1].Profile.Name != "The Weeknd" || artists[1].Profile.Color != "#800080" {
		t.Errorf("profile = %+v", artists[1].Profile)
	}
}

func TestWriteDir(t *testing.T) {
	reg := loader.NewRegistry()
	artists := GenerateAll(DefaultArtists[:2], reg, smallOptions())

	for _, format := range []string{loader.ExtCSV, loader.ExtXLSX} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			paths, err := WriteDir(dir, format, artists, reg)
			if err != nil {
				t.Fatalf("WriteDir() error = %v", err)
			}
			if len(paths) != 3 {
				t.Errorf("WriteDir() wrote %d files, want 3", len(paths))
			}

			loaded, err := loader.LoadDir(context.Background(), dir, reg, 2)
			if err != nil {
				t.Fatalf("LoadDir() error = %v", err)
			}
			if len(loaded) != 2 {
				t.Fatalf("LoadDir() returned %d artists", len(loaded))
			}
			// files load in name order: taylor_swift, the_weeknd
			for i, a := range loaded {
				if a.Table.TotalStreams() != artists[i].Table.TotalStreams() {
					t.Errorf("%s: total streams %d, want %d", a.Profile.ID, a.Table.TotalStreams(), artists[i].Table.TotalStreams())
				}
			}
		})
	}

	if _, err := WriteDir(t.TempDir(), ".json", artists, reg); err == nil {
		t.Error("WriteDir() expected error for unsupported format")
	}
}
