// Package synth generates synthetic artist fact tables with realistic
// seasonality, regional spread and campaign economics.
package synth

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/loader"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Regions lists the markets every generated day covers.
var Regions = []string{"USA", "UK", "Canada", "Mexico", "Brazil", "Germany", "France", "Japan", "Australia", "India"}

// Campaign holds the conversion economics of one campaign type.
type Campaign struct {
	Name               string
	ConversionRate     float64
	CostPerAcquisition float64
}

// Campaigns lists the campaign types drawn for each record.
var Campaigns = []Campaign{
	{Name: "Spotify Wrapped Promo", ConversionRate: 0.018, CostPerAcquisition: 3.20},
	{Name: "TikTok Challenge", ConversionRate: 0.005, CostPerAcquisition: 12.50},
	{Name: "Radio Push", ConversionRate: 0.01, CostPerAcquisition: 8.00},
	{Name: "Playlist Feature", ConversionRate: 0.025, CostPerAcquisition: 4.50},
	{Name: "TV Commercial", ConversionRate: 0.01, CostPerAcquisition: 8.00},
}

// ArtistSpec describes the catalog and scale of a generated artist.
type ArtistSpec struct {
	ID          string
	Songs       []string
	PeakStreams float64
}

// DefaultArtists are the five built-in artists.
var DefaultArtists = []ArtistSpec{
	{ID: "taylor_swift", Songs: []string{"Cruel Summer", "Anti-Hero", "Blank Space", "Shake It Off", "Love Story", "Fortnight"}, PeakStreams: 15_000_000},
	{ID: "the_weeknd", Songs: []string{"Blinding Lights", "Starboy", "Save Your Tears", "Die For You", "The Hills"}, PeakStreams: 12_000_000},
	{ID: "drake", Songs: []string{"God's Plan", "One Dance", "Hotline Bling", "Started From The Bottom", "Toosie Slide"}, PeakStreams: 13_500_000},
	{ID: "bad_bunny", Songs: []string{"Tití Me Preguntó", "Me Porto Bonito", "Dakiti", "Yo Perreo Sola", "MIA"}, PeakStreams: 11_000_000},
	{ID: "dua_lipa", Songs: []string{"Levitating", "Don't Start Now", "New Rules", "Physical", "IDGAF"}, PeakStreams: 9_000_000},
}

const (
	adRevenuePerStream = 0.003
	subscriptionValue  = 5.00
)

// Options controls generation.
type Options struct {
	Seed  uint64
	Days  int
	Start time.Time
}

// DefaultOptions generates one year starting 2023-01-01.
func DefaultOptions() Options {
	return Options{
		Seed:  42,
		Days:  365,
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func artistSeed(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

// Generate builds the fact table of one artist: one record per day and region.
// The same spec and options always produce the same table.
func Generate(spec ArtistSpec, opts Options) *models.FactTable {
	rng := rand.New(rand.NewPCG(opts.Seed, artistSeed(spec.ID)))
	start := models.Day(opts.Start)
	records := make([]models.FactRecord, 0, opts.Days*len(Regions))

	for day := 0; day < opts.Days; day++ {
		date := start.AddDate(0, 0, day)
		multiplier := math.Sin(float64(day)/30)*0.2 + 1.0
		base := spec.PeakStreams * multiplier * uniform(rng, 0.7, 1.3)

		for _, region := range Regions {
			streams := int64(base * uniform(rng, 0.1, 0.3))
			song := spec.Songs[rng.IntN(len(spec.Songs))]
			likes := int64(float64(streams) * uniform(rng, 0.05, 0.12))
			shares := int64(float64(streams) * uniform(rng, 0.01, 0.05))
			skip := round2(uniform(rng, 0.15, 0.45))
			reach := int64(float64(streams) * uniform(rng, 1.2, 1.8))
			c := Campaigns[rng.IntN(len(Campaigns))]

			conversions := int64(float64(streams) * c.ConversionRate)
			revenue := float64(streams)*adRevenuePerStream + float64(conversions)*subscriptionValue
			spend := float64(conversions) * c.CostPerAcquisition
			var roi float64
			if spend > 0 {
				roi = round2((revenue - spend) / spend)
			}

			records = append(records, models.FactRecord{
				Date:               date,
				Region:             region,
				Track:              song,
				Streams:            streams,
				Likes:              likes,
				Shares:             shares,
				SkipRate:           skip,
				PlaylistReach:      reach,
				CampaignType:       c.Name,
				PremiumConversions: conversions,
				Revenue:            revenue,
				CostPerAcquisition: round2(c.CostPerAcquisition),
				ROI:                roi,
			})
		}
	}
	return models.NewFactTable(records)
}

// GenerateAll generates every spec and binds the tables to registry profiles.
func GenerateAll(specs []ArtistSpec, reg *loader.Registry, opts Options) []*models.Artist {
	out := make([]*models.Artist, len(specs))
	for i, spec := range specs {
		out[i] = &models.Artist{
			Profile: reg.Profile(spec.ID),
			Table:   Generate(spec, opts),
			Source:  "synthetic",
		}
	}
	return out
}

// WriteDir writes one file per artist in format (loader.ExtCSV or
// loader.ExtXLSX) plus an artists.yaml metadata file, and returns the paths
// written.
func WriteDir(dir, format string, artists []*models.Artist, reg *loader.Registry) ([]string, error) {
	if format != loader.ExtCSV && format != loader.ExtXLSX {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(artists)+1)
	for _, a := range artists {
		path := filepath.Join(dir, a.Profile.ID+format)
		var err error
		if format == loader.ExtXLSX {
			err = loader.WriteXLSX(path, a.Table)
		} else {
			err = loader.WriteCSVFile(path, a.Table)
		}
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", a.Profile.ID, err)
		}
		paths = append(paths, path)
	}

	meta, err := reg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	metaPath := filepath.Join(dir, "artists.yaml")
	if err := os.WriteFile(metaPath, meta, 0o600); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	return append(paths, metaPath), nil
}
