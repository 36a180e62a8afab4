package analytics

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// ReductionCampaigns names the per-campaign summary in error messages.
const ReductionCampaigns = "campaign_summary"

// TrackTable is the per-track summary ranked by streams (descending), ties
// broken by track name (ascending).
type TrackTable struct {
	Ranked []models.TrackStat
	index  map[string]int
}

// SkipRate returns the mean skip rate of track, or an EmptyGroupError when the
// track has no records in the view.
func (t *TrackTable) SkipRate(track string) (float64, error) {
	i, ok := t.index[track]
	if !ok {
		return 0, &EmptyGroupError{Reduction: MetricTrackSummary, Key: track}
	}
	return t.Ranked[i].MeanSkipRate, nil
}

// Aggregates is the output of one aggregation pass over a view.
type Aggregates struct {
	TimeSeries []models.DatePoint
	Tracks     *TrackTable
	Regions    []models.RegionStat
	Campaigns  []models.CampaignStat
}

// Aggregate runs all four reductions over v. The view is split into at most
// workers shards that are accumulated concurrently and merged; the result does
// not depend on the shard count.
func Aggregate(ctx context.Context, v *View, workers int) (*Aggregates, error) {
	shards := v.shards(workers)
	partials := make([]*partial, len(shards))

	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := newPartial()
			p.accumulate(shard.table, shard.rows)
			partials[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newPartial()
	for _, p := range partials {
		merged.merge(p)
	}
	return merged.finish()
}

// TimeSeries groups by date and sums streams, ascending by date. Only dates
// present in the view appear.
func TimeSeries(v *View) []models.DatePoint {
	p := newPartial()
	p.accumulate(v.table, v.rows)
	return p.timeSeries()
}

// TrackSummary groups by track, summing streams and averaging skip rate.
func TrackSummary(v *View) (*TrackTable, error) {
	p := newPartial()
	p.accumulate(v.table, v.rows)
	return p.tracks()
}

// RegionSummary groups by region and sums streams, ascending by region.
func RegionSummary(v *View) []models.RegionStat {
	p := newPartial()
	p.accumulate(v.table, v.rows)
	return p.regions()
}

// CampaignSummary groups by campaign type: summed streams and conversions,
// mean cost per acquisition and mean ROI, ascending by campaign type.
func CampaignSummary(v *View) ([]models.CampaignStat, error) {
	p := newPartial()
	p.accumulate(v.table, v.rows)
	return p.campaigns()
}

func (p *partial) finish() (*Aggregates, error) {
	tracks, err := p.tracks()
	if err != nil {
		return nil, err
	}
	campaigns, err := p.campaigns()
	if err != nil {
		return nil, err
	}
	return &Aggregates{
		TimeSeries: p.timeSeries(),
		Tracks:     tracks,
		Regions:    p.regions(),
		Campaigns:  campaigns,
	}, nil
}

func (p *partial) timeSeries() []models.DatePoint {
	out := make([]models.DatePoint, 0, len(p.byDate))
	for d, s := range p.byDate {
		out = append(out, models.DatePoint{Date: d, Streams: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (p *partial) tracks() (*TrackTable, error) {
	t := &TrackTable{
		Ranked: make([]models.TrackStat, 0, len(p.byTrack)),
		index:  make(map[string]int, len(p.byTrack)),
	}
	for name, acc := range p.byTrack {
		skip, err := acc.skip.value(MetricTrackSummary, name)
		if err != nil {
			return nil, err
		}
		t.Ranked = append(t.Ranked, models.TrackStat{
			Track:        name,
			Streams:      acc.streams,
			MeanSkipRate: skip,
			Records:      acc.skip.count,
		})
	}
	sort.Slice(t.Ranked, func(i, j int) bool {
		a, b := t.Ranked[i], t.Ranked[j]
		if a.Streams != b.Streams {
			return a.Streams > b.Streams
		}
		return a.Track < b.Track
	})
	for i, s := range t.Ranked {
		t.index[s.Track] = i
	}
	return t, nil
}

func (p *partial) regions() []models.RegionStat {
	out := make([]models.RegionStat, 0, len(p.byRegion))
	for r, s := range p.byRegion {
		out = append(out, models.RegionStat{Region: r, Streams: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func (p *partial) campaigns() ([]models.CampaignStat, error) {
	out := make([]models.CampaignStat, 0, len(p.byCampaign))
	for name, acc := range p.byCampaign {
		cpa, err := acc.cpa.value(ReductionCampaigns, name)
		if err != nil {
			return nil, err
		}
		roi, err := acc.roi.value(ReductionCampaigns, name)
		if err != nil {
			return nil, err
		}
		out = append(out, models.CampaignStat{
			CampaignType:       name,
			Streams:            acc.streams,
			PremiumConversions: acc.conversions,
			MeanCPA:            cpa,
			MeanROI:            roi,
			Records:            acc.cpa.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].CampaignType, out[j].CampaignType) < 0
	})
	return out, nil
}
