package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Options tunes a pipeline run.
type Options struct {
	// Workers is the number of shards Aggregate splits the view into.
	Workers int
}

// Report is the named set of derived tables for one artist and filter.
// A metric that could not be computed is nil and its error is in Errors.
type Report struct {
	Artist  models.ArtistProfile `json:"artist"`
	Filter  models.Filter        `json:"filter"`
	Records int                  `json:"records"`

	Engagement *models.Engagement       `json:"engagement"`
	TimeSeries []models.DatePoint       `json:"time_series"`
	Tracks     *TrackTable              `json:"-"`
	Regions    []models.RegionStat      `json:"region_summary"`
	Campaigns  []models.CampaignStat    `json:"campaign_summary"`
	Growth     []models.GrowthPoint     `json:"growth_momentum"`
	Funnel     []models.FunnelStage     `json:"funnel"`
	Efficiency []models.EfficiencyPoint `json:"efficiency_matrix"`
	ROI        []models.ROIEntry        `json:"roi_ranking"`
	Best       *models.ROIEntry         `json:"best_campaign"`

	Errors map[string]error `json:"-"`
}

// BuildReport runs filter, aggregation and every calculator for artist.
// A malformed date range fails the whole call, as does cancellation of ctx;
// a cancelled run never returns a partial report.
func BuildReport(ctx context.Context, artist *models.Artist, f models.Filter, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := Apply(artist.Table, f)
	if err != nil {
		return nil, err
	}

	agg, err := Aggregate(ctx, v, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", artist.Profile.ID, err)
	}

	r := &Report{
		Artist:     artist.Profile,
		Filter:     f,
		Records:    v.Len(),
		TimeSeries: agg.TimeSeries,
		Tracks:     agg.Tracks,
		Regions:    agg.Regions,
		Campaigns:  agg.Campaigns,
		Funnel:     Funnel(agg.Campaigns),
		Efficiency: EfficiencyMatrix(agg.Campaigns),
		Errors:     make(map[string]error),
	}

	if e, err := Engagement(v); err != nil {
		r.Errors[MetricEngagement] = err
	} else {
		r.Engagement = &e
	}

	if g, err := GrowthMomentum(v); err != nil {
		r.Errors[MetricGrowthMomentum] = err
	} else {
		r.Growth = g
	}

	if roi, err := ROIRanking(agg.Campaigns); err != nil {
		r.Errors[MetricROIRanking] = err
	} else {
		r.ROI = roi
	}

	if best, err := BestCampaign(agg.Campaigns); err != nil {
		r.Errors[MetricBestCampaign] = err
	} else {
		r.Best = &best
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Err returns the error recorded for metric, if any.
func (r *Report) Err(metric string) error {
	return r.Errors[metric]
}

// Named maps each metric name to its table or scalar. Failed metrics are absent.
func (r *Report) Named() map[string]any {
	out := map[string]any{
		MetricTimeSeries:       r.TimeSeries,
		MetricRegionSummary:    r.Regions,
		MetricFunnel:           r.Funnel,
		MetricEfficiencyMatrix: r.Efficiency,
	}
	if r.Tracks != nil {
		out[MetricTrackSummary] = r.Tracks.Ranked
	}
	if r.Engagement != nil {
		out[MetricEngagement] = *r.Engagement
	}
	if r.Growth != nil {
		out[MetricGrowthMomentum] = r.Growth
	}
	if r.ROI != nil {
		out[MetricROIRanking] = r.ROI
	}
	if r.Best != nil {
		out[MetricBestCampaign] = *r.Best
	}
	return out
}

// Insight is the budget recommendation shown under the ROI chart.
func (r *Report) Insight() string {
	if r.Best == nil {
		return ""
	}
	return fmt.Sprintf("The '%s' campaign yields the highest ROI (%.1f%%). Recommendation: Increase budget allocation here.",
		r.Best.CampaignType, r.Best.ROIPercent)
}

// MarshalJSON adds the track summary and error messages to the encoded report.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	var tracks []models.TrackStat
	if r.Tracks != nil {
		tracks = r.Tracks.Ranked
	}
	var errs map[string]string
	if len(r.Errors) > 0 {
		errs = make(map[string]string, len(r.Errors))
		for name, err := range r.Errors {
			errs[name] = err.Error()
		}
	}
	return json.Marshal(struct {
		*alias
		Tracks []models.TrackStat `json:"track_summary"`
		Errors map[string]string  `json:"errors,omitempty"`
	}{(*alias)(r), tracks, errs})
}
