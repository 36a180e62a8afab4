package analytics

import (
	"math"
	"sort"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Metric names exposed to the presentation layer.
const (
	MetricEngagement       = "engagement"
	MetricTimeSeries       = "time_series"
	MetricTrackSummary     = "track_summary"
	MetricRegionSummary    = "region_summary"
	MetricGrowthMomentum   = "growth_momentum"
	MetricFunnel           = "funnel"
	MetricEfficiencyMatrix = "efficiency_matrix"
	MetricROIRanking       = "roi_ranking"
	MetricBestCampaign     = "best_campaign"
)

// GrowthWindowDays is the length of the recent window used by GrowthMomentum,
// counted back from the latest date in the view and including it.
const GrowthWindowDays = 30

// GrowthMomentum restricts v to the last GrowthWindowDays days before its latest
// date, sums streams per region and compares each region with the one before it
// in region order: (s[i] - s[i-1]) / s[i-1]. The first region always gets 0.
//
// This is a positional difference between neighbouring regions, not a growth
// rate of one region over time.
func GrowthMomentum(v *View) ([]models.GrowthPoint, error) {
	last, ok := v.MaxDate()
	if !ok {
		return nil, &EmptyInputError{Metric: MetricGrowthMomentum}
	}
	recent := v.Since(last.AddDate(0, 0, -(GrowthWindowDays - 1)))
	return growthRates(RegionSummary(recent)), nil
}

func growthRates(regions []models.RegionStat) []models.GrowthPoint {
	out := make([]models.GrowthPoint, len(regions))
	for i, r := range regions {
		out[i] = models.GrowthPoint{Region: r.Region, Streams: r.Streams}
		if i == 0 {
			continue
		}
		out[i].GrowthRate = pctChange(regions[i-1].Streams, r.Streams)
	}
	return out
}

// pctChange follows the usual percent-change convention: 0/0 is 0, x/0 is +Inf.
func pctChange(prev, cur int64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return float64(cur-prev) / float64(prev)
}

// Funnel reports streams, conversions and non-converted streams per campaign.
// Non-converted is not clamped, so conversions above streams show as negative.
func Funnel(campaigns []models.CampaignStat) []models.FunnelStage {
	out := make([]models.FunnelStage, len(campaigns))
	for i, c := range campaigns {
		out[i] = models.FunnelStage{
			CampaignType:       c.CampaignType,
			Streams:            c.Streams,
			PremiumConversions: c.PremiumConversions,
			NonConverted:       c.Streams - c.PremiumConversions,
		}
	}
	return out
}

// EfficiencyMatrix pairs mean cost per acquisition with total conversions per campaign.
func EfficiencyMatrix(campaigns []models.CampaignStat) []models.EfficiencyPoint {
	out := make([]models.EfficiencyPoint, len(campaigns))
	for i, c := range campaigns {
		out[i] = models.EfficiencyPoint{
			CampaignType:       c.CampaignType,
			MeanCPA:            c.MeanCPA,
			PremiumConversions: c.PremiumConversions,
		}
	}
	return out
}

// ROIRanking scales each campaign's mean ROI to a percentage and orders the
// campaigns by it, highest first. Equal percentages keep campaign order.
func ROIRanking(campaigns []models.CampaignStat) ([]models.ROIEntry, error) {
	if len(campaigns) == 0 {
		return nil, &EmptyInputError{Metric: MetricROIRanking}
	}
	out := make([]models.ROIEntry, len(campaigns))
	for i, c := range campaigns {
		out[i] = models.ROIEntry{
			CampaignType: c.CampaignType,
			ROI:          c.MeanROI,
			ROIPercent:   c.MeanROI * 100,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ROIPercent > out[j].ROIPercent })
	return out, nil
}

// BestCampaign selects the campaign with the highest ROI percentage. Ties go to
// the first campaign in summary order.
func BestCampaign(campaigns []models.CampaignStat) (models.ROIEntry, error) {
	if len(campaigns) == 0 {
		return models.ROIEntry{}, &EmptyInputError{Metric: MetricBestCampaign}
	}
	best := 0
	for i := 1; i < len(campaigns); i++ {
		if campaigns[i].MeanROI*100 > campaigns[best].MeanROI*100 {
			best = i
		}
	}
	c := campaigns[best]
	return models.ROIEntry{CampaignType: c.CampaignType, ROI: c.MeanROI, ROIPercent: c.MeanROI * 100}, nil
}

// Engagement computes the headline totals of v. The mean skip rate of an
// empty view is an EmptyGroupError.
func Engagement(v *View) (models.Engagement, error) {
	var (
		e    models.Engagement
		skip mean
	)
	t := v.table
	for _, i := range v.rows {
		e.TotalStreams += t.Streams[i]
		e.PlaylistReach += t.PlaylistReach[i]
		e.Likes += t.Likes[i]
		e.Shares += t.Shares[i]
		e.Revenue += t.Revenue[i]
		skip.add(t.SkipRate[i])
	}
	e.Records = v.Len()
	rate, err := skip.value(MetricEngagement, "")
	if err != nil {
		return models.Engagement{}, err
	}
	e.MeanSkipRate = rate
	return e, nil
}

// RankArtists orders artists by total streams over their full tables, highest
// first, ties by name.
func RankArtists(artists []*models.Artist) []models.ArtistSummary {
	out := make([]models.ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, models.ArtistSummary{
			Profile:      a.Profile,
			TotalStreams: a.Table.TotalStreams(),
			Records:      a.Table.Len(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalStreams != out[j].TotalStreams {
			return out[i].TotalStreams > out[j].TotalStreams
		}
		return out[i].Profile.Name < out[j].Profile.Name
	})
	return out
}
