package models

import (
	"encoding/json"
	"math"
	"time"
)

// DatePoint is one entry of the stream trend time series.
type DatePoint struct {
	Date    time.Time `json:"date"`
	Streams int64     `json:"streams"`
}

// TrackStat summarizes a track: total streams and mean skip rate.
type TrackStat struct {
	Track        string  `json:"track"`
	Streams      int64   `json:"streams"`
	MeanSkipRate float64 `json:"mean_skip_rate"`
	Records      int64   `json:"records"`
}

// RegionStat is total streams for one region.
type RegionStat struct {
	Region  string `json:"region"`
	Streams int64  `json:"streams"`
}

// CampaignStat summarizes one campaign type.
type CampaignStat struct {
	CampaignType       string  `json:"campaign_type"`
	Streams            int64   `json:"streams"`
	PremiumConversions int64   `json:"premium_conversions"`
	MeanCPA            float64 `json:"mean_cost_per_acquisition"`
	MeanROI            float64 `json:"mean_roi"`
	Records            int64   `json:"records"`
}

// GrowthPoint is one region of the growth momentum table. GrowthRate compares
// the region with its predecessor in region enumeration order, not with an
// earlier period of the same region.
type GrowthPoint struct {
	Region     string  `json:"region"`
	Streams    int64   `json:"streams"`
	GrowthRate float64 `json:"growth_rate"`
}

// MarshalJSON encodes a non-finite growth rate (zero-stream predecessor) as null.
func (g GrowthPoint) MarshalJSON() ([]byte, error) {
	var rate *float64
	if !math.IsInf(g.GrowthRate, 0) && !math.IsNaN(g.GrowthRate) {
		rate = &g.GrowthRate
	}
	return json.Marshal(struct {
		Region     string   `json:"region"`
		Streams    int64    `json:"streams"`
		GrowthRate *float64 `json:"growth_rate"`
	}{g.Region, g.Streams, rate})
}

// FunnelStage is the conversion breakdown of one campaign type.
// NonConverted is streams minus premium conversions and may be negative.
type FunnelStage struct {
	CampaignType       string `json:"campaign_type"`
	Streams            int64  `json:"streams"`
	PremiumConversions int64  `json:"premium_conversions"`
	NonConverted       int64  `json:"non_converted"`
}

// EfficiencyPoint pairs mean cost per acquisition with conversions for one campaign.
type EfficiencyPoint struct {
	CampaignType       string  `json:"campaign_type"`
	MeanCPA            float64 `json:"mean_cost_per_acquisition"`
	PremiumConversions int64   `json:"premium_conversions"`
}

// ROIEntry is the mean ROI of one campaign type, as a fraction and a percentage.
type ROIEntry struct {
	CampaignType string  `json:"campaign_type"`
	ROI          float64 `json:"roi"`
	ROIPercent   float64 `json:"roi_percent"`
}

// Engagement holds the headline KPIs of a filtered view.
type Engagement struct {
	TotalStreams  int64   `json:"total_streams"`
	MeanSkipRate  float64 `json:"mean_skip_rate"`
	PlaylistReach int64   `json:"playlist_reach"`
	Likes         int64   `json:"likes"`
	Shares        int64   `json:"shares"`
	Revenue       float64 `json:"revenue"`
	Records       int     `json:"records"`
}
