package analytics

import (
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// mean is a mergeable sum/count pair.
type mean struct {
	sum   float64
	count int64
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m *mean) merge(o mean) {
	m.sum += o.sum
	m.count += o.count
}

func (m mean) value(reduction, key string) (float64, error) {
	if m.count == 0 {
		return 0, &EmptyGroupError{Reduction: reduction, Key: key}
	}
	return m.sum / float64(m.count), nil
}

type trackAcc struct {
	streams int64
	skip    mean
}

type campaignAcc struct {
	streams     int64
	conversions int64
	cpa         mean
	roi         mean
}

// partial holds the grouped accumulators of one shard. Every field is a
// sum or a count, so partials merge in any order to the same totals.
type partial struct {
	byDate     map[time.Time]int64
	byTrack    map[string]*trackAcc
	byRegion   map[string]int64
	byCampaign map[string]*campaignAcc
}

func newPartial() *partial {
	return &partial{
		byDate:     make(map[time.Time]int64),
		byTrack:    make(map[string]*trackAcc),
		byRegion:   make(map[string]int64),
		byCampaign: make(map[string]*campaignAcc),
	}
}

func (p *partial) accumulate(t *models.FactTable, rows []int) {
	for _, i := range rows {
		p.byDate[t.Date[i]] += t.Streams[i]
		p.byRegion[t.Region[i]] += t.Streams[i]

		ta := p.byTrack[t.Track[i]]
		if ta == nil {
			ta = &trackAcc{}
			p.byTrack[t.Track[i]] = ta
		}
		ta.streams += t.Streams[i]
		ta.skip.add(t.SkipRate[i])

		ca := p.byCampaign[t.CampaignType[i]]
		if ca == nil {
			ca = &campaignAcc{}
			p.byCampaign[t.CampaignType[i]] = ca
		}
		ca.streams += t.Streams[i]
		ca.conversions += t.PremiumConversions[i]
		ca.cpa.add(t.CostPerAcquisition[i])
		ca.roi.add(t.ROI[i])
	}
}

func (p *partial) merge(o *partial) {
	for k, v := range o.byDate {
		p.byDate[k] += v
	}
	for k, v := range o.byRegion {
		p.byRegion[k] += v
	}
	for k, v := range o.byTrack {
		ta := p.byTrack[k]
		if ta == nil {
			ta = &trackAcc{}
			p.byTrack[k] = ta
		}
		ta.streams += v.streams
		ta.skip.merge(v.skip)
	}
	for k, v := range o.byCampaign {
		ca := p.byCampaign[k]
		if ca == nil {
			ca = &campaignAcc{}
			p.byCampaign[k] = ca
		}
		ca.streams += v.streams
		ca.conversions += v.conversions
		ca.cpa.merge(v.cpa)
		ca.roi.merge(v.roi)
	}
}
