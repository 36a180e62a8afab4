// Package models defines data structures and domain types.
package models

import (
	"sort"
	"time"
)

// FactRecord is one day x region x track x campaign observation of streaming activity.
type FactRecord struct {
	Date               time.Time
	Region             string
	Track              string
	Streams            int64
	Likes              int64
	Shares             int64
	SkipRate           float64 // fraction in [0,1]
	PlaylistReach      int64
	CampaignType       string
	PremiumConversions int64
	Revenue            float64
	CostPerAcquisition float64
	ROI                float64 // fraction, may be negative
}

// FactTable holds every record of a single artist in columnar form.
// It is read-only once loading completes and may be shared between
// goroutines without locking.
type FactTable struct {
	Date               []time.Time
	Region             []string
	Track              []string
	Streams            []int64
	Likes              []int64
	Shares             []int64
	SkipRate           []float64
	PlaylistReach      []int64
	CampaignType       []string
	PremiumConversions []int64
	Revenue            []float64
	CostPerAcquisition []float64
	ROI                []float64
}

// NewFactTable builds a columnar table from row records.
func NewFactTable(records []FactRecord) *FactTable {
	t := &FactTable{}
	t.grow(len(records))
	for i := range records {
		t.Append(records[i])
	}
	return t
}

func (t *FactTable) grow(n int) {
	t.Date = make([]time.Time, 0, n)
	t.Region = make([]string, 0, n)
	t.Track = make([]string, 0, n)
	t.Streams = make([]int64, 0, n)
	t.Likes = make([]int64, 0, n)
	t.Shares = make([]int64, 0, n)
	t.SkipRate = make([]float64, 0, n)
	t.PlaylistReach = make([]int64, 0, n)
	t.CampaignType = make([]string, 0, n)
	t.PremiumConversions = make([]int64, 0, n)
	t.Revenue = make([]float64, 0, n)
	t.CostPerAcquisition = make([]float64, 0, n)
	t.ROI = make([]float64, 0, n)
}

// Append adds a record. Only loaders call this, before the table is shared.
func (t *FactTable) Append(r FactRecord) {
	t.Date = append(t.Date, Day(r.Date))
	t.Region = append(t.Region, r.Region)
	t.Track = append(t.Track, r.Track)
	t.Streams = append(t.Streams, r.Streams)
	t.Likes = append(t.Likes, r.Likes)
	t.Shares = append(t.Shares, r.Shares)
	t.SkipRate = append(t.SkipRate, r.SkipRate)
	t.PlaylistReach = append(t.PlaylistReach, r.PlaylistReach)
	t.CampaignType = append(t.CampaignType, r.CampaignType)
	t.PremiumConversions = append(t.PremiumConversions, r.PremiumConversions)
	t.Revenue = append(t.Revenue, r.Revenue)
	t.CostPerAcquisition = append(t.CostPerAcquisition, r.CostPerAcquisition)
	t.ROI = append(t.ROI, r.ROI)
}

// Len returns the number of records.
func (t *FactTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Date)
}

// Record returns a copy of row i.
func (t *FactTable) Record(i int) FactRecord {
	return FactRecord{
		Date:               t.Date[i],
		Region:             t.Region[i],
		Track:              t.Track[i],
		Streams:            t.Streams[i],
		Likes:              t.Likes[i],
		Shares:             t.Shares[i],
		SkipRate:           t.SkipRate[i],
		PlaylistReach:      t.PlaylistReach[i],
		CampaignType:       t.CampaignType[i],
		PremiumConversions: t.PremiumConversions[i],
		Revenue:            t.Revenue[i],
		CostPerAcquisition: t.CostPerAcquisition[i],
		ROI:                t.ROI[i],
	}
}

// Records returns copies of every row in table order.
func (t *FactTable) Records() []FactRecord {
	out := make([]FactRecord, t.Len())
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}

// DateBounds returns the earliest and latest dates. ok is false for an empty table.
func (t *FactTable) DateBounds() (first, last time.Time, ok bool) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t.Date[0], t.Date[0]
	for _, d := range t.Date[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return first, last, true
}

// Regions returns the distinct region values in ascending order.
func (t *FactTable) Regions() []string {
	return distinct(t.Region)
}

// TotalStreams sums the streams column.
func (t *FactTable) TotalStreams() int64 {
	var total int64
	for _, s := range t.Streams {
		total += s
	}
	return total
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, 16)
	out := make([]string, 0, 16)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Day truncates t to its calendar day at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
