// Package loader reads per-artist fact tables from CSV and XLSX files and
// binds them to artist metadata.
package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Column names of a fact table file, in the order writers emit them.
const (
	ColDate               = "Date"
	ColRegion             = "Region"
	ColTrack              = "Track"
	ColStreams            = "Streams"
	ColLikes              = "Likes"
	ColShares             = "Shares"
	ColSkipRate           = "Skip_Rate"
	ColPlaylistReach      = "Playlist_Reach"
	ColCampaignType       = "Campaign_Type"
	ColPremiumConversions = "Premium_Conversions"
	ColRevenue            = "Revenue"
	ColCostPerAcquisition = "Cost_Per_Acquisition"
	ColROI                = "ROI"
)

// Columns lists every required column.
var Columns = []string{
	ColDate, ColRegion, ColTrack, ColStreams, ColLikes, ColShares, ColSkipRate,
	ColPlaylistReach, ColCampaignType, ColPremiumConversions, ColRevenue,
	ColCostPerAcquisition, ColROI,
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01-02-06",
}

// SchemaError reports an input table that does not match the fact record
// schema. Row is the 1-based data row (0 for header problems).
type SchemaError struct {
	Source string
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Row == 0 && e.Column != "":
		return fmt.Sprintf("schema: %s: column %q: %s", e.Source, e.Column, e.Reason)
	case e.Row == 0:
		return fmt.Sprintf("schema: %s: %s", e.Source, e.Reason)
	default:
		return fmt.Sprintf("schema: %s: row %d column %q: %s (value %q)",
			e.Source, e.Row, e.Column, e.Reason, e.Value)
	}
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
}

// columnIndex maps each required column to its position in a header row.
type columnIndex map[string]int

func resolveHeader(source string, header []string) (columnIndex, error) {
	seen := make(map[string]int, len(header))
	for i, h := range header {
		seen[normalizeHeader(h)] = i
	}
	idx := make(columnIndex, len(Columns))
	for _, c := range Columns {
		i, ok := seen[normalizeHeader(c)]
		if !ok {
			return nil, &SchemaError{Source: source, Column: c, Reason: "missing column"}
		}
		idx[c] = i
	}
	return idx, nil
}

type rowParser struct {
	source string
	row    int
	cells  []string
	idx    columnIndex
	err    error
}

func (p *rowParser) fail(col, value, reason string) {
	if p.err == nil {
		p.err = &SchemaError{Source: p.source, Row: p.row, Column: col, Value: value, Reason: reason}
	}
}

func (p *rowParser) cell(col string) string {
	i := p.idx[col]
	if i >= len(p.cells) {
		return ""
	}
	return strings.TrimSpace(p.cells[i])
}

func (p *rowParser) text(col string) string {
	v := p.cell(col)
	if v == "" {
		p.fail(col, v, "empty value")
	}
	return v
}

func (p *rowParser) date(col string) time.Time {
	v := p.cell(col)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return models.Day(d)
		}
	}
	p.fail(col, v, "invalid date")
	return time.Time{}
}

func (p *rowParser) count(col string) int64 {
	v := p.cell(col)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Spreadsheet tools sometimes write integral counts as "123.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			p.fail(col, v, "invalid integer")
			return 0
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if math.Abs(f) >= math.MaxInt64 {
			p.fail(col, v, "integer out of range")
			return 0
		}
		n = int64(f)
	}
	if n < 0 {
		p.fail(col, v, "negative count")
	}
	return n
}

func (p *rowParser) real(col string) float64 {
	v := p.cell(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(col, v, "invalid number")
		return 0
	}
	return f
}

func (p *rowParser) nonNegative(col string) float64 {
	f := p.real(col)
	if f < 0 {
		p.fail(col, p.cell(col), "negative value")
	}
	return f
}

func (p *rowParser) fraction(col string) float64 {
	f := p.real(col)
	if f < 0 || f > 1 {
		p.fail(col, p.cell(col), "outside [0,1]")
	}
	return f
}

// parseRow converts one data row. row is the 1-based data row number.
func parseRow(source string, row int, cells []string, idx columnIndex) (models.FactRecord, error) {
	p := &rowParser{source: source, row: row, cells: cells, idx: idx}
	r := models.FactRecord{
		Date:               p.date(ColDate),
		Region:             p.text(ColRegion),
		Track:              p.text(ColTrack),
		Streams:            p.count(ColStreams),
		Likes:              p.count(ColLikes),
		Shares:             p.count(ColShares),
		SkipRate:           p.fraction(ColSkipRate),
		PlaylistReach:      p.count(ColPlaylistReach),
		CampaignType:       p.text(ColCampaignType),
		PremiumConversions: p.count(ColPremiumConversions),
		Revenue:            p.nonNegative(ColRevenue),
		CostPerAcquisition: p.nonNegative(ColCostPerAcquisition),
		ROI:                p.real(ColROI),
	}
	if p.err != nil {
		return models.FactRecord{}, p.err
	}
	return r, nil
}

// formatRow renders a record in Columns order.
func formatRow(r models.FactRecord) []string {
	return []string{
		r.Date.Format(time.DateOnly),
		r.Region,
		r.Track,
		strconv.FormatInt(r.Streams, 10),
		strconv.FormatInt(r.Likes, 10),
		strconv.FormatInt(r.Shares, 10),
		strconv.FormatFloat(r.SkipRate, 'f', -1, 64),
		strconv.FormatInt(r.PlaylistReach, 10),
		r.CampaignType,
		strconv.FormatInt(r.PremiumConversions, 10),
		strconv.FormatFloat(r.Revenue, 'f', -1, 64),
		strconv.FormatFloat(r.CostPerAcquisition, 'f', -1, 64),
		strconv.FormatFloat(r.ROI, 'f', -1, 64),
	}
}
