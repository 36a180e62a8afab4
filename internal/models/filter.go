package models

import (
	"slices"
	"time"
)

// Filter holds the dashboard filter parameters: an inclusive date range and
// the set of allowed regions.
type Filter struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Regions []string  `json:"regions"`
}

// DefaultFilter spans the full date range of the table and every region in it.
func DefaultFilter(t *FactTable) Filter {
	first, last, _ := t.DateBounds()
	return Filter{From: first, To: last, Regions: t.Regions()}
}

// HasRegion reports whether region is selected.
func (f Filter) HasRegion(region string) bool {
	return slices.Contains(f.Regions, region)
}

// ToggleRegion returns a copy of f with region added or removed.
// Regions stay sorted so equal selections compare equal.
func (f Filter) ToggleRegion(region string) Filter {
	out := f
	out.Regions = make([]string, 0, len(f.Regions)+1)
	found := false
	for _, r := range f.Regions {
		if r == region {
			found = true
			continue
		}
		out.Regions = append(out.Regions, r)
	}
	if !found {
		out.Regions = append(out.Regions, region)
		slices.Sort(out.Regions)
	}
	return out
}

// ShiftFrom moves the lower bound by days.
func (f Filter) ShiftFrom(days int) Filter {
	out := f
	out.Regions = slices.Clone(f.Regions)
	out.From = f.From.AddDate(0, 0, days)
	return out
}

// ShiftTo moves the upper bound by days.
func (f Filter) ShiftTo(days int) Filter {
	out := f
	out.Regions = slices.Clone(f.Regions)
	out.To = f.To.AddDate(0, 0, days)
	return out
}

// Days returns the number of calendar days covered, inclusive.
func (f Filter) Days() int {
	if f.To.Before(f.From) {
		return 0
	}
	return int(Day(f.To).Sub(Day(f.From)).Hours()/24) + 1
}
