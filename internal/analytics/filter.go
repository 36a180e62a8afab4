package analytics

import (
	"time"

	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// View is a read-only subset of a fact table: a list of row indexes into the
// shared columns. The table itself is never copied or modified.
type View struct {
	table *models.FactTable
	rows  []int
}

// All returns a view over every row of t.
func All(t *models.FactTable) *View {
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	return &View{table: t, rows: rows}
}

// Filter keeps the records dated within [from, to] (both inclusive, compared by
// calendar day) whose region is in regions. An empty region set yields an empty
// view; from after to is an InvalidRangeError.
func Filter(t *models.FactTable, from, to time.Time, regions []string) (*View, error) {
	from, to = models.Day(from), models.Day(to)
	if from.After(to) {
		return nil, &InvalidRangeError{From: from, To: to}
	}

	allowed := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		allowed[r] = struct{}{}
	}

	rows := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		d := t.Date[i]
		if d.Before(from) || d.After(to) {
			continue
		}
		if _, ok := allowed[t.Region[i]]; !ok {
			continue
		}
		rows = append(rows, i)
	}
	return &View{table: t, rows: rows}, nil
}

// Apply is Filter driven by a models.Filter.
func Apply(t *models.FactTable, f models.Filter) (*View, error) {
	return Filter(t, f.From, f.To, f.Regions)
}

// Len returns the number of records in the view.
func (v *View) Len() int {
	return len(v.rows)
}

// Record returns a copy of the i-th record of the view.
func (v *View) Record(i int) models.FactRecord {
	return v.table.Record(v.rows[i])
}

// Records returns copies of every record in the view.
func (v *View) Records() []models.FactRecord {
	out := make([]models.FactRecord, len(v.rows))
	for i, row := range v.rows {
		out[i] = v.table.Record(row)
	}
	return out
}

// MaxDate returns the latest date in the view. ok is false when the view is empty.
func (v *View) MaxDate() (time.Time, bool) {
	if len(v.rows) == 0 {
		return time.Time{}, false
	}
	last := v.table.Date[v.rows[0]]
	for _, row := range v.rows[1:] {
		if d := v.table.Date[row]; d.After(last) {
			last = d
		}
	}
	return last, true
}

// Since keeps the rows dated on or after from.
func (v *View) Since(from time.Time) *View {
	from = models.Day(from)
	rows := make([]int, 0, len(v.rows))
	for _, row := range v.rows {
		if !v.table.Date[row].Before(from) {
			rows = append(rows, row)
		}
	}
	return &View{table: v.table, rows: rows}
}

// shards splits the view into at most n contiguous parts.
func (v *View) shards(n int) []*View {
	if n < 1 {
		n = 1
	}
	if n > len(v.rows) {
		n = max(len(v.rows), 1)
	}
	size := (len(v.rows) + n - 1) / n
	out := make([]*View, 0, n)
	for start := 0; start < len(v.rows) || len(out) == 0; start += size {
		end := min(start+size, len(v.rows))
		out = append(out, &View{table: v.table, rows: v.rows[start:end]})
		if size == 0 {
			break
		}
	}
	return out
}
