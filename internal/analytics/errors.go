// Package analytics implements the aggregation pipeline: the filter stage,
// the grouping reductions and the derived metrics shown on the dashboard.
package analytics

import (
	"fmt"
	"time"
)

// InvalidRangeError is returned when a filter's lower date bound is after its upper bound.
type InvalidRangeError struct {
	From time.Time
	To   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: %s is after %s",
		e.From.Format(time.DateOnly), e.To.Format(time.DateOnly))
}

// EmptyGroupError is returned when a mean is requested over zero records.
type EmptyGroupError struct {
	Reduction string
	Key       string
}

func (e *EmptyGroupError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: mean over empty group", e.Reduction)
	}
	return fmt.Sprintf("%s: no records for %q", e.Reduction, e.Key)
}

// EmptyInputError is returned when a ranking or selection has no groups to choose from.
type EmptyInputError struct {
	Metric string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no input groups", e.Metric)
}
