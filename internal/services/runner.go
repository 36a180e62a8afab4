package services

import (
	"context"
	"errors"
	"sync"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// ErrSuperseded is returned by a run that was replaced by a newer one before
// it finished. Its result is discarded.
var ErrSuperseded = errors.New("report run superseded")

type buildFunc func(ctx context.Context, artist *models.Artist, f models.Filter, opts analytics.Options) (*analytics.Report, error)

// Runner executes report pipelines so that at most one run is current.
// Starting a run cancels the one in flight.
type Runner struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	opts   analytics.Options
	build  buildFunc
}

// NewRunner creates a runner that builds reports with opts.
func NewRunner(opts analytics.Options) *Runner {
	return &Runner{opts: opts, build: analytics.BuildReport}
}

// Run cancels any in-flight run and builds a report for artist under f.
// The returned sequence number identifies the run. A run that is replaced
// before completion returns ErrSuperseded.
func (r *Runner) Run(ctx context.Context, artist *models.Artist, f models.Filter) (*analytics.Report, uint64, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	defer cancel()

	report, err := r.build(runCtx, artist, f, r.opts)
	if r.Seq() != seq {
		return nil, seq, ErrSuperseded
	}
	if err != nil {
		return nil, seq, err
	}
	return report, seq, nil
}

// Seq returns the sequence number of the most recent run.
func (r *Runner) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Cancel stops the in-flight run, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
