// Package engine runs bluberry's background maintenance tasks.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluberryhq/bluberry/internal/metrics"
	"github.com/bluberryhq/bluberry/internal/store"
)

const sweepJobName = "stale-listing-sweep"

// Sweeper reverts submissions stuck in the listing state back to
// approved. A row can be stranded there if the process died mid-attempt;
// the sweep restores the retry affordance.
type Sweeper struct {
	store     store.Store
	olderThan time.Duration
	log       *slog.Logger
}

// NewSweeper creates a sweeper that recovers rows older than olderThan.
func NewSweeper(st store.Store, olderThan time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{store: st, olderThan: olderThan, log: log}
}

// Run performs one sweep, recording it as a job run.
func (s *Sweeper) Run(ctx context.Context) error {
	runID, err := s.store.InsertJobRun(ctx, sweepJobName)
	if err != nil {
		return fmt.Errorf("recording job run: %w", err)
	}

	recovered, err := s.store.RevertStaleListings(ctx, s.olderThan)
	if err != nil {
		if cerr := s.store.CompleteJobRun(ctx, runID, "failed", err.Error(), 0); cerr != nil {
			s.log.Error("completing failed job run", "job", sweepJobName, "error", cerr)
		}
		return fmt.Errorf("reverting stale listings: %w", err)
	}

	if recovered > 0 {
		metrics.SweepRecoveredTotal.Add(float64(recovered))
		s.log.Warn("recovered stale listing attempts",
			"count", recovered, "older_than", s.olderThan)
	}

	if err := s.store.CompleteJobRun(ctx, runID, "succeeded", "", recovered); err != nil {
		s.log.Error("completing job run", "job", sweepJobName, "error", err)
	}
	return nil
}
