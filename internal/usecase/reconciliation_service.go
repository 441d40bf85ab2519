package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/pick"
	"github.com/pickwise/survivor-league/internal/domain/runlease"
	"github.com/pickwise/survivor-league/internal/domain/runlog"
	"github.com/pickwise/survivor-league/internal/platform/id"
	"github.com/pickwise/survivor-league/internal/platform/logging"
)

// RunOptions adjusts a single reconciliation run. Zero values mean "use the
// configured defaults"; DryRun computes everything but persists nothing.
type RunOptions struct {
	LookBackDays    int
	LookForwardDays int
	DryRun          bool
}

// Summary is the structured report of one reconciliation run.
type Summary struct {
	BulkCount           int       `json:"bulkRecordsProcessed"`
	OverdueCount        int       `json:"overdueRecordsFound"`
	IndividualCalls     int       `json:"individualCallsMade"`
	UpdatedCount        int       `json:"recordsUpdated"`
	CompletedCount      int       `json:"recordsNewlyCompleted"`
	PicksResolved       int       `json:"picksResolved"`
	MembershipsUpdated  int       `json:"membershipsUpdated"`
	CompetitionsUpdated int       `json:"competitionsUpdated"`
	DryRun              bool      `json:"dryRun"`
	ElapsedSeconds      float64   `json:"executionTimeSeconds"`
	CompletedAt         time.Time `json:"completedAt"`
}

// ReconciliationService sequences synchronization, pick resolution, score
// aggregation and watermark recomputation into one idempotent pipeline run.
// A run-level lease rejects overlapping triggers up front instead of relying
// on recomputation idempotency to paper over races.
type ReconciliationService struct {
	sync      *SyncService
	scoring   *ScoringService
	gameweeks *GameweekService
	picks     pick.Repository
	leases    runlease.Repository
	runs      runlog.Repository
	ids       id.Generator
	leaseTTL  time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

func NewReconciliationService(
	sync *SyncService,
	scoring *ScoringService,
	gameweeks *GameweekService,
	picks pick.Repository,
	leases runlease.Repository,
	runs runlog.Repository,
	ids id.Generator,
	leaseTTL time.Duration,
	logger *logging.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &ReconciliationService{
		sync:      sync,
		scoring:   scoring,
		gameweeks: gameweeks,
		picks:     picks,
		leases:    leases,
		runs:      runs,
		ids:       ids,
		leaseTTL:  leaseTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the full pipeline under the reconciliation lease:
//
//  1. Synchronize the schedule with the provider (bulk plus fallback).
//  2. If any match transitioned into completed and at least one pick
//     references one of them, resolve pending picks and recompute every
//     active membership's totals. Scoring is global on purpose; it is cheap
//     and self-heals stale totals from earlier partial runs.
//  3. Recompute week markers for every active competition.
//  4. Persist a run record and return the summary.
//
// Returns ErrRunInProgress when the lease is held. A schedule desync in the
// bulk phase aborts the run and surfaces as a failed run record. Re-running
// with no new provider data leaves every persisted value unchanged.
func (s *ReconciliationService) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconciliationService.Run")
	defer span.End()

	holder, err := s.ids.NewID()
	if err != nil {
		return Summary{}, fmt.Errorf("generate lease holder id: %w", err)
	}
	acquired, err := s.leases.Acquire(ctx, runlease.ReconciliationLease, holder, s.leaseTTL)
	if err != nil {
		return Summary{}, fmt.Errorf("acquire reconciliation lease: %w", err)
	}
	if !acquired {
		return Summary{}, ErrRunInProgress
	}
	defer func() {
		if err := s.leases.Release(ctx, runlease.ReconciliationLease, holder); err != nil {
			s.logger.WarnContext(ctx, "failed to release reconciliation lease",
				"holder", holder,
				"error", err,
			)
		}
	}()

	started := s.now()
	summary, runErr := s.execute(ctx, opts)
	finished := s.now()

	summary.DryRun = opts.DryRun
	summary.ElapsedSeconds = finished.Sub(started).Seconds()
	summary.CompletedAt = finished.UTC()

	s.recordRun(ctx, started, finished, opts.DryRun, summary, runErr)

	if runErr != nil {
		return summary, runErr
	}
	s.logger.InfoContext(ctx, "reconciliation run finished",
		"bulkRecords", summary.BulkCount,
		"overdueRecords", summary.OverdueCount,
		"individualCalls", summary.IndividualCalls,
		"recordsUpdated", summary.UpdatedCount,
		"newlyCompleted", summary.CompletedCount,
		"picksResolved", summary.PicksResolved,
		"membershipsUpdated", summary.MembershipsUpdated,
		"competitionsUpdated", summary.CompetitionsUpdated,
		"dryRun", summary.DryRun,
		"elapsedSeconds", summary.ElapsedSeconds,
	)
	return summary, nil
}

func (s *ReconciliationService) execute(ctx context.Context, opts RunOptions) (Summary, error) {
	var summary Summary

	syncService := s.sync
	if opts.LookBackDays > 0 || opts.LookForwardDays > 0 {
		syncService = s.sync.withWindow(opts.LookBackDays, opts.LookForwardDays)
	}

	syncResult, err := syncService.Sync(ctx, opts.DryRun)
	summary.BulkCount = syncResult.BulkCount
	summary.OverdueCount = syncResult.OverdueCount
	summary.IndividualCalls = syncResult.IndividualCalls
	summary.UpdatedCount = syncResult.UpdatedCount
	summary.CompletedCount = len(syncResult.Completed)
	if err != nil {
		return summary, fmt.Errorf("synchronize matches: %w", err)
	}

	if opts.DryRun {
		// Nothing was persisted, so the downstream recomputation stages
		// would only re-derive current state.
		return summary, nil
	}

	if s.shouldScore(ctx, syncResult.Completed) {
		resolved, err := s.scoring.ResolvePendingPicks(ctx)
		if err != nil {
			return summary, fmt.Errorf("resolve pending picks: %w", err)
		}
		summary.PicksResolved = resolved

		updated, err := s.scoring.RecalculateAll(ctx)
		if err != nil {
			return summary, fmt.Errorf("recalculate membership totals: %w", err)
		}
		summary.MembershipsUpdated = updated
	}

	competitionsUpdated, err := s.gameweeks.RecalculateMarkers(ctx)
	if err != nil {
		return summary, fmt.Errorf("recalculate week markers: %w", err)
	}
	summary.CompetitionsUpdated = competitionsUpdated

	return summary, nil
}

// shouldScore reports whether any pick references a match that just
// transitioned into completed. When counting fails the pipeline scores
// anyway; an extra global recomputation is harmless, a skipped one is not.
func (s *ReconciliationService) shouldScore(ctx context.Context, completed []match.Match) bool {
	if len(completed) == 0 {
		return false
	}
	matchIDs := make([]int64, 0, len(completed))
	for _, m := range completed {
		matchIDs = append(matchIDs, m.ID)
	}
	count, err := s.picks.CountByMatchIDs(ctx, matchIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count picks for completed matches, scoring anyway",
			"error", err,
		)
		return true
	}
	return count > 0
}

func (s *ReconciliationService) recordRun(
	ctx context.Context,
	started, finished time.Time,
	dryRun bool,
	summary Summary,
	runErr error,
) {
	run := runlog.Run{
		StartedAt:           started.UTC(),
		FinishedAt:          finished.UTC(),
		DryRun:              dryRun,
		Status:              runlog.StatusSucceeded,
		BulkCount:           summary.BulkCount,
		OverdueCount:        summary.OverdueCount,
		IndividualCalls:     summary.IndividualCalls,
		UpdatedCount:        summary.UpdatedCount,
		CompletedCount:      summary.CompletedCount,
		PicksResolved:       summary.PicksResolved,
		MembershipsUpdated:  summary.MembershipsUpdated,
		CompetitionsUpdated: summary.CompetitionsUpdated,
	}
	if runErr != nil {
		run.Status = runlog.StatusFailed
		run.Error = runErr.Error()
	}
	if _, err := s.runs.Save(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "failed to persist reconciliation run record",
			"error", err,
		)
	}
}

// LatestRun returns the most recent persisted run record.
func (s *ReconciliationService) LatestRun(ctx context.Context) (runlog.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconciliationService.LatestRun")
	defer span.End()

	run, found, err := s.runs.Latest(ctx)
	if err != nil {
		return runlog.Run{}, fmt.Errorf("load latest run: %w", err)
	}
	if !found {
		return runlog.Run{}, fmt.Errorf("%w: no reconciliation run recorded yet", ErrNotFound)
	}
	return run, nil
}
