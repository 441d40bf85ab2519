package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/platform/logging"
)

// ExternalMatch is one provider-side match record, already decoded from the
// wire but not yet translated into internal vocabulary.
type ExternalMatch struct {
	ExternalID int64
	UTCDate    time.Time
	Status     string
	Week       int
	HomeTeam   string
	AwayTeam   string
	HomeScore  *int
	AwayScore  *int
	Season     string
}

// MatchDataProvider is the outbound port to the sports-data provider.
// FetchMatchByID returns found=false for a match the provider does not know
// yet; that is an expected state, not an error.
type MatchDataProvider interface {
	FetchMatchesByRange(ctx context.Context, competitionCode string, from, to time.Time) ([]ExternalMatch, error)
	FetchMatchByID(ctx context.Context, externalID int64) (ExternalMatch, bool, error)
}

// SyncConfig tunes the two-phase synchronizer. The window bounds the bulk
// range query; IndividualDelay spaces out fallback lookups for provider
// rate-limit compliance; ExcludeSeasons drops known-stable historical
// seasons from the overdue scan.
type SyncConfig struct {
	LookBackDays    int
	LookForwardDays int
	IndividualDelay time.Duration
	ExcludeSeasons  []string
}

// SyncResult summarizes one synchronizer pass. Completed holds the matches
// that transitioned into completed during this pass; downstream scoring
// reacts to exactly that set.
type SyncResult struct {
	BulkCount       int
	OverdueCount    int
	IndividualCalls int
	UpdatedCount    int
	Completed       []match.Match
}

// SyncService reconciles the internal schedule with the provider. Phase A
// runs one bulk range query per active competition and insists on strict
// external-id matching; phase B sweeps overdue matches the bulk window
// missed with rate-limited individual lookups.
type SyncService struct {
	provider     MatchDataProvider
	matches      match.Repository
	competitions competition.Repository
	cfg          SyncConfig
	logger       *logging.Logger
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewSyncService(
	provider MatchDataProvider,
	matches match.Repository,
	competitions competition.Repository,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:     provider,
		matches:      matches,
		competitions: competitions,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// withWindow returns a copy of the service with an overridden bulk window.
// Zero keeps the configured value.
func (s *SyncService) withWindow(lookBackDays, lookForwardDays int) *SyncService {
	clone := *s
	if lookBackDays > 0 {
		clone.cfg.LookBackDays = lookBackDays
	}
	if lookForwardDays > 0 {
		clone.cfg.LookForwardDays = lookForwardDays
	}
	return &clone
}

// Sync runs both phases for every active competition. A bulk-phase record
// that cannot be matched to the schedule aborts the whole run with
// ErrScheduleDesync; individual-lookup failures are logged and skipped. With
// dryRun set, updates are computed and counted but never persisted.
func (s *SyncService) Sync(ctx context.Context, dryRun bool) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Sync")
	defer span.End()

	var result SyncResult

	comps, err := s.competitions.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("list active competitions: %w", err)
	}

	// Phase A: one ranged bulk query per competition, strict matching.
	covered := make(map[int64]struct{})
	now := s.now()
	from := now.AddDate(0, 0, -s.cfg.LookBackDays)
	to := now.AddDate(0, 0, s.cfg.LookForwardDays)

	for _, comp := range comps {
		records, err := s.provider.FetchMatchesByRange(ctx, comp.Code, from, to)
		if err != nil {
			return result, fmt.Errorf("bulk fetch for competition %s: %w", comp.Code, err)
		}

		schedule, err := s.matches.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return result, fmt.Errorf("list matches for competition %s: %w", comp.ID, err)
		}
		byExternalID := make(map[int64]match.Match, len(schedule))
		for _, m := range schedule {
			if m.ExternalID != 0 {
				byExternalID[m.ExternalID] = m
			}
		}

		for _, record := range records {
			result.BulkCount++
			if record.ExternalID == 0 {
				return result, fmt.Errorf("%w: bulk record for %q vs %q has no external id",
					ErrScheduleDesync, record.HomeTeam, record.AwayTeam)
			}
			internal, ok := byExternalID[record.ExternalID]
			if !ok {
				return result, fmt.Errorf("%w: no scheduled match carries external id %d",
					ErrScheduleDesync, record.ExternalID)
			}
			covered[record.ExternalID] = struct{}{}

			updated, err := s.applyUpdate(ctx, internal, record, dryRun, &result)
			if err != nil {
				return result, err
			}
			if updated {
				result.UpdatedCount++
			}
		}
	}

	// Phase B: individual fallback for overdue matches outside the bulk
	// window. One provider call per match, spaced by the configured delay.
	overdue, err := s.matches.ListOverdue(ctx, now, s.cfg.ExcludeSeasons)
	if err != nil {
		return result, fmt.Errorf("list overdue matches: %w", err)
	}
	result.OverdueCount = len(overdue)

	for _, m := range overdue {
		if m.ExternalID == 0 {
			s.logger.WarnContext(ctx, "overdue match has no external id, skipping",
				"matchID", m.ID,
				"week", m.Week,
			)
			continue
		}
		if _, ok := covered[m.ExternalID]; ok {
			continue
		}

		if result.IndividualCalls > 0 {
			if err := s.sleep(ctx, s.cfg.IndividualDelay); err != nil {
				return result, err
			}
		}
		result.IndividualCalls++

		record, found, err := s.provider.FetchMatchByID(ctx, m.ExternalID)
		if err != nil {
			s.logger.WarnContext(ctx, "individual match lookup failed, skipping",
				"matchID", m.ID,
				"externalID", m.ExternalID,
				"error", err,
			)
			continue
		}
		if !found {
			// Not yet available on the provider side; leave untouched.
			continue
		}

		updated, err := s.applyUpdate(ctx, m, record, dryRun, &result)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to apply individual match update, skipping",
				"matchID", m.ID,
				"externalID", m.ExternalID,
				"error", err,
			)
			continue
		}
		if updated {
			result.UpdatedCount++
		}
	}

	return result, nil
}

// applyUpdate translates the provider record onto the internal match and
// persists it when anything material changed. It reports whether a write
// happened and records a transition into completed on the result.
func (s *SyncService) applyUpdate(
	ctx context.Context,
	internal match.Match,
	record ExternalMatch,
	dryRun bool,
	result *SyncResult,
) (bool, error) {
	newStatus := match.TranslateProviderStatus(record.Status)

	changed := internal.Status != newStatus ||
		!intPtrEqual(internal.HomeScore, record.HomeScore) ||
		!intPtrEqual(internal.AwayScore, record.AwayScore)
	if !changed {
		return false, nil
	}

	completedNow := internal.Status != match.StatusCompleted && newStatus == match.StatusCompleted

	internal.Status = newStatus
	internal.HomeScore = record.HomeScore
	internal.AwayScore = record.AwayScore
	syncedAt := s.now()
	internal.SyncedAt = &syncedAt

	if !dryRun {
		if err := s.matches.ApplySync(ctx, internal); err != nil {
			return false, fmt.Errorf("apply sync for match %d: %w", internal.ID, err)
		}
	}
	if completedNow {
		result.Completed = append(result.Completed, internal)
	}
	return true, nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
