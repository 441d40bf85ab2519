package usecase

import (
	"context"
	"fmt"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/platform/logging"
)

// DeriveWeekMarkers computes the three week boundaries from a competition's
// full schedule. Each marker is derived independently:
//
//   - CurrentGameWeek: highest week with at least one match in progress or
//     completed.
//   - CurrentPickWeek: lowest week that still has a not-started match.
//   - LastCompletedWeek: highest week whose matches are all completed. A
//     fully completed week also counts as started, so LastCompletedWeek
//     can never exceed CurrentGameWeek.
//
// A marker stays nil when no week qualifies.
func DeriveWeekMarkers(matches []match.Match) competition.WeekMarkers {
	type weekState struct {
		total     int
		completed int
		started   int
	}
	weeks := make(map[int]*weekState)
	maxWeek := 0
	for _, m := range matches {
		if m.Week <= 0 {
			continue
		}
		state, ok := weeks[m.Week]
		if !ok {
			state = &weekState{}
			weeks[m.Week] = state
		}
		state.total++
		if m.Status != match.StatusNotStarted {
			state.started++
		}
		if m.IsCompleted() {
			state.completed++
		}
		if m.Week > maxWeek {
			maxWeek = m.Week
		}
	}

	var markers competition.WeekMarkers
	for week := 1; week <= maxWeek; week++ {
		state, ok := weeks[week]
		if !ok {
			continue
		}
		if state.started > 0 {
			w := week
			markers.CurrentGameWeek = &w
		}
		if state.started < state.total && markers.CurrentPickWeek == nil {
			w := week
			markers.CurrentPickWeek = &w
		}
		if state.completed == state.total {
			w := week
			markers.LastCompletedWeek = &w
		}
	}
	return markers
}

// GameweekService recomputes week markers for every active competition.
type GameweekService struct {
	competitions competition.Repository
	matches      match.Repository
	logger       *logging.Logger
}

func NewGameweekService(
	competitions competition.Repository,
	matches match.Repository,
	logger *logging.Logger,
) *GameweekService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameweekService{
		competitions: competitions,
		matches:      matches,
		logger:       logger,
	}
}

// RecalculateMarkers rebuilds the week markers of every active competition
// from its current schedule. Per-competition failures are logged and skipped.
func (s *GameweekService) RecalculateMarkers(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "GameweekService.RecalculateMarkers")
	defer span.End()

	comps, err := s.competitions.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active competitions: %w", err)
	}

	updated := 0
	for _, comp := range comps {
		matches, err := s.matches.ListByCompetition(ctx, comp.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load schedule for competition, skipping",
				"competitionID", comp.ID,
				"error", err,
			)
			continue
		}

		markers := DeriveWeekMarkers(matches)
		if err := s.competitions.UpdateMarkers(ctx, comp.ID, markers); err != nil {
			s.logger.WarnContext(ctx, "failed to persist week markers, skipping",
				"competitionID", comp.ID,
				"error", err,
			)
			continue
		}
		updated++
	}
	return updated, nil
}
