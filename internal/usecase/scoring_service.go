package usecase

import (
	"context"
	"fmt"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/domain/pick"
	"github.com/pickwise/survivor-league/internal/platform/logging"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// ComputeMemberTotals folds a member's settled picks into a (points, strikes)
// pair. Only picks at or below lastCompletedWeek count; a missed week, a week
// at or below the watermark with no pick on record, also costs one strike.
// When lastCompletedWeek is 0 nothing has settled and both totals are 0.
func ComputeMemberTotals(picks []pick.Pick, lastCompletedWeek int) (points, strikes int) {
	if lastCompletedWeek <= 0 {
		return 0, 0
	}

	weeksPicked := make(map[int]struct{}, len(picks))
	for _, p := range picks {
		if p.Week > lastCompletedWeek || !p.Resolved() {
			continue
		}
		weeksPicked[p.Week] = struct{}{}
		switch *p.Result {
		case pick.ResultWin:
			points += pointsPerWin
		case pick.ResultDraw:
			points += pointsPerDraw
		case pick.ResultLoss:
			strikes++
		}
	}

	if missed := lastCompletedWeek - len(weeksPicked); missed > 0 {
		strikes += missed
	}
	return points, strikes
}

// ScoringService settles pending picks against completed matches and
// recomputes membership totals from scratch.
type ScoringService struct {
	picks        pick.Repository
	memberships  membership.Repository
	competitions competition.Repository
	matches      match.Repository
	logger       *logging.Logger
}

func NewScoringService(
	picks pick.Repository,
	memberships membership.Repository,
	competitions competition.Repository,
	matches match.Repository,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		picks:        picks,
		memberships:  memberships,
		competitions: competitions,
		matches:      matches,
		logger:       logger,
	}
}

// ResolvePendingPicks assigns a result to every unresolved pick whose match
// has completed with a full score. A pick that cannot settle yet is left
// untouched; a pick that fails to settle for data reasons is logged and
// skipped so one bad row never stalls the rest.
func (s *ScoringService) ResolvePendingPicks(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ResolvePendingPicks")
	defer span.End()

	pending, err := s.picks.ListUnresolved(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unresolved picks: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	matchesByID, err := s.loadMatchIndex(ctx, pending)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, p := range pending {
		m, ok := matchesByID[p.MatchID]
		if !ok {
			s.logger.WarnContext(ctx, "pick references unknown match, skipping",
				"pickID", p.ID,
				"matchID", p.MatchID,
			)
			continue
		}

		result := CalculatePickResult(m, p.PickedTeamID)
		if result == nil {
			continue
		}
		if err := s.picks.UpdateResult(ctx, p.ID, *result); err != nil {
			s.logger.WarnContext(ctx, "failed to persist pick result, skipping",
				"pickID", p.ID,
				"matchID", p.MatchID,
				"error", err,
			)
			continue
		}
		resolved++
	}
	return resolved, nil
}

// RecalculateAll recomputes points and strikes for every active membership.
// Totals are derived values, so each membership is rebuilt from its settled
// picks rather than adjusted in place. Per-membership failures are logged and
// skipped.
func (s *ScoringService) RecalculateAll(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.RecalculateAll")
	defer span.End()

	members, err := s.memberships.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active memberships: %w", err)
	}

	watermarks := make(map[string]int)
	updated := 0
	for _, mem := range members {
		watermark, ok := watermarks[mem.CompetitionID]
		if !ok {
			comp, found, err := s.competitions.GetByID(ctx, mem.CompetitionID)
			if err != nil || !found {
				s.logger.WarnContext(ctx, "failed to load competition for membership, skipping",
					"membershipID", mem.ID,
					"competitionID", mem.CompetitionID,
					"error", err,
				)
				continue
			}
			watermark = comp.SettledWeek()
			watermarks[mem.CompetitionID] = watermark
		}

		picks, err := s.picks.ListResolvedByMember(ctx, mem.MemberID, mem.CompetitionID, watermark)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load picks for membership, skipping",
				"membershipID", mem.ID,
				"error", err,
			)
			continue
		}

		points, strikes := ComputeMemberTotals(picks, watermark)
		if points == mem.Points && strikes == mem.Strikes {
			continue
		}
		if err := s.memberships.UpdateTotals(ctx, mem.ID, points, strikes); err != nil {
			s.logger.WarnContext(ctx, "failed to persist membership totals, skipping",
				"membershipID", mem.ID,
				"error", err,
			)
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *ScoringService) loadMatchIndex(ctx context.Context, pending []pick.Pick) (map[int64]match.Match, error) {
	compIDs := make(map[string]struct{})
	for _, p := range pending {
		compIDs[p.CompetitionID] = struct{}{}
	}

	index := make(map[int64]match.Match)
	for compID := range compIDs {
		matches, err := s.matches.ListByCompetition(ctx, compID)
		if err != nil {
			return nil, fmt.Errorf("list matches for competition %s: %w", compID, err)
		}
		for _, m := range matches {
			index[m.ID] = m
		}
	}
	return index, nil
}
