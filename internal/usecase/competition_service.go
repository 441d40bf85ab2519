package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
)

// CompetitionService serves the read-only views the HTTP surface exposes:
// tracked competitions, their schedules and their standings.
type CompetitionService struct {
	competitions competition.Repository
	matches      match.Repository
	memberships  membership.Repository
}

func NewCompetitionService(
	competitions competition.Repository,
	matches match.Repository,
	memberships membership.Repository,
) *CompetitionService {
	return &CompetitionService{
		competitions: competitions,
		matches:      matches,
		memberships:  memberships,
	}
}

func (s *CompetitionService) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.ListCompetitions")
	defer span.End()

	comps, err := s.competitions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active competitions: %w", err)
	}
	return comps, nil
}

// ListMatches returns the competition's schedule ordered by week, then
// kickoff time.
func (s *CompetitionService) ListMatches(ctx context.Context, competitionID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.ListMatches")
	defer span.End()

	if strings.TrimSpace(competitionID) == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if _, found, err := s.competitions.GetByID(ctx, competitionID); err != nil {
		return nil, fmt.Errorf("load competition %s: %w", competitionID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: competition %s", ErrNotFound, competitionID)
	}

	matches, err := s.matches.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list matches for competition %s: %w", competitionID, err)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Week != matches[j].Week {
			return matches[i].Week < matches[j].Week
		}
		return matches[i].KickoffAt.Before(matches[j].KickoffAt)
	})
	return matches, nil
}

// Standings returns the competition's memberships ranked by points
// descending, then strikes ascending, then member id for a stable order.
func (s *CompetitionService) Standings(ctx context.Context, competitionID string) ([]membership.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "CompetitionService.Standings")
	defer span.End()

	if strings.TrimSpace(competitionID) == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if _, found, err := s.competitions.GetByID(ctx, competitionID); err != nil {
		return nil, fmt.Errorf("load competition %s: %w", competitionID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: competition %s", ErrNotFound, competitionID)
	}

	members, err := s.memberships.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list memberships for competition %s: %w", competitionID, err)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Points != members[j].Points {
			return members[i].Points > members[j].Points
		}
		if members[i].Strikes != members[j].Strikes {
			return members[i].Strikes < members[j].Strikes
		}
		return members[i].MemberID < members[j].MemberID
	})
	return members, nil
}
