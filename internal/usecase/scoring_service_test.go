package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/domain/pick"
	"github.com/pickwise/survivor-league/internal/infrastructure/repository/memory"
)

func resolvedPick(id int64, week int, result pick.Result) pick.Pick {
	return pick.Pick{
		ID:            id,
		MemberID:      "alice",
		CompetitionID: "comp-1",
		Week:          week,
		MatchID:       id,
		PickedTeamID:  1,
		Result:        &result,
	}
}

func TestComputeMemberTotals_MissedWeeksCostStrikes(t *testing.T) {
	t.Parallel()

	// Weeks 1 and 2 picked out of a 4-week watermark: weeks 3 and 4 missed.
	picks := []pick.Pick{
		resolvedPick(1, 1, pick.ResultWin),
		resolvedPick(2, 2, pick.ResultLoss),
	}

	points, strikes := ComputeMemberTotals(picks, 4)
	if points != 3 {
		t.Fatalf("unexpected points: got=%d want=%d", points, 3)
	}
	if strikes != 3 {
		t.Fatalf("unexpected strikes: got=%d want=%d", strikes, 3)
	}
}

func TestComputeMemberTotals_ZeroWatermark(t *testing.T) {
	t.Parallel()

	picks := []pick.Pick{resolvedPick(1, 1, pick.ResultWin)}
	points, strikes := ComputeMemberTotals(picks, 0)
	if points != 0 || strikes != 0 {
		t.Fatalf("expected (0,0) before any week settles, got=(%d,%d)", points, strikes)
	}
}

func TestComputeMemberTotals_AllWins(t *testing.T) {
	t.Parallel()

	const watermark = 6
	const picked = 4
	picks := make([]pick.Pick, 0, picked)
	for week := 1; week <= picked; week++ {
		picks = append(picks, resolvedPick(int64(week), week, pick.ResultWin))
	}

	points, strikes := ComputeMemberTotals(picks, watermark)
	if points != picked*pointsPerWin {
		t.Fatalf("unexpected points: got=%d want=%d", points, picked*pointsPerWin)
	}
	if strikes != watermark-picked {
		t.Fatalf("unexpected strikes: got=%d want=%d", strikes, watermark-picked)
	}
}

func TestComputeMemberTotals_IgnoresPicksBeyondWatermark(t *testing.T) {
	t.Parallel()

	picks := []pick.Pick{
		resolvedPick(1, 1, pick.ResultDraw),
		resolvedPick(2, 5, pick.ResultWin),
	}

	points, strikes := ComputeMemberTotals(picks, 1)
	if points != pointsPerDraw {
		t.Fatalf("unexpected points: got=%d want=%d", points, pointsPerDraw)
	}
	if strikes != 0 {
		t.Fatalf("unexpected strikes: got=%d want=%d", strikes, 0)
	}
}

func TestComputeMemberTotals_UnresolvedPickCountsAsMissed(t *testing.T) {
	t.Parallel()

	picks := []pick.Pick{
		resolvedPick(1, 1, pick.ResultWin),
		{ID: 2, MemberID: "alice", CompetitionID: "comp-1", Week: 2, MatchID: 2, PickedTeamID: 1},
	}

	points, strikes := ComputeMemberTotals(picks, 2)
	if points != pointsPerWin {
		t.Fatalf("unexpected points: got=%d want=%d", points, pointsPerWin)
	}
	if strikes != 1 {
		t.Fatalf("unexpected strikes: got=%d want=%d", strikes, 1)
	}
}

func TestScoringService_ResolvePendingPicks(t *testing.T) {
	t.Parallel()

	two, one := 2, 1
	kickoff := time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)
	matches := memory.NewMatchRepository([]match.Match{
		{
			ID: 11, CompetitionID: "comp-1", Week: 1,
			HomeTeamID: 100, AwayTeamID: 200,
			HomeScore: &two, AwayScore: &one,
			Status: match.StatusCompleted, KickoffAt: kickoff,
		},
		{
			ID: 12, CompetitionID: "comp-1", Week: 2,
			HomeTeamID: 300, AwayTeamID: 400,
			Status: match.StatusNotStarted, KickoffAt: kickoff.AddDate(0, 0, 7),
		},
	})
	picks := memory.NewPickRepository([]pick.Pick{
		{ID: 1, MemberID: "alice", CompetitionID: "comp-1", Week: 1, MatchID: 11, PickedTeamID: 100},
		{ID: 2, MemberID: "bob", CompetitionID: "comp-1", Week: 1, MatchID: 11, PickedTeamID: 200},
		{ID: 3, MemberID: "alice", CompetitionID: "comp-1", Week: 2, MatchID: 12, PickedTeamID: 300},
	})

	service := NewScoringService(picks, nil, nil, matches, nil)
	resolved, err := service.ResolvePendingPicks(context.Background())
	if err != nil {
		t.Fatalf("resolve pending picks: %v", err)
	}
	if resolved != 2 {
		t.Fatalf("unexpected resolved count: got=%d want=%d", resolved, 2)
	}

	alice, _ := picks.Get(1)
	if alice.Result == nil || *alice.Result != pick.ResultWin {
		t.Fatalf("expected win for alice, got=%v", alice.Result)
	}
	bob, _ := picks.Get(2)
	if bob.Result == nil || *bob.Result != pick.ResultLoss {
		t.Fatalf("expected loss for bob, got=%v", bob.Result)
	}
	future, _ := picks.Get(3)
	if future.Result != nil {
		t.Fatalf("pick on an unplayed match must stay unresolved, got=%v", *future.Result)
	}
}

func TestScoringService_RecalculateAll(t *testing.T) {
	t.Parallel()

	lastCompleted := 2
	competitions := memory.NewCompetitionRepository([]competition.Competition{
		{
			ID: "comp-1", Name: "Premier League", Code: "PL", Season: "2025", Active: true,
			Markers: competition.WeekMarkers{LastCompletedWeek: &lastCompleted},
		},
	})
	picks := memory.NewPickRepository([]pick.Pick{
		resolvedPick(1, 1, pick.ResultWin),
		resolvedPick(2, 2, pick.ResultLoss),
	})
	memberships := memory.NewMembershipRepository([]membership.Membership{
		{ID: 1, MemberID: "alice", CompetitionID: "comp-1", Active: true},
		{ID: 2, MemberID: "bob", CompetitionID: "comp-1", Active: true},
	})

	service := NewScoringService(picks, memberships, competitions, nil, nil)
	updated, err := service.RecalculateAll(context.Background())
	if err != nil {
		t.Fatalf("recalculate all: %v", err)
	}
	if updated != 2 {
		t.Fatalf("unexpected updated count: got=%d want=%d", updated, 2)
	}

	alice, _ := memberships.Get(1)
	if alice.Points != 3 || alice.Strikes != 1 {
		t.Fatalf("unexpected alice totals: got=(%d,%d) want=(3,1)", alice.Points, alice.Strikes)
	}
	// Bob never picked: one strike per settled week.
	bob, _ := memberships.Get(2)
	if bob.Points != 0 || bob.Strikes != 2 {
		t.Fatalf("unexpected bob totals: got=(%d,%d) want=(0,2)", bob.Points, bob.Strikes)
	}

	// A second pass changes nothing and reports zero updates.
	updated, err = service.RecalculateAll(context.Background())
	if err != nil {
		t.Fatalf("recalculate all second pass: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected idempotent second pass, got %d updates", updated)
	}
}
