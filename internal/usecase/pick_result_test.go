package usecase

import (
	"testing"

	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/pick"
)

func completedMatch(homeScore, awayScore int) match.Match {
	return match.Match{
		ID:         10,
		HomeTeamID: 100,
		AwayTeamID: 200,
		HomeScore:  &homeScore,
		AwayScore:  &awayScore,
		Status:     match.StatusCompleted,
	}
}

func TestCalculatePickResult_HomeAndAwaySymmetry(t *testing.T) {
	t.Parallel()

	m := completedMatch(2, 1)

	if got := CalculatePickResult(m, m.HomeTeamID); got == nil || *got != pick.ResultWin {
		t.Fatalf("expected win for winning home side, got=%v", got)
	}
	if got := CalculatePickResult(m, m.AwayTeamID); got == nil || *got != pick.ResultLoss {
		t.Fatalf("expected loss for losing away side, got=%v", got)
	}

	m = completedMatch(0, 3)
	if got := CalculatePickResult(m, m.AwayTeamID); got == nil || *got != pick.ResultWin {
		t.Fatalf("expected win for winning away side, got=%v", got)
	}
	if got := CalculatePickResult(m, m.HomeTeamID); got == nil || *got != pick.ResultLoss {
		t.Fatalf("expected loss for losing home side, got=%v", got)
	}
}

func TestCalculatePickResult_Draw(t *testing.T) {
	t.Parallel()

	m := completedMatch(1, 1)
	for _, teamID := range []int64{m.HomeTeamID, m.AwayTeamID} {
		if got := CalculatePickResult(m, teamID); got == nil || *got != pick.ResultDraw {
			t.Fatalf("expected draw for team %d, got=%v", teamID, got)
		}
	}
}

func TestCalculatePickResult_NilUntilSettled(t *testing.T) {
	t.Parallel()

	m := completedMatch(2, 1)
	m.Status = match.StatusInProgress
	if got := CalculatePickResult(m, m.HomeTeamID); got != nil {
		t.Fatalf("expected nil result for unfinished match, got=%v", *got)
	}

	m = completedMatch(2, 1)
	m.AwayScore = nil
	if got := CalculatePickResult(m, m.HomeTeamID); got != nil {
		t.Fatalf("expected nil result for missing score, got=%v", *got)
	}
}

func TestCalculatePickResult_UnknownTeam(t *testing.T) {
	t.Parallel()

	m := completedMatch(2, 1)
	if got := CalculatePickResult(m, 999); got != nil {
		t.Fatalf("expected nil result for team not playing the match, got=%v", *got)
	}
}
