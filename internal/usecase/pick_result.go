package usecase

import (
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/pick"
)

// CalculatePickResult derives the outcome of one pick from a completed
// match. It returns nil while the match is unfinished or either score is
// missing; the caller persists a result only when it is non-nil.
//
// The rule is symmetric for home and away: equal scores are a draw, a
// strictly higher score on the picked side is a win, anything else a loss.
func CalculatePickResult(m match.Match, pickedTeamID int64) *pick.Result {
	if !m.IsCompleted() || !m.HasFullScore() {
		return nil
	}

	var picked, opposing int
	switch pickedTeamID {
	case m.HomeTeamID:
		picked, opposing = *m.HomeScore, *m.AwayScore
	case m.AwayTeamID:
		picked, opposing = *m.AwayScore, *m.HomeScore
	default:
		return nil
	}

	result := pick.ResultLoss
	switch {
	case picked == opposing:
		result = pick.ResultDraw
	case picked > opposing:
		result = pick.ResultWin
	}
	return &result
}
