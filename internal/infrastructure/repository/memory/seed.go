package memory

import (
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/domain/pick"
)

const CompetitionIDPremierLeague = "eng-premier-league-2025"

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{
			ID:     CompetitionIDPremierLeague,
			Name:   "Premier League",
			Code:   "PL",
			Season: "2025",
			Active: true,
		},
	}
}

func SeedMatches() []match.Match {
	kickoff := func(day, hour int) time.Time {
		return time.Date(2025, time.August, day, hour, 0, 0, 0, time.UTC)
	}
	score := func(v int) *int { return &v }

	return []match.Match{
		{
			ID: 1, CompetitionID: CompetitionIDPremierLeague, Season: "2025", Week: 1,
			HomeTeamID: 57, AwayTeamID: 64, HomeTeam: "Arsenal", AwayTeam: "Liverpool",
			HomeScore: score(2), AwayScore: score(1), Status: match.StatusCompleted,
			KickoffAt: kickoff(16, 15), ExternalID: 501001,
		},
		{
			ID: 2, CompetitionID: CompetitionIDPremierLeague, Season: "2025", Week: 1,
			HomeTeamID: 61, AwayTeamID: 65, HomeTeam: "Chelsea", AwayTeam: "Manchester City",
			HomeScore: score(0), AwayScore: score(0), Status: match.StatusCompleted,
			KickoffAt: kickoff(16, 17), ExternalID: 501002,
		},
		{
			ID: 3, CompetitionID: CompetitionIDPremierLeague, Season: "2025", Week: 2,
			HomeTeamID: 64, AwayTeamID: 61, HomeTeam: "Liverpool", AwayTeam: "Chelsea",
			HomeScore: score(3), AwayScore: score(1), Status: match.StatusCompleted,
			KickoffAt: kickoff(23, 15), ExternalID: 501003,
		},
		{
			ID: 4, CompetitionID: CompetitionIDPremierLeague, Season: "2025", Week: 2,
			HomeTeamID: 65, AwayTeamID: 57, HomeTeam: "Manchester City", AwayTeam: "Arsenal",
			Status: match.StatusNotStarted, KickoffAt: kickoff(24, 17), ExternalID: 501004,
		},
		{
			ID: 5, CompetitionID: CompetitionIDPremierLeague, Season: "2025", Week: 3,
			HomeTeamID: 57, AwayTeamID: 65, HomeTeam: "Arsenal", AwayTeam: "Manchester City",
			Status: match.StatusNotStarted, KickoffAt: kickoff(30, 15), ExternalID: 501005,
		},
		{
			ID: 6, CompetitionID: CompetitionIDPremierLeague, Season: "2025", Week: 3,
			HomeTeamID: 61, AwayTeamID: 64, HomeTeam: "Chelsea", AwayTeam: "Liverpool",
			Status: match.StatusNotStarted, KickoffAt: kickoff(30, 17), ExternalID: 501006,
		},
	}
}

func SeedPicks() []pick.Pick {
	win := pick.ResultWin
	loss := pick.ResultLoss

	return []pick.Pick{
		{ID: 1, MemberID: "alice", CompetitionID: CompetitionIDPremierLeague, Week: 1, MatchID: 1, PickedTeamID: 57, Result: &win},
		{ID: 2, MemberID: "bob", CompetitionID: CompetitionIDPremierLeague, Week: 1, MatchID: 1, PickedTeamID: 64, Result: &loss},
		{ID: 3, MemberID: "alice", CompetitionID: CompetitionIDPremierLeague, Week: 2, MatchID: 3, PickedTeamID: 64},
		{ID: 4, MemberID: "bob", CompetitionID: CompetitionIDPremierLeague, Week: 2, MatchID: 4, PickedTeamID: 65},
	}
}

func SeedMemberships() []membership.Membership {
	return []membership.Membership{
		{ID: 1, MemberID: "alice", CompetitionID: CompetitionIDPremierLeague, Active: true},
		{ID: 2, MemberID: "bob", CompetitionID: CompetitionIDPremierLeague, Active: true},
	}
}
