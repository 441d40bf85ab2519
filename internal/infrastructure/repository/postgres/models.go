package postgres

import (
	"database/sql"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/domain/pick"
	"github.com/pickwise/survivor-league/internal/domain/runlog"
)

type matchTableModel struct {
	ID            int64        `db:"id"`
	CompetitionID string       `db:"competition_id"`
	Season        string       `db:"season"`
	Week          int          `db:"week"`
	HomeTeamID    int64        `db:"home_team_id"`
	AwayTeamID    int64        `db:"away_team_id"`
	HomeTeam      string       `db:"home_team"`
	AwayTeam      string       `db:"away_team"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Status        string       `db:"status"`
	KickoffAt     time.Time    `db:"kickoff_at"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	SyncedAt      *time.Time   `db:"synced_at"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:            m.ID,
		CompetitionID: m.CompetitionID,
		Season:        m.Season,
		Week:          m.Week,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		HomeScore:     nullInt64ToIntPtr(m.HomeScore),
		AwayScore:     nullInt64ToIntPtr(m.AwayScore),
		Status:        match.Status(m.Status),
		KickoffAt:     m.KickoffAt,
		ExternalID:    m.ExternalID.Int64,
		SyncedAt:      m.SyncedAt,
	}
}

type pickTableModel struct {
	ID            int64          `db:"id"`
	MemberID      string         `db:"member_id"`
	CompetitionID string         `db:"competition_id"`
	Week          int            `db:"week"`
	MatchID       int64          `db:"match_id"`
	PickedTeamID  int64          `db:"picked_team_id"`
	Result        sql.NullString `db:"result"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m pickTableModel) toDomain() pick.Pick {
	out := pick.Pick{
		ID:            m.ID,
		MemberID:      m.MemberID,
		CompetitionID: m.CompetitionID,
		Week:          m.Week,
		MatchID:       m.MatchID,
		PickedTeamID:  m.PickedTeamID,
	}
	if m.Result.Valid {
		result := pick.Result(m.Result.String)
		out.Result = &result
	}
	return out
}

type membershipTableModel struct {
	ID            int64     `db:"id"`
	MemberID      string    `db:"member_id"`
	CompetitionID string    `db:"competition_id"`
	Points        int       `db:"points"`
	Strikes       int       `db:"strikes"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (m membershipTableModel) toDomain() membership.Membership {
	return membership.Membership{
		ID:            m.ID,
		MemberID:      m.MemberID,
		CompetitionID: m.CompetitionID,
		Points:        m.Points,
		Strikes:       m.Strikes,
		Active:        m.Active,
	}
}

type competitionTableModel struct {
	ID                string        `db:"id"`
	Name              string        `db:"name"`
	Code              string        `db:"code"`
	Season            string        `db:"season"`
	CurrentGameWeek   sql.NullInt64 `db:"current_game_week"`
	CurrentPickWeek   sql.NullInt64 `db:"current_pick_week"`
	LastCompletedWeek sql.NullInt64 `db:"last_completed_week"`
	Active            bool          `db:"active"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:     m.ID,
		Name:   m.Name,
		Code:   m.Code,
		Season: m.Season,
		Markers: competition.WeekMarkers{
			CurrentGameWeek:   nullInt64ToIntPtr(m.CurrentGameWeek),
			CurrentPickWeek:   nullInt64ToIntPtr(m.CurrentPickWeek),
			LastCompletedWeek: nullInt64ToIntPtr(m.LastCompletedWeek),
		},
		Active: m.Active,
	}
}

type runTableModel struct {
	ID                  int64     `db:"id"`
	StartedAt           time.Time `db:"started_at"`
	FinishedAt          time.Time `db:"finished_at"`
	DryRun              bool      `db:"dry_run"`
	Status              string    `db:"status"`
	Error               string    `db:"error"`
	BulkCount           int       `db:"bulk_count"`
	OverdueCount        int       `db:"overdue_count"`
	IndividualCalls     int       `db:"individual_calls"`
	UpdatedCount        int       `db:"updated_count"`
	CompletedCount      int       `db:"completed_count"`
	PicksResolved       int       `db:"picks_resolved"`
	MembershipsUpdated  int       `db:"memberships_updated"`
	CompetitionsUpdated int       `db:"competitions_updated"`
}

func (m runTableModel) toDomain() runlog.Run {
	return runlog.Run{
		ID:                  m.ID,
		StartedAt:           m.StartedAt,
		FinishedAt:          m.FinishedAt,
		DryRun:              m.DryRun,
		Status:              runlog.Status(m.Status),
		Error:               m.Error,
		BulkCount:           m.BulkCount,
		OverdueCount:        m.OverdueCount,
		IndividualCalls:     m.IndividualCalls,
		UpdatedCount:        m.UpdatedCount,
		CompletedCount:      m.CompletedCount,
		PicksResolved:       m.PicksResolved,
		MembershipsUpdated:  m.MembershipsUpdated,
		CompetitionsUpdated: m.CompetitionsUpdated,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
