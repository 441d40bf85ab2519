package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pickwise/survivor-league/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID string) ([]match.Match, error) {
	const query = `
		SELECT id, competition_id, season, week, home_team_id, away_team_id,
		       home_team, away_team, home_score, away_score, status,
		       kickoff_at, external_id, synced_at, created_at, updated_at
		FROM matches
		WHERE competition_id = $1
		ORDER BY week, kickoff_at, id`

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, competitionID); err != nil {
		return nil, fmt.Errorf("select matches by competition: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) ListOverdue(ctx context.Context, before time.Time, excludeSeasons []string) ([]match.Match, error) {
	const query = `
		SELECT id, competition_id, season, week, home_team_id, away_team_id,
		       home_team, away_team, home_score, away_score, status,
		       kickoff_at, external_id, synced_at, created_at, updated_at
		FROM matches
		WHERE status = $1
		  AND kickoff_at < $2
		  AND season <> ALL($3)
		ORDER BY kickoff_at, id`

	if excludeSeasons == nil {
		excludeSeasons = []string{}
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, string(match.StatusNotStarted), before, pq.Array(excludeSeasons)); err != nil {
		return nil, fmt.Errorf("select overdue matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) ApplySync(ctx context.Context, m match.Match) error {
	const query = `
		UPDATE matches
		SET status = $2,
		    home_score = $3,
		    away_score = $4,
		    synced_at = $5,
		    updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		m.ID,
		string(m.Status),
		intPtrToNullInt64(m.HomeScore),
		intPtrToNullInt64(m.AwayScore),
		m.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("update match %d: %w", m.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for match %d: %w", m.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("match %d not found", m.ID)
	}
	return nil
}
