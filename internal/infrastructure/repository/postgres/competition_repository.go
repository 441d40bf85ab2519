package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pickwise/survivor-league/internal/domain/competition"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) ListActive(ctx context.Context) ([]competition.Competition, error) {
	const query = `
		SELECT id, name, code, season, current_game_week, current_pick_week,
		       last_completed_week, active, created_at, updated_at
		FROM competitions
		WHERE active
		ORDER BY id`

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select active competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	const query = `
		SELECT id, name, code, season, current_game_week, current_pick_week,
		       last_completed_week, active, created_at, updated_at
		FROM competitions
		WHERE id = $1`

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, competitionID); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) UpdateMarkers(ctx context.Context, competitionID string, markers competition.WeekMarkers) error {
	const query = `
		UPDATE competitions
		SET current_game_week = $2,
		    current_pick_week = $3,
		    last_completed_week = $4,
		    updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		competitionID,
		intPtrToNullInt64(markers.CurrentGameWeek),
		intPtrToNullInt64(markers.CurrentPickWeek),
		intPtrToNullInt64(markers.LastCompletedWeek),
	)
	if err != nil {
		return fmt.Errorf("update competition %s markers: %w", competitionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for competition %s: %w", competitionID, err)
	}
	if affected == 0 {
		return fmt.Errorf("competition %s not found", competitionID)
	}
	return nil
}
