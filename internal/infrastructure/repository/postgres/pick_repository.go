package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pickwise/survivor-league/internal/domain/pick"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListUnresolved(ctx context.Context) ([]pick.Pick, error) {
	const query = `
		SELECT id, member_id, competition_id, week, match_id, picked_team_id,
		       result, created_at, updated_at
		FROM picks
		WHERE result IS NULL
		ORDER BY competition_id, week, id`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select unresolved picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) ListResolvedByMember(ctx context.Context, memberID, competitionID string, maxWeek int) ([]pick.Pick, error) {
	const query = `
		SELECT id, member_id, competition_id, week, match_id, picked_team_id,
		       result, created_at, updated_at
		FROM picks
		WHERE member_id = $1
		  AND competition_id = $2
		  AND week <= $3
		  AND result IS NOT NULL
		ORDER BY week, id`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, memberID, competitionID, maxWeek); err != nil {
		return nil, fmt.Errorf("select resolved picks by member: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) CountByMatchIDs(ctx context.Context, matchIDs []int64) (int, error) {
	if len(matchIDs) == 0 {
		return 0, nil
	}

	const query = `SELECT COUNT(*) FROM picks WHERE match_id = ANY($1)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, pq.Array(matchIDs)); err != nil {
		return 0, fmt.Errorf("count picks by match ids: %w", err)
	}
	return count, nil
}

func (r *PickRepository) UpdateResult(ctx context.Context, pickID int64, result pick.Result) error {
	const query = `
		UPDATE picks
		SET result = $2,
		    updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, pickID, string(result))
	if err != nil {
		return fmt.Errorf("update pick %d result: %w", pickID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for pick %d: %w", pickID, err)
	}
	if affected == 0 {
		return fmt.Errorf("pick %d not found", pickID)
	}
	return nil
}
