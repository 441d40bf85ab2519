package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pickwise/survivor-league/internal/domain/membership"
)

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) ListActive(ctx context.Context) ([]membership.Membership, error) {
	const query = `
		SELECT id, member_id, competition_id, points, strikes, active,
		       created_at, updated_at
		FROM memberships
		WHERE active
		ORDER BY competition_id, member_id`

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select active memberships: %w", err)
	}

	out := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MembershipRepository) ListByCompetition(ctx context.Context, competitionID string) ([]membership.Membership, error) {
	const query = `
		SELECT id, member_id, competition_id, points, strikes, active,
		       created_at, updated_at
		FROM memberships
		WHERE competition_id = $1
		ORDER BY member_id`

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, competitionID); err != nil {
		return nil, fmt.Errorf("select memberships by competition: %w", err)
	}

	out := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MembershipRepository) UpdateTotals(ctx context.Context, membershipID int64, points, strikes int) error {
	const query = `
		UPDATE memberships
		SET points = $2,
		    strikes = $3,
		    updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, membershipID, points, strikes)
	if err != nil {
		return fmt.Errorf("update membership %d totals: %w", membershipID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for membership %d: %w", membershipID, err)
	}
	if affected == 0 {
		return fmt.Errorf("membership %d not found", membershipID)
	}
	return nil
}
