package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// RunLeaseRepository implements the run lease on a single upserted row per
// lease name. Acquisition succeeds when the row is absent, expired, or held
// by the same holder; the conditional upsert makes the check-and-take atomic.
type RunLeaseRepository struct {
	db *sqlx.DB
}

func NewRunLeaseRepository(db *sqlx.DB) *RunLeaseRepository {
	return &RunLeaseRepository{db: db}
}

func (r *RunLeaseRepository) Acquire(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	const query = `
		INSERT INTO run_leases (name, holder, expires_at)
		VALUES ($1, $2, now() + $3::interval)
		ON CONFLICT (name) DO UPDATE
		SET holder = EXCLUDED.holder,
		    expires_at = EXCLUDED.expires_at
		WHERE run_leases.expires_at <= now()
		   OR run_leases.holder = EXCLUDED.holder`

	interval := fmt.Sprintf("%f seconds", ttl.Seconds())
	res, err := r.db.ExecContext(ctx, query, name, holder, interval)
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for lease %s: %w", name, err)
	}
	return affected > 0, nil
}

func (r *RunLeaseRepository) Release(ctx context.Context, name, holder string) error {
	const query = `DELETE FROM run_leases WHERE name = $1 AND holder = $2`

	if _, err := r.db.ExecContext(ctx, query, name, holder); err != nil {
		return fmt.Errorf("release lease %s: %w", name, err)
	}
	return nil
}
