package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pickwise/survivor-league/internal/domain/runlog"
)

type RunLogRepository struct {
	db *sqlx.DB
}

func NewRunLogRepository(db *sqlx.DB) *RunLogRepository {
	return &RunLogRepository{db: db}
}

func (r *RunLogRepository) Save(ctx context.Context, run runlog.Run) (runlog.Run, error) {
	const query = `
		INSERT INTO reconciliation_runs (
			started_at, finished_at, dry_run, status, error,
			bulk_count, overdue_count, individual_calls, updated_count,
			completed_count, picks_resolved, memberships_updated,
			competitions_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		run.StartedAt,
		run.FinishedAt,
		run.DryRun,
		string(run.Status),
		run.Error,
		run.BulkCount,
		run.OverdueCount,
		run.IndividualCalls,
		run.UpdatedCount,
		run.CompletedCount,
		run.PicksResolved,
		run.MembershipsUpdated,
		run.CompetitionsUpdated,
	)
	if err != nil {
		return runlog.Run{}, fmt.Errorf("insert reconciliation run: %w", err)
	}
	run.ID = id
	return run, nil
}

func (r *RunLogRepository) Latest(ctx context.Context) (runlog.Run, bool, error) {
	const query = `
		SELECT id, started_at, finished_at, dry_run, status, error,
		       bulk_count, overdue_count, individual_calls, updated_count,
		       completed_count, picks_resolved, memberships_updated,
		       competitions_updated
		FROM reconciliation_runs
		ORDER BY id DESC
		LIMIT 1`

	var row runTableModel
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return runlog.Run{}, false, nil
		}
		return runlog.Run{}, false, fmt.Errorf("select latest reconciliation run: %w", err)
	}
	return row.toDomain(), true, nil
}
