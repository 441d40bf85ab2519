package match

import (
	"context"
	"time"
)

// Repository exposes schedule reads plus the single write the synchronizer
// performs.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID string) ([]Match, error)
	ListOverdue(ctx context.Context, before time.Time, excludeSeasons []string) ([]Match, error)
	ApplySync(ctx context.Context, m Match) error
}
