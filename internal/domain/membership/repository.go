package membership

import "context"

type Repository interface {
	ListActive(ctx context.Context) ([]Membership, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Membership, error)
	UpdateTotals(ctx context.Context, membershipID int64, points, strikes int) error
}
