package pick

import "context"

type Repository interface {
	ListUnresolved(ctx context.Context) ([]Pick, error)
	ListResolvedByMember(ctx context.Context, memberID, competitionID string, maxWeek int) ([]Pick, error)
	CountByMatchIDs(ctx context.Context, matchIDs []int64) (int, error)
	UpdateResult(ctx context.Context, pickID int64, result Result) error
}
