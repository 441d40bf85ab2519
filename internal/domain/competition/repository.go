package competition

import "context"

type Repository interface {
	ListActive(ctx context.Context) ([]Competition, error)
	GetByID(ctx context.Context, competitionID string) (Competition, bool, error)
	UpdateMarkers(ctx context.Context, competitionID string, markers WeekMarkers) error
}
