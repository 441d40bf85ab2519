package runlog

import "context"

type Repository interface {
	Save(ctx context.Context, run Run) (Run, error)
	Latest(ctx context.Context) (Run, bool, error)
}
