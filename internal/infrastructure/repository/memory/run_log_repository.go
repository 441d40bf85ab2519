package memory

import (
	"context"
	"sync"

	"github.com/pickwise/survivor-league/internal/domain/runlog"
)

type RunLogRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []runlog.Run
}

func NewRunLogRepository() *RunLogRepository {
	return &RunLogRepository{nextID: 1}
}

func (r *RunLogRepository) Save(_ context.Context, run runlog.Run) (runlog.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.ID = r.nextID
	r.nextID++
	r.items = append(r.items, run)
	return run, nil
}

func (r *RunLogRepository) Latest(_ context.Context) (runlog.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.items) == 0 {
		return runlog.Run{}, false, nil
	}
	return r.items[len(r.items)-1], true, nil
}
