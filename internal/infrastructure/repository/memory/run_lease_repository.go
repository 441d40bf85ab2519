package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/runlease"
)

type RunLeaseRepository struct {
	mu    sync.Mutex
	items map[string]runlease.Lease
	now   func() time.Time
}

func NewRunLeaseRepository() *RunLeaseRepository {
	return &RunLeaseRepository{
		items: make(map[string]runlease.Lease),
		now:   time.Now,
	}
}

func (r *RunLeaseRepository) Acquire(_ context.Context, name, holder string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	existing, ok := r.items[name]
	if ok && !existing.Expired(now) && existing.Holder != holder {
		return false, nil
	}
	r.items[name] = runlease.Lease{
		Name:      name,
		Holder:    holder,
		ExpiresAt: now.Add(ttl),
	}
	return true, nil
}

func (r *RunLeaseRepository) Release(_ context.Context, name, holder string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[name]
	if ok && existing.Holder == holder {
		delete(r.items, name)
	}
	return nil
}
