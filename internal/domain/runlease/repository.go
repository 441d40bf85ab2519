package runlease

import (
	"context"
	"time"
)

// Repository grants and releases run leases. Acquire returns false when a
// non-expired lease is already held by someone else.
type Repository interface {
	Acquire(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name, holder string) error
}
