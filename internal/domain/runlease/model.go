package runlease

import "time"

// Lease is a named single-holder run marker with an expiry. The
// reconciliation pipeline takes one before running so overlapping triggers
// are rejected instead of racing on write ordering.
type Lease struct {
	Name      string
	Holder    string
	ExpiresAt time.Time
}

const ReconciliationLease = "reconciliation"

func (l Lease) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
