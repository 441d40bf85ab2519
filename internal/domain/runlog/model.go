package runlog

import "time"

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is the persisted record of one reconciliation pass. It keeps the same
// counters the trigger response reports so operators can inspect past runs
// without scraping logs.
type Run struct {
	ID                  int64
	StartedAt           time.Time
	FinishedAt          time.Time
	DryRun              bool
	Status              Status
	Error               string
	BulkCount           int
	OverdueCount        int
	IndividualCalls     int
	UpdatedCount        int
	CompletedCount      int
	PicksResolved       int
	MembershipsUpdated  int
	CompetitionsUpdated int
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
