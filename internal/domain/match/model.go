package match

import (
	"strings"
	"time"
)

// Status is the engine-internal three-state match status.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Match is one schedule entry. Status, scores and SyncedAt are mutated only
// by the synchronizer; nothing in the engine ever deletes a match.
type Match struct {
	ID            int64
	CompetitionID string
	Season        string
	Week          int
	HomeTeamID    int64
	AwayTeamID    int64
	HomeTeam      string
	AwayTeam      string
	HomeScore     *int
	AwayScore     *int
	Status        Status
	KickoffAt     time.Time
	ExternalID    int64
	SyncedAt      *time.Time
}

// TranslateProviderStatus maps the provider status vocabulary onto the
// internal three-state status. Unrecognized codes fall back to not_started.
func TranslateProviderStatus(value string) Status {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "IN_PLAY", "LIVE", "PAUSED", "HALFTIME", "HT":
		return StatusInProgress
	case "FINISHED", "FT", "AWARDED", "POSTPONED", "CANCELLED", "CANCELED", "SUSPENDED":
		return StatusCompleted
	case "SCHEDULED", "TIMED", "":
		return StatusNotStarted
	default:
		return StatusNotStarted
	}
}

func (m Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// HasFullScore reports whether both sides carry a score.
func (m Match) HasFullScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Overdue reports whether the match should have started but is still marked
// not_started, which makes it a candidate for an individual provider lookup.
func (m Match) Overdue(now time.Time) bool {
	return m.Status == StatusNotStarted && !m.KickoffAt.IsZero() && m.KickoffAt.Before(now)
}
