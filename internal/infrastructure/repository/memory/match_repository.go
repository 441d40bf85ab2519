package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[int64]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[int64]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) ListByCompetition(_ context.Context, competitionID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.CompetitionID == competitionID {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListOverdue(_ context.Context, before time.Time, excludeSeasons []string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := make(map[string]struct{}, len(excludeSeasons))
	for _, season := range excludeSeasons {
		excluded[season] = struct{}{}
	}

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if _, skip := excluded[m.Season]; skip {
			continue
		}
		if m.Status == match.StatusNotStarted && !m.KickoffAt.IsZero() && m.KickoffAt.Before(before) {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ApplySync(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[m.ID]
	if !ok {
		return fmt.Errorf("match %d not found", m.ID)
	}
	existing.Status = m.Status
	existing.HomeScore = m.HomeScore
	existing.AwayScore = m.AwayScore
	existing.SyncedAt = m.SyncedAt
	r.items[m.ID] = existing
	return nil
}

// Get returns one match by id. Test helper.
func (r *MatchRepository) Get(id int64) (match.Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	return m, ok
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}
