package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pickwise/survivor-league/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items map[int64]pick.Pick
}

func NewPickRepository(picks []pick.Pick) *PickRepository {
	items := make(map[int64]pick.Pick, len(picks))
	for _, p := range picks {
		items[p.ID] = p
	}
	return &PickRepository{items: items}
}

func (r *PickRepository) ListUnresolved(_ context.Context) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, p := range r.items {
		if !p.Resolved() {
			out = append(out, p)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListResolvedByMember(_ context.Context, memberID, competitionID string, maxWeek int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, p := range r.items {
		if p.MemberID != memberID || p.CompetitionID != competitionID {
			continue
		}
		if p.Week > maxWeek || !p.Resolved() {
			continue
		}
		out = append(out, p)
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) CountByMatchIDs(_ context.Context, matchIDs []int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}

	count := 0
	for _, p := range r.items {
		if _, ok := wanted[p.MatchID]; ok {
			count++
		}
	}
	return count, nil
}

func (r *PickRepository) UpdateResult(_ context.Context, pickID int64, result pick.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[pickID]
	if !ok {
		return fmt.Errorf("pick %d not found", pickID)
	}
	existing.Result = &result
	r.items[pickID] = existing
	return nil
}

// Get returns one pick by id. Test helper.
func (r *PickRepository) Get(id int64) (pick.Pick, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	return p, ok
}

func sortPicks(items []pick.Pick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		return items[i].ID < items[j].ID
	})
}
