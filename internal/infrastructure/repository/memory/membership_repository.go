package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pickwise/survivor-league/internal/domain/membership"
)

type MembershipRepository struct {
	mu    sync.RWMutex
	items map[int64]membership.Membership
}

func NewMembershipRepository(memberships []membership.Membership) *MembershipRepository {
	items := make(map[int64]membership.Membership, len(memberships))
	for _, m := range memberships {
		items[m.ID] = m
	}
	return &MembershipRepository{items: items}
}

func (r *MembershipRepository) ListActive(_ context.Context) ([]membership.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]membership.Membership, 0)
	for _, m := range r.items {
		if m.Active {
			out = append(out, m)
		}
	}
	sortMemberships(out)
	return out, nil
}

func (r *MembershipRepository) ListByCompetition(_ context.Context, competitionID string) ([]membership.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]membership.Membership, 0)
	for _, m := range r.items {
		if m.CompetitionID == competitionID {
			out = append(out, m)
		}
	}
	sortMemberships(out)
	return out, nil
}

func (r *MembershipRepository) UpdateTotals(_ context.Context, membershipID int64, points, strikes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[membershipID]
	if !ok {
		return fmt.Errorf("membership %d not found", membershipID)
	}
	existing.Points = points
	existing.Strikes = strikes
	r.items[membershipID] = existing
	return nil
}

// Get returns one membership by id. Test helper.
func (r *MembershipRepository) Get(id int64) (membership.Membership, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	return m, ok
}

func sortMemberships(items []membership.Membership) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CompetitionID != items[j].CompetitionID {
			return items[i].CompetitionID < items[j].CompetitionID
		}
		return items[i].MemberID < items[j].MemberID
	})
}
