package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pickwise/survivor-league/internal/domain/competition"
)

type CompetitionRepository struct {
	mu     sync.RWMutex
	items  map[string]competition.Competition
	orders []string
}

func NewCompetitionRepository(competitions []competition.Competition) *CompetitionRepository {
	items := make(map[string]competition.Competition, len(competitions))
	orders := make([]string, 0, len(competitions))
	for _, c := range competitions {
		items[c.ID] = c
		orders = append(orders, c.ID)
	}
	return &CompetitionRepository{items: items, orders: orders}
}

func (r *CompetitionRepository) ListActive(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.orders))
	for _, id := range r.orders {
		if c := r.items[id]; c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[competitionID]
	if !ok {
		return competition.Competition{}, false, nil
	}
	return c, true, nil
}

func (r *CompetitionRepository) UpdateMarkers(_ context.Context, competitionID string, markers competition.WeekMarkers) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[competitionID]
	if !ok {
		return fmt.Errorf("competition %s not found", competitionID)
	}
	existing.Markers = markers
	r.items[competitionID] = existing
	return nil
}
