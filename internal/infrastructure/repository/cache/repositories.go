// Package cache wraps the persistence repositories with a short-TTL
// read-through cache. Reads served to the public HTTP surface hit the cache;
// every write invalidates its entity prefix, so the reconciliation pipeline
// always observes its own writes on the next read.
package cache

import (
	"context"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	basecache "github.com/pickwise/survivor-league/internal/platform/cache"
)

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) ListActive(ctx context.Context) ([]competition.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:active", func(ctx context.Context) (any, error) {
		items, err := r.next.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

type cachedCompetitionByID struct {
	value  competition.Competition
	exists bool
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	key := "competition:id:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cachedCompetitionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}

	cached, _ := v.(cachedCompetitionByID)
	return cached.value, cached.exists, nil
}

func (r *CompetitionRepository) UpdateMarkers(ctx context.Context, competitionID string, markers competition.WeekMarkers) error {
	if err := r.next.UpdateMarkers(ctx, competitionID, markers); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "competition:")
	return nil
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID string) ([]match.Match, error) {
	key := "match:competition:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

// ListOverdue is never cached: the overdue scan is time-anchored and only
// the synchronizer calls it.
func (r *MatchRepository) ListOverdue(ctx context.Context, before time.Time, excludeSeasons []string) ([]match.Match, error) {
	return r.next.ListOverdue(ctx, before, excludeSeasons)
}

func (r *MatchRepository) ApplySync(ctx context.Context, m match.Match) error {
	if err := r.next.ApplySync(ctx, m); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "match:")
	return nil
}

type MembershipRepository struct {
	next  membership.Repository
	cache *basecache.Store
}

func NewMembershipRepository(next membership.Repository, cache *basecache.Store) *MembershipRepository {
	return &MembershipRepository{next: next, cache: cache}
}

func (r *MembershipRepository) ListActive(ctx context.Context) ([]membership.Membership, error) {
	return r.next.ListActive(ctx)
}

func (r *MembershipRepository) ListByCompetition(ctx context.Context, competitionID string) ([]membership.Membership, error) {
	key := "membership:competition:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]membership.Membership(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]membership.Membership)
	return append([]membership.Membership(nil), items...), nil
}

func (r *MembershipRepository) UpdateTotals(ctx context.Context, membershipID int64, points, strikes int) error {
	if err := r.next.UpdateTotals(ctx, membershipID, points, strikes); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "membership:")
	return nil
}
