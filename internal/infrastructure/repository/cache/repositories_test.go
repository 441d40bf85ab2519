package cache

import (
	"context"
	"testing"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/infrastructure/repository/memory"
	basecache "github.com/pickwise/survivor-league/internal/platform/cache"
	"github.com/stretchr/testify/require"
)

func TestCompetitionRepository_WriteInvalidatesReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := memory.NewCompetitionRepository([]competition.Competition{
		{ID: "comp-1", Name: "Premier League", Code: "PL", Season: "2025", Active: true},
	})
	repo := NewCompetitionRepository(next, basecache.NewStore(time.Minute))

	before, found, err := repo.GetByID(ctx, "comp-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 0, before.SettledWeek())

	week := 3
	require.NoError(t, repo.UpdateMarkers(ctx, "comp-1", competition.WeekMarkers{LastCompletedWeek: &week}))

	after, found, err := repo.GetByID(ctx, "comp-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 3, after.SettledWeek(), "read after an invalidating write must not be stale")
}

func TestCompetitionRepository_ListActiveIsCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := memory.NewCompetitionRepository([]competition.Competition{
		{ID: "comp-1", Name: "Premier League", Code: "PL", Season: "2025", Active: true},
	})
	repo := NewCompetitionRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Mutate the cached copy; the next read must serve a fresh snapshot.
	first[0].Name = "mutated"
	second, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Equal(t, "Premier League", second[0].Name)
}

func TestMatchRepository_ApplySyncInvalidatesSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kickoff := time.Date(2025, time.August, 16, 15, 0, 0, 0, time.UTC)
	next := memory.NewMatchRepository([]match.Match{
		{ID: 1, CompetitionID: "comp-1", Season: "2025", Week: 1, Status: match.StatusNotStarted, KickoffAt: kickoff},
	})
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))

	_, err := repo.ListByCompetition(ctx, "comp-1")
	require.NoError(t, err)

	require.NoError(t, repo.ApplySync(ctx, match.Match{ID: 1, Status: match.StatusCompleted}))

	schedule, err := repo.ListByCompetition(ctx, "comp-1")
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	require.Equal(t, match.StatusCompleted, schedule[0].Status)
}
