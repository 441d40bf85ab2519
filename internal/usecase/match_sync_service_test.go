package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/infrastructure/repository/memory"
)

type stubProvider struct {
	bulk          []ExternalMatch
	bulkErr       error
	individual    map[int64]ExternalMatch
	individualErr error

	bulkCalls       int
	individualCalls []int64
}

func (p *stubProvider) FetchMatchesByRange(_ context.Context, _ string, _, _ time.Time) ([]ExternalMatch, error) {
	p.bulkCalls++
	return p.bulk, p.bulkErr
}

func (p *stubProvider) FetchMatchByID(_ context.Context, externalID int64) (ExternalMatch, bool, error) {
	p.individualCalls = append(p.individualCalls, externalID)
	if p.individualErr != nil {
		return ExternalMatch{}, false, p.individualErr
	}
	record, ok := p.individual[externalID]
	return record, ok, nil
}

func syncFixtures() (*memory.CompetitionRepository, *memory.MatchRepository, time.Time) {
	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)
	competitions := memory.NewCompetitionRepository([]competition.Competition{
		{ID: "comp-1", Name: "Premier League", Code: "PL", Season: "2025", Active: true},
	})
	matches := memory.NewMatchRepository([]match.Match{
		{
			ID: 1, CompetitionID: "comp-1", Season: "2025", Week: 1,
			HomeTeamID: 100, AwayTeamID: 200, HomeTeam: "Arsenal", AwayTeam: "Chelsea",
			Status: match.StatusNotStarted, KickoffAt: now.Add(-24 * time.Hour), ExternalID: 501,
		},
		{
			ID: 2, CompetitionID: "comp-1", Season: "2025", Week: 1,
			HomeTeamID: 300, AwayTeamID: 400, HomeTeam: "Liverpool", AwayTeam: "Everton",
			Status: match.StatusNotStarted, KickoffAt: now.Add(-30 * 24 * time.Hour), ExternalID: 502,
		},
	})
	return competitions, matches, now
}

func newTestSyncService(
	provider MatchDataProvider,
	matches *memory.MatchRepository,
	competitions *memory.CompetitionRepository,
	now time.Time,
) (*SyncService, *[]time.Duration) {
	service := NewSyncService(provider, matches, competitions, SyncConfig{
		LookBackDays:    7,
		LookForwardDays: 7,
		IndividualDelay: 6 * time.Second,
	}, nil)
	service.now = func() time.Time { return now }

	var slept []time.Duration
	service.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return service, &slept
}

func TestSyncService_BulkUpdatesAndCompletionTransition(t *testing.T) {
	t.Parallel()

	competitions, matches, now := syncFixtures()
	two, one := 2, 1
	provider := &stubProvider{
		bulk: []ExternalMatch{
			{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
		},
		individual: map[int64]ExternalMatch{},
	}

	service, slept := newTestSyncService(provider, matches, competitions, now)
	result, err := service.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if result.BulkCount != 1 {
		t.Fatalf("unexpected bulk count: got=%d want=%d", result.BulkCount, 1)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("unexpected updated count: got=%d want=%d", result.UpdatedCount, 1)
	}
	if len(result.Completed) != 1 || result.Completed[0].ID != 1 {
		t.Fatalf("expected match 1 to transition into completed, got=%+v", result.Completed)
	}

	stored, _ := matches.Get(1)
	if stored.Status != match.StatusCompleted {
		t.Fatalf("unexpected stored status: got=%s", stored.Status)
	}
	if stored.HomeScore == nil || *stored.HomeScore != 2 || stored.AwayScore == nil || *stored.AwayScore != 1 {
		t.Fatalf("unexpected stored score: got=(%v,%v)", stored.HomeScore, stored.AwayScore)
	}
	if stored.SyncedAt == nil || !stored.SyncedAt.Equal(now) {
		t.Fatalf("unexpected synced timestamp: got=%v want=%v", stored.SyncedAt, now)
	}

	// Match 2 sits outside the bulk window and needs an individual lookup.
	// The provider does not know it yet, so it stays untouched with no delay
	// spent on a single call.
	if result.IndividualCalls != 1 {
		t.Fatalf("unexpected individual calls: got=%d want=%d", result.IndividualCalls, 1)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no delay before the first individual call, slept=%v", *slept)
	}
}

func TestSyncService_RerunWithSameDataIsNoOp(t *testing.T) {
	t.Parallel()

	competitions, matches, now := syncFixtures()
	two, one := 2, 1
	provider := &stubProvider{
		bulk: []ExternalMatch{
			{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
		},
		individual: map[int64]ExternalMatch{
			502: {ExternalID: 502, Status: "FINISHED", HomeScore: &one, AwayScore: &one},
		},
	}

	service, _ := newTestSyncService(provider, matches, competitions, now)
	first, err := service.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.UpdatedCount != 2 {
		t.Fatalf("unexpected first-pass updates: got=%d want=%d", first.UpdatedCount, 2)
	}

	before, _ := matches.Get(2)
	second, err := service.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.UpdatedCount != 0 || len(second.Completed) != 0 {
		t.Fatalf("expected no-op second pass, got updates=%d completed=%d",
			second.UpdatedCount, len(second.Completed))
	}
	after, _ := matches.Get(2)
	if !after.SyncedAt.Equal(*before.SyncedAt) {
		t.Fatalf("second pass must not touch synced timestamp: got=%v want=%v", after.SyncedAt, before.SyncedAt)
	}
}

func TestSyncService_UnmatchedBulkRecordAborts(t *testing.T) {
	t.Parallel()

	competitions, matches, now := syncFixtures()
	provider := &stubProvider{
		bulk: []ExternalMatch{{ExternalID: 999, Status: "FINISHED"}},
	}

	service, _ := newTestSyncService(provider, matches, competitions, now)
	_, err := service.Sync(context.Background(), false)
	if !errors.Is(err, ErrScheduleDesync) {
		t.Fatalf("expected ErrScheduleDesync, got %v", err)
	}
}

func TestSyncService_BulkRecordWithoutExternalIDAborts(t *testing.T) {
	t.Parallel()

	competitions, matches, now := syncFixtures()
	provider := &stubProvider{
		bulk: []ExternalMatch{{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: "FINISHED"}},
	}

	service, _ := newTestSyncService(provider, matches, competitions, now)
	_, err := service.Sync(context.Background(), false)
	if !errors.Is(err, ErrScheduleDesync) {
		t.Fatalf("expected ErrScheduleDesync, got %v", err)
	}
}

func TestSyncService_IndividualSweepSkipsCoveredAndSpacesCalls(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)
	competitions := memory.NewCompetitionRepository([]competition.Competition{
		{ID: "comp-1", Name: "Premier League", Code: "PL", Season: "2025", Active: true},
	})
	overdue := func(id, externalID int64) match.Match {
		return match.Match{
			ID: id, CompetitionID: "comp-1", Season: "2025", Week: 1,
			HomeTeamID: id * 10, AwayTeamID: id*10 + 1,
			Status: match.StatusNotStarted, KickoffAt: now.Add(-48 * time.Hour), ExternalID: externalID,
		}
	}
	matches := memory.NewMatchRepository([]match.Match{
		overdue(1, 501), overdue(2, 502), overdue(3, 503),
	})

	one := 1
	provider := &stubProvider{
		bulk: []ExternalMatch{{ExternalID: 501, Status: "IN_PLAY"}},
		individual: map[int64]ExternalMatch{
			503: {ExternalID: 503, Status: "FINISHED", HomeScore: &one, AwayScore: &one},
		},
	}

	service, slept := newTestSyncService(provider, matches, competitions, now)
	result, err := service.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	// 501 was covered by the bulk phase; only 502 and 503 go individual.
	if len(provider.individualCalls) != 2 {
		t.Fatalf("unexpected individual lookups: got=%v", provider.individualCalls)
	}
	if result.IndividualCalls != 2 {
		t.Fatalf("unexpected individual call count: got=%d want=%d", result.IndividualCalls, 2)
	}
	if len(*slept) != 1 || (*slept)[0] != 6*time.Second {
		t.Fatalf("expected one 6s delay between individual calls, slept=%v", *slept)
	}

	// 502 is unknown to the provider and stays untouched.
	waiting, _ := matches.Get(2)
	if waiting.Status != match.StatusNotStarted || waiting.SyncedAt != nil {
		t.Fatalf("expected match 2 untouched, got status=%s syncedAt=%v", waiting.Status, waiting.SyncedAt)
	}
	settled, _ := matches.Get(3)
	if settled.Status != match.StatusCompleted {
		t.Fatalf("expected match 3 completed, got status=%s", settled.Status)
	}
}

func TestSyncService_IndividualLookupFailureIsSkipped(t *testing.T) {
	t.Parallel()

	competitions, matches, now := syncFixtures()
	provider := &stubProvider{
		individualErr: errors.New("rate limited"),
	}

	service, _ := newTestSyncService(provider, matches, competitions, now)
	result, err := service.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("individual lookup failures must not abort the run: %v", err)
	}
	if result.UpdatedCount != 0 {
		t.Fatalf("unexpected updates: got=%d want=%d", result.UpdatedCount, 0)
	}
	if result.OverdueCount != 2 {
		t.Fatalf("unexpected overdue count: got=%d want=%d", result.OverdueCount, 2)
	}
}

func TestSyncService_DryRunPersistsNothing(t *testing.T) {
	t.Parallel()

	competitions, matches, now := syncFixtures()
	two, one := 2, 1
	provider := &stubProvider{
		bulk: []ExternalMatch{
			{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
		},
	}

	service, _ := newTestSyncService(provider, matches, competitions, now)
	result, err := service.Sync(context.Background(), true)
	if err != nil {
		t.Fatalf("dry-run sync: %v", err)
	}
	if result.UpdatedCount != 1 || len(result.Completed) != 1 {
		t.Fatalf("dry run must still count updates: got updates=%d completed=%d",
			result.UpdatedCount, len(result.Completed))
	}

	stored, _ := matches.Get(1)
	if stored.Status != match.StatusNotStarted || stored.HomeScore != nil || stored.SyncedAt != nil {
		t.Fatalf("dry run must not persist, got=%+v", stored)
	}
}

func TestSyncService_ExcludedSeasonSkipsOverdueSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)
	competitions := memory.NewCompetitionRepository([]competition.Competition{
		{ID: "comp-1", Name: "Premier League", Code: "PL", Season: "2025", Active: true},
	})
	matches := memory.NewMatchRepository([]match.Match{
		{
			ID: 1, CompetitionID: "comp-1", Season: "2019", Week: 38,
			HomeTeamID: 100, AwayTeamID: 200,
			Status: match.StatusNotStarted, KickoffAt: now.AddDate(-6, 0, 0), ExternalID: 700,
		},
	})
	provider := &stubProvider{}

	service, _ := newTestSyncService(provider, matches, competitions, now)
	service.cfg.ExcludeSeasons = []string{"2019"}

	result, err := service.Sync(context.Background(), false)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.OverdueCount != 0 || len(provider.individualCalls) != 0 {
		t.Fatalf("excluded season must not reach the provider: overdue=%d calls=%v",
			result.OverdueCount, provider.individualCalls)
	}
}
