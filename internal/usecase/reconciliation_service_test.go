package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/domain/pick"
	"github.com/pickwise/survivor-league/internal/domain/runlease"
	"github.com/pickwise/survivor-league/internal/domain/runlog"
	"github.com/pickwise/survivor-league/internal/infrastructure/repository/memory"
)

type reconciliationFixture struct {
	service      *ReconciliationService
	provider     *stubProvider
	matches      *memory.MatchRepository
	picks        *memory.PickRepository
	memberships  *memory.MembershipRepository
	competitions *memory.CompetitionRepository
	leases       *memory.RunLeaseRepository
	runs         *memory.RunLogRepository
}

func newReconciliationFixture(provider *stubProvider) *reconciliationFixture {
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
			ID: 2, CompetitionID: "comp-1", Season: "2025", Week: 2,
			HomeTeamID: 100, AwayTeamID: 300, HomeTeam: "Arsenal", AwayTeam: "Spurs",
			Status: match.StatusNotStarted, KickoffAt: now.AddDate(0, 0, 6), ExternalID: 502,
		},
	})
	picks := memory.NewPickRepository([]pick.Pick{
		{ID: 1, MemberID: "alice", CompetitionID: "comp-1", Week: 1, MatchID: 1, PickedTeamID: 100},
		{ID: 2, MemberID: "bob", CompetitionID: "comp-1", Week: 1, MatchID: 1, PickedTeamID: 200},
		{ID: 3, MemberID: "alice", CompetitionID: "comp-1", Week: 2, MatchID: 2, PickedTeamID: 100},
	})
	memberships := memory.NewMembershipRepository([]membership.Membership{
		{ID: 1, MemberID: "alice", CompetitionID: "comp-1", Active: true},
		{ID: 2, MemberID: "bob", CompetitionID: "comp-1", Active: true},
	})
	leases := memory.NewRunLeaseRepository()
	runs := memory.NewRunLogRepository()

	syncService, _ := newTestSyncService(provider, matches, competitions, now)
	scoring := NewScoringService(picks, memberships, competitions, matches, nil)
	gameweeks := NewGameweekService(competitions, matches, nil)

	service := NewReconciliationService(
		syncService, scoring, gameweeks,
		picks, leases, runs,
		nil, 10*time.Minute, nil,
	)
	service.now = func() time.Time { return now }

	return &reconciliationFixture{
		service:      service,
		provider:     provider,
		matches:      matches,
		picks:        picks,
		memberships:  memberships,
		competitions: competitions,
		leases:       leases,
		runs:         runs,
	}
}

func TestReconciliationService_FullRunScoresAndRecordsRun(t *testing.T) {
	t.Parallel()

	two, one := 2, 1
	fx := newReconciliationFixture(&stubProvider{
		bulk: []ExternalMatch{
			{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
			{ExternalID: 502, Status: "TIMED"},
		},
	})

	// First run: match 1 completes, both week-1 picks resolve. The totals
	// aggregator reads the watermark the previous run persisted; with none
	// recorded yet it sums nothing, and the run finishes by settling week 1.
	summary, err := fx.service.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if summary.BulkCount != 2 {
		t.Fatalf("unexpected bulk count: got=%d want=%d", summary.BulkCount, 2)
	}
	if summary.UpdatedCount != 1 || summary.CompletedCount != 1 {
		t.Fatalf("unexpected sync counters: updated=%d completed=%d", summary.UpdatedCount, summary.CompletedCount)
	}
	if summary.PicksResolved != 2 {
		t.Fatalf("unexpected picks resolved: got=%d want=%d", summary.PicksResolved, 2)
	}
	if summary.MembershipsUpdated != 0 {
		t.Fatalf("totals must not move before any week settles, got=%d", summary.MembershipsUpdated)
	}
	if summary.CompetitionsUpdated != 1 {
		t.Fatalf("unexpected competitions updated: got=%d want=%d", summary.CompetitionsUpdated, 1)
	}

	comp, _, _ := fx.competitions.GetByID(context.Background(), "comp-1")
	if comp.SettledWeek() != 1 {
		t.Fatalf("unexpected settled week after first run: got=%d want=%d", comp.SettledWeek(), 1)
	}

	// Second run: match 2 completes, week 1 is settled, so the aggregator
	// now folds the week-1 results into both memberships.
	fx.provider.bulk = []ExternalMatch{
		{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
		{ExternalID: 502, Status: "FINISHED", HomeScore: &one, AwayScore: &one},
	}
	summary, err = fx.service.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.MembershipsUpdated != 2 {
		t.Fatalf("unexpected memberships updated: got=%d want=%d", summary.MembershipsUpdated, 2)
	}

	// Alice won week 1; bob lost it. Week 2 is settled now but only counts
	// for totals on the next pass, after this run persisted its watermark.
	alice, _ := fx.memberships.Get(1)
	if alice.Points != 3 || alice.Strikes != 0 {
		t.Fatalf("unexpected alice totals: got=(%d,%d) want=(3,0)", alice.Points, alice.Strikes)
	}
	bob, _ := fx.memberships.Get(2)
	if bob.Points != 0 || bob.Strikes != 1 {
		t.Fatalf("unexpected bob totals: got=(%d,%d) want=(0,1)", bob.Points, bob.Strikes)
	}

	run, found, err := fx.runs.Latest(context.Background())
	if err != nil || !found {
		t.Fatalf("load run record: found=%v err=%v", found, err)
	}
	if run.Status != runlog.StatusSucceeded {
		t.Fatalf("unexpected run status: got=%s", run.Status)
	}
	if run.CompletedCount != 1 || run.MembershipsUpdated != 2 {
		t.Fatalf("run record does not reflect summary: %+v", run)
	}
}

func TestReconciliationService_RerunWithSameDataIsNoOp(t *testing.T) {
	t.Parallel()

	two, one := 2, 1
	fx := newReconciliationFixture(&stubProvider{
		bulk: []ExternalMatch{
			{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
			{ExternalID: 502, Status: "TIMED"},
		},
	})

	if _, err := fx.service.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := fx.service.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if summary.UpdatedCount != 0 || summary.CompletedCount != 0 {
		t.Fatalf("expected no sync changes on rerun, got updated=%d completed=%d",
			summary.UpdatedCount, summary.CompletedCount)
	}
	if summary.PicksResolved != 0 || summary.MembershipsUpdated != 0 {
		t.Fatalf("expected no scoring changes on rerun, got picks=%d memberships=%d",
			summary.PicksResolved, summary.MembershipsUpdated)
	}
}

func TestReconciliationService_HeldLeaseRejectsRun(t *testing.T) {
	t.Parallel()

	fx := newReconciliationFixture(&stubProvider{})

	acquired, err := fx.leases.Acquire(context.Background(), runlease.ReconciliationLease, "other-runner", time.Hour)
	if err != nil || !acquired {
		t.Fatalf("seed lease: acquired=%v err=%v", acquired, err)
	}

	_, err = fx.service.Run(context.Background(), RunOptions{})
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	if fx.provider.bulkCalls != 0 {
		t.Fatalf("rejected run must not reach the provider, calls=%d", fx.provider.bulkCalls)
	}
}

func TestReconciliationService_LeaseReleasedAfterRun(t *testing.T) {
	t.Parallel()

	fx := newReconciliationFixture(&stubProvider{})

	if _, err := fx.service.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := fx.service.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("expected lease released between runs, got %v", err)
	}
}

func TestReconciliationService_DesyncFailsRunAndRecordsIt(t *testing.T) {
	t.Parallel()

	fx := newReconciliationFixture(&stubProvider{
		bulk: []ExternalMatch{{ExternalID: 999, Status: "FINISHED"}},
	})

	_, err := fx.service.Run(context.Background(), RunOptions{})
	if !errors.Is(err, ErrScheduleDesync) {
		t.Fatalf("expected ErrScheduleDesync, got %v", err)
	}

	run, found, err := fx.runs.Latest(context.Background())
	if err != nil || !found {
		t.Fatalf("load run record: found=%v err=%v", found, err)
	}
	if run.Status != runlog.StatusFailed || run.Error == "" {
		t.Fatalf("expected failed run record with error, got=%+v", run)
	}
}

func TestReconciliationService_DryRunSkipsScoringAndPersistsNothing(t *testing.T) {
	t.Parallel()

	two, one := 2, 1
	fx := newReconciliationFixture(&stubProvider{
		bulk: []ExternalMatch{
			{ExternalID: 501, Status: "FINISHED", HomeScore: &two, AwayScore: &one},
			{ExternalID: 502, Status: "TIMED"},
		},
	})

	summary, err := fx.service.Run(context.Background(), RunOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}

	if !summary.DryRun {
		t.Fatalf("summary must be flagged as dry run")
	}
	if summary.UpdatedCount != 1 || summary.CompletedCount != 1 {
		t.Fatalf("dry run must still report sync counters, got updated=%d completed=%d",
			summary.UpdatedCount, summary.CompletedCount)
	}
	if summary.PicksResolved != 0 || summary.MembershipsUpdated != 0 || summary.CompetitionsUpdated != 0 {
		t.Fatalf("dry run must skip recomputation stages, got=%+v", summary)
	}

	stored, _ := fx.matches.Get(1)
	if stored.Status != match.StatusNotStarted {
		t.Fatalf("dry run must not persist match updates, got status=%s", stored.Status)
	}
	p, _ := fx.picks.Get(1)
	if p.Result != nil {
		t.Fatalf("dry run must not resolve picks, got=%v", *p.Result)
	}

	run, found, err := fx.runs.Latest(context.Background())
	if err != nil || !found {
		t.Fatalf("load run record: found=%v err=%v", found, err)
	}
	if !run.DryRun {
		t.Fatalf("run record must be flagged as dry run")
	}
}

func TestReconciliationService_LatestRun(t *testing.T) {
	t.Parallel()

	fx := newReconciliationFixture(&stubProvider{})

	_, err := fx.service.LatestRun(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any run, got %v", err)
	}

	if _, err := fx.service.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	run, err := fx.service.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if run.Status != runlog.StatusSucceeded {
		t.Fatalf("unexpected run status: got=%s", run.Status)
	}
}
