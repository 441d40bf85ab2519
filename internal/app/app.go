package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/pickwise/survivor-league/external/footballdata"
	"github.com/pickwise/survivor-league/internal/config"
	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/domain/pick"
	"github.com/pickwise/survivor-league/internal/domain/runlease"
	"github.com/pickwise/survivor-league/internal/domain/runlog"
	cacherepo "github.com/pickwise/survivor-league/internal/infrastructure/repository/cache"
	"github.com/pickwise/survivor-league/internal/infrastructure/repository/memory"
	"github.com/pickwise/survivor-league/internal/infrastructure/repository/postgres"
	"github.com/pickwise/survivor-league/internal/interfaces/httpapi"
	basecache "github.com/pickwise/survivor-league/internal/platform/cache"
	idgen "github.com/pickwise/survivor-league/internal/platform/id"
	"github.com/pickwise/survivor-league/internal/platform/logging"
	"github.com/pickwise/survivor-league/internal/platform/resilience"
	"github.com/pickwise/survivor-league/internal/usecase"
)

type repositories struct {
	matches      match.Repository
	picks        pick.Repository
	memberships  membership.Repository
	competitions competition.Repository
	leases       runlease.Repository
	runs         runlog.Repository
}

// App bundles the wired HTTP server with the resources it owns.
type App struct {
	Server *http.Server
	db     *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ucLogger := logging.NewJSON(cfg.LogLevel)

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     ucLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})

	syncSvc := usecase.NewSyncService(provider, repos.matches, repos.competitions, usecase.SyncConfig{
		LookBackDays:    cfg.SyncLookBackDays,
		LookForwardDays: cfg.SyncLookForwardDays,
		IndividualDelay: cfg.SyncIndividualDelay,
		ExcludeSeasons:  cfg.SyncExcludeSeasons,
	}, ucLogger)
	scoringSvc := usecase.NewScoringService(repos.picks, repos.memberships, repos.competitions, repos.matches, ucLogger)
	gameweekSvc := usecase.NewGameweekService(repos.competitions, repos.matches, ucLogger)
	reconciliationSvc := usecase.NewReconciliationService(
		syncSvc,
		scoringSvc,
		gameweekSvc,
		repos.picks,
		repos.leases,
		repos.runs,
		idgen.NewRandomGenerator(),
		cfg.ReconcileLeaseTTL,
		ucLogger,
	)
	competitionSvc := usecase.NewCompetitionService(repos.competitions, repos.matches, repos.memberships)

	handler := httpapi.NewHandler(reconciliationSvc, competitionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db}, nil
}

// Close releases resources the app holds beyond the HTTP server.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL is empty, using in-memory repositories with seed data")
		return repositories{
			matches:      memory.NewMatchRepository(memory.SeedMatches()),
			picks:        memory.NewPickRepository(memory.SeedPicks()),
			memberships:  memory.NewMembershipRepository(memory.SeedMemberships()),
			competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
			leases:       memory.NewRunLeaseRepository(),
			runs:         memory.NewRunLogRepository(),
		}, nil, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	// The public read endpoints hit the same tables the pipeline writes, so
	// wrap the shared repositories in an invalidating read-through cache.
	store := basecache.NewStore(cfg.CacheTTL)
	return repositories{
		matches:      cacherepo.NewMatchRepository(postgres.NewMatchRepository(db), store),
		picks:        postgres.NewPickRepository(db),
		memberships:  cacherepo.NewMembershipRepository(postgres.NewMembershipRepository(db), store),
		competitions: cacherepo.NewCompetitionRepository(postgres.NewCompetitionRepository(db), store),
		leases:       postgres.NewRunLeaseRepository(db),
		runs:         postgres.NewRunLogRepository(db),
	}, db, nil
}
