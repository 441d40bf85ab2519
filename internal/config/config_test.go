package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.FootballDataBaseURL != "https://api.football-data.org/v4" {
		t.Fatalf("unexpected FootballDataBaseURL: %q", cfg.FootballDataBaseURL)
	}
	if cfg.SyncLookBackDays != 7 || cfg.SyncLookForwardDays != 7 {
		t.Fatalf("unexpected sync window: back=%d forward=%d", cfg.SyncLookBackDays, cfg.SyncLookForwardDays)
	}
	if cfg.SyncIndividualDelay != 6*time.Second {
		t.Fatalf("unexpected SyncIndividualDelay: %s", cfg.SyncIndividualDelay)
	}
	if cfg.ReconcileLeaseTTL != 10*time.Minute {
		t.Fatalf("unexpected ReconcileLeaseTTL: %s", cfg.ReconcileLeaseTTL)
	}
	if len(cfg.SyncExcludeSeasons) != 0 {
		t.Fatalf("unexpected SyncExcludeSeasons: %v", cfg.SyncExcludeSeasons)
	}
}

func TestLoad_SyncConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_LOOK_BACK_DAYS", "3")
	t.Setenv("SYNC_LOOK_FORWARD_DAYS", "10")
	t.Setenv("SYNC_INDIVIDUAL_DELAY", "2s")
	t.Setenv("SYNC_EXCLUDE_SEASONS", "2019, 2020,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncLookBackDays != 3 || cfg.SyncLookForwardDays != 10 {
		t.Fatalf("unexpected sync window: back=%d forward=%d", cfg.SyncLookBackDays, cfg.SyncLookForwardDays)
	}
	if cfg.SyncIndividualDelay != 2*time.Second {
		t.Fatalf("unexpected SyncIndividualDelay: %s", cfg.SyncIndividualDelay)
	}
	if len(cfg.SyncExcludeSeasons) != 2 || cfg.SyncExcludeSeasons[0] != "2019" || cfg.SyncExcludeSeasons[1] != "2020" {
		t.Fatalf("unexpected SyncExcludeSeasons: %v", cfg.SyncExcludeSeasons)
	}
}

func TestLoad_SyncWindowValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_LOOK_BACK_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SYNC_LOOK_BACK_DAYS=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalJobToken != "job-secret" {
		t.Fatalf("unexpected InternalJobToken")
	}
}

func TestLoad_FootballDataCircuitValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT=0")
	}
}
