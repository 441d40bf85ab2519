package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pickwise/survivor-league/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                            string
	ServiceName                       string
	ServiceVersion                    string
	HTTPAddr                          string
	DBURL                             string
	DBDisablePreparedBinary           bool
	CORSAllowedOrigins                []string
	ReadTimeout                       time.Duration
	WriteTimeout                      time.Duration
	PprofEnabled                      bool
	PprofAddr                         string
	UptraceEnabled                    bool
	UptraceDSN                        string
	PyroscopeEnabled                  bool
	PyroscopeServerAddress            string
	PyroscopeAppName                  string
	PyroscopeAuthToken                string
	PyroscopeBasicAuthUser            string
	PyroscopeBasicAuthPassword        string
	PyroscopeUploadRate               time.Duration
	FootballDataBaseURL               string
	FootballDataToken                 string
	FootballDataTimeout               time.Duration
	FootballDataMaxRetries            int
	FootballDataCircuitEnabled        bool
	FootballDataCircuitFailureCount   int
	FootballDataCircuitOpenTimeout    time.Duration
	FootballDataCircuitHalfOpenMaxReq int
	SyncLookBackDays                  int
	SyncLookForwardDays               int
	SyncIndividualDelay               time.Duration
	SyncExcludeSeasons                []string
	ReconcileLeaseTTL                 time.Duration
	CacheTTL                          time.Duration
	InternalJobToken                  string
	LogLevel                          logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TIMEOUT must be > 0")
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALL_DATA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_MAX_RETRIES: %w", err)
	}
	if footballDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footballDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footballDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footballDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footballDataCircuitHalfOpenMaxReq, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if footballDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	syncLookBackDays, err := getEnvAsInt("SYNC_LOOK_BACK_DAYS", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_LOOK_BACK_DAYS: %w", err)
	}
	if syncLookBackDays < 1 {
		return Config{}, fmt.Errorf("SYNC_LOOK_BACK_DAYS must be >= 1")
	}
	syncLookForwardDays, err := getEnvAsInt("SYNC_LOOK_FORWARD_DAYS", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_LOOK_FORWARD_DAYS: %w", err)
	}
	if syncLookForwardDays < 1 {
		return Config{}, fmt.Errorf("SYNC_LOOK_FORWARD_DAYS must be >= 1")
	}
	syncIndividualDelay, err := time.ParseDuration(getEnv("SYNC_INDIVIDUAL_DELAY", "6s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_INDIVIDUAL_DELAY: %w", err)
	}
	if syncIndividualDelay < 0 {
		return Config{}, fmt.Errorf("SYNC_INDIVIDUAL_DELAY must be >= 0")
	}

	reconcileLeaseTTL, err := time.ParseDuration(getEnv("RECONCILE_LEASE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_LEASE_TTL: %w", err)
	}
	if reconcileLeaseTTL <= 0 {
		return Config{}, fmt.Errorf("RECONCILE_LEASE_TTL must be > 0")
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg := Config{
		AppEnv:                            appEnv,
		ServiceName:                       getEnv("APP_SERVICE_NAME", "survivor-league-api"),
		ServiceVersion:                    getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                          getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                             getEnv("DB_URL", ""),
		DBDisablePreparedBinary:           dbDisablePreparedBinary,
		CORSAllowedOrigins:                splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                       readTimeout,
		WriteTimeout:                      writeTimeout,
		PprofEnabled:                      pprofEnabled,
		PprofAddr:                         pprofAddr,
		UptraceEnabled:                    uptraceEnabled,
		UptraceDSN:                        uptraceDSN,
		PyroscopeEnabled:                  pyroscopeEnabled,
		PyroscopeServerAddress:            pyroscopeServerAddress,
		PyroscopeAuthToken:                strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:            strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:               pyroscopeUploadRate,
		FootballDataBaseURL:               strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")),
		FootballDataToken:                 strings.TrimSpace(getEnv("FOOTBALL_DATA_TOKEN", "")),
		FootballDataTimeout:               footballDataTimeout,
		FootballDataMaxRetries:            footballDataMaxRetries,
		FootballDataCircuitEnabled:        footballDataCircuitEnabled,
		FootballDataCircuitFailureCount:   footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout:    footballDataCircuitOpenTimeout,
		FootballDataCircuitHalfOpenMaxReq: footballDataCircuitHalfOpenMaxReq,
		SyncLookBackDays:                  syncLookBackDays,
		SyncLookForwardDays:               syncLookForwardDays,
		SyncIndividualDelay:               syncIndividualDelay,
		SyncExcludeSeasons:                splitCSV(getEnv("SYNC_EXCLUDE_SEASONS", "")),
		ReconcileLeaseTTL:                 reconcileLeaseTTL,
		CacheTTL:                          cacheTTL,
		InternalJobToken:                  strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:                          parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.AppEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=prod")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
