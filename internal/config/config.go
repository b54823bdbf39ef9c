package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	WindowModeFlag     = "flag"
	WindowModeSchedule = "schedule"

	PriceModelPerformance = "performance"
	PriceModelStatic      = "static"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	SeedCatalog             bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string

	IdentityBaseURL               string
	IdentityIntrospectPath        string
	IdentityTimeout               time.Duration
	IdentityCacheTTL              time.Duration
	IdentityCircuitEnabled        bool
	IdentityCircuitFailureCount   int
	IdentityCircuitOpenTimeout    time.Duration
	IdentityCircuitHalfOpenMaxReq int
	AdminUserIDs                  []string
	InternalWebhookToken          string

	StartingBalance              int64
	BudgetCap                    int64
	TransferWindowMode           string
	TransferWindowTimezone       string
	TransferWindowClosedWeekday  time.Weekday
	TransferWindowClosedFromHour int
	TransferWindowClosedToHour   int
	DraftRequiresOpenWindow      bool
	MarketEnforceQuota           bool
	ScoringPriceModel            string
	ScoringWorkers               int
	MarketMonitorEnabled         bool
	MarketMonitorInterval        time.Duration

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	if storageDriver != StorageMemory && storageDriver != StoragePostgres {
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	seedCatalog, err := strconv.ParseBool(getEnv("SEED_CATALOG", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEED_CATALOG: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := getEnvAsPositiveDuration("CACHE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	identityTimeout, err := getEnvAsPositiveDuration("IDENTITY_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}
	identityCacheTTL, err := time.ParseDuration(getEnv("IDENTITY_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CACHE_TTL: %w", err)
	}
	identityCircuitEnabled, err := strconv.ParseBool(getEnv("IDENTITY_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_ENABLED: %w", err)
	}
	identityCircuitFailureCount, err := getEnvAsInt("IDENTITY_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if identityCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("IDENTITY_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	identityCircuitOpenTimeout, err := getEnvAsPositiveDuration("IDENTITY_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	identityCircuitHalfOpenMaxReq, err := getEnvAsInt("IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if identityCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	startingBalance, err := getEnvAsInt64("STARTING_BALANCE", 1250)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTING_BALANCE: %w", err)
	}
	if startingBalance < 0 {
		return Config{}, fmt.Errorf("STARTING_BALANCE must be >= 0")
	}
	budgetCap, err := getEnvAsInt64("BUDGET_CAP", 1250)
	if err != nil {
		return Config{}, fmt.Errorf("parse BUDGET_CAP: %w", err)
	}
	if budgetCap <= 0 {
		return Config{}, fmt.Errorf("BUDGET_CAP must be > 0")
	}

	windowMode := strings.ToLower(strings.TrimSpace(getEnv("TRANSFER_WINDOW_MODE", WindowModeFlag)))
	if windowMode != WindowModeFlag && windowMode != WindowModeSchedule {
		return Config{}, fmt.Errorf("invalid TRANSFER_WINDOW_MODE %q: valid values are %s, %s", windowMode, WindowModeFlag, WindowModeSchedule)
	}
	windowTimezone := strings.TrimSpace(getEnv("TRANSFER_WINDOW_TIMEZONE", "America/Argentina/Buenos_Aires"))
	if _, err := time.LoadLocation(windowTimezone); err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_WINDOW_TIMEZONE: %w", err)
	}
	closedWeekday, err := parseWeekday(getEnv("TRANSFER_WINDOW_CLOSED_WEEKDAY", "saturday"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_WINDOW_CLOSED_WEEKDAY: %w", err)
	}
	closedFromHour, err := getEnvAsInt("TRANSFER_WINDOW_CLOSED_FROM_HOUR", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_WINDOW_CLOSED_FROM_HOUR: %w", err)
	}
	closedToHour, err := getEnvAsInt("TRANSFER_WINDOW_CLOSED_TO_HOUR", 19)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSFER_WINDOW_CLOSED_TO_HOUR: %w", err)
	}
	if closedFromHour < 0 || closedToHour > 24 || closedFromHour >= closedToHour {
		return Config{}, fmt.Errorf("transfer window hours must satisfy 0 <= from < to <= 24, got %d..%d", closedFromHour, closedToHour)
	}

	draftRequiresOpenWindow, err := strconv.ParseBool(getEnv("DRAFT_REQUIRES_OPEN_WINDOW", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DRAFT_REQUIRES_OPEN_WINDOW: %w", err)
	}
	marketEnforceQuota, err := strconv.ParseBool(getEnv("MARKET_ENFORCE_QUOTA", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MARKET_ENFORCE_QUOTA: %w", err)
	}
	priceModel := strings.ToLower(strings.TrimSpace(getEnv("SCORING_PRICE_MODEL", PriceModelPerformance)))
	if priceModel != PriceModelPerformance && priceModel != PriceModelStatic {
		return Config{}, fmt.Errorf("invalid SCORING_PRICE_MODEL %q: valid values are %s, %s", priceModel, PriceModelPerformance, PriceModelStatic)
	}
	scoringWorkers, err := getEnvAsInt("SCORING_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_WORKERS: %w", err)
	}
	if scoringWorkers < 1 {
		return Config{}, fmt.Errorf("SCORING_WORKERS must be >= 1")
	}

	marketMonitorEnabled, err := strconv.ParseBool(getEnv("MARKET_MONITOR_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MARKET_MONITOR_ENABLED: %w", err)
	}
	marketMonitorInterval, err := getEnvAsPositiveDuration("MARKET_MONITOR_INTERVAL", "1m")
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	internalWebhookToken := strings.TrimSpace(getEnv("INTERNAL_WEBHOOK_TOKEN", ""))
	if appEnv == EnvProd && internalWebhookToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_WEBHOOK_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "dbr-fantasy-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		LogLevel:                      logLevel,
		StorageDriver:                 storageDriver,
		DBURL:                         dbURL,
		DBDisablePreparedBinary:       dbDisablePreparedBinary,
		SeedCatalog:                   seedCatalog,
		CacheEnabled:                  cacheEnabled,
		CacheTTL:                      cacheTTL,
		CORSAllowedOrigins:            corsAllowedOrigins,
		IdentityBaseURL:               strings.TrimSpace(getEnv("IDENTITY_BASE_URL", "http://localhost:8081")),
		IdentityIntrospectPath:        strings.TrimSpace(getEnv("IDENTITY_INTROSPECT_PATH", "/v1/auth/introspect")),
		IdentityTimeout:               identityTimeout,
		IdentityCacheTTL:              identityCacheTTL,
		IdentityCircuitEnabled:        identityCircuitEnabled,
		IdentityCircuitFailureCount:   identityCircuitFailureCount,
		IdentityCircuitOpenTimeout:    identityCircuitOpenTimeout,
		IdentityCircuitHalfOpenMaxReq: identityCircuitHalfOpenMaxReq,
		AdminUserIDs:                  splitCSV(getEnv("ADMIN_USER_IDS", "")),
		InternalWebhookToken:          internalWebhookToken,
		StartingBalance:               startingBalance,
		BudgetCap:                     budgetCap,
		TransferWindowMode:            windowMode,
		TransferWindowTimezone:        windowTimezone,
		TransferWindowClosedWeekday:   closedWeekday,
		TransferWindowClosedFromHour:  closedFromHour,
		TransferWindowClosedToHour:    closedToHour,
		DraftRequiresOpenWindow:       draftRequiresOpenWindow,
		MarketEnforceQuota:            marketEnforceQuota,
		ScoringPriceModel:             priceModel,
		ScoringWorkers:                scoringWorkers,
		MarketMonitorEnabled:          marketMonitorEnabled,
		MarketMonitorInterval:         marketMonitorInterval,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		UptraceLogsEnabled:            uptraceLogsEnabled,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
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

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseInt(value, 10, 64)
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
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

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(raw string) (time.Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if day, ok := weekdays[value]; ok {
		return day, nil
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday %q", raw)
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
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
