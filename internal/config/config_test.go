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
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.TransferWindowMode != WindowModeFlag {
		t.Fatalf("expected flag window mode by default, got %q", cfg.TransferWindowMode)
	}
	if cfg.ScoringPriceModel != PriceModelPerformance {
		t.Fatalf("expected performance price model by default, got %q", cfg.ScoringPriceModel)
	}
	if !cfg.DraftRequiresOpenWindow || !cfg.MarketEnforceQuota {
		t.Fatalf("expected draft window gate and quota enforcement by default")
	}
	if cfg.StartingBalance != 1250 || cfg.BudgetCap != 1250 {
		t.Fatalf("unexpected economy defaults: balance=%d cap=%d", cfg.StartingBalance, cfg.BudgetCap)
	}
	if cfg.TransferWindowClosedWeekday != time.Saturday {
		t.Fatalf("unexpected closed weekday: %s", cfg.TransferWindowClosedWeekday)
	}
	if cfg.TransferWindowClosedFromHour != 10 || cfg.TransferWindowClosedToHour != 19 {
		t.Fatalf("unexpected closed hours: %d..%d", cfg.TransferWindowClosedFromHour, cfg.TransferWindowClosedToHour)
	}
	if cfg.MarketMonitorInterval != time.Minute {
		t.Fatalf("unexpected monitor interval: %s", cfg.MarketMonitorInterval)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "postgres without url", env: map[string]string{"STORAGE_DRIVER": "postgres", "DB_URL": ""}},
		{name: "unknown window mode", env: map[string]string{"TRANSFER_WINDOW_MODE": "random"}},
		{name: "bad weekday", env: map[string]string{"TRANSFER_WINDOW_CLOSED_WEEKDAY": "funday"}},
		{name: "inverted hours", env: map[string]string{"TRANSFER_WINDOW_CLOSED_FROM_HOUR": "20", "TRANSFER_WINDOW_CLOSED_TO_HOUR": "8"}},
		{name: "unknown timezone", env: map[string]string{"TRANSFER_WINDOW_TIMEZONE": "Mars/Olympus"}},
		{name: "unknown price model", env: map[string]string{"SCORING_PRICE_MODEL": "random"}},
		{name: "zero workers", env: map[string]string{"SCORING_WORKERS": "0"}},
		{name: "negative balance", env: map[string]string{"STARTING_BALANCE": "-1"}},
		{name: "zero budget cap", env: map[string]string{"BUDGET_CAP": "0"}},
		{name: "bad log level", env: map[string]string{"APP_LOG_LEVEL": "loud"}},
		{name: "circuit failure count", env: map[string]string{"IDENTITY_CIRCUIT_FAILURE_COUNT": "0"}},
		{name: "prod without webhook token", env: map[string]string{"APP_ENV": EnvProd, "INTERNAL_WEBHOOK_TOKEN": ""}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": "", "OTEL_EXPORTER_OTLP_HEADERS": ""}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
		{name: "negative cache ttl", env: map[string]string{"CACHE_TTL": "-1s"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_EconomySettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DB_URL", "postgres://localhost:5432/dbr")
	t.Setenv("TRANSFER_WINDOW_MODE", "schedule")
	t.Setenv("TRANSFER_WINDOW_CLOSED_WEEKDAY", "0")
	t.Setenv("SCORING_PRICE_MODEL", "static")
	t.Setenv("DRAFT_REQUIRES_OPEN_WINDOW", "false")
	t.Setenv("ADMIN_USER_IDS", " usr_1, ,usr_2 ")
	t.Setenv("STARTING_BALANCE", "2000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.TransferWindowMode != WindowModeSchedule || cfg.TransferWindowClosedWeekday != time.Sunday {
		t.Fatalf("unexpected window config: mode=%q weekday=%s", cfg.TransferWindowMode, cfg.TransferWindowClosedWeekday)
	}
	if cfg.ScoringPriceModel != PriceModelStatic || cfg.DraftRequiresOpenWindow {
		t.Fatalf("unexpected economy flags: %+v", cfg)
	}
	if len(cfg.AdminUserIDs) != 2 || cfg.AdminUserIDs[0] != "usr_1" || cfg.AdminUserIDs[1] != "usr_2" {
		t.Fatalf("unexpected admin ids: %+v", cfg.AdminUserIDs)
	}
	if cfg.StartingBalance != 2000 {
		t.Fatalf("unexpected starting balance: %d", cfg.StartingBalance)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "dbr-fantasy-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "dbr-fantasy-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://dbr-fantasy.vercel.app, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Weekday
		wantErr bool
	}{
		{raw: "Saturday", want: time.Saturday},
		{raw: " monday ", want: time.Monday},
		{raw: "3", want: time.Wednesday},
		{raw: "7", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseWeekday(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseWeekday(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseWeekday(%q) = %s, %v; want %s", tc.raw, got, err, tc.want)
		}
	}
}
