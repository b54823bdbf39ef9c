package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlonzayes/dbr-fantasy/internal/config"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

func TestStartProfiling_Disabled(t *testing.T) {
	p, err := StartProfiling(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("start profiling: %v", err)
	}
	if p.pyroscope != nil || p.pprof != nil {
		t.Fatalf("expected no profilers to start")
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop profiling: %v", err)
	}
}

func TestPyroscopeConfig_Tags(t *testing.T) {
	got := pyroscopeConfig(config.Config{
		AppEnv:           config.EnvStage,
		ServiceName:      "dbr-fantasy-api",
		StorageDriver:    config.StoragePostgres,
		PyroscopeAppName: "dbr-fantasy",
	})
	if got.ApplicationName != "dbr-fantasy" {
		t.Fatalf("unexpected application name: %q", got.ApplicationName)
	}
	if got.Tags["env"] != config.EnvStage || got.Tags["storage"] != config.StoragePostgres {
		t.Fatalf("unexpected tags: %+v", got.Tags)
	}
}

func TestPprofServer_ServesIndex(t *testing.T) {
	srv := newPprofServer(":0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
