package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/mlonzayes/dbr-fantasy/internal/config"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

// Profiler owns the optional continuous profiler and the pprof debug server.
type Profiler struct {
	logger    *logging.Logger
	pyroscope *pyroscope.Profiler
	pprof     *http.Server
}

// StartProfiling starts whichever profilers cfg enables. A zero Profiler is
// returned when both are disabled; Stop is always safe to call.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiler{logger: logger}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscopeConfig(cfg))
		if err != nil {
			return nil, err
		}
		p.pyroscope = profiler
		logger.Info("pyroscope enabled",
			"server_address", cfg.PyroscopeServerAddress,
			"application", cfg.PyroscopeAppName,
		)
	} else {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
	}

	if cfg.PprofEnabled {
		p.pprof = newPprofServer(cfg.PprofAddr)
		go func() {
			logger.Info("pprof server starting", "addr", cfg.PprofAddr)
			if err := p.pprof.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server failed", "error", err)
			}
		}()
	}

	return p, nil
}

func (p *Profiler) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprof != nil {
		if err := p.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			p.logger.Info("pprof server stopped")
		}
	}
	if p.pyroscope != nil {
		if err := p.pyroscope.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func pyroscopeConfig(cfg config.Config) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"storage": cfg.StorageDriver,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
	}
}

func newPprofServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
