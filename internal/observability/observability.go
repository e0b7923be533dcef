// Package observability starts the optional tracing, profiling and pprof
// sidecars and stops them together on shutdown.
package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/tournament-engine/internal/config"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Stack holds whatever Start enabled. The zero value is a no-op.
type Stack struct {
	logger   *logging.Logger
	tracing  func(context.Context) error
	profiler *pyroscope.Profiler
	pprof    *http.Server
	pprofLn  net.Listener
}

// Start enables each sidecar its config switch asks for. On error anything
// already started is stopped again.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	s.startTracing(cfg)
	if err := s.startProfiler(cfg); err != nil {
		return nil, crerr.CombineErrors(crerr.Wrap(err, "start pyroscope"), s.Shutdown(ctx))
	}
	if err := s.startPprof(cfg); err != nil {
		return nil, crerr.CombineErrors(crerr.Wrap(err, "start pprof"), s.Shutdown(ctx))
	}
	return s, nil
}

func (s *Stack) startTracing(cfg config.Config) {
	switch {
	case !cfg.UptraceEnabled:
		s.logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		s.logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	s.tracing = uptrace.Shutdown
	s.logger.Info("uptrace enabled", "service_version", cfg.ServiceVersion, "logs_enabled", cfg.UptraceLogsEnabled)
}

func (s *Stack) startProfiler(cfg config.Config) error {
	if !cfg.PyroscopeEnabled {
		s.logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              map[string]string{"env": cfg.AppEnv, "service": cfg.ServiceName},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return err
	}
	s.profiler = profiler
	s.logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	return nil
}

// startPprof binds synchronously so a taken port fails startup instead of a
// background goroutine.
func (s *Stack) startPprof(cfg config.Config) error {
	if !cfg.PprofEnabled {
		s.logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	s.pprofLn = ln
	s.pprof = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("pprof server failed", "error", err)
		}
	}(s.pprof)

	s.logger.Info("pprof server listening", "addr", ln.Addr().String())
	return nil
}

// PprofAddr is the bound pprof address, empty when pprof is off.
func (s *Stack) PprofAddr() string {
	if s == nil || s.pprofLn == nil {
		return ""
	}
	return s.pprofLn.Addr().String()
}

// Shutdown stops sidecars in reverse start order and reports every failure.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var err error
	if s.pprof != nil {
		err = crerr.CombineErrors(err, crerr.Wrap(s.pprof.Shutdown(ctx), "stop pprof"))
		s.pprof, s.pprofLn = nil, nil
	}
	if s.profiler != nil {
		err = crerr.CombineErrors(err, crerr.Wrap(s.profiler.Stop(), "stop pyroscope"))
		s.profiler = nil
	}
	if s.tracing != nil {
		err = crerr.CombineErrors(err, crerr.Wrap(s.tracing(ctx), "shutdown uptrace"))
		s.tracing = nil
	}
	return err
}
