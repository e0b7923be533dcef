package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/tournament-engine/internal/config"
	"github.com/riskibarqy/tournament-engine/internal/domain/schedule"
	"github.com/riskibarqy/tournament-engine/internal/domain/uow"
	cacherepo "github.com/riskibarqy/tournament-engine/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-engine/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-engine/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/tournament-engine/internal/platform/cache"
	"github.com/riskibarqy/tournament-engine/internal/platform/database"
	idgen "github.com/riskibarqy/tournament-engine/internal/platform/id"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/riskibarqy/tournament-engine/internal/platform/metrics"
	"github.com/riskibarqy/tournament-engine/internal/platform/resilience"
	"github.com/riskibarqy/tournament-engine/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbCircuitBreakerName = "postgres"

// Engine holds the engine services over one storage backend.
type Engine struct {
	Structure  *usecase.StructureService
	GroupPhase *usecase.GroupPhaseService
	Matches    *usecase.MatchService
	Standings  *usecase.StandingsService
	Metrics    *metrics.Recorder

	closeFn func() error
}

// Close releases the storage backend.
func (e *Engine) Close() error {
	if e == nil || e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

type storage struct {
	runner uow.Runner
	reads  uow.Repositories
	close  func() error
}

func NewEngine(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder()
	}

	store, err := openStorage(ctx, cfg, logger, recorder)
	if err != nil {
		return nil, err
	}

	reads := store.reads
	if cfg.CacheEnabled {
		reads.Stats = cacherepo.NewStatsRepository(reads.Stats, cfg.CacheTTL, cacheObserver(recorder, "rulesets"))
		reads.Teams = cacherepo.NewTeamRepository(reads.Teams, cfg.CacheTTL, cacheObserver(recorder, "rosters"))
	}

	shuffler := schedule.NewRandShuffler(cfg.ShuffleSeed)
	return &Engine{
		Structure:  usecase.NewStructureService(store.runner, shuffler, logger, recorder),
		GroupPhase: usecase.NewGroupPhaseService(store.runner, logger, recorder),
		Matches:    usecase.NewMatchService(store.runner, logger, recorder),
		Standings:  usecase.NewStandingsService(reads.Competitions, reads.Teams, reads.Matches, reads.Classifications, reads.Stats, recorder),
		Metrics:    recorder,
		closeFn:    store.close,
	}, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger, recorder *metrics.Recorder) (storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewSeededStore()
		logger.Info("storage ready", "driver", config.StorageDriverMemory)
		return storage{runner: store, reads: store.Repositories(), close: func() error { return nil }}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return storage{}, err
	}
	if cfg.DBBootstrapSeed {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return storage{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	breaker := resilience.NewCircuitBreaker(dbCircuitBreakerName, cfg.DBCircuitBreaker, func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
		recorder.SetBreakerState(name, string(to))
	})
	recorder.SetBreakerState(dbCircuitBreakerName, string(breaker.State()))

	logger.Info("storage ready",
		"driver", config.StorageDriverPostgres,
		"db_name", database.Name(cfg.DBURL),
		"circuit_breaker", cfg.DBCircuitBreaker.Enabled,
	)
	return storage{
		runner: postgres.NewTxRunner(db, breaker),
		reads:  postgres.NewRepositories(db),
		close:  db.Close,
	}, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", database.ConnectionURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(database.Name(cfg.DBURL)),
		otelsql.WithQueryFormatter(database.TraceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

func NewHTTPServer(cfg config.Config, engine *Engine, logger *logging.Logger) (*http.Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(
		engine.Structure,
		engine.GroupPhase,
		engine.Matches,
		engine.Standings,
		idgen.NewRandomGenerator(),
		cfg.BatchWorkers,
		logger,
	)
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Logger:             logger,
		Metrics:            engine.Metrics,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalAPIToken:   cfg.InternalAPIToken,
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func cacheObserver(recorder *metrics.Recorder, name string) basecache.Option {
	return basecache.WithLookupObserver(func(hit bool) { recorder.RecordCacheLookup(name, hit) })
}
