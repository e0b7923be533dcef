package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default postgres", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverPostgres {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("memory accepted case-insensitively", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", " Memory ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mysql")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_EngineSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENGINE_SHUFFLE_SEED", "")
		t.Setenv("ENGINE_BATCH_WORKERS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ShuffleSeed != 0 {
			t.Fatalf("expected time-seeded shuffle by default, got seed=%d", cfg.ShuffleSeed)
		}
		if cfg.BatchWorkers != 4 {
			t.Fatalf("unexpected batch workers: %d", cfg.BatchWorkers)
		}
	})

	t.Run("custom", func(t *testing.T) {
		t.Setenv("ENGINE_SHUFFLE_SEED", "42")
		t.Setenv("ENGINE_BATCH_WORKERS", "8")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ShuffleSeed != 42 || cfg.BatchWorkers != 8 {
			t.Fatalf("unexpected engine settings: seed=%d workers=%d", cfg.ShuffleSeed, cfg.BatchWorkers)
		}
	})

	t.Run("workers must be positive", func(t *testing.T) {
		t.Setenv("ENGINE_BATCH_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for ENGINE_BATCH_WORKERS=0")
		}
	})

	t.Run("invalid seed", func(t *testing.T) {
		t.Setenv("ENGINE_BATCH_WORKERS", "")
		t.Setenv("ENGINE_SHUFFLE_SEED", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative ENGINE_SHUFFLE_SEED")
		}
	})
}

func TestLoad_ProdRequiresInternalToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("INTERNAL_API_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when INTERNAL_API_TOKEN is empty in prod")
	}

	t.Setenv("INTERNAL_API_TOKEN", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalAPIToken != "secret" {
		t.Fatalf("unexpected internal token: %q", cfg.InternalAPIToken)
	}
}

func TestLoad_SwaggerDefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("INTERNAL_API_TOKEN", "secret")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
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

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "tournament-engine-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "tournament-engine-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected CacheEnabled=true by default")
		}
		if cfg.CacheTTL != 5*time.Minute {
			t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
		}
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for CACHE_TTL=0s")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ENGINE_BATCH_WORKERS=6\nAPP_SERVICE_NAME=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "from-env")
	t.Setenv("ENGINE_BATCH_WORKERS", "")
	if err := os.Unsetenv("ENGINE_BATCH_WORKERS"); err != nil {
		t.Fatalf("unset env: %v", err)
	}

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BatchWorkers != 6 {
		t.Fatalf("expected dotenv to supply ENGINE_BATCH_WORKERS, got %d", cfg.BatchWorkers)
	}
	if cfg.ServiceName != "from-env" {
		t.Fatalf("expected existing env to win over dotenv, got %q", cfg.ServiceName)
	}
}

func TestLoad_DBCircuitBreaker(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBCircuitBreaker.Enabled || cfg.DBCircuitBreaker.FailureThreshold != 5 {
			t.Fatalf("unexpected breaker defaults: %+v", cfg.DBCircuitBreaker)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_CIRCUIT_FAILURE_THRESHOLD", "3")
		t.Setenv("DB_CIRCUIT_OPEN_TIMEOUT", "30s")
		t.Setenv("DB_CIRCUIT_HALF_OPEN_MAX_REQ", "0")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBCircuitBreaker.FailureThreshold != 3 || cfg.DBCircuitBreaker.OpenTimeout != 30*time.Second {
			t.Fatalf("unexpected breaker overrides: %+v", cfg.DBCircuitBreaker)
		}
		if cfg.DBCircuitBreaker.HalfOpenMaxReq != 2 {
			t.Fatalf("expected half-open probes normalized to default, got %d", cfg.DBCircuitBreaker.HalfOpenMaxReq)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("DB_CIRCUIT_OPEN_TIMEOUT", "soon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_CIRCUIT_OPEN_TIMEOUT")
		}
	})
}

func TestLoad_LogSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("APP_LOG_LEVEL", "")
		t.Setenv("APP_LOG_FORMAT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LogLevel != logging.LevelInfo || cfg.LogFormat != logging.FormatJSON {
			t.Fatalf("unexpected log settings level=%v format=%q", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("console warning", func(t *testing.T) {
		t.Setenv("APP_LOG_LEVEL", "Warning")
		t.Setenv("APP_LOG_FORMAT", " Console ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LogLevel != logging.LevelWarn || cfg.LogFormat != logging.FormatConsole {
			t.Fatalf("unexpected log settings level=%v format=%q", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Setenv("APP_LOG_FORMAT", "xml")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown log format")
		}
	})
}
