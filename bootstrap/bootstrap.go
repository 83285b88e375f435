// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/openfeel/decisionbridge/adapters/clock"
	"github.com/openfeel/decisionbridge/adapters/engine"
	apihttp "github.com/openfeel/decisionbridge/adapters/http"
	"github.com/openfeel/decisionbridge/adapters/idgen"
	"github.com/openfeel/decisionbridge/adapters/memory"
	"github.com/openfeel/decisionbridge/adapters/metrics"
	"github.com/openfeel/decisionbridge/adapters/sqlite"
	"github.com/openfeel/decisionbridge/app"
	"github.com/openfeel/decisionbridge/config"
	"github.com/openfeel/decisionbridge/core/bridge"
	"github.com/openfeel/decisionbridge/core/sfeel"
	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/ports"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Holder     *config.Holder
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Registry   ports.ServiceRegistry
	Bridge     *bridge.Bridge
	Decide     *app.DecideService

	clock ports.Clock
	audit ports.AuditStore
	db    *sql.DB
}

// New creates and initializes the application from a config file.
func New(configPath, version string) (*App, error) {
	holder, err := config.NewHolder(configPath, bootLogger())
	if err != nil {
		return nil, err
	}
	cfg := holder.Get()

	logger := newLogger(cfg.Logging)
	logger.Info().Str("version", version).Msg("initializing decisionbridge")

	a := &App{
		Logger: logger,
		Holder: holder,
		clock:  clock.Real{},
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	holder.OnChange(func(newCfg *config.Config) {
		zerolog.SetGlobalLevel(parseLevel(newCfg.Logging.Level))
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
		}
	})
	holder.OnReloadError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})

	parser := sfeel.New()
	if a.Metrics != nil {
		a.Bridge = bridge.NewWithStats(parser, a.Metrics)
	} else {
		a.Bridge = bridge.New(parser)
	}

	a.Registry = memory.NewServiceRegistry()

	if cfg.Audit.Enabled {
		if err := a.initAudit(cfg.Audit.Path); err != nil {
			return nil, fmt.Errorf("init audit store: %w", err)
		}
		logger.Info().Str("path", cfg.Audit.Path).Msg("decision audit enabled")
	}

	a.Decide = app.NewDecideService(app.DecideDeps{
		Registry: a.Registry,
		Bridge:   a.Bridge,
		Audit:    a.audit,
		Metrics:  a.Metrics,
		Clock:    a.clock,
		IDGen:    idgen.UUID{},
		Logger:   logger,
	})

	if err := a.registerConfiguredServices(cfg); err != nil {
		return nil, err
	}

	handler := apihttp.NewHandler(apihttp.Deps{
		Decide:       a.Decide,
		Registry:     a.Registry,
		Audit:        a.audit,
		Logger:       logger,
		Version:      version,
		ServeMetrics: cfg.Metrics.Enabled,
	})

	a.HTTPServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

func (a *App) initAudit(path string) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	store, err := sqlite.NewAuditStore(db, sqlite.DefaultAuditConfig())
	if err != nil {
		db.Close()
		return err
	}
	a.db = db
	a.audit = store
	return nil
}

func (a *App) registerConfiguredServices(cfg *config.Config) error {
	for _, svc := range cfg.Services {
		// Validation guarantees the engine name; only echo is built in.
		if err := a.RegisterService(svc.Name, svc.Description, engine.Echo{}); err != nil {
			return fmt.Errorf("register service %q: %w", svc.Name, err)
		}
	}
	return nil
}

// RegisterService adds (or replaces) a decision service. Embedding
// applications use this to plug in their engines.
func (a *App) RegisterService(name, description string, eng decision.Engine) error {
	return a.Registry.Put(context.Background(), decision.Service{
		Name:        name,
		Description: description,
		CreatedAt:   a.clock.Now(),
		Engine:      eng,
	})
}

// Run starts the HTTP server, watches the config file, and blocks
// until a signal or server error.
func (a *App) Run() error {
	if err := a.Holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}
	a.Holder.WatchSignals()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the server and flushes the audit trail.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var firstErr error
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("http shutdown: %w", err)
	}

	a.Holder.Stop()

	if a.audit != nil {
		if err := a.audit.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close audit store: %w", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return firstErr
}

// bootLogger logs to stderr until the configured logger exists.
func bootLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
