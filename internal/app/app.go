// Package app wires all Tavern subsystems into a running application.
//
// The App struct owns the full lifecycle: New loads the reference
// datasets, connects the guild settings store, registers the slash
// commands, and starts the ops HTTP server; Run blocks on the Discord
// gateway; Shutdown tears everything down in order.
//
// For testing, inject mock implementations via functional options
// (WithLibrary, WithStore, etc.). When an option is not provided, New
// creates real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tavernbot/tavern/internal/config"
	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/discord/commands"
	"github.com/tavernbot/tavern/internal/feedback"
	"github.com/tavernbot/tavern/internal/guildstore"
	"github.com/tavernbot/tavern/internal/health"
	"github.com/tavernbot/tavern/internal/namegen"
	"github.com/tavernbot/tavern/internal/observe"
	"github.com/tavernbot/tavern/internal/resilience"
	"github.com/tavernbot/tavern/internal/srd"
)

// opsShutdownTimeout bounds how long the ops HTTP server may take to
// drain during shutdown.
const opsShutdownTimeout = 5 * time.Second

// App owns all subsystem lifetimes.
type App struct {
	cfg     *config.Config
	metrics *observe.Metrics

	// Subsystems — initialised in New, torn down in Shutdown.
	lib     *srd.Library
	gen     *namegen.Generator
	lists   *namegen.Lists
	pool    *pgxpool.Pool
	store   guildstore.Store
	cache   *guildstore.Cache
	bot     *discord.Bot
	lookups *commands.LookupCommands
	ops     *http.Server

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithLibrary injects a reference library instead of loading one from disk.
func WithLibrary(lib *srd.Library) Option {
	return func(a *App) { a.lib = lib }
}

// WithStore injects a guild settings store instead of connecting to Postgres.
func WithStore(s guildstore.Store) Option {
	return func(a *App) { a.store = s }
}

// WithGenerator injects a name generator instead of loading tables from disk.
func WithGenerator(g *namegen.Generator) Option {
	return func(a *App) { a.gen = g }
}

// WithMetrics injects a metrics instance instead of the process default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an App by wiring all subsystems together. The bot comes
// from main.go (created there so startup failures surface before any
// dataset loading); it may be nil in tests, in which case no commands
// are registered. Use Option functions to inject test doubles for any
// subsystem.
//
// New performs all initialisation synchronously: dataset loading,
// database connection + migration, and command registration. The bot
// does not announce its commands to Discord until [App.Run].
func New(ctx context.Context, cfg *config.Config, bot *discord.Bot, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, bot: bot}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	if err := a.initLibrary(); err != nil {
		return nil, fmt.Errorf("app: init library: %w", err)
	}
	if err := a.initNamegen(); err != nil {
		return nil, fmt.Errorf("app: init namegen: %w", err)
	}
	if err := a.initStore(ctx); err != nil {
		a.runClosers()
		return nil, fmt.Errorf("app: init store: %w", err)
	}
	a.initCommands()
	a.initOpsServer()

	return a, nil
}

// initLibrary loads the reference datasets unless a library was injected.
func (a *App) initLibrary() error {
	if a.lib != nil {
		return nil
	}
	lib, err := srd.Load(a.cfg.SRD.DataDir,
		srd.WithCacheSize(a.cfg.SRD.CacheSize),
		srd.WithCacheObserver(func(resource string, hit bool) {
			a.metrics.RecordCacheLookup(context.Background(), resource, hit)
		}),
	)
	if err != nil {
		return err
	}
	a.lib = lib
	slog.Info("reference datasets loaded", "dir", a.cfg.SRD.DataDir, "resources", len(lib.Resources()))
	return nil
}

// initNamegen loads the generator tables and bond/flaw lists. Both are
// optional; the matching subcommands are simply not offered when the
// files are not configured.
func (a *App) initNamegen() error {
	ng := a.cfg.Namegen

	if a.gen == nil && ng.TablesFile != "" {
		gen, err := namegen.Load(ng.TablesFile)
		if err != nil {
			return err
		}
		a.gen = gen
		slog.Info("name tables loaded", "path", ng.TablesFile, "races", len(gen.Races()))
	}

	if ng.BondsFile != "" && ng.FlawsFile != "" {
		lists, err := namegen.LoadLists(ng.BondsFile, ng.FlawsFile)
		if err != nil {
			return err
		}
		a.lists = lists
	}

	return nil
}

// initStore connects to PostgreSQL, migrates the schema, and warms the
// settings cache. Skipped when no DSN is configured and no store was
// injected; the settings commands are then not registered.
func (a *App) initStore(ctx context.Context) error {
	if a.store == nil {
		dsn := a.cfg.Database.DSN
		if dsn == "" {
			slog.Warn("no database configured; guild settings disabled")
			return nil
		}

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})

		store := guildstore.NewPostgresStore(pool)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		a.store = guildstore.NewResilientStore(store, resilience.CircuitBreakerConfig{Name: "guildstore"})
	}

	a.cache = guildstore.NewCache(a.store)
	if err := a.cache.Refresh(ctx); err != nil {
		slog.Warn("settings cache warm-up failed", "err", err)
	}
	return nil
}

// initCommands registers the slash commands with the bot's router.
func (a *App) initCommands() {
	a.lookups = commands.NewLookupCommands(a.lib, a.metrics, a.cfg.SRD.SearchLimit, a.cfg.SRD.SuggestThreshold)
	if a.bot == nil {
		return
	}
	a.closers = append(a.closers, a.bot.Close)

	a.lookups.Register(a.bot.Router())
	commands.NewRollCommands(a.metrics).Register(a.bot.Router())

	if a.gen != nil || a.lists != nil {
		gc := commands.NewGenerateCommands(a.gen, a.lists, a.metrics)
		gc.Register(a.bot.Router())
	}

	if a.store != nil {
		sc := commands.NewSettingsCommands(a.store, a.cache, a.bot.Permissions(), a.metrics)
		sc.Register(a.bot.Router())
	}

	if a.cfg.Feedback.File != "" {
		fc := commands.NewFeedbackCommands(feedback.NewFileStore(a.cfg.Feedback.File))
		fc.Register(a.bot.Router())
	}
}

// initOpsServer builds the /metrics, /healthz and /readyz endpoints.
// Disabled when server.metrics_addr is empty.
func (a *App) initOpsServer() {
	addr := a.cfg.Server.MetricsAddr
	if addr == "" {
		return
	}

	var checkers []health.Checker
	if a.pool != nil {
		pool := a.pool
		checkers = append(checkers, health.Checker{
			Name:  "database",
			Check: pool.Ping,
		})
	}
	if a.bot != nil {
		bot := a.bot
		checkers = append(checkers, health.Checker{
			Name: "discord",
			Check: func(context.Context) error {
				if bot.Session().State.User == nil {
					return errors.New("gateway session not ready")
				}
				return nil
			},
		})
	}

	mux := http.NewServeMux()
	health.New(checkers...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	a.ops = &http.Server{
		Addr:    addr,
		Handler: observe.Middleware(a.metrics)(mux),
	}
}

// SetSearchTuning applies hot-reloaded search settings to the lookup
// commands.
func (a *App) SetSearchTuning(limit int, threshold float64) {
	if a.lookups != nil {
		a.lookups.SetTuning(limit, threshold)
	}
}

// Library returns the loaded reference library.
func (a *App) Library() *srd.Library {
	return a.lib
}

// Run announces the slash commands to Discord, starts the ops HTTP
// server, and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.ops != nil {
		go func() {
			slog.Info("ops server listening", "addr", a.ops.Addr)
			if err := a.ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("ops server error", "err", err)
			}
		}()
	}

	if a.bot != nil {
		return a.bot.Run(ctx)
	}
	<-ctx.Done()
	return ctx.Err()
}

// Shutdown tears down all subsystems in reverse-init order. It respects
// the context deadline: if ctx expires before all closers finish,
// remaining closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		// Drain the ops server first so probes fail fast.
		if a.ops != nil {
			opsCtx, cancel := context.WithTimeout(ctx, opsShutdownTimeout)
			if err := a.ops.Shutdown(opsCtx); err != nil {
				slog.Warn("ops server shutdown error", "err", err)
			}
			cancel()
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}

// runClosers tears down partially-initialised subsystems when New fails
// midway.
func (a *App) runClosers() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			slog.Warn("closer error during failed init", "err", err)
		}
	}
}
