package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/activity"
	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/httpserver"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/library"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/persist"
	"github.com/MrSnakeDoc/shelf/internal/redis"
	"github.com/MrSnakeDoc/shelf/internal/scheduler"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/store/file"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
	"github.com/MrSnakeDoc/shelf/internal/store/sqlite"
	"github.com/MrSnakeDoc/shelf/internal/utils"
	"github.com/MrSnakeDoc/shelf/internal/version"
)

// Core is the book-state engine wired to its durable store.
// The CLI uses it directly; the server wraps it with HTTP and the seed reloader.
type Core struct {
	KV       *store.Quota
	Persist  *persist.Adapter
	Library  *library.Library
	Activity *activity.Tracker
}

// Close releases the durable store.
func (c *Core) Close() error { return c.KV.Close() }

// OpenStore opens the configured backend.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory store, nothing survives a restart")
		return memory.New(), nil

	case config.BackendFile:
		s, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		log.Info("file store ready", logger.String("dir", s.Dir()))
		return s, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("sqlite store ready", logger.String("path", cfg.SQLitePath))
		return s, nil

	case config.BackendRedis:
		// Fail fast if Redis is unavailable
		client, err := redis.New(ctx, redis.OptionsFrom(cfg.Redis), log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.NewStore(client), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// NewCore opens the store and loads the library and reading activity from it.
func NewCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	kv, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	quota := store.NewQuota(kv, cfg.QuotaBytes)

	adapter := persist.New(quota, cfg.KeyPrefix, log)
	return &Core{
		KV:       quota,
		Persist:  adapter,
		Library:  library.New(ctx, adapter, log),
		Activity: activity.New(ctx, adapter, log, activity.WithLocation(loc)),
	}, nil
}

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	core     *Core
	server   *httpserver.Server
	reloader *scheduler.SeedReloader
}

// New wires the core, the seed reloader and the HTTP server.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	core, err := NewCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var (
		reloader      *scheduler.SeedReloader
		reloadTrigger chan struct{}
	)
	if cfg.SeedFile != "" {
		log.Info("seed file configured, initializing seed reloader",
			logger.String("file", cfg.SeedFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewSeedReloader(cfg.SeedFile, core.Library, core.Persist, log, cfg.SeedInterval, reloadTrigger)
	} else {
		log.Info("seed file not configured, seed reload disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		Library:        core.Library,
		Activity:       core.Activity,
		Store:          core.KV,
		Backend:        cfg.Backend,
		Saves:          core.Persist,
		ReloadTrigger:  reloadTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   log,
		core:     core,
		server:   httpserver.New(cfg, log, d),
		reloader: reloader,
	}, nil
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Shelf v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Shelf %s", version.String())

	defer utils.MustClose(a.core, a.logger, "store")

	// Start seed reloader (imports once, then refreshes periodically)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		defer a.reloader.Stop()
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.SeedInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.core.Persist.LastSaveError(); err != nil {
		a.logger.Warn("last save failed, recent changes may be lost", logger.Error(err))
	}
	a.logger.Info("✅ Shelf stopped cleanly")
	return nil
}
