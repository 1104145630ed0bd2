package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nbscout/nbscout/internal/config"
	"github.com/nbscout/nbscout/internal/discovery"
	"github.com/nbscout/nbscout/internal/httpserver"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/recommend"
	"github.com/nbscout/nbscout/internal/redis"
	"github.com/nbscout/nbscout/internal/scheduler"
	"github.com/nbscout/nbscout/internal/store"
	"github.com/nbscout/nbscout/internal/store/memstore"
	"github.com/nbscout/nbscout/internal/store/postgres"
	"github.com/nbscout/nbscout/internal/store/rediscache"
	"github.com/nbscout/nbscout/internal/version"
)

// recommendationPurger is satisfied by both store implementations.
type recommendationPurger interface {
	PurgeRecommendationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.SeedReloader
	gc          *scheduler.RecommendationGC
	flusher     *scheduler.CounterFlusher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Record store: Postgres is the durable home; without a DSN we run
	// on the in-memory store (dev mode, nothing survives restart).
	var recordStore store.RecordStore
	var purger recommendationPurger
	if cfg.PostgresDSN != "" {
		// Fail fast - the pipeline is useless without durable storage
		pg, err := postgres.Open(cfg.PostgresDSN, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Postgres: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Postgres initialized successfully")
		recordStore, purger = pg, pg
	} else {
		loggerClient.Warn("NBSCOUT_POSTGRES_DSN not set, using in-memory store (dev mode)")
		ms := memstore.New()
		recordStore, purger = ms, ms
	}

	// Redis is optional: without it the result cache and hot counters
	// are disabled and the service degrades instead of failing.
	var redisClient *goredis.Client
	var cache *rediscache.Cache
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warnf("Redis unavailable, running without result cache: %v", err)
		} else {
			loggerClient.Info("Redis initialized successfully")
			redisClient = client
			cache = rediscache.New(client)
		}
	} else {
		loggerClient.Info("NBSCOUT_REDIS_ADDR not set, result cache disabled")
	}

	orchestrator := discovery.New(recordStore, cache, loggerClient)
	generator := recommend.NewGenerator(recordStore, loggerClient, cfg.ModelVersion)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewSeedReloader(
		cfg.SeedFile,
		recordStore,
		cache,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewRecommendationGC(
		purger,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	// Counter flusher only runs when redis carries the hot counters
	var flusher *scheduler.CounterFlusher
	if cache != nil {
		flusher = scheduler.NewCounterFlusher(cache, recordStore, loggerClient, cfg.FlushInterval)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		Store:             recordStore,
		Cache:             cache,
		RedisClient:       redisClient,
		Orchestrator:      orchestrator,
		Generator:         generator,
		ReloadTrigger:     reloadTrigger,
		URLCheckTimeout:   cfg.URLCheckTimeout,
		SkipURLValidation: cfg.SkipURLValidation,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		gc:          gc,
		flusher:     flusher,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting nbscout v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("nbscout %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start seed reloader (ingests the catalog and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start seed reloader: %w", err)
	}
	a.logger.Info("seed reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start garbage collector
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	// Start counter flusher (if redis is up)
	if a.flusher != nil {
		if err := a.flusher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start counter flusher: %w", err)
		}
		a.logger.Info("counter flusher started",
			logger.Duration("interval", a.cfg.FlushInterval))
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

	a.reloader.Stop()
	a.gc.Stop()
	if a.flusher != nil {
		a.flusher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ nbscout stopped cleanly")
	return nil
}
