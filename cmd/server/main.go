package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"rosterboard/internal/adapters/telegram"
	"rosterboard/internal/assets"
	"rosterboard/internal/broker"
	"rosterboard/internal/config"
	"rosterboard/internal/delivery"
	"rosterboard/internal/httpapi"
	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/pkg/shutdown"
	"rosterboard/internal/ports"
	"rosterboard/internal/render"
	"rosterboard/internal/render/chrome"
	"rosterboard/internal/repositories"
	"rosterboard/internal/storage"
	"rosterboard/internal/urlcache"
)

func main() {
	log := logger.NewDefault()

	cfg, err := config.Parse(os.Environ())
	if err != nil {
		log.LogFatal("failed to parse configuration", err)
	}

	log.Info("starting rosterboard",
		"version", "0.1.0",
		"leader", cfg.Leader,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Connect to PostgreSQL
	log.Info("connecting to PostgreSQL")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.LogFatal("failed to connect to PostgreSQL", err)
	}
	shutdownMgr.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})
	if err := pool.Ping(ctx); err != nil {
		log.LogFatal("failed to ping PostgreSQL", err)
	}
	log.Info("PostgreSQL connected")

	// Connect to Redis
	log.Info("connecting to Redis")
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	shutdownMgr.Register("redis", func(ctx context.Context) error {
		return rdb.Close()
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.LogFatal("failed to ping Redis", err)
	}
	log.Info("Redis connected")

	// Storage provider and caches
	sp, err := storage.NewProvider(cfg.Storage)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	log.Info("storage provider initialized", "provider", sp.Provider())

	assetCache := assets.NewCache(cfg.AssetsDir, assets.DefaultTTL, log)
	urlCache := urlcache.NewCache(sp, urlcache.DefaultTTL, log)
	go assetCache.Run(ctx)
	go urlCache.Run(ctx)
	shutdownMgr.RegisterSimple("asset-cache", assetCache.Cleanup)

	// Render pipeline
	engine := chrome.New(cfg.Render.Timeout, cfg.Render.ChromePath, log)
	repo := repositories.NewPGRosterRepository(pool)
	renderer := render.NewOrchestrator(render.Deps{
		Lookup: repo,
		URLs:   urlCache,
		Assets: assetCache,
		Engine: engine,
		Log:    log,
	})

	// Delivery: the leader owns the channel and drains the queue,
	// everyone else enqueues and polls for results.
	queue := broker.NewRedisQueue(rdb, cfg.Delivery.QueueName)
	results := broker.NewRedisResultStore(rdb, "rosterboard:results:")

	var channel ports.Channel
	if cfg.Leader {
		tg, err := telegram.New(cfg.Telegram, log)
		if err != nil {
			log.LogFatal("failed to connect Telegram channel", err)
		}
		shutdownMgr.Register("telegram", tg.Stop)
		channel = tg
		log.Info("telegram channel connected")
	}

	dispatcher := delivery.NewDispatcher(delivery.Config{
		Channel:       channel,
		Queue:         queue,
		Results:       results,
		Log:           log,
		PollInterval:  cfg.Delivery.PollInterval,
		MaxWait:       cfg.Delivery.MaxWait,
		ResultTTL:     cfg.Delivery.ResultTTL,
		MaxQueueDepth: cfg.Delivery.MaxQueueDepth,
	})

	if cfg.Leader {
		consumer := delivery.NewConsumer(delivery.ConsumerConfig{
			Channel:   channel,
			Queue:     queue,
			Results:   results,
			Log:       log,
			Interval:  cfg.Delivery.PollInterval,
			ResultTTL: cfg.Delivery.ResultTTL,
		})
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.LogError(ctx, "delivery consumer stopped", err)
			}
		}()
		log.Info("delivery consumer started")
	}

	// Cancels the consumer and cache sweep loops; registered here so they
	// stop before the channel and stores they use are torn down.
	shutdownMgr.RegisterSimple("background-loops", cancel)

	router := httpapi.NewRouter(httpapi.Deps{
		Pool:        pool,
		RDB:         rdb,
		Renderer:    renderer,
		Dispatcher:  dispatcher,
		Channel:     channel,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}
