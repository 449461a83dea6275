// Package main is the entry point for the tweet-score-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/config"
	"tweet-score-service/internal/domain"
	"tweet-score-service/internal/infra/postgres"
	"tweet-score-service/internal/infra/postgres/migrations"
	"tweet-score-service/internal/infra/provider/registry"
	rediscache "tweet-score-service/internal/infra/redis"
	"tweet-score-service/internal/infra/tables"
	"tweet-score-service/internal/job"
	"tweet-score-service/internal/logger"
	"tweet-score-service/internal/metrics"
	"tweet-score-service/internal/transport/httpserver"
	"tweet-score-service/internal/transport/httpserver/middleware"
	"tweet-score-service/internal/validator"
	"tweet-score-service/pkg/locker"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Level:   cfg.Logger.Level,
			Format:  cfg.Logger.Format,
			Output:  cfg.Logger.Output,
			Service: cfg.App.Name,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting tweet-score-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Scoring tables and engine
	t, err := tables.Load(cfg.Engine.TablesFile)
	if err != nil {
		log.Fatal("failed to load engine tables", zap.Error(err))
	}
	engine := domain.NewEngine(t)
	log.Info("scoring engine ready", zap.String("tables_file", cfg.Engine.TablesFile))

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:          cfg.Database.Host,
			Port:          cfg.Database.Port,
			Name:          cfg.Database.Name,
			User:          cfg.Database.User,
			Password:      cfg.Database.Password,
			SSLMode:       cfg.Database.SSLMode,
			MaxOpenConns:  cfg.Database.MaxOpenConns,
			MaxIdleConns:  cfg.Database.MaxIdleConns,
			MaxLifetime:   cfg.Database.MaxLifetime,
			SlowThreshold: cfg.Database.SlowThreshold,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	repo := postgres.NewRepository(db)

	// Connect to Redis
	ctx := context.Background()
	redisClient, err := rediscache.NewClient(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("analysis_ttl", cfg.Cache.AnalysisTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	var collectors *metrics.Collectors
	if cfg.Metrics.Enabled {
		collectors, err = metrics.New()
		if err != nil {
			log.Fatal("failed to register metrics", zap.Error(err))
		}
	}

	// Collaborators
	source := registry.NewHistorySource(cfg.Scraper, log.Logger)
	if source == nil {
		log.Warn("history source not configured; profile sync disabled")
	}
	generator := registry.NewGenerator(cfg.Generator, log.Logger)
	if generator == nil {
		log.Info("text generation disabled")
	} else {
		log.Info("text generation enabled", zap.String("provider", generator.Name()))
	}

	// Services
	defaults := service.ProfileDefaults{
		Market:     cfg.Engine.DefaultMarket,
		NicheFocus: cfg.Engine.DefaultNicheFocus,
	}
	analysisSvc := service.NewAnalysisService(engine, repo, cache, cfg.Cache.AnalysisTTL, collectors, log.Logger)
	profileSvc := service.NewProfileService(engine, repo, defaults, collectors, log.Logger)
	historySvc := service.NewHistoryService(
		engine,
		repo,
		source,
		service.HistoryOptions{
			MaxTweets: cfg.History.MaxTweets,
			BatchSize: cfg.History.BatchSize,
			MaxAge:    cfg.History.MaxAge,
		},
		collectors,
		log.Logger,
	)
	generationSvc := service.NewGenerationService(generator, analysisSvc, repo, collectors, log.Logger)

	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	v := validator.New()

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    1024 * 1024, // 1MB
			Debug:        cfg.App.Debug,
			TemplatesDir: cfg.App.TemplatesDir,
			MetricsPath:  metricsPath,
			CORSOrigins:  cfg.App.CORSOrigins,
			Auth: middleware.AuthConfig{
				JWTSecret:   cfg.Auth.JWTSecret,
				Issuer:      cfg.Auth.Issuer,
				DefaultUser: cfg.Auth.DefaultUser,
			},
		},
		httpserver.Services{
			Analysis:   analysisSvc,
			Generation: generationSvc,
			Profiles:   profileSvc,
			History:    historySvc,
			Campaigns:  service.NewCampaignService(analysisSvc, repo, log.Logger),
			Analytics:  service.NewAnalyticsService(repo, log.Logger),
			Defaults:   defaults,
		},
		collectors,
		v,
		log.Logger,
		func(ctx context.Context) error { return postgres.HealthCheck(ctx, db) },
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	)

	// Periodic history refresh with distributed locking
	var scheduler *job.HistoryScheduler
	if historySvc.Enabled() {
		scheduler = job.NewHistoryScheduler(
			historySvc,
			job.HistoryConfig{
				Interval:  cfg.History.Interval,
				Timeout:   cfg.History.Timeout,
				OnStartup: cfg.History.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		scheduler.Start(cfg.History.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
