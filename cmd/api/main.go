// Package main is the entrypoint for the LeadFinder API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/Briancute/local-lead-finder/internal/auth"
	"github.com/Briancute/local-lead-finder/internal/cache"
	"github.com/Briancute/local-lead-finder/internal/config"
	"github.com/Briancute/local-lead-finder/internal/database"
	"github.com/Briancute/local-lead-finder/internal/handler"
	"github.com/Briancute/local-lead-finder/internal/mail"
	"github.com/Briancute/local-lead-finder/internal/metrics"
	"github.com/Briancute/local-lead-finder/internal/middleware"
	"github.com/Briancute/local-lead-finder/internal/places"
	"github.com/Briancute/local-lead-finder/internal/repository"
	"github.com/Briancute/local-lead-finder/internal/server"
	"github.com/Briancute/local-lead-finder/internal/service"
)

// storageWatchInterval is how often the storage-live gauge is refreshed.
const storageWatchInterval = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize metrics
	recorder, metricsHandler := initMetrics(cfg)

	// Initialize storage. MongoDB is optional; without it every call is
	// served by the in-memory store.
	memory := repository.NewMemory()
	mongoConn := connectMongo(ctx, cfg, logger)

	var durable repository.Store
	if mongoConn != nil {
		mongoStore := repository.NewMongoStore(mongoConn.Database())
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to ensure mongodb indexes", "error", err)
		}
		durable = mongoStore
	}
	store := repository.NewAdapter(mongoConn, durable, memory)
	recorder.SetStorageLive(store.Live())

	seedDemoUser(ctx, store, memory, logger)

	// Initialize cache
	cacheClient := connectRedis(ctx, cfg, logger)

	// Initialize place gateway
	placesClient, err := places.NewClient(places.Config{
		APIKey:  cfg.GoogleMapsAPIKey,
		BaseURL: cfg.GoogleMapsBaseURL,
		Region:  cfg.GoogleMapsRegion,
		Timeout: cfg.GoogleMapsTimeout,
	}, nil)
	if err != nil {
		logger.Error("failed to initialize places client", "error", err)
		os.Exit(1)
	}
	var gateway places.Gateway = placesClient
	if cacheClient != nil {
		gateway = places.NewCachedGateway(gateway, cacheClient, logger)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Error("failed to initialize token issuer", "error", err)
		os.Exit(1)
	}

	sender := mail.NewSMTPSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPass,
	})

	// Initialize services
	authService := service.NewAuthService(store, tokens, logger)
	leadService := service.NewLeadService(store, store, gateway, recorder, logger)
	templateService := service.NewTemplateService(store, logger)
	outreachService := service.NewOutreachService(sender, store, leadService, recorder, logger)

	// Initialize handlers
	// Interfaces stay nil for absent backends.
	var dbCheck, cacheCheck handler.HealthChecker
	if mongoConn != nil {
		dbCheck = mongoConn
	}
	if cacheClient != nil {
		cacheCheck = cacheClient
	}

	dev := cfg.IsDevelopment()
	handlers := server.Handlers{
		Root:     handler.New(),
		Health:   handler.NewHealthHandler(dbCheck, cacheCheck, store),
		Auth:     handler.NewAuthHandler(authService, logger, dev),
		Leads:    handler.NewLeadHandler(leadService, logger, dev),
		Template: handler.NewTemplateHandler(templateService, logger, dev),
		Email:    handler.NewEmailHandler(outreachService, logger, dev),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Enabled: cfg.RateLimitAuthEnabled,
		Bucket: cache.Bucket{
			Name:  "auth",
			Rate:  float64(cfg.RateLimitAuthRPS),
			Burst: cfg.RateLimitAuthBurst,
		},
	}
	if cacheClient != nil {
		rateLimitCfg.Limiter = cacheClient
	}

	// Setup router
	r := server.NewRouter(handlers, server.RouterConfig{
		Logger:  logger,
		Tokens:  tokens,
		Metrics: recorder,
		Security: middleware.SecurityConfig{
			IsDevelopment:      dev,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		CORS:              corsCfg,
		AuthRateLimit:     rateLimitCfg,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		MetricsHandler:    metricsHandler,
	})

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if mongoConn != nil {
		srv.OnShutdown("mongodb", mongoConn.Close)
		go watchStorage(ctx, store, recorder)
	}
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage_live", store.Live(),
		"places_demo_mode", gateway.DemoMode(),
		"smtp_configured", cfg.SMTPConfigured(),
		"redis", cacheClient != nil,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initMetrics builds the configured recorder and the handler serving it.
func initMetrics(cfg *config.Config) (metrics.Recorder, http.Handler) {
	if cfg.MetricsBackend == "memory" {
		rec := metrics.NewInMemory()
		return rec, http.HandlerFunc(handler.NewMetricsHandler(rec).Metrics)
	}
	rec := metrics.NewPrometheus()
	return rec, rec.Handler()
}

// connectMongo returns nil when MongoDB is not configured or unreachable.
func connectMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) *database.Mongo {
	if cfg.MongoURI == "" {
		logger.Info("MONGODB_URI not set, using in-memory store")
		return nil
	}

	conn, err := database.Connect(ctx, database.Options{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, logger)
	if err != nil {
		logger.Warn(
			"failed to connect to mongodb, using in-memory store",
			slog.String("error", sanitizeError(err, cfg.MongoURI)),
			slog.String("mongodb_uri", database.RedactURI(cfg.MongoURI)),
		)
		return nil
	}

	logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
	return conn
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *cache.Cache {
	if cfg.RedisURL == "" {
		return nil
	}

	c, err := cache.New(ctx, cfg.RedisOptions())
	if err != nil {
		logger.Warn(
			"failed to connect to Redis, continuing without cache",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", database.RedactURI(cfg.RedisURL)),
		)
		return nil
	}

	logger.Info("connected to Redis")
	return c
}

// seedDemoUser makes the demo account available in memory, and in MongoDB
// when it is live.
func seedDemoUser(ctx context.Context, store *repository.Adapter, memory *repository.Memory, logger *slog.Logger) {
	hash, err := auth.HashPassword(repository.DemoPassword)
	if err != nil {
		logger.Warn("failed to hash demo password", "error", err)
		return
	}

	if _, err := repository.SeedDemoUser(ctx, memory, hash); err != nil {
		logger.Warn("failed to seed demo user in memory", "error", err)
	}
	if store.Live() {
		if _, err := repository.SeedDemoUser(ctx, store, hash); err != nil {
			logger.Warn("failed to seed demo user in mongodb", "error", err)
		}
	}
	logger.Info("demo user ready", "email", repository.DemoEmail)
}

// watchStorage keeps the storage-live gauge in step with the adapter.
func watchStorage(ctx context.Context, store *repository.Adapter, recorder metrics.Recorder) {
	ticker := time.NewTicker(storageWatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			recorder.SetStorageLive(store.Live())
		}
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, database.RedactURI(secret))
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
