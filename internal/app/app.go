package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Phurinon/Project-SE-T14-sub000/internal/airquality"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/auth"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/config"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/event"
	handler "github.com/Phurinon/Project-SE-T14-sub000/internal/handler/http"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/identity"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/repository/postgres"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/service"
	"github.com/Phurinon/Project-SE-T14-sub000/internal/storage"
	"github.com/Phurinon/Project-SE-T14-sub000/migrations"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/database"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/health"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httpclient"
	pkgkafka "github.com/Phurinon/Project-SE-T14-sub000/pkg/kafka"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/middleware"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/tracing"
)

const serviceName = "shopdir-api"

// App wires together all dependencies and runs the API server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// New creates a new application instance, initializing all dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     1.0,
		Enabled:        cfg.OTLPEndpoint != "",
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, serviceName)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis for the air quality cache.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("host", cfg.RedisHost))

	// Initialize Kafka producer when brokers are configured.
	var producer *pkgkafka.Producer
	var events event.Publisher = event.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewKafkaPublisher(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, events will be dropped")
	}

	// Outbound HTTP clients. The air quality provider sits behind a
	// circuit breaker so a flapping upstream fails fast and the cache
	// fallback kicks in.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	aqBreaker := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("air-quality"),
		logger,
	)

	aqCfg := airquality.DefaultConfig()
	aqCfg.BaseURL = cfg.AirQualityBaseURL
	aqCfg.Token = cfg.AirQualityToken
	aqCfg.FreshTTL = cfg.AirQualityFresh
	aqCfg.StaleTTL = cfg.AirQualityStale
	aqClient := airquality.New(aqCfg, aqBreaker, redisClient, logger)

	// Image storage falls back to in-memory when no CDN is configured.
	var store storage.Provider = storage.NewMemoryProvider()
	if cfg.StorageBaseURL != "" {
		store = storage.NewHTTPProvider(storage.HTTPConfig{
			BaseURL:    cfg.StorageBaseURL,
			PrivateKey: cfg.StoragePrivateKey,
			Folder:     cfg.StorageFolder,
		}, baseClient)
	}

	// Federated login is optional.
	var idProvider identity.Provider
	if cfg.OAuthTokenURL != "" {
		idProvider = identity.NewHTTPProvider(identity.HTTPConfig{
			ProviderName: cfg.OAuthProviderName,
			TokenURL:     cfg.OAuthTokenURL,
			UserInfoURL:  cfg.OAuthUserInfoURL,
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
		}, baseClient)
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	accountRepo := postgres.NewAccountRepository(pool)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(pool)
	shopRepo := postgres.NewShopRepository(pool)
	bookmarkRepo := postgres.NewBookmarkRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	safetyRepo := postgres.NewSafetyLevelRepository(pool)

	authService := service.NewAuthService(accountRepo, refreshTokenRepo, jwtManager, idProvider, events, logger)
	accountService := service.NewAccountService(accountRepo, store, logger)
	shopService := service.NewShopService(shopRepo, store, logger)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, shopRepo)
	reviewService := service.NewReviewService(reviewRepo, shopRepo, events)
	commentService := service.NewCommentService(commentRepo, shopRepo, events)
	safetyService := service.NewSafetyService(safetyRepo)
	airQualityService := service.NewAirQualityService(aqClient, safetyService)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Auth:        authService,
		Accounts:    accountService,
		Shops:       shopService,
		Bookmarks:   bookmarkService,
		Reviews:     reviewService,
		Comments:    commentService,
		Safety:      safetyService,
		AirQuality:  airQualityService,
		AccountRepo: accountRepo,
		JWT:         jwtManager,
		Health:      healthHandler,
		Logger:      logger,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		ServiceName: serviceName,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain in-flight HTTP
// requests, flush pending spans, then close the broker and stores.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
