package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rentwise/backend/internal/app"
	identityapp "github.com/rentwise/backend/internal/application/identity"
	"github.com/rentwise/backend/internal/application/upload"
	"github.com/rentwise/backend/internal/infrastructure/auth"
	"github.com/rentwise/backend/internal/infrastructure/config"
	"github.com/rentwise/backend/internal/infrastructure/event"
	"github.com/rentwise/backend/internal/infrastructure/geocoding"
	"github.com/rentwise/backend/internal/infrastructure/logger"
	"github.com/rentwise/backend/internal/infrastructure/metrics"
	"github.com/rentwise/backend/internal/infrastructure/notification"
	"github.com/rentwise/backend/internal/infrastructure/persistence"
	"github.com/rentwise/backend/internal/infrastructure/storage"
	"github.com/rentwise/backend/internal/infrastructure/telemetry"
	"github.com/rentwise/backend/internal/interfaces/http/handler"
	"github.com/rentwise/backend/internal/interfaces/http/middleware"
	"github.com/rentwise/backend/internal/interfaces/http/router"
	"github.com/rentwise/backend/internal/interfaces/rpc"
	"go.uber.org/zap"

	_ "github.com/rentwise/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Rentwise API
//	@version		1.0
//	@description	Property management backend: properties, listings, rental applications, leases, tasks and messaging.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Rentwise backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.DBName = cfg.Database.DBName
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Token revocation lives in Redis so it is shared between replicas
	var (
		blacklist   auth.TokenBlacklist
		redisClient *redis.Client
	)
	redisClient, err = auth.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, revoked tokens are kept in memory", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() { _ = redisClient.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	var notifier notification.Notifier = notification.NewLogNotifier(log)
	if cfg.Notification.Enabled {
		awsNotifier, err := notification.NewAWSNotifierFromConfig(ctx, cfg.Notification, m, log)
		if err != nil {
			log.Fatal("Failed to initialize notifications", zap.Error(err))
		}
		notifier = awsNotifier
	}

	objects, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)
	event.RegisterHandlers(eventBus, log, m)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	authConfig := identityapp.DefaultAuthServiceConfig()
	if cfg.PasswordReset.TokenTTL > 0 {
		authConfig.ResetTokenTTL = cfg.PasswordReset.TokenTTL
	}
	authConfig.ResetURLBase = cfg.PasswordReset.ResetURLBase

	services := app.NewServices(app.Deps{
		DB:        db.DB,
		Tokens:    auth.NewJWTService(cfg.JWT),
		Blacklist: blacklist,
		Notifier:  notifier,
		Storage:   objects,
		Geocoder:  geocoding.New(cfg.Geocoding),
		Events:    eventBus,
		Metrics:   m,
		Logger:    log,
		Auth:      authConfig,
		Upload: upload.Config{
			Concurrency:       cfg.Storage.UploadConcurrency,
			PresignExpiration: cfg.Storage.PresignExpiration,
		},
	})

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID 2. Recovery 3. Logger 4. Security headers 5. CORS
	// 6. BodyLimit 7. Tracing 8. Metrics 9. RateLimit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	if m != nil {
		engine.Use(middleware.HTTPMetrics(m))
	}

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	authGuard := middleware.Auth(services.Auth, log)
	guards := router.Guards{Auth: authGuard}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, limiter)
		guards.Credentials = middleware.RateLimit(limiter)
	}
	defer func() {
		for _, l := range limiters {
			l.Stop()
		}
	}()

	// Health endpoints live outside the API prefix
	system := handler.NewSystemHandler(cfg.App.Name, version)
	system.AddCheck("database", db.Ping)
	if redisClient != nil {
		system.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	engine.GET("/health", system.Live)
	engine.GET("/health/ready", system.Ready)

	if m != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, authGuard),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.SpanAttributes())
	r.Register(router.APIGroups(router.NewHandlers(services, system), guards)...)
	r.Register(rpc.NewServer(rpc.NewServiceRegistry(services), services.Auth, log))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
