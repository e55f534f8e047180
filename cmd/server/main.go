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
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithQueryParams(cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        cfg.Database.Driver,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	poolMetrics, err := telemetry.NewDBPoolMetrics(meterProvider.Meter("storefront.db"), db.Stats, log)
	if err != nil {
		log.Fatal("Failed to register connection pool metrics", zap.Error(err))
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormDraftOrderRepository(db.DB)

	locker, closeLocker := newOwnerLocker(ctx, cfg, log)
	cartMetrics, err := telemetry.NewCartMetrics(meterProvider.Meter("storefront.cart"))
	if err != nil {
		log.Fatal("Failed to register cart metrics", zap.Error(err))
	}
	publisher, closePublisher := newEventPublisher(ctx, cfg, log, cartMetrics)

	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetEventPublisher(publisher)
	listingService := catalogapp.NewListingService(productRepo, catalogapp.PageLimits{
		DefaultPageSize: cfg.Cart.DefaultPageSize,
		MaxPageSize:     cfg.Cart.MaxPageSize,
	}, log)

	cartService := cartapp.NewCartService(productRepo, orderRepo, locker, log)
	cartService.SetEventPublisher(publisher)
	cartService.SetLockTimeout(cfg.Cart.LockTimeout)

	checkoutService := cartapp.NewCheckoutService(orderRepo, productRepo, locker, log)
	checkoutService.SetEventPublisher(publisher)
	checkoutService.SetLockTimeout(cfg.Cart.LockTimeout)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// RequestID first so every later middleware and log line sees it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(meterProvider, log))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())

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

	healthHandler := handler.NewHealthHandler(db, version)
	engine.GET("/health", healthHandler.Check)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		RegisterStorefront(router.Handlers{
			Products: handler.NewProductHandler(listingService, productService),
			Cart:     handler.NewCartHandler(cartService),
			Checkout: handler.NewCheckoutHandler(checkoutService),
			Health:   healthHandler,
		},
			middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
			middleware.TracingAttributeInjector(),
		).
		Setup()

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
	}
	closePublisher(shutdownCtx)
	closeLocker()
	if err := poolMetrics.Stop(); err != nil {
		log.Error("Failed to unregister pool metrics", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}
}

// newOwnerLocker picks the per-owner lock backend. A redis lock is required
// when more than one server instance shares the database.
func newOwnerLocker(ctx context.Context, cfg *config.Config, log *zap.Logger) (cartapp.OwnerLocker, func()) {
	if cfg.Cart.LockBackend != "redis" {
		log.Info("Using in-process owner lock")
		return cartapp.NewInMemoryOwnerLocker(), func() {}
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	log.Info("Using redis owner lock", zap.String("addr", cfg.Redis.Addr()))

	locker := cache.NewRedisOwnerLocker(client, log, cache.WithLockTTL(cfg.Cart.LockTTL))
	return locker, func() {
		if err := client.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}
}

// newEventPublisher picks where domain events go. Local subscribers (audit
// log and cart metrics) always hang off an in-process bus. With the kafka
// backend the services publish to the topic and a consumer feeds the topic
// back into that bus, so every instance's subscribers see every event.
func newEventPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger, subscribers ...shared.EventHandler) (shared.EventPublisher, func(context.Context)) {
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditLogHandler(log))
	for _, h := range subscribers {
		bus.Subscribe(h)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	stopBus := func(stopCtx context.Context) {
		if err := bus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}

	if cfg.Event.Backend != "kafka" {
		return bus, stopBus
	}

	publisher := event.NewKafkaEventPublisher(event.KafkaPublisherConfig{
		Brokers:      cfg.Event.KafkaBrokers,
		Topic:        cfg.Event.KafkaTopic,
		WriteTimeout: cfg.Event.WriteTimeout,
	}, log)
	consumer := event.NewKafkaEventConsumer(event.KafkaConsumerConfig{
		Brokers: cfg.Event.KafkaBrokers,
		Topic:   cfg.Event.KafkaTopic,
		GroupID: cfg.Event.KafkaGroupID,
	}, bus, log)
	log.Info("Publishing domain events to kafka",
		zap.Strings("brokers", cfg.Event.KafkaBrokers),
		zap.String("topic", cfg.Event.KafkaTopic),
		zap.String("group_id", cfg.Event.KafkaGroupID),
	)

	consumeCtx, stopConsuming := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Run(consumeCtx); err != nil {
			log.Error("Kafka event consumer stopped", zap.Error(err))
		}
	}()

	return publisher, func(stopCtx context.Context) {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing kafka publisher", zap.Error(err))
		}
		stopConsuming()
		select {
		case <-done:
		case <-stopCtx.Done():
		}
		if err := consumer.Close(); err != nil {
			log.Error("Error closing kafka consumer", zap.Error(err))
		}
		stopBus(stopCtx)
	}
}
