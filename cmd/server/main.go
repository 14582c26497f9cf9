package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	catalogapp "github.com/salesops/backend/internal/application/catalog"
	commissionapp "github.com/salesops/backend/internal/application/commission"
	ingestionapp "github.com/salesops/backend/internal/application/ingestion"
	ledgerapp "github.com/salesops/backend/internal/application/ledger"
	reportapp "github.com/salesops/backend/internal/application/report"
	"github.com/salesops/backend/internal/domain/commission"
	domaingoals "github.com/salesops/backend/internal/domain/goals"
	"github.com/salesops/backend/internal/infrastructure/cache"
	"github.com/salesops/backend/internal/infrastructure/config"
	"github.com/salesops/backend/internal/infrastructure/event"
	"github.com/salesops/backend/internal/infrastructure/goals"
	"github.com/salesops/backend/internal/infrastructure/logger"
	"github.com/salesops/backend/internal/infrastructure/persistence"
	"github.com/salesops/backend/internal/infrastructure/scheduler"
	"github.com/salesops/backend/internal/infrastructure/telemetry"
	"github.com/salesops/backend/internal/interfaces/http/handler"
	"github.com/salesops/backend/internal/interfaces/http/middleware"
	"github.com/salesops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// goalNotifier is a goals notifier that holds a broker connection
type goalNotifier interface {
	domaingoals.Notifier
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// ship log entries over OTLP alongside the console output
	if level, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, providers.ZapCore(level))
		}))
	}

	log.Info("Starting sales backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
		SpanProfiles:    cfg.Telemetry.SpanProfiles,
	}, providers, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		_ = profiler.Stop()
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbInstrumentation, err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Tracing:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:    cfg.Telemetry.DBLogFullSQL,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, providers.Meter(), log)
	if err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	defer func() {
		_ = dbInstrumentation.Close()
	}()

	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", db.MaxOpenConns()))

	// Repositories
	saleRepo := persistence.NewGormPendingSaleRepository(db.DB)
	approvalStore := persistence.NewGormApprovalStore(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	rewardConfigRepo := persistence.NewGormRewardConfigRepository(db.DB)
	recordRepo := persistence.NewGormCommissionRecordRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)

	// Report cache
	reportCache, err := cache.NewReportCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}
	defer func() {
		_ = reportCache.Close()
	}()

	// Goals tracker
	notifier := newGoalNotifier(cfg.Kafka, log)
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Error("Error closing goals notifier", zap.Error(err))
		}
	}()

	// Metrics
	salesMetrics, err := telemetry.NewSalesMetrics(telemetry.SalesMetricsConfig{
		Meter:         providers.Meter(),
		Logger:        log,
		QueueProvider: saleRepo,
	})
	if err != nil {
		log.Fatal("Failed to create sales metrics", zap.Error(err))
	}
	salesMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	defer salesMetrics.Stop()

	// Application services
	bpoService := reportapp.NewBPOService(movementRepo, reportCache, cfg.Report.CacheTTL, log)

	eventBus := event.NewInMemoryEventBus(log)
	refresh := reportapp.NewSaleApprovedHandler(bpoService, log)
	eventBus.Subscribe(refresh, refresh.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	coordinator := approvalapp.NewCoordinator(saleRepo, approvalStore, productRepo, rewardConfigRepo, recordRepo, notifier, log)
	coordinator.SetEventPublisher(eventBus)
	coordinator.SetMetrics(salesMetrics)
	coordinator.SetDefaults(commission.NewDefaults(cfg.Commission.DefaultSDRPercent, cfg.Commission.DefaultCloserPercent))

	ingestionService := ingestionapp.NewService(saleRepo, log)
	commissionService := commissionapp.NewService(rewardConfigRepo, recordRepo, log)
	ledgerService := ledgerapp.NewService(movementRepo, bpoService, log)
	productService := catalogapp.NewProductService(productRepo, log)

	// Cache warm-up
	if cfg.Report.WarmupEnabled {
		warmupCfg := scheduler.DefaultReportWarmupConfig()
		warmupCfg.Interval = cfg.Report.WarmupInterval
		warmup, err := scheduler.NewReportWarmup(warmupCfg, bpoService, log)
		if err != nil {
			log.Fatal("Failed to create report warm-up", zap.Error(err))
		}
		if err := warmup.Start(ctx); err != nil {
			log.Fatal("Failed to start report warm-up", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = warmup.Stop(stopCtx)
		}()
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	probes := []string{"/health", "/ready"}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			SkipPaths:   probes,
		}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(providers.Meter(), log),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:   cfg.Telemetry.ProfilingEnabled,
			SkipPaths: probes,
		}),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var decisionLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))

		// decisions are limited per reviewer so one client IP shared by a
		// team does not starve the queue
		decisionLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer decisionLimiter.Stop()
		decisionLimit = middleware.RateLimitByKey(decisionLimiter, func(c *gin.Context) string {
			if actor := c.GetHeader(logger.ActorIDHeader); actor != "" {
				return "actor:" + actor
			}
			return "ip:" + c.ClientIP()
		})
	}
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	router.Mount(engine, router.Handlers{
		Sales:         handler.NewSalesHandler(coordinator, ingestionService),
		Commission:    handler.NewCommissionHandler(commissionService),
		Report:        handler.NewReportHandler(bpoService),
		Ledger:        handler.NewLedgerHandler(ledgerService),
		Product:       handler.NewProductHandler(productService),
		System:        handler.NewSystemHandler(cfg.App.Name, version, readinessChecks(db)...),
		DecisionLimit: decisionLimit,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// newGoalNotifier returns the Kafka notifier when enabled. A broker that
// cannot be configured falls back to logging, since goal sync never blocks
// an approval.
func newGoalNotifier(cfg config.KafkaConfig, log *zap.Logger) goalNotifier {
	if !cfg.Enabled {
		return goals.NewLogNotifier(log)
	}
	notifier, err := goals.NewKafkaNotifier(goals.KafkaNotifierConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.GoalsTopic,
		WriteTimeout: cfg.WriteTimeout,
	}, log)
	if err != nil {
		log.Warn("Kafka goals notifier unavailable, logging notifications instead", zap.Error(err))
		return goals.NewLogNotifier(log)
	}
	return notifier
}

func readinessChecks(db *persistence.Database) []handler.ReadinessCheck {
	return []handler.ReadinessCheck{
		{Name: "database", Check: db.Ping},
	}
}
