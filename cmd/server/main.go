package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/finerp/backend/docs"
	financeapp "github.com/finerp/backend/internal/application/finance"
	integrationapp "github.com/finerp/backend/internal/application/integration"
	"github.com/finerp/backend/internal/application/monitoring"
	partnerapp "github.com/finerp/backend/internal/application/partner"
	"github.com/finerp/backend/internal/domain/integration"
	"github.com/finerp/backend/internal/infrastructure/auth"
	"github.com/finerp/backend/internal/infrastructure/cache"
	"github.com/finerp/backend/internal/infrastructure/config"
	"github.com/finerp/backend/internal/infrastructure/errtrack"
	"github.com/finerp/backend/internal/infrastructure/logger"
	"github.com/finerp/backend/internal/infrastructure/persistence"
	"github.com/finerp/backend/internal/infrastructure/provider"
	"github.com/finerp/backend/internal/infrastructure/storage"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"github.com/finerp/backend/internal/interfaces/http/handler"
	"github.com/finerp/backend/internal/interfaces/http/middleware"
	"github.com/finerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			FinERP Backend API
//	@version		1.0
//	@description	Accounts payable ledger: payables, payments, receivables, parties and integrations.

//	@contact.name	FinERP Team

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
	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// The OTLP log pipeline is built first so its core can join the logger.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, nil)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
	}, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting finerp backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter("finerp-backend")
	ledgerMetrics, err := telemetry.NewLedgerMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Telemetry.ProfilingEnabled,
		ServerAddress:        cfg.Telemetry.PyroscopeAddress,
		ApplicationName:      cfg.Telemetry.ServiceName,
		BasicAuthUser:        cfg.Telemetry.PyroscopeUser,
		BasicAuthPassword:    cfg.Telemetry.PyroscopePassword,
		MutexProfileFraction: cfg.Telemetry.MutexProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	profiler.LinkSpans(tracerProvider)
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
	}()

	flushSentry, err := errtrack.Init(errtrack.Config{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.App.Version,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
	})
	if err != nil {
		log.Warn("Sentry disabled", zap.Error(err))
	}
	defer flushSentry()

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}
	if err := db.EnableTracing(telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:             cfg.Database.DBName,
		IncludeVariables:   cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	payableRepo := persistence.NewGormAccountPayableRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	attachmentRepo := persistence.NewGormPartyAttachmentRepository(db.DB)
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	integrationLogRepo := persistence.NewGormIntegrationLogRepository(db.DB)
	receivableRepo := persistence.NewGormAccountReceivableRepository(db.DB)
	contactRepo := persistence.NewGormPartyContactRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)

	ledgerScope := persistence.NewGormLedgerScope(db.DB, persistence.LedgerRetryConfig{
		MaxRetries:      cfg.Ledger.MaxRetries,
		InitialInterval: cfg.Ledger.RetryInitialInterval,
		MaxInterval:     cfg.Ledger.RetryMaxInterval,
	}, ledgerMetrics, log.Named("ledger"))

	ledgerOpts := []financeapp.LedgerServiceOption{
		financeapp.WithLedgerLogger(log.Named("ledger")),
		financeapp.WithLedgerMetrics(ledgerMetrics),
	}
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Idempotency, cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.App.IsProduction()),
		).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		ledgerOpts = append(ledgerOpts, financeapp.WithIdempotencyStore(store, cfg.Idempotency.TTL))
	}
	ledgerService := financeapp.NewLedgerService(ledgerScope, paymentRepo, ledgerOpts...)
	payableService := financeapp.NewPayableService(financeapp.PayableServiceDeps{
		Scope:        ledgerScope,
		Payables:     payableRepo,
		Payments:     paymentRepo,
		Parties:      partyRepo,
		Categories:   categoryRepo,
		BankAccounts: bankAccountRepo,
		Logger:       log.Named("payable"),
	})
	bankAccountService := financeapp.NewBankAccountService(bankAccountRepo, payableRepo, paymentRepo)
	categoryService := financeapp.NewCategoryService(categoryRepo)
	receivableService := financeapp.NewReceivableService(receivableRepo, partyRepo, nil, log.Named("receivable"))

	objectStorage := newObjectStorage(ctx, cfg, log)
	attachmentService := partnerapp.NewAttachmentService(attachmentRepo, partyRepo, objectStorage, log.Named("attachment"))
	attachmentService.SetDownloadExpiry(cfg.Storage.PresignExpiry)
	partyService := partnerapp.NewPartyService(partyRepo, attachmentService, payableRepo, log.Named("party"))
	partyService.SetContacts(contactRepo)
	companyService := partnerapp.NewCompanyService(companyRepo, log.Named("company"))

	sinks := monitoring.MultiSink{
		monitoring.NewZapSink(log.Named("integration")),
		monitoring.NewMetricsSink(ledgerMetrics),
		monitoring.NewLogRepositorySink(integrationLogRepo, log),
	}
	if cfg.Sentry.DSN != "" {
		sinks = append(sinks, errtrack.NewSentrySink(nil))
	}
	registry := integration.NewRegistry(
		provider.NewGenericHTTPAdapter(provider.GenericHTTPConfig{
			Timeout:   cfg.Integration.HTTPTimeout,
			UserAgent: cfg.App.Name + "/" + cfg.App.Version,
		}),
	)
	integrationService := integrationapp.NewService(integrationRepo, integrationLogRepo, registry, sinks, log.Named("integration"))

	healthCfg := monitoring.DefaultHealthConfig()
	if cfg.Integration.ErrorWindow > 0 {
		healthCfg.ErrorWindow = cfg.Integration.ErrorWindow
		healthCfg.WarnThreshold = cfg.Integration.ErrorWarnThreshold
		healthCfg.RecentExamples = cfg.Integration.RecentErrorExamples
	}
	healthService := monitoring.NewHealthService(db, integrationLogRepo, healthCfg)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSOrigins
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.IsProduction()
	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.Enabled = tracerProvider.IsEnabled()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		Verifier:       auth.NewTokenVerifier(cfg.JWT),
		Meter:          meter,
		Tracing:        tracingConfig,
		CORS:           corsConfig,
		Security:       securityConfig,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Profiling:      profiler.IsEnabled(),
		Swagger:        cfg.HTTP.SwaggerEnabled,
	}, router.Handlers{
		Health:       handler.NewHealthHandler(healthService, cfg.App.Version),
		Payables:     handler.NewPayableHandler(payableService, ledgerService),
		Payments:     handler.NewPaymentHandler(ledgerService),
		Receivables:  handler.NewReceivableHandler(receivableService),
		BankAccounts: handler.NewBankAccountHandler(bankAccountService),
		Categories:   handler.NewCategoryHandler(categoryService),
		Parties:      handler.NewPartyHandler(partyService, attachmentService),
		Companies:    handler.NewCompanyHandler(companyService),
		Integrations: handler.NewIntegrationHandler(integrationService),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	shutdownTelemetry(shutdownCtx, log, tracerProvider, meterProvider, logProvider)

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3-compatible storage when enabled, in-memory storage otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) partnerapp.ObjectStorage {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, attachments are kept in memory")
		return storage.NewMemoryObjectStorage("http://localhost:" + cfg.App.Port + "/attachments")
	}
	s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create object storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare attachment bucket", zap.Error(err), zap.String("bucket", s3.Bucket()))
	}
	log.Info("Object storage ready", zap.String("bucket", s3.Bucket()))
	return s3
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(ctx context.Context, log *zap.Logger, providers ...shutdowner) {
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}
}
