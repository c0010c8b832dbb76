package router

import (
	"fmt"

	"github.com/finerp/backend/internal/infrastructure/logger"
	"github.com/finerp/backend/internal/interfaces/http/handler"
	"github.com/finerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers served by the engine
type Handlers struct {
	Health       *handler.HealthHandler
	Payables     *handler.PayableHandler
	Payments     *handler.PaymentHandler
	Receivables  *handler.ReceivableHandler
	BankAccounts *handler.BankAccountHandler
	Categories   *handler.CategoryHandler
	Parties      *handler.PartyHandler
	Companies    *handler.CompanyHandler
	Integrations *handler.IntegrationHandler
}

// EngineConfig carries the middleware settings of the engine
type EngineConfig struct {
	Logger         *zap.Logger
	Verifier       middleware.TokenVerifier
	Meter          metric.Meter // nil disables HTTP metrics
	Tracing        middleware.TracingConfig
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	TrustedProxies []string
	Profiling      bool // label pprof samples per route
	Swagger        bool // serve the API docs under /swagger
}

// NewEngine builds the gin engine with the middleware stack and every route.
//
// Order: request ID, request logging, panic recovery, tracing, security
// headers, CORS and body limit on every route; bearer authentication, span
// enrichment, HTTP metrics and profile labels on the authenticated routes.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.Tracing(cfg.Tracing),
		middleware.SecureWithConfig(cfg.Security),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
	if err != nil {
		return nil, err
	}
	authenticated := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			Verifier: cfg.Verifier,
			Logger:   cfg.Logger,
		}),
		middleware.SpanEnricher(),
		httpMetrics,
		middleware.Profiling(cfg.Profiling),
	}

	engine.GET("/health", h.Health.Liveness)
	engine.GET("/health/database", h.Health.Database)
	engine.GET("/health/integrations", append(authenticated, h.Health.Integrations)...)
	if cfg.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(authenticated...)
	r.Register(payableRoutes(h)).
		Register(paymentRoutes(h)).
		Register(receivableRoutes(h)).
		Register(bankAccountRoutes(h)).
		Register(categoryRoutes(h)).
		Register(partyRoutes(h)).
		Register(companyRoutes(h)).
		Register(integrationRoutes(h))
	r.Setup()

	return engine, nil
}

func payableRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("payables", "/payables")
	g.POST("", h.Payables.Create).
		GET("", h.Payables.List).
		POST("/mark-overdue", h.Payables.MarkOverdue).
		GET("/:id", h.Payables.GetByID).
		PUT("/:id", h.Payables.Update).
		DELETE("/:id", h.Payables.Delete).
		POST("/:id/cancel", h.Payables.Cancel).
		GET("/:id/payments", h.Payables.ListPayments)
	return g
}

func paymentRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("payments", "/payments")
	g.POST("", h.Payments.Record).
		GET("", h.Payments.List).
		GET("/:id", h.Payments.GetByID).
		PUT("/:id", h.Payments.Update).
		DELETE("/:id", h.Payments.Delete)
	return g
}

func receivableRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("receivables", "/receivables")
	g.POST("", h.Receivables.Create).
		GET("", h.Receivables.List).
		POST("/mark-overdue", h.Receivables.MarkOverdue).
		GET("/:id", h.Receivables.GetByID).
		PUT("/:id", h.Receivables.Update).
		DELETE("/:id", h.Receivables.Delete).
		POST("/:id/receive", h.Receivables.Receive).
		POST("/:id/cancel", h.Receivables.Cancel)
	return g
}

func bankAccountRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("bank-accounts", "/bank-accounts")
	g.POST("", h.BankAccounts.Create).
		GET("", h.BankAccounts.List).
		GET("/active", h.BankAccounts.ListActive).
		GET("/:id", h.BankAccounts.GetByID).
		PUT("/:id", h.BankAccounts.Update).
		DELETE("/:id", h.BankAccounts.Delete)
	return g
}

func categoryRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("categories", "/categories")
	g.POST("", h.Categories.Create).
		GET("", h.Categories.List).
		GET("/active", h.Categories.ListActive).
		GET("/:id", h.Categories.GetByID).
		PUT("/:id", h.Categories.Update).
		DELETE("/:id", h.Categories.Delete)
	return g
}

func partyRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("parties", "/parties")
	g.POST("", h.Parties.Create).
		GET("", h.Parties.List).
		GET("/clients", h.Parties.ListClients).
		GET("/suppliers", h.Parties.ListSuppliers).
		GET("/:id", h.Parties.GetByID).
		PUT("/:id", h.Parties.Update).
		DELETE("/:id", h.Parties.Delete).
		POST("/:id/attachments", h.Parties.UploadAttachment).
		GET("/:id/attachments", h.Parties.ListAttachments).
		POST("/:id/contacts", h.Parties.AddContact).
		GET("/:id/contacts", h.Parties.ListContacts)
	return g
}

func companyRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("companies", "/companies")
	g.POST("", h.Companies.Create).
		GET("", h.Companies.List).
		GET("/:id", h.Companies.GetByID).
		PUT("/:id", h.Companies.Update).
		DELETE("/:id", h.Companies.Delete)
	return g
}

func integrationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("integrations", "/integrations")
	g.POST("", h.Integrations.Create).
		GET("", h.Integrations.List).
		GET("/kinds", h.Integrations.Kinds).
		POST("/sync", h.Integrations.Sync).
		GET("/:id", h.Integrations.GetByID).
		PUT("/:id", h.Integrations.Update).
		DELETE("/:id", h.Integrations.Delete).
		POST("/:id/test", h.Integrations.Test)
	return g
}
