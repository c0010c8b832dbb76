package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finerp/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reply(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestDomainGroup_RegistersEveryMethod(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("payables", "/payables")
	g.GET("", reply("list")).
		POST("", reply("create")).
		PUT("/:id", reply("update")).
		PATCH("/:id", reply("patch")).
		DELETE("/:id", reply("delete"))
	assert.Equal(t, "payables", g.Name())
	assert.Equal(t, "/payables", g.Prefix())

	r := NewRouter(engine)
	r.Register(g).Setup()

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/v1/payables", "list"},
		{http.MethodPost, "/api/v1/payables", "create"},
		{http.MethodPut, "/api/v1/payables/1", "update"},
		{http.MethodPatch, "/api/v1/payables/1", "patch"},
		{http.MethodDelete, "/api/v1/payables/1", "delete"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.want, w.Body.String())
	}
}

func TestDomainGroup_StaticSegmentBesideParam(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("payables", "/payables")
	g.POST("/mark-overdue", reply("sweep")).
		POST("/:id/cancel", reply("cancel"))
	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, "sweep", serve(engine, http.MethodPost, "/api/v1/payables/mark-overdue").Body.String())
	assert.Equal(t, "cancel", serve(engine, http.MethodPost, "/api/v1/payables/42/cancel").Body.String())
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	g := NewDomainGroup("finance", "/finance").Use(mark("group"))
	sub := g.Group("accounts", "/accounts").Use(mark("subgroup"))
	sub.GET("", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	NewRouter(engine).Use(mark("api")).Register(g).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/finance/accounts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api", "group", "subgroup", "handler"}, order)
}

func TestRouter_APIMiddlewareSkipsOtherRoutes(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", reply("ok"))

	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	g := NewDomainGroup("payments", "/payments")
	g.GET("", reply("payments"))
	NewRouter(engine).Use(deny).Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/payments").Code)
}

func TestNewEngine_RegistersAPI(t *testing.T) {
	engine, err := NewEngine(EngineConfig{}, Handlers{
		Health:       &handler.HealthHandler{},
		Payables:     &handler.PayableHandler{},
		Payments:     &handler.PaymentHandler{},
		Receivables:  &handler.ReceivableHandler{},
		BankAccounts: &handler.BankAccountHandler{},
		Categories:   &handler.CategoryHandler{},
		Parties:      &handler.PartyHandler{},
		Companies:    &handler.CompanyHandler{},
		Integrations: &handler.IntegrationHandler{},
	})
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /health/database",
		"GET /health/integrations",
		"POST /api/v1/payables",
		"GET /api/v1/payables",
		"POST /api/v1/payables/mark-overdue",
		"GET /api/v1/payables/:id",
		"PUT /api/v1/payables/:id",
		"DELETE /api/v1/payables/:id",
		"POST /api/v1/payables/:id/cancel",
		"GET /api/v1/payables/:id/payments",
		"POST /api/v1/payments",
		"GET /api/v1/payments",
		"GET /api/v1/payments/:id",
		"PUT /api/v1/payments/:id",
		"DELETE /api/v1/payments/:id",
		"GET /api/v1/bank-accounts/active",
		"DELETE /api/v1/bank-accounts/:id",
		"GET /api/v1/categories/active",
		"POST /api/v1/categories",
		"GET /api/v1/parties/clients",
		"GET /api/v1/parties/suppliers",
		"POST /api/v1/parties/:id/attachments",
		"GET /api/v1/parties/:id/attachments",
		"POST /api/v1/parties/:id/contacts",
		"GET /api/v1/parties/:id/contacts",
		"POST /api/v1/companies",
		"GET /api/v1/companies",
		"GET /api/v1/companies/:id",
		"PUT /api/v1/companies/:id",
		"DELETE /api/v1/companies/:id",
		"POST /api/v1/receivables",
		"GET /api/v1/receivables",
		"POST /api/v1/receivables/mark-overdue",
		"GET /api/v1/receivables/:id",
		"POST /api/v1/receivables/:id/receive",
		"POST /api/v1/receivables/:id/cancel",
		"GET /api/v1/integrations/kinds",
		"POST /api/v1/integrations/sync",
		"POST /api/v1/integrations/:id/test",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}

	// without a bearer token the API answers 401 before any handler runs
	w := serve(engine, http.MethodGet, "/api/v1/payables")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.False(t, registered["GET /swagger/*any"], "docs are opt-in")
}

func TestNewEngine_ServesSwagger(t *testing.T) {
	engine, err := NewEngine(EngineConfig{Swagger: true}, Handlers{
		Health:       &handler.HealthHandler{},
		Payables:     &handler.PayableHandler{},
		Payments:     &handler.PaymentHandler{},
		Receivables:  &handler.ReceivableHandler{},
		BankAccounts: &handler.BankAccountHandler{},
		Categories:   &handler.CategoryHandler{},
		Parties:      &handler.PartyHandler{},
		Companies:    &handler.CompanyHandler{},
		Integrations: &handler.IntegrationHandler{},
	})
	require.NoError(t, err)

	found := false
	for _, route := range engine.Routes() {
		if route.Method == http.MethodGet && route.Path == "/swagger/*any" {
			found = true
		}
	}
	assert.True(t, found)

	w := serve(engine, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, http.StatusOK, w.Code, "the UI needs no bearer token")
}
