package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finerp/backend/internal/infrastructure/auth"
	"github.com/finerp/backend/internal/infrastructure/config"
	"github.com/finerp/backend/internal/infrastructure/logger"
	"github.com/finerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-at-least-32-chars"

func signTestToken(t *testing.T, tenantID, userID string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "finerp",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID:  tenantID,
		UserID:    userID,
		Username:  "ana",
		TokenType: auth.TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func newJWTRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(JWTMiddlewareConfig{
		Verifier:  auth.NewTokenVerifier(config.JWTConfig{Secret: testJWTSecret, Issuer: "finerp"}),
		SkipPaths: []string{"/health"},
	}))
	router.GET("/test", handler)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	router := newJWTRouter(func(c *gin.Context) {
		gotTenant, ok := GetTenantUUID(c)
		require.True(t, ok)
		assert.Equal(t, tenantID, gotTenant)
		gotUser, ok := GetUserUUID(c)
		require.True(t, ok)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, tenantID.String(), GetJWTTenantID(c))
		assert.Equal(t, userID.String(), GetJWTUserID(c))
		assert.Equal(t, tenantID.String(), logger.GetTenantID(c.Request.Context()))
		assert.Equal(t, userID.String(), logger.GetUserID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+signTestToken(t, tenantID.String(), userID.String(), time.Minute))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	tenantID, userID := uuid.NewString(), uuid.NewString()

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired token", BearerPrefix + signTestToken(t, tenantID, userID, -time.Minute), dto.ErrCodeTokenExpired},
		{"no tenant", BearerPrefix + signTestToken(t, "", userID, time.Minute), dto.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := newJWTRouter(func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body dto.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newJWTRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTenantUUID_WithoutClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetTenantUUID(c)
	assert.False(t, ok)
	_, ok = GetUserUUID(c)
	assert.False(t, ok)
	assert.Nil(t, GetJWTClaims(c))
}
