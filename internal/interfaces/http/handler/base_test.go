package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/finerp/backend/internal/infrastructure/auth"
	"github.com/finerp/backend/internal/interfaces/http/dto"
	"github.com/finerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{
			name:       "not found",
			err:        shared.NewNotFoundError("Payable"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "validation with reason",
			err:        shared.NewValidationError("NOT_A_SUPPLIER", "not a supplier"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
			wantReason: "NOT_A_SUPPLIER",
		},
		{
			name:       "wrapped conflict",
			err:        fmt.Errorf("record payment: %w", shared.NewConflictError("DUPLICATE_REQUEST", "duplicate")),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConflict,
			wantReason: "DUPLICATE_REQUEST",
		},
		{
			name:       "invalid state",
			err:        shared.NewDomainError(shared.CodeInvalidState, "already cancelled").WithReason("ALREADY_CANCELLED"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInvalidState,
			wantReason: "ALREADY_CANCELLED",
		},
		{
			name:       "infrastructure error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantReason, resp.Error.Reason)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestBaseHandler_TenantID(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/")
	_, ok := h.tenantID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tenant := uuid.New()
	c, w = newTestContext(http.MethodGet, "/")
	c.Set(middleware.JWTClaimsKey, &auth.Claims{TenantID: tenant.String(), UserID: uuid.NewString()})
	got, ok := h.tenantID(c)
	assert.True(t, ok)
	assert.Equal(t, tenant, got)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, h.userID(c))
}

func TestBaseHandler_QueryUUID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	c, _ := newTestContext(http.MethodGet, "/?payable_id="+id.String())
	got, ok := h.queryUUID(c, "payable_id")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	c, _ = newTestContext(http.MethodGet, "/")
	got, ok = h.queryUUID(c, "payable_id")
	assert.True(t, ok)
	assert.Nil(t, got)

	c, w := newTestContext(http.MethodGet, "/?payable_id=42")
	_, ok = h.queryUUID(c, "payable_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, defaultPage, defaultPageSize},
		{-3, 10, defaultPage, 10},
		{4, 500, 4, maxPageSize},
		{2, 50, 2, 50},
	}
	for _, tt := range tests {
		page, size := tt.page, tt.size
		normalizePage(&page, &size)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantSize, size)
	}
}
