package middleware

import (
	"context"

	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling labels CPU and allocation samples taken while a request runs with
// its route, method and tenant. It is a pass-through while profiling is off.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		telemetry.WithProfileLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		},
			"http_route", route,
			"http_method", c.Request.Method,
			"tenant_id", GetJWTTenantID(c),
		)
	}
}
