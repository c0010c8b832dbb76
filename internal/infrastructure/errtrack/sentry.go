// Package errtrack forwards error events to Sentry.
package errtrack

import (
	"context"
	"fmt"
	"time"

	"github.com/finerp/backend/internal/application/monitoring"
	"github.com/getsentry/sentry-go"
)

// Config holds Sentry settings
type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	FlushTimeout     time.Duration
}

// Init configures the global Sentry hub. It returns a flush func to call on
// shutdown. An empty DSN disables Sentry and returns a no-op flush.
func Init(cfg Config) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	}); err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	timeout := cfg.FlushTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func() { sentry.Flush(timeout) }, nil
}

// SentrySink reports error events as Sentry exceptions
type SentrySink struct {
	hub *sentry.Hub
}

// NewSentrySink creates a sink on hub, or on the current hub when nil
func NewSentrySink(hub *sentry.Hub) *SentrySink {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentrySink{hub: hub}
}

// Report implements monitoring.ErrorSink
func (s *SentrySink) Report(ctx context.Context, event monitoring.ErrorEvent) {
	if event.Err == nil {
		return
	}
	hub := s.hub
	if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
		hub = ctxHub
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", event.Operation)
		scope.SetTag("error_type", event.ErrorType)
		scope.SetTag("tenant_id", event.TenantID.String())
		if event.ProviderKind != "" {
			scope.SetTag("provider_kind", event.ProviderKind)
		}
		if event.IntegrationID != nil {
			scope.SetExtra("integration_id", event.IntegrationID.String())
		}
		for k, v := range event.Context {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(event.Err)
	})
}

var _ monitoring.ErrorSink = (*SentrySink)(nil)
