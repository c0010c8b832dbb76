// Package monitoring reports integration failures and analyzes their history.
//
// Failures flow through an ErrorSink passed in by the caller. A sink never
// returns an error: reporting is best effort and must not change the outcome
// of the operation being reported.
package monitoring

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Error types attached to events
const (
	ErrorTypeValidation = "ValidationError"
	ErrorTypeNotFound   = "NotFoundError"
	ErrorTypeConflict   = "ConflictError"
	ErrorTypeTimeout    = "TimeoutError"
	ErrorTypeNetwork    = "NetworkError"
	ErrorTypeDatabase   = "DatabaseError"
	ErrorTypeProvider   = "ProviderError"
	ErrorTypeInternal   = "InternalError"
)

// ErrorEvent describes one failed integration operation
type ErrorEvent struct {
	TenantID      uuid.UUID
	IntegrationID *uuid.UUID
	ProviderKind  string
	Operation     string
	ErrorType     string
	Err           error
	Context       map[string]any
	OccurredAt    time.Time
}

// Message returns the error text of the event
func (e ErrorEvent) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ErrorSink receives error events
type ErrorSink interface {
	Report(ctx context.Context, event ErrorEvent)
}

// NewErrorEvent builds an event stamped now with err already classified
func NewErrorEvent(tenantID uuid.UUID, integrationID *uuid.UUID, operation string, err error) ErrorEvent {
	return ErrorEvent{
		TenantID:      tenantID,
		IntegrationID: integrationID,
		Operation:     operation,
		ErrorType:     ClassifyError(err),
		Err:           err,
		Context:       map[string]any{},
		OccurredAt:    time.Now(),
	}
}

// ClassifyError maps an error to one of the ErrorType constants
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return ErrorTypeTimeout
		}
		return ErrorTypeNetwork
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput):
		return ErrorTypeValidation
	case errors.Is(err, shared.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, shared.ErrConflict), errors.Is(err, shared.ErrConcurrencyConflict):
		return ErrorTypeConflict
	}
	return ErrorTypeInternal
}

// MultiSink fans an event out to several sinks in order
type MultiSink []ErrorSink

// Report implements ErrorSink
func (m MultiSink) Report(ctx context.Context, event ErrorEvent) {
	for _, s := range m {
		if s != nil {
			s.Report(ctx, event)
		}
	}
}

// NopSink drops every event
type NopSink struct{}

// Report implements ErrorSink
func (NopSink) Report(context.Context, ErrorEvent) {}
