// Package provider holds the adapters that talk to external systems on
// behalf of an integration.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finerp/backend/internal/domain/integration"
)

// maxCheckBody bounds how much of a check response is read
const maxCheckBody = 64 * 1024

// GenericHTTPConfig configures the generic HTTP adapter
type GenericHTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultGenericHTTPConfig returns the default adapter settings
func DefaultGenericHTTPConfig() GenericHTTPConfig {
	return GenericHTTPConfig{
		Timeout:   10 * time.Second,
		UserAgent: "finerp-backend/1.0",
	}
}

// GenericHTTPAdapter checks an integration's base URL. It supports connection
// tests only; there is no generic way to synchronize data.
type GenericHTTPAdapter struct {
	config     GenericHTTPConfig
	httpClient *http.Client
}

// NewGenericHTTPAdapter creates a new GenericHTTPAdapter
func NewGenericHTTPAdapter(config GenericHTTPConfig) *GenericHTTPAdapter {
	if config.Timeout <= 0 {
		config.Timeout = DefaultGenericHTTPConfig().Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultGenericHTTPConfig().UserAgent
	}
	return &GenericHTTPAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Kind implements integration.Provider
func (a *GenericHTTPAdapter) Kind() integration.ProviderKind {
	return integration.ProviderKindGenericHTTP
}

// TestConnection issues a GET on the base URL. 2xx and 3xx count as success;
// transport errors are returned as errors, other statuses as a failed result.
func (a *GenericHTTPAdapter) TestConnection(ctx context.Context, i *integration.Integration) (*integration.TestResult, error) {
	if strings.TrimSpace(i.BaseURL) == "" {
		return &integration.TestResult{Success: false, Message: "Base URL is not configured"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("generic_http: failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", a.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if i.Token != "" {
		req.Header.Set("Authorization", "Bearer "+i.Token)
	}
	if i.AppKey != "" {
		req.Header.Set("X-App-Key", i.AppKey)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generic_http: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxCheckBody))
	elapsed := time.Since(start)

	details := map[string]any{
		"status_code": resp.StatusCode,
		"latency_ms":  elapsed.Milliseconds(),
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return &integration.TestResult{
			Success: true,
			Message: fmt.Sprintf("Connection established (HTTP %d)", resp.StatusCode),
			Details: details,
		}, nil
	}
	return &integration.TestResult{
		Success: false,
		Message: fmt.Sprintf("Unexpected response: HTTP %d", resp.StatusCode),
		Details: details,
	}, nil
}

// Sync implements integration.Provider
func (a *GenericHTTPAdapter) Sync(context.Context, *integration.Integration, integration.SyncRequest) (*integration.SyncResult, error) {
	return nil, integration.ErrProviderNotSupported
}

var _ integration.Provider = (*GenericHTTPAdapter)(nil)
