package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntegration(t *testing.T, baseURL string) *integration.Integration {
	t.Helper()
	i, err := integration.NewIntegration(uuid.New(), "Check", integration.ProviderKindGenericHTTP, "erp")
	require.NoError(t, err)
	require.NoError(t, i.Configure(baseURL, "key-1", "", "tok"))
	return i
}

func TestGenericHTTPAdapter_TestConnection(t *testing.T) {
	var gotAuth, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-App-Key")
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			w.WriteHeader(http.StatusNotModified)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	adapter := NewGenericHTTPAdapter(GenericHTTPConfig{})
	ctx := context.Background()

	result, err := adapter.TestConnection(ctx, newIntegration(t, server.URL+"/ok"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.Details["status_code"])
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "key-1", gotKey)

	result, err = adapter.TestConnection(ctx, newIntegration(t, server.URL+"/moved"))
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = adapter.TestConnection(ctx, newIntegration(t, server.URL+"/down"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "503")
}

func TestGenericHTTPAdapter_TransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	adapter := NewGenericHTTPAdapter(GenericHTTPConfig{Timeout: 20 * time.Millisecond})
	_, err := adapter.TestConnection(context.Background(), newIntegration(t, server.URL))
	assert.Error(t, err)
}

func TestGenericHTTPAdapter_MissingBaseURL(t *testing.T) {
	adapter := NewGenericHTTPAdapter(DefaultGenericHTTPConfig())
	result, err := adapter.TestConnection(context.Background(), newIntegration(t, ""))
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestGenericHTTPAdapter_SyncNotSupported(t *testing.T) {
	adapter := NewGenericHTTPAdapter(DefaultGenericHTTPConfig())
	_, err := adapter.Sync(context.Background(), newIntegration(t, "https://example.com"), integration.SyncRequest{DataType: "clients"})
	assert.ErrorIs(t, err, integration.ErrProviderNotSupported)
	assert.Equal(t, integration.ProviderKindGenericHTTP, adapter.Kind())
}
