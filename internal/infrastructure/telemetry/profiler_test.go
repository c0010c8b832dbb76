package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "finerp"}, nil)
	assert.Error(t, err)
}

func TestWithProfileLabels(t *testing.T) {
	var got map[string]string
	WithProfileLabels(context.Background(), func(ctx context.Context) {
		got = map[string]string{}
		pprof.ForLabels(ctx, func(key, value string) bool {
			got[key] = value
			return true
		})
	}, "route", "/api/v1/payments", "tenant_id", "", "dangling")

	assert.Equal(t, map[string]string{"route": "/api/v1/payments"}, got)
}

func TestWithProfileLabels_NoLabels(t *testing.T) {
	called := false
	WithProfileLabels(context.Background(), func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, "route")
		assert.False(t, ok)
	})
	assert.True(t, called)
}

func TestProfiler_LinkSpansDisabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, nil)
	require.NoError(t, err)
	tp, err := NewTracerProvider(context.Background(), Config{}, nil)
	require.NoError(t, err)
	p.LinkSpans(tp)
}
