package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finerp/backend/internal/domain/integration"
	"github.com/finerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormIntegrationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormIntegrationRepository(newSQLiteDatabase(t).DB)

	i, err := integration.NewIntegration(tenantA, "Omie", integration.ProviderKindOmie, "erp")
	require.NoError(t, err)
	require.NoError(t, i.Configure("https://app.omie.com.br/api", "key", "secret", ""))
	i.SetSettings(map[string]any{"page_size": float64(50), "region": "sp"})
	i.SetActive(false)
	require.NoError(t, repo.Save(ctx, i))

	found, err := repo.FindByIDForTenant(ctx, tenantA, i.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.ProviderKindOmie, found.Kind)
	assert.Equal(t, "secret", found.AppSecret)
	assert.Equal(t, "sp", found.Settings["region"])
	assert.Equal(t, float64(50), found.Settings["page_size"])
	assert.False(t, found.Active)

	kind := integration.ProviderKindOmie
	items, err := repo.FindAllForTenant(ctx, tenantA, integration.IntegrationFilter{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = repo.FindByIDForTenant(ctx, tenantB, i.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantA, i.ID))
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantA, i.ID), shared.ErrNotFound)
}

func TestGormIntegrationLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormIntegrationLogRepository(newSQLiteDatabase(t).DB)
	now := time.Now().UTC()

	entry := func(op string, status integration.LogStatus, age time.Duration) *integration.Log {
		l := integration.NewLog(tenantA, nil, op, status, op+" outcome")
		l.OccurredAt = now.Add(-age)
		l.ErrorType = "network"
		l.Details = map[string]any{"attempt": float64(1)}
		return l
	}
	for _, l := range []*integration.Log{
		entry("sync", integration.LogStatusError, time.Minute),
		entry("sync", integration.LogStatusError, 2*time.Hour),
		entry("test_connection", integration.LogStatusError, 3*time.Hour),
		entry("sync", integration.LogStatusError, 48*time.Hour),
		entry("sync", integration.LogStatusSuccess, time.Second),
	} {
		require.NoError(t, repo.Create(ctx, l))
	}
	other := integration.NewLog(tenantB, nil, "sync", integration.LogStatusError, "other tenant")
	require.NoError(t, repo.Create(ctx, other))

	t.Run("recent errors newest first", func(t *testing.T) {
		logs, err := repo.FindRecentErrors(ctx, tenantA, 3)
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, "sync", logs[0].Operation)
		assert.Equal(t, "test_connection", logs[2].Operation)
		assert.Equal(t, float64(1), logs[0].Details["attempt"])
		for _, l := range logs {
			assert.Equal(t, integration.LogStatusError, l.Status)
		}
	})

	t.Run("counts per operation since a cutoff", func(t *testing.T) {
		counts, err := repo.CountErrorsByOperation(ctx, tenantA, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []integration.OperationErrorCount{
			{Operation: "sync", Count: 2},
			{Operation: "test_connection", Count: 1},
		}, counts)
	})
}
