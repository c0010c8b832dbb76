package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_CountRows(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)

	t.Run("counts an owned table", func(t *testing.T) {
		repo := NewGormAccountPayableRepository(db.DB)
		require.NoError(t, repo.Save(ctx, newPayable(t, tenantA, "Rent", "1000.00", "2026-01-10")))
		require.NoError(t, repo.Save(ctx, newPayable(t, tenantB, "Power", "80.00", "2026-01-12")))

		count, err := db.CountRows(ctx, "account_payables")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = db.CountRows(ctx, "integration_logs")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("rejects tables outside the model set", func(t *testing.T) {
		_, err := db.CountRows(ctx, "users; DROP TABLE payments")
		assert.ErrorIs(t, err, ErrUnknownTable)
	})

	t.Run("reports a missing table", func(t *testing.T) {
		require.NoError(t, db.DB.Migrator().DropTable("party_attachments"))

		_, err := db.CountRows(ctx, "party_attachments")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		assert.NoError(t, newSQLiteDatabase(t).Ping(context.Background()))
	})

	t.Run("propagates driver failures", func(t *testing.T) {
		gormDB, mock, _ := newMockGorm(t)
		db, err := WrapDatabase(gormDB)
		require.NoError(t, err)

		mock.ExpectPing().WillReturnError(assert.AnError)
		assert.Error(t, db.Ping(context.Background()))
	})
}

func TestWrapDatabase_KnowsEveryTable(t *testing.T) {
	gormDB, _, _ := newMockGorm(t)
	db, err := WrapDatabase(gormDB)
	require.NoError(t, err)

	for _, table := range []string{
		"account_payables", "payments", "bank_accounts", "finance_categories",
		"parties", "party_attachments", "party_contacts", "companies",
		"account_receivables", "integrations", "integration_logs",
	} {
		assert.Contains(t, db.tables, table)
	}
	assert.Len(t, db.tables, 11)
}
