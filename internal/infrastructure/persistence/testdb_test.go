package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finerp/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDatabase opens a migrated in-memory database. One connection keeps
// every statement on the same memory store.
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := WrapDatabase(gormDB)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	return db
}

// newMockGorm opens GORM over sqlmock with the postgres dialect
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

var (
	tenantA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tenantB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newPayable(t *testing.T, tenantID uuid.UUID, description, amount, due string) *finance.AccountPayable {
	t.Helper()
	ap, err := finance.NewAccountPayable(tenantID, description, decimal.RequireFromString(amount), day(due))
	require.NoError(t, err)
	return ap
}

func newPaymentFor(t *testing.T, payable *finance.AccountPayable, amount, paid string) *finance.Payment {
	t.Helper()
	p, err := finance.NewPayment(payable.TenantID, payable.ID, decimal.RequireFromString(amount), day(paid), finance.PaymentMethodPix)
	require.NoError(t, err)
	return p
}
