package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/finerp/backend/internal/infrastructure/config"
	zaplog "github.com/finerp/backend/internal/infrastructure/logger"
	"github.com/finerp/backend/internal/infrastructure/persistence/models"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrUnknownTable is returned when a health check names a table the service does not own
var ErrUnknownTable = errors.New("unknown table")

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB     *gorm.DB
	tables map[string]struct{}
}

// NewDatabase connects to PostgreSQL. GORM output goes through zapLogger at
// the configured level.
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	gormLogger := zaplog.NewGormLogger(zapLogger, zaplog.GormLevel(cfg.LogLevel), cfg.SlowQueryThreshold)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return WrapDatabase(db)
}

// WrapDatabase adopts an open GORM connection, such as SQLite in tests
func WrapDatabase(db *gorm.DB) (*Database, error) {
	tables := make(map[string]struct{})
	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		tables[stmt.Schema.Table] = struct{}{}
	}
	return &Database{DB: db, tables: tables}, nil
}

// AutoMigrate creates or updates every table the service owns
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// EnableTracing installs query spans on the connection
func (d *Database) EnableTracing(cfg telemetry.DBTracingConfig, zapLogger *zap.Logger) error {
	if err := telemetry.RegisterDBTracing(d.DB, cfg, zapLogger); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// CountRows counts the rows of one of the service's tables. The name is
// checked against the model set before it reaches SQL.
func (d *Database) CountRows(ctx context.Context, table string) (int64, error) {
	if _, ok := d.tables[table]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	db := d.DB.WithContext(ctx)
	if !db.Migrator().HasTable(table) {
		return 0, fmt.Errorf("table %s does not exist", table)
	}
	var count int64
	if err := db.Table(table).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
