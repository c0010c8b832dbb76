package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slow), recorded
}

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGorm(gormlogger.Info, 0)
	changed, ok := gormLog.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gormLog.level)
	assert.Equal(t, gormlogger.Error, changed.level)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithTenantID(WithRequestID(context.Background(), "req-7"), "tenant-1")

	t.Run("logs errors with correlation fields", func(t *testing.T) {
		gormLog, recorded := newObservedGorm(gormlogger.Warn, 0)
		gormLog.Trace(ctx, time.Now(), sqlFn("UPDATE payments", 0), errors.New("deadlock detected"))

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "req-7", entry.ContextMap()["request_id"])
		assert.Equal(t, "tenant-1", entry.ContextMap()["tenant_id"])
		assert.Equal(t, "UPDATE payments", entry.ContextMap()["sql"])
	})

	t.Run("ignores record not found", func(t *testing.T) {
		gormLog, recorded := newObservedGorm(gormlogger.Info, 0)
		gormLog.Trace(ctx, time.Now(), sqlFn("SELECT", 0), gormlogger.ErrRecordNotFound)

		for _, e := range recorded.All() {
			assert.NotEqual(t, zapcore.ErrorLevel, e.Level)
		}
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		gormLog, recorded := newObservedGorm(gormlogger.Warn, time.Millisecond)
		gormLog.Trace(ctx, time.Now().Add(-50*time.Millisecond), sqlFn("SELECT * FROM account_payables", 3), nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "Slow SQL", recorded.All()[0].Message)
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
	})

	t.Run("info level emits every statement at debug", func(t *testing.T) {
		gormLog, recorded := newObservedGorm(gormlogger.Info, 0)
		gormLog.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.DebugLevel, recorded.All()[0].Level)
	})

	t.Run("silent emits nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGorm(gormlogger.Silent, 0)
		gormLog.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), errors.New("boom"))
		gormLog.Error(ctx, "boom")

		assert.Zero(t, recorded.Len())
	})
}

func TestGormLogger_Messages(t *testing.T) {
	gormLog, recorded := newObservedGorm(gormlogger.Warn, 0)
	ctx := context.Background()

	gormLog.Info(ctx, "hidden %d", 1)
	gormLog.Warn(ctx, "migrating %s", "payments")
	gormLog.Error(ctx, "failed %s", "payments")

	require.Equal(t, 2, recorded.Len())
	assert.Equal(t, "migrating payments", recorded.All()[0].Message)
	assert.Equal(t, "failed payments", recorded.All()[1].Message)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
