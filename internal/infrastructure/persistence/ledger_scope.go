package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/finerp/backend/internal/domain/finance"
	"github.com/finerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes that abort a transaction but succeed on replay
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// LedgerRetryConfig bounds the replay of aborted ledger transactions
type LedgerRetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultLedgerRetryConfig returns the default retry bounds
func DefaultLedgerRetryConfig() LedgerRetryConfig {
	return LedgerRetryConfig{
		MaxRetries:      5,
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// GormLedgerScope implements finance.LedgerScope with a GORM transaction.
// The whole transaction is replayed on serialization and deadlock failures.
type GormLedgerScope struct {
	db      *gorm.DB
	retry   LedgerRetryConfig
	metrics *telemetry.LedgerMetrics
	logger  *zap.Logger
}

// NewGormLedgerScope creates a new GormLedgerScope. metrics may be nil.
func NewGormLedgerScope(db *gorm.DB, retry LedgerRetryConfig, metrics *telemetry.LedgerMetrics, logger *zap.Logger) *GormLedgerScope {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormLedgerScope{db: db, retry: retry, metrics: metrics, logger: logger}
}

// Execute runs fn within a database transaction, committing if it returns nil.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos finance.LedgerRepositories) error) error {
	run := func() error {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(finance.LedgerRepositories{
				Payables:     NewGormAccountPayableRepository(tx),
				Payments:     NewGormPaymentRepository(tx),
				BankAccounts: NewGormBankAccountRepository(tx),
			})
		})
		if err != nil && !IsRetryableTxError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retry.InitialInterval
	policy.MaxInterval = s.retry.MaxInterval
	policy.MaxElapsedTime = 0
	var b backoff.BackOff = policy
	if s.retry.MaxRetries >= 0 {
		b = backoff.WithMaxRetries(policy, uint64(s.retry.MaxRetries))
	}

	return backoff.RetryNotify(run, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		s.metrics.RecordRetry(ctx)
		s.logger.Warn("Retrying ledger transaction",
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	})
}

// IsRetryableTxError reports whether err carries a serialization or deadlock SQLSTATE
func IsRetryableTxError(err error) bool {
	var stateErr interface{ SQLState() string }
	if !errors.As(err, &stateErr) {
		return false
	}
	switch stateErr.SQLState() {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return true
	}
	return false
}

var _ finance.LedgerScope = (*GormLedgerScope)(nil)
