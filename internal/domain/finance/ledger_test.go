package finance

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger() *PayableLedger {
	return NewPayableLedgerWithClock(func() time.Time { return fixedNow })
}

func newTestPayment(t *testing.T, ap *AccountPayable, amount string) Payment {
	t.Helper()
	p, err := NewPayment(ap.TenantID, ap.ID, dec(amount), fixedNow, PaymentMethodTransfer)
	require.NoError(t, err)
	return *p
}

func TestPayableLedger_Settle_ConcreteScenario(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "1000.00")
	var payments []Payment

	payments = append(payments, newTestPayment(t, ap, "600.00"))
	_, err := ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.True(t, ap.PaidAmount.Equal(dec("600.00")))
	assert.Equal(t, PayableStatusPending, ap.Status)
	assert.Nil(t, ap.PaidAt)

	payments = append(payments, newTestPayment(t, ap, "400.00"))
	res, err := ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.True(t, ap.PaidAmount.Equal(dec("1000.00")))
	assert.Equal(t, PayableStatusPaid, ap.Status)
	assert.True(t, res.StatusChanged())
	require.NotNil(t, ap.PaidAt)
	assert.Equal(t, fixedNow, *ap.PaidAt)

	payments = payments[:1]
	res, err = ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.True(t, ap.PaidAmount.Equal(dec("600.00")))
	assert.Equal(t, PayableStatusPending, ap.Status)
	assert.Equal(t, PayableStatusPaid, res.PreviousStatus)
	assert.Nil(t, ap.PaidAt)
}

func TestPayableLedger_Settle_ExactBoundary(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "100.00")
	payments := []Payment{newTestPayment(t, ap, "99.99")}

	_, err := ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.Equal(t, PayableStatusPending, ap.Status, "one cent short stays pending")

	payments = append(payments, newTestPayment(t, ap, "0.01"))
	_, err = ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.Equal(t, PayableStatusPaid, ap.Status, "flips exactly when covered")
}

func TestPayableLedger_Settle_Overpayment(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "100.00")

	_, err := ledger.Settle(ap, []Payment{newTestPayment(t, ap, "150.00")})
	require.NoError(t, err)
	assert.True(t, ap.PaidAmount.Equal(dec("150")))
	assert.Equal(t, PayableStatusPaid, ap.Status)
	assert.True(t, ap.OutstandingAmount().IsZero())
}

func TestPayableLedger_Settle_RepairsDrift(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "500.00")
	ap.PaidAmount = dec("9999")
	ap.Status = PayableStatusPaid

	_, err := ledger.Settle(ap, []Payment{newTestPayment(t, ap, "100.00")})
	require.NoError(t, err)
	assert.True(t, ap.PaidAmount.Equal(dec("100")))
	assert.Equal(t, PayableStatusPending, ap.Status)
}

func TestPayableLedger_Settle_EmptySet(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "500.00")
	version := ap.Version

	res, err := ledger.Settle(ap, nil)
	require.NoError(t, err)
	assert.True(t, ap.PaidAmount.IsZero())
	assert.Equal(t, PayableStatusPending, ap.Status)
	assert.Equal(t, version, ap.Version, "no-op settlement does not bump the version")
	assert.False(t, res.StatusChanged())
}

func TestPayableLedger_Settle_PreservesExternalStatus(t *testing.T) {
	for _, status := range []PayableStatus{PayableStatusCancelled, PayableStatusOverdue} {
		t.Run(string(status), func(t *testing.T) {
			ledger := newTestLedger()
			ap := newTestPayable(t, "100.00")
			ap.Status = status

			_, err := ledger.Settle(ap, []Payment{newTestPayment(t, ap, "100.00")})
			require.NoError(t, err)
			assert.True(t, ap.PaidAmount.Equal(dec("100")))
			assert.Equal(t, status, ap.Status)

			_, err = ledger.Settle(ap, nil)
			require.NoError(t, err)
			assert.True(t, ap.PaidAmount.IsZero())
			assert.Equal(t, status, ap.Status)
		})
	}
}

func TestPayableLedger_Settle_ReopenResettles(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "100.00")
	ap.Status = PayableStatusOverdue
	payments := []Payment{newTestPayment(t, ap, "100.00")}
	_, err := ledger.Settle(ap, payments)
	require.NoError(t, err)

	require.NoError(t, ap.Reopen())
	_, err = ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.Equal(t, PayableStatusPaid, ap.Status)
}

func TestPayableLedger_Settle_RejectsForeignPayment(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "100.00")
	other := newTestPayable(t, "100.00")

	_, err := ledger.Settle(ap, []Payment{newTestPayment(t, other, "10")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	assert.True(t, ap.PaidAmount.IsZero(), "payable untouched on rejection")

	_, err = ledger.Settle(nil, nil)
	assert.Error(t, err)
}

func TestPayableLedger_Settle_Idempotent(t *testing.T) {
	ledger := newTestLedger()
	ap := newTestPayable(t, "300.00")
	payments := []Payment{newTestPayment(t, ap, "100"), newTestPayment(t, ap, "50")}

	_, err := ledger.Settle(ap, payments)
	require.NoError(t, err)
	paid, status, version := ap.PaidAmount, ap.Status, ap.Version

	_, err = ledger.Settle(ap, payments)
	require.NoError(t, err)
	assert.True(t, paid.Equal(ap.PaidAmount))
	assert.Equal(t, status, ap.Status)
	assert.Equal(t, version, ap.Version)
}

// Random create/update/delete sequences must keep paid == sum and the
// PAID iff covered rule after every step.
func TestPayableLedger_Settle_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ledger := newTestLedger()

	for run := 0; run < 50; run++ {
		ap := newTestPayable(t, decimal.NewFromInt(int64(rng.Intn(5000)+1)).String())
		var payments []Payment

		for step := 0; step < 30; step++ {
			switch op := rng.Intn(3); {
			case op == 0 || len(payments) == 0:
				cents := int64(rng.Intn(200000) + 1)
				payments = append(payments, newTestPayment(t, ap, decimal.New(cents, -2).String()))
			case op == 1:
				i := rng.Intn(len(payments))
				amount := decimal.New(int64(rng.Intn(200000)+1), -2)
				require.NoError(t, payments[i].Apply(PaymentChanges{Amount: &amount}))
			default:
				i := rng.Intn(len(payments))
				payments = append(payments[:i], payments[i+1:]...)
			}

			_, err := ledger.Settle(ap, payments)
			require.NoError(t, err)

			expected := decimal.Zero
			for _, p := range payments {
				expected = expected.Add(p.Amount)
			}
			require.True(t, ap.PaidAmount.Equal(expected), "run %d step %d", run, step)
			if expected.GreaterThanOrEqual(ap.OriginalAmount) {
				require.Equal(t, PayableStatusPaid, ap.Status)
			} else {
				require.Equal(t, PayableStatusPending, ap.Status)
			}
		}
	}
}

func TestPayableLedger_Sum(t *testing.T) {
	ledger := NewPayableLedger()
	ap := newTestPayable(t, "1")
	total := ledger.Sum([]Payment{newTestPayment(t, ap, "0.10"), newTestPayment(t, ap, "0.20")})
	assert.True(t, total.Equal(dec("0.30")), "decimal sum has no float error")
}
