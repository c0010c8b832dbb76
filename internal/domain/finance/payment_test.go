package finance

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("BITCOIN").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestNewPayment(t *testing.T) {
	tenantID := uuid.New()
	payableID := uuid.New()

	t.Run("valid payment", func(t *testing.T) {
		p, err := NewPayment(tenantID, payableID, dec("600.00"), time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC), PaymentMethodPix)
		require.NoError(t, err)
		assert.Equal(t, payableID, p.PayableID)
		assert.Equal(t, PaymentMethodPix, p.Method)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.PaymentDate)
		assert.Equal(t, tenantID, p.TenantID)
	})

	t.Run("future payment date is accepted", func(t *testing.T) {
		_, err := NewPayment(tenantID, payableID, dec("1"), time.Now().AddDate(1, 0, 0), PaymentMethodCash)
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		payable uuid.UUID
		amount  decimal.Decimal
		date    time.Time
		method  PaymentMethod
		reason  string
	}{
		{"missing payable", uuid.Nil, dec("1"), time.Now(), PaymentMethodCash, "INVALID_PAYABLE"},
		{"zero amount", payableID, decimal.Zero, time.Now(), PaymentMethodCash, "INVALID_AMOUNT"},
		{"negative amount", payableID, dec("-5"), time.Now(), PaymentMethodCash, "INVALID_AMOUNT"},
		{"missing date", payableID, dec("1"), time.Time{}, PaymentMethodCash, "INVALID_PAYMENT_DATE"},
		{"unknown method", payableID, dec("1"), time.Now(), PaymentMethod("BARTER"), "INVALID_PAYMENT_METHOD"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPayment(tenantID, tc.payable, tc.amount, tc.date, tc.method)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrValidation))
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tc.reason, domainErr.Reason)
		})
	}
}

func TestPayment_Apply(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), dec("100"), time.Now(), PaymentMethodCash)
	require.NoError(t, err)

	t.Run("applies supplied fields only", func(t *testing.T) {
		amount := dec("80")
		method := PaymentMethodTransfer
		doc := " DOC-1 "
		require.NoError(t, p.Apply(PaymentChanges{Amount: &amount, Method: &method, DocumentNumber: &doc}))
		assert.True(t, p.Amount.Equal(amount))
		assert.Equal(t, PaymentMethodTransfer, p.Method)
		assert.Equal(t, "DOC-1", p.DocumentNumber)
	})

	t.Run("invalid change leaves payment untouched", func(t *testing.T) {
		before := *p
		amount := dec("50")
		bad := PaymentMethod("NOPE")
		err := p.Apply(PaymentChanges{Amount: &amount, Method: &bad})
		require.Error(t, err)
		assert.True(t, p.Amount.Equal(before.Amount))
		assert.Equal(t, before.Method, p.Method)
	})

	t.Run("document number length is enforced", func(t *testing.T) {
		long := strings.Repeat("x", MaxDocumentNumberLength+1)
		assert.Error(t, p.Apply(PaymentChanges{DocumentNumber: &long}))
		assert.Error(t, p.SetDocumentNumber(long))
	})
}
