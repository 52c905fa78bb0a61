package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPaidInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv := createApprovedInvoice(t)
	_, err := inv.RecordPayment(decimal.NewFromInt(100), "bank_transfer", "TXN-1")
	require.NoError(t, err)
	return inv
}

func TestNewPaymentReceipt(t *testing.T) {
	inv := createPaidInvoice(t)

	receipt, err := NewPaymentReceipt("RCP-2026-0001", inv, "bank_transfer", "settled in full")
	require.NoError(t, err)

	assert.Equal(t, inv.ID, receipt.InvoiceID)
	assert.Equal(t, inv.TenantID, receipt.TenantID)
	assert.True(t, inv.TotalAmount.Equal(receipt.Amount))
	assert.Len(t, receipt.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeReceiptGenerated, receipt.GetDomainEvents()[0].EventType())
}

func TestNewPaymentReceipt_RequiresPaidInvoice(t *testing.T) {
	inv := createApprovedInvoice(t)

	_, err := NewPaymentReceipt("RCP-1", inv, "bank_transfer", "")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
}

func TestNewPaymentReceipt_Validation(t *testing.T) {
	inv := createPaidInvoice(t)

	_, err := NewPaymentReceipt("", inv, "bank_transfer", "")
	require.Error(t, err)

	_, err = NewPaymentReceipt("RCP-1", inv, "", "")
	require.Error(t, err)

	_, err = NewPaymentReceipt("RCP-1", nil, "bank_transfer", "")
	require.Error(t, err)
}

// ============================================
// InvoiceEligibility Tests
// ============================================

func TestNewInvoiceEligibility(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))
	require.NoError(t, q.Accept(testBuyer()))

	elig, err := NewInvoiceEligibility(q)
	require.NoError(t, err)
	assert.Equal(t, q.ID, elig.QuotationID)
	assert.False(t, elig.IsConsumed())
}

func TestNewInvoiceEligibility_RequiresAcceptedQuotation(t *testing.T) {
	q := createManualQuotation(t)

	_, err := NewInvoiceEligibility(q)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
}

func TestInvoiceEligibility_ConsumeOnce(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))
	require.NoError(t, q.Accept(testBuyer()))

	elig, err := NewInvoiceEligibility(q)
	require.NoError(t, err)

	invoiceID := uuid.New()
	require.NoError(t, elig.Consume(invoiceID))
	assert.True(t, elig.IsConsumed())
	assert.Equal(t, invoiceID, *elig.InvoiceID)

	err = elig.Consume(uuid.New())
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
}
