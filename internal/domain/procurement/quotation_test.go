package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createManualQuotation(t *testing.T) *Quotation {
	t.Helper()
	rfqID := uuid.New()
	q, err := NewManualQuotation(
		uuid.New(), "SQ-2026-0001", uuid.New(), "Acme Supply Co",
		&rfqID, nil, []LineItemInput{testLineInput()}, nil)
	require.NoError(t, err)
	return q
}

// ============================================
// QuotationStatus Tests
// ============================================

func TestQuotationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     QuotationStatus
		to       QuotationStatus
		canTrans bool
	}{
		{QuotationStatusSubmitted, QuotationStatusUnderReview, true},
		{QuotationStatusSubmitted, QuotationStatusAccepted, false},
		{QuotationStatusSubmitted, QuotationStatusRejected, false},
		{QuotationStatusUnderReview, QuotationStatusAccepted, true},
		{QuotationStatusUnderReview, QuotationStatusRejected, true},
		{QuotationStatusAccepted, QuotationStatusRejected, false},
		{QuotationStatusRejected, QuotationStatusUnderReview, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// Quotation Creation Tests
// ============================================

func TestNewManualQuotation_DerivesTotalFromLines(t *testing.T) {
	q := createManualQuotation(t)

	// 100 * 2.50 = 250, 18% tax = 45
	assert.True(t, decimal.NewFromInt(295).Equal(q.TotalAmount))
	assert.Equal(t, QuotationStatusSubmitted, q.Status)
	assert.Equal(t, QuotationTypeManualEntry, q.Type)
	assert.Len(t, q.GetDomainEvents(), 1)
}

func TestNewManualQuotation_KeepsStatedTotal(t *testing.T) {
	// a supplier-stated total is preserved even when it disagrees with the
	// line math, so the reviewing buyer can see the discrepancy
	stated := decimal.NewFromInt(300)
	q, err := NewManualQuotation(
		uuid.New(), "SQ-2026-0002", uuid.New(), "Acme",
		nil, nil, []LineItemInput{testLineInput()}, &stated)
	require.NoError(t, err)
	assert.True(t, stated.Equal(q.TotalAmount))
}

func TestNewManualQuotation_RequiresLines(t *testing.T) {
	_, err := NewManualQuotation(
		uuid.New(), "SQ-1", uuid.New(), "Acme", nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestNewManualQuotation_RejectsBothRefs(t *testing.T) {
	rfqID := uuid.New()
	poID := uuid.New()
	_, err := NewManualQuotation(
		uuid.New(), "SQ-1", uuid.New(), "Acme",
		&rfqID, &poID, []LineItemInput{testLineInput()}, nil)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestNewManualQuotation_UnsolicitedAllowed(t *testing.T) {
	q, err := NewManualQuotation(
		uuid.New(), "SQ-1", uuid.New(), "Acme",
		nil, nil, []LineItemInput{testLineInput()}, nil)
	require.NoError(t, err)
	assert.True(t, q.IsUnsolicited())
}

func TestNewFileQuotation(t *testing.T) {
	q, err := NewFileQuotation(
		uuid.New(), "SQ-2026-0003", uuid.New(), "Acme",
		nil, nil, "tenants/x/quotations/q1.pdf", decimal.NewFromInt(1200))
	require.NoError(t, err)

	assert.Equal(t, QuotationTypeFileUpload, q.Type)
	assert.True(t, decimal.NewFromInt(1200).Equal(q.TotalAmount))
	assert.Empty(t, q.Lines)
}

func TestNewFileQuotation_RequiresFileRef(t *testing.T) {
	_, err := NewFileQuotation(
		uuid.New(), "SQ-1", uuid.New(), "Acme",
		nil, nil, "", decimal.NewFromInt(1200))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestNewFileQuotation_RejectsNegativeTotal(t *testing.T) {
	_, err := NewFileQuotation(
		uuid.New(), "SQ-1", uuid.New(), "Acme",
		nil, nil, "ref.pdf", decimal.NewFromInt(-1))
	require.Error(t, err)
}

// ============================================
// Quotation Review Tests
// ============================================

func TestQuotation_StartReview(t *testing.T) {
	q := createManualQuotation(t)

	require.NoError(t, q.StartReview(testBuyer()))
	assert.Equal(t, QuotationStatusUnderReview, q.Status)
	assert.NotNil(t, q.ReviewedAt)
}

func TestQuotation_StartReview_Idempotent(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))
	before := q.Version

	require.NoError(t, q.StartReview(testBuyer()))
	assert.Equal(t, before, q.Version)
}

func TestQuotation_StartReview_SupplierForbidden(t *testing.T) {
	q := createManualQuotation(t)

	err := q.StartReview(testSupplier(q.SupplierID))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
}

// ============================================
// Quotation Decision Tests
// ============================================

func TestQuotation_Accept(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))

	require.NoError(t, q.Accept(testBuyer()))
	assert.Equal(t, QuotationStatusAccepted, q.Status)
	assert.True(t, q.IsAccepted())
	assert.NotNil(t, q.DecidedAt)
	assert.True(t, q.Status.IsTerminal())
}

func TestQuotation_Accept_WithoutReviewInvalid(t *testing.T) {
	q := createManualQuotation(t)

	err := q.Accept(testBuyer())
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
}

func TestQuotation_Accept_SupplierForbidden(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))

	err := q.Accept(testSupplier(q.SupplierID))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
}

func TestQuotation_Reject(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))

	require.NoError(t, q.Reject(testBuyer(), "price too high"))
	assert.Equal(t, QuotationStatusRejected, q.Status)
	assert.Equal(t, "price too high", q.RejectReason)
}

func TestQuotation_Reject_RequiresReason(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))

	err := q.Reject(testBuyer(), "")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestQuotation_DecisionIsFinal(t *testing.T) {
	q := createManualQuotation(t)
	require.NoError(t, q.StartReview(testBuyer()))
	require.NoError(t, q.Accept(testBuyer()))

	err := q.Reject(testBuyer(), "changed my mind")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
}
