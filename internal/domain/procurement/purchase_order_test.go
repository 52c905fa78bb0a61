package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPO(t *testing.T) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder(
		uuid.New(), "PO-2026-0001", uuid.New(), "Acme Supply Co",
		"WH-MAIN", time.Now(), nil,
		[]LineItemInput{{
			ProductRef:  "PRD-001",
			Description: "industrial bolt",
			Quantity:    decimal.NewFromInt(100),
			UnitPrice:   decimal.NewFromInt(3),
			DiscountPct: decimal.Zero,
			TaxRatePct:  decimal.Zero,
		}},
		decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	return po
}

func createConfirmedPO(t *testing.T) *PurchaseOrder {
	t.Helper()
	po := createTestPO(t)
	require.NoError(t, po.Send(testBuyer()))
	require.NoError(t, po.Confirm(testSupplier(po.SupplierID)))
	return po
}

// ============================================
// PurchaseOrderStatus Tests
// ============================================

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		{POStatusDraft, POStatusSent, true},
		{POStatusDraft, POStatusCancelled, true},
		{POStatusDraft, POStatusConfirmed, false},
		{POStatusSent, POStatusConfirmed, true},
		{POStatusSent, POStatusCancelled, true},
		{POStatusConfirmed, POStatusPartiallyReceived, true},
		{POStatusConfirmed, POStatusReceived, true},
		{POStatusConfirmed, POStatusCancelled, true},
		{POStatusPartiallyReceived, POStatusReceived, true},
		{POStatusPartiallyReceived, POStatusCancelled, true},
		{POStatusReceived, POStatusCancelled, false},
		{POStatusCancelled, POStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// PurchaseOrder Creation Tests
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	po := createTestPO(t)

	assert.Equal(t, POStatusDraft, po.Status)
	assert.True(t, decimal.NewFromInt(300).Equal(po.TotalAmount))
	assert.Len(t, po.Lines, 1)
	assert.True(t, decimal.Zero.Equal(po.Lines[0].QuantityReceived))
}

func TestNewPurchaseOrder_Validation(t *testing.T) {
	_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), "Acme", "WH", time.Now(), nil,
		[]LineItemInput{testLineInput()}, decimal.Zero, decimal.Zero)
	require.Error(t, err)

	_, err = NewPurchaseOrder(uuid.New(), "PO-1", uuid.New(), "Acme", "WH", time.Now(), nil,
		nil, decimal.Zero, decimal.Zero)
	require.Error(t, err)

	early := time.Now().Add(-48 * time.Hour)
	_, err = NewPurchaseOrder(uuid.New(), "PO-1", uuid.New(), "Acme", "WH", time.Now(), &early,
		[]LineItemInput{testLineInput()}, decimal.Zero, decimal.Zero)
	require.Error(t, err)
}

func TestNewPurchaseOrder_RejectsDiscountExceedingTotal(t *testing.T) {
	_, err := NewPurchaseOrder(
		uuid.New(), "PO-1", uuid.New(), "Acme", "WH", time.Now(), nil,
		[]LineItemInput{{
			ProductRef: "PRD-001", Description: "bolt",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10),
		}},
		decimal.Zero, decimal.NewFromInt(50))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

// ============================================
// Send / Confirm Tests
// ============================================

func TestPurchaseOrder_SendAndConfirm(t *testing.T) {
	po := createTestPO(t)

	require.NoError(t, po.Send(testBuyer()))
	assert.Equal(t, POStatusSent, po.Status)

	require.NoError(t, po.Confirm(testSupplier(po.SupplierID)))
	assert.Equal(t, POStatusConfirmed, po.Status)
	assert.NotNil(t, po.ConfirmedAt)
}

func TestPurchaseOrder_Confirm_BuyerForbidden(t *testing.T) {
	po := createTestPO(t)
	require.NoError(t, po.Send(testBuyer()))

	err := po.Confirm(testBuyer())
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
}

func TestPurchaseOrder_Send_SupplierForbidden(t *testing.T) {
	po := createTestPO(t)

	err := po.Send(testSupplier(po.SupplierID))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
}

// ============================================
// Goods Receipt Tests
// ============================================

func TestPurchaseOrder_RecordReceipt_PartialThenComplete(t *testing.T) {
	po := createConfirmedPO(t)
	lineID := po.Lines[0].ID

	_, err := po.RecordReceipt(lineID, decimal.NewFromInt(40), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, POStatusPartiallyReceived, po.Status)
	assert.True(t, decimal.NewFromInt(40).Equal(po.Lines[0].QuantityReceived))

	_, err = po.RecordReceipt(lineID, decimal.NewFromInt(60), "tok-2")
	require.NoError(t, err)
	assert.Equal(t, POStatusReceived, po.Status)
	assert.True(t, po.IsFullyReceived())
	assert.NotNil(t, po.ReceivedAt)
}

func TestPurchaseOrder_RecordReceipt_ExceedsRemaining(t *testing.T) {
	po := createConfirmedPO(t)
	lineID := po.Lines[0].ID

	_, err := po.RecordReceipt(lineID, decimal.NewFromInt(40), "tok-1")
	require.NoError(t, err)

	// remaining is 60; 61 must be rejected and leave state untouched
	_, err = po.RecordReceipt(lineID, decimal.NewFromInt(61), "tok-2")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
	assert.True(t, decimal.NewFromInt(40).Equal(po.Lines[0].QuantityReceived))
	assert.Equal(t, POStatusPartiallyReceived, po.Status)
}

func TestPurchaseOrder_RecordReceipt_DuplicateToken(t *testing.T) {
	po := createConfirmedPO(t)
	lineID := po.Lines[0].ID

	_, err := po.RecordReceipt(lineID, decimal.NewFromInt(40), "tok-1")
	require.NoError(t, err)

	// replaying the same token must not double-apply the quantity
	_, err = po.RecordReceipt(lineID, decimal.NewFromInt(40), "tok-1")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeDuplicateReceipt))
	assert.True(t, decimal.NewFromInt(40).Equal(po.Lines[0].QuantityReceived))
}

func TestPurchaseOrder_RecordReceipt_FullQuantityAtOnce(t *testing.T) {
	po := createConfirmedPO(t)

	_, err := po.RecordReceipt(po.Lines[0].ID, decimal.NewFromInt(100), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, POStatusReceived, po.Status)
}

func TestPurchaseOrder_RecordReceipt_Validation(t *testing.T) {
	po := createConfirmedPO(t)
	lineID := po.Lines[0].ID

	_, err := po.RecordReceipt(lineID, decimal.Zero, "tok-1")
	require.Error(t, err)

	_, err = po.RecordReceipt(lineID, decimal.NewFromInt(10), "")
	require.Error(t, err)

	_, err = po.RecordReceipt(uuid.New(), decimal.NewFromInt(10), "tok-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrder_RecordReceipt_BeforeConfirmation(t *testing.T) {
	po := createTestPO(t)
	require.NoError(t, po.Send(testBuyer()))

	_, err := po.RecordReceipt(po.Lines[0].ID, decimal.NewFromInt(10), "tok-1")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
}

func TestPurchaseOrder_RecordReceipt_AfterFullyReceived(t *testing.T) {
	po := createConfirmedPO(t)
	_, err := po.RecordReceipt(po.Lines[0].ID, decimal.NewFromInt(100), "tok-1")
	require.NoError(t, err)

	_, err = po.RecordReceipt(po.Lines[0].ID, decimal.NewFromInt(1), "tok-2")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
}

func TestPurchaseOrder_ReceivedRequiresAllLines(t *testing.T) {
	po, err := NewPurchaseOrder(
		uuid.New(), "PO-2026-0002", uuid.New(), "Acme", "WH-MAIN", time.Now(), nil,
		[]LineItemInput{
			{ProductRef: "PRD-001", Description: "bolt", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(1)},
			{ProductRef: "PRD-002", Description: "nut", Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(1)},
		},
		decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, po.Send(testBuyer()))
	require.NoError(t, po.Confirm(testSupplier(po.SupplierID)))

	_, err = po.RecordReceipt(po.Lines[0].ID, decimal.NewFromInt(10), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, POStatusPartiallyReceived, po.Status)

	_, err = po.RecordReceipt(po.Lines[1].ID, decimal.NewFromInt(20), "tok-2")
	require.NoError(t, err)
	assert.Equal(t, POStatusReceived, po.Status)
}

// ============================================
// Cancel Tests
// ============================================

func TestPurchaseOrder_Cancel_PreReceived(t *testing.T) {
	po := createConfirmedPO(t)

	require.NoError(t, po.Cancel(testBuyer(), "supplier cannot deliver"))
	assert.Equal(t, POStatusCancelled, po.Status)
}

func TestPurchaseOrder_Cancel_AfterReceivedInvalid(t *testing.T) {
	po := createConfirmedPO(t)
	_, err := po.RecordReceipt(po.Lines[0].ID, decimal.NewFromInt(100), "tok-1")
	require.NoError(t, err)

	err = po.Cancel(testBuyer(), "too late")
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
}
