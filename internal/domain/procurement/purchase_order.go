package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	POStatusDraft             PurchaseOrderStatus = "DRAFT"
	POStatusSent              PurchaseOrderStatus = "SENT"
	POStatusConfirmed         PurchaseOrderStatus = "CONFIRMED"
	POStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	POStatusReceived          PurchaseOrderStatus = "RECEIVED"
	POStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusSent, POStatusConfirmed,
		POStatusPartiallyReceived, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for received and cancelled purchase orders
func (s PurchaseOrderStatus) IsTerminal() bool {
	return poMachine.IsTerminal(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	return poMachine.CanTransition(s, target)
}

// poMachine is the transition table for purchase orders. The buyer authors
// and sends the order, the supplier confirms it, and goods-receipt moves are
// system transitions derived from the recorded quantities.
var poMachine = NewStateMachine("purchase_order", POStatusDraft).
	Allow(POStatusDraft, POStatusSent, shared.ActorBuyer).
	Allow(POStatusDraft, POStatusCancelled, shared.ActorBuyer).
	Allow(POStatusSent, POStatusConfirmed, shared.ActorSupplier).
	Allow(POStatusSent, POStatusCancelled, shared.ActorBuyer).
	Allow(POStatusConfirmed, POStatusPartiallyReceived, shared.ActorSystem).
	Allow(POStatusConfirmed, POStatusReceived, shared.ActorSystem).
	Allow(POStatusConfirmed, POStatusCancelled, shared.ActorBuyer).
	Allow(POStatusPartiallyReceived, POStatusReceived, shared.ActorSystem).
	Allow(POStatusPartiallyReceived, POStatusCancelled, shared.ActorBuyer).
	MarkTerminal(POStatusReceived, POStatusCancelled)

// POLine is a purchase order line. On top of the common line shape it tracks
// the cumulative received quantity, which never exceeds the ordered quantity
// and never decreases.
type POLine struct {
	LineItem         `gorm:"embedded"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (POLine) TableName() string {
	return "purchase_order_lines"
}

// RemainingQuantity returns the quantity still outstanding on the line
func (l *POLine) RemainingQuantity() decimal.Decimal {
	return l.Quantity.Sub(l.QuantityReceived)
}

// IsFullyReceived reports whether the line has been received in full
func (l *POLine) IsFullyReceived() bool {
	return l.QuantityReceived.GreaterThanOrEqual(l.Quantity)
}

// GoodsReceiptEntry records one applied goods receipt against a PO line.
// Token is the caller-supplied idempotency token; the unique index makes a
// replayed receipt fail at the database even if it slips past the in-memory
// check.
type GoodsReceiptEntry struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineID          uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Token           string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_goods_receipt_token"`
	ReceivedAt      time.Time       `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GoodsReceiptEntry) TableName() string {
	return "goods_receipt_entries"
}

// PurchaseOrder represents a purchase order aggregate root
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	PONumber             string              `gorm:"type:varchar(50);not null;uniqueIndex:,composite:tenant_number,priority:2"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName         string              `gorm:"type:varchar(200);not null"`
	WarehouseRef         string              `gorm:"type:varchar(100);not null"`
	PODate               time.Time           `gorm:"not null"`
	ExpectedDeliveryDate *time.Time          `gorm:"index"`
	Notes                string              `gorm:"type:text"`
	Lines                []POLine            `gorm:"foreignKey:DocumentID;references:ID"`
	Receipts             []GoodsReceiptEntry `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	ShippingCharges      decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	DocumentDiscount     decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal             decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDiscount        decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTax             decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Status               PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SentAt               *time.Time
	ConfirmedAt          *time.Time
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	CancelReason         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(
	tenantID uuid.UUID,
	poNumber string,
	supplierID uuid.UUID,
	supplierName string,
	warehouseRef string,
	poDate time.Time,
	expectedDeliveryDate *time.Time,
	lines []LineItemInput,
	shippingCharges, documentDiscount decimal.Decimal,
) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewValidationError("PO number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if warehouseRef == "" {
		return nil, shared.NewValidationError("Warehouse reference cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Purchase order requires at least one line item")
	}
	if expectedDeliveryDate != nil && expectedDeliveryDate.Before(poDate) {
		return nil, shared.NewValidationError("Expected delivery date cannot precede the PO date")
	}

	po := &PurchaseOrder{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		PONumber:             poNumber,
		SupplierID:           supplierID,
		SupplierName:         supplierName,
		WarehouseRef:         warehouseRef,
		PODate:               poDate,
		ExpectedDeliveryDate: expectedDeliveryDate,
		Lines:                make([]POLine, 0, len(lines)),
		Receipts:             make([]GoodsReceiptEntry, 0),
		ShippingCharges:      shippingCharges,
		DocumentDiscount:     documentDiscount,
		Status:               poMachine.Initial(),
	}

	for _, input := range lines {
		line, err := NewLineItem(po.ID, input)
		if err != nil {
			return nil, err
		}
		po.Lines = append(po.Lines, POLine{LineItem: *line, QuantityReceived: decimal.Zero})
	}

	if err := po.recalculateTotals(); err != nil {
		return nil, err
	}

	po.AddDomainEvent(NewPOCreatedEvent(po))

	return po, nil
}

func (po *PurchaseOrder) lineItems() []LineItem {
	items := make([]LineItem, len(po.Lines))
	for i := range po.Lines {
		items[i] = po.Lines[i].LineItem
	}
	return items
}

func (po *PurchaseOrder) recalculateTotals() error {
	totals, err := AggregateTotals(po.lineItems(), po.ShippingCharges, po.DocumentDiscount)
	if err != nil {
		return err
	}
	if totals.Total.IsNegative() {
		return shared.NewValidationError("Document discount exceeds the order total")
	}
	po.Subtotal = totals.Subtotal
	po.TotalDiscount = totals.TotalDiscount
	po.TotalTax = totals.TotalTax
	po.TotalAmount = totals.Total
	return nil
}

// AddLine adds a line item to the PO. Only allowed in draft status.
func (po *PurchaseOrder) AddLine(input LineItemInput) (*POLine, error) {
	if po.Status != POStatusDraft {
		return nil, shared.NewGuardFailedError("Cannot add lines to a purchase order that has been sent")
	}

	line, err := NewLineItem(po.ID, input)
	if err != nil {
		return nil, err
	}

	poLine := POLine{LineItem: *line, QuantityReceived: decimal.Zero}
	po.Lines = append(po.Lines, poLine)
	if err := po.recalculateTotals(); err != nil {
		po.Lines = po.Lines[:len(po.Lines)-1]
		return nil, err
	}
	po.Touch()
	po.IncrementVersion()

	return &po.Lines[len(po.Lines)-1], nil
}

// RemoveLine removes a line item. Only allowed in draft status.
func (po *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if po.Status != POStatusDraft {
		return shared.NewGuardFailedError("Cannot remove lines from a purchase order that has been sent")
	}
	if len(po.Lines) == 1 {
		return shared.NewGuardFailedError("Purchase order must keep at least one line item")
	}

	for idx := range po.Lines {
		if po.Lines[idx].ID == lineID {
			po.Lines = append(po.Lines[:idx], po.Lines[idx+1:]...)
			if err := po.recalculateTotals(); err != nil {
				return err
			}
			po.Touch()
			po.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// SetNotes sets free-form notes on the purchase order
func (po *PurchaseOrder) SetNotes(notes string) {
	po.Notes = notes
	po.Touch()
	po.IncrementVersion()
}

// Send transitions the PO from draft to sent. Buyer-only.
func (po *PurchaseOrder) Send(actor shared.ActorContext) error {
	if err := poMachine.Authorize(po.Status, POStatusSent, actor.Class); err != nil {
		return err
	}
	if len(po.Lines) == 0 {
		return shared.NewGuardFailedError("Cannot send a purchase order without line items")
	}

	now := time.Now()
	po.Status = POStatusSent
	po.SentAt = &now
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPOSentEvent(po))

	return nil
}

// Confirm records the supplier's confirmation of the order. Supplier-only.
func (po *PurchaseOrder) Confirm(actor shared.ActorContext) error {
	if err := poMachine.Authorize(po.Status, POStatusConfirmed, actor.Class); err != nil {
		return err
	}

	now := time.Now()
	po.Status = POStatusConfirmed
	po.ConfirmedAt = &now
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPOConfirmedEvent(po))

	return nil
}

// RecordReceipt applies a goods receipt against one line. The token is the
// caller's idempotency key: replaying a receipt with a token already applied
// is rejected instead of double-counted. After the line's running quantity is
// updated the PO status is recomputed from all lines.
func (po *PurchaseOrder) RecordReceipt(lineID uuid.UUID, quantity decimal.Decimal, token string) (*GoodsReceiptEntry, error) {
	if po.Status != POStatusConfirmed && po.Status != POStatusPartiallyReceived {
		return nil, shared.NewInvalidTransitionError("purchase_order", string(po.Status), string(POStatusPartiallyReceived))
	}
	if token == "" {
		return nil, shared.NewValidationError("Receipt idempotency token is required")
	}
	for i := range po.Receipts {
		if po.Receipts[i].Token == token {
			return nil, shared.NewDomainError(shared.CodeDuplicateReceipt,
				"A goods receipt with this token has already been applied")
		}
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Received quantity must be positive")
	}

	var line *POLine
	for idx := range po.Lines {
		if po.Lines[idx].ID == lineID {
			line = &po.Lines[idx]
			break
		}
	}
	if line == nil {
		return nil, shared.ErrNotFound
	}

	remaining := line.RemainingQuantity()
	if quantity.GreaterThan(remaining) {
		return nil, shared.NewGuardFailedError(fmt.Sprintf(
			"Received quantity %s exceeds remaining quantity %s", quantity, remaining))
	}

	now := time.Now()
	line.QuantityReceived = line.QuantityReceived.Add(quantity)
	line.UpdatedAt = now

	entry := GoodsReceiptEntry{
		ID:              uuid.New(),
		PurchaseOrderID: po.ID,
		LineID:          lineID,
		Quantity:        quantity,
		Token:           token,
		ReceivedAt:      now,
		CreatedAt:       now,
	}
	po.Receipts = append(po.Receipts, entry)

	target := POStatusPartiallyReceived
	if po.allLinesReceived() {
		target = POStatusReceived
	}
	if po.Status != target {
		if err := poMachine.Authorize(po.Status, target, shared.ActorSystem); err != nil {
			return nil, err
		}
		po.Status = target
		if target == POStatusReceived {
			po.ReceivedAt = &now
		}
	}

	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPOReceiptRecordedEvent(po, &entry))

	return &po.Receipts[len(po.Receipts)-1], nil
}

// Cancel cancels the purchase order. Allowed from any pre-received status.
func (po *PurchaseOrder) Cancel(actor shared.ActorContext, reason string) error {
	if err := poMachine.Authorize(po.Status, POStatusCancelled, actor.Class); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	po.Status = POStatusCancelled
	po.CancelledAt = &now
	po.CancelReason = reason
	po.Touch()
	po.IncrementVersion()

	po.AddDomainEvent(NewPOCancelledEvent(po))

	return nil
}

func (po *PurchaseOrder) allLinesReceived() bool {
	for i := range po.Lines {
		if !po.Lines[i].IsFullyReceived() {
			return false
		}
	}
	return len(po.Lines) > 0
}

// IsFullyReceived reports whether every line has been received in full
func (po *PurchaseOrder) IsFullyReceived() bool {
	return po.allLinesReceived()
}

// BelongsToSupplier reports whether the order is addressed to the supplier
func (po *PurchaseOrder) BelongsToSupplier(supplierID uuid.UUID) bool {
	return po.SupplierID == supplierID
}

// CanModify returns true while the purchase order is still a draft
func (po *PurchaseOrder) CanModify() bool {
	return po.Status == POStatusDraft
}
