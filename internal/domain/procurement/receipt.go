package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReceipt = "PaymentReceipt"

// EventTypeReceiptGenerated is raised when a payment receipt is produced
const EventTypeReceiptGenerated = "ReceiptGenerated"

// PaymentReceipt is the immutable proof of settlement for a paid invoice.
// At most one receipt exists per invoice; the unique index on InvoiceID is
// the authoritative guard when two generate calls race past the lookup.
// A receipt is never updated or deleted once written.
type PaymentReceipt struct {
	shared.TenantAggregateRoot
	ReceiptNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:,composite:tenant_number,priority:2"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_invoice"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`
	Notes         string          `gorm:"type:varchar(500)"`
	IssuedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentReceipt) TableName() string {
	return "payment_receipts"
}

// NewPaymentReceipt generates the receipt for a fully paid invoice.
// The paid guard lives here so every caller path gets it; the per-invoice
// uniqueness check belongs to the repository and its unique index.
func NewPaymentReceipt(receiptNumber string, invoice *Invoice, paymentMethod, notes string) (*PaymentReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewValidationError("Receipt number cannot be empty")
	}
	if paymentMethod == "" {
		return nil, shared.NewValidationError("Payment method cannot be empty")
	}
	if invoice == nil {
		return nil, shared.NewValidationError("Invoice is required")
	}
	if !invoice.IsPaid() {
		return nil, shared.NewGuardFailedError("Receipts can only be generated for paid invoices")
	}

	receipt := &PaymentReceipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(invoice.TenantID),
		ReceiptNumber:       receiptNumber,
		InvoiceID:           invoice.ID,
		InvoiceNumber:       invoice.InvoiceNumber,
		SupplierID:          invoice.SupplierID,
		Amount:              invoice.TotalAmount,
		PaymentMethod:       paymentMethod,
		Notes:               notes,
		IssuedAt:            time.Now(),
	}

	receipt.AddDomainEvent(NewReceiptGeneratedEvent(receipt))

	return receipt, nil
}

// ReceiptGeneratedEvent is raised when a payment receipt is produced
type ReceiptGeneratedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewReceiptGeneratedEvent creates a new ReceiptGeneratedEvent
func NewReceiptGeneratedEvent(r *PaymentReceipt) *ReceiptGeneratedEvent {
	return &ReceiptGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptGenerated, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		InvoiceID:       r.InvoiceID,
		SupplierID:      r.SupplierID,
		Amount:          r.Amount,
	}
}

// EventType returns the event type name
func (e *ReceiptGeneratedEvent) EventType() string {
	return EventTypeReceiptGenerated
}
