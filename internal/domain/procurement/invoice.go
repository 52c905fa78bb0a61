package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a vendor invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusApproved  InvoiceStatus = "APPROVED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusApproved,
		InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true for paid and cancelled invoices
func (s InvoiceStatus) IsTerminal() bool {
	return invoiceMachine.IsTerminal(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	return invoiceMachine.CanTransition(s, target)
}

// invoiceMachine is the transition table for vendor invoices. The supplier
// authors and submits the invoice, the buyer approves it, and the move to
// paid happens as a system consequence of the final payment.
var invoiceMachine = NewStateMachine("invoice", InvoiceStatusDraft).
	Allow(InvoiceStatusDraft, InvoiceStatusPending, shared.ActorSupplier).
	Allow(InvoiceStatusDraft, InvoiceStatusCancelled, shared.ActorSupplier).
	Allow(InvoiceStatusPending, InvoiceStatusApproved, shared.ActorBuyer).
	Allow(InvoiceStatusPending, InvoiceStatusCancelled, shared.ActorBuyer).
	Allow(InvoiceStatusApproved, InvoiceStatusPaid, shared.ActorSystem).
	Allow(InvoiceStatusApproved, InvoiceStatusCancelled, shared.ActorBuyer).
	MarkTerminal(InvoiceStatusPaid, InvoiceStatusCancelled)

// PaymentRecord is one payment applied against an invoice. Records are
// append-only; the invoice's AmountPaid is the running sum.
type PaymentRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method    string          `gorm:"type:varchar(50)"`
	Reference string          `gorm:"type:varchar(100)"`
	PaidAt    time.Time       `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentRecord) TableName() string {
	return "invoice_payments"
}

// Invoice represents a vendor invoice aggregate root. An invoice is either
// itemized (lines drive the totals) or totals-only (a stated amount with no
// lines, as produced by file-backed quotations). SourceQuotationID links an
// auto-generated invoice back to the accepted quotation it settles; the
// unique index enforces at most one invoice per quotation.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex:,composite:tenant_number,priority:2"`
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName      string          `gorm:"type:varchar(200);not null"`
	SourceQuotationID *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_invoice_source_quotation"`
	PurchaseOrderID   *uuid.UUID      `gorm:"type:uuid;index"`
	Lines             []LineItem      `gorm:"foreignKey:DocumentID;references:ID"`
	Payments          []PaymentRecord `gorm:"foreignKey:InvoiceID;references:ID"`
	FileRef           string          `gorm:"type:varchar(500)"`
	ShippingCharges   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DocumentDiscount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDiscount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTax          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AmountPaid        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate           time.Time       `gorm:"not null;index"`
	Notes             string          `gorm:"type:text"`
	Status            InvoiceStatus   `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedAt       *time.Time
	ApprovedAt        *time.Time
	PaidAt            *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceParams carries the caller-supplied shape for a new invoice
type InvoiceParams struct {
	InvoiceNumber     string
	SupplierID        uuid.UUID
	SupplierName      string
	SourceQuotationID *uuid.UUID
	PurchaseOrderID   *uuid.UUID
	Lines             []LineItemInput
	StatedTotal       *decimal.Decimal
	FileRef           string
	ShippingCharges   decimal.Decimal
	DocumentDiscount  decimal.Decimal
	DueDate           time.Time
	Notes             string
}

// NewInvoice creates a new invoice in draft status. An itemized invoice
// derives its totals from the lines; a totals-only invoice requires a stated
// total instead.
func NewInvoice(tenantID uuid.UUID, params InvoiceParams) (*Invoice, error) {
	if params.InvoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if params.SupplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if params.DueDate.IsZero() {
		return nil, shared.NewValidationError("Invoice due date is required")
	}
	if len(params.Lines) == 0 && params.StatedTotal == nil {
		return nil, shared.NewValidationError("Invoice requires line items or a stated total")
	}
	if params.StatedTotal != nil && params.StatedTotal.IsNegative() {
		return nil, shared.NewValidationError("Invoice total cannot be negative")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       params.InvoiceNumber,
		SupplierID:          params.SupplierID,
		SupplierName:        params.SupplierName,
		SourceQuotationID:   params.SourceQuotationID,
		PurchaseOrderID:     params.PurchaseOrderID,
		Lines:               make([]LineItem, 0, len(params.Lines)),
		Payments:            make([]PaymentRecord, 0),
		FileRef:             params.FileRef,
		ShippingCharges:     params.ShippingCharges,
		DocumentDiscount:    params.DocumentDiscount,
		AmountPaid:          decimal.Zero,
		DueDate:             params.DueDate,
		Notes:               params.Notes,
		Status:              invoiceMachine.Initial(),
	}

	for _, input := range params.Lines {
		line, err := NewLineItem(inv.ID, input)
		if err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, *line)
	}

	if len(inv.Lines) > 0 {
		totals, err := AggregateTotals(inv.Lines, inv.ShippingCharges, inv.DocumentDiscount)
		if err != nil {
			return nil, err
		}
		if totals.Total.IsNegative() {
			return nil, shared.NewValidationError("Document discount exceeds the invoice total")
		}
		inv.Subtotal = totals.Subtotal
		inv.TotalDiscount = totals.TotalDiscount
		inv.TotalTax = totals.TotalTax
		inv.TotalAmount = totals.Total
	} else {
		inv.TotalAmount = *params.StatedTotal
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Submit moves the invoice from draft to pending. Supplier-only.
func (i *Invoice) Submit(actor shared.ActorContext) error {
	if err := invoiceMachine.Authorize(i.Status, InvoiceStatusPending, actor.Class); err != nil {
		return err
	}

	now := time.Now()
	i.Status = InvoiceStatusPending
	i.SubmittedAt = &now
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceSubmittedEvent(i))

	return nil
}

// Approve approves a pending invoice for payment. Buyer-only.
func (i *Invoice) Approve(actor shared.ActorContext) error {
	if err := invoiceMachine.Authorize(i.Status, InvoiceStatusApproved, actor.Class); err != nil {
		return err
	}

	now := time.Now()
	i.Status = InvoiceStatusApproved
	i.ApprovedAt = &now
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceApprovedEvent(i))

	return nil
}

// RecordPayment applies a payment against the invoice. Payments are only
// accepted on approved invoices; the amount must be positive and must not
// exceed the remaining balance, which is zero once the invoice is paid, so
// any payment against a settled invoice fails as an overpayment. When the
// running total reaches the invoice total the invoice moves to paid.
func (i *Invoice) RecordPayment(amount decimal.Decimal, method, reference string) (*PaymentRecord, error) {
	if i.Status != InvoiceStatusApproved && i.Status != InvoiceStatusPaid {
		return nil, shared.NewGuardFailedError("Payments can only be recorded against an approved invoice")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Payment amount must be positive")
	}
	remaining := i.RemainingBalance()
	if amount.GreaterThan(remaining) {
		return nil, shared.NewOverpaymentError(fmt.Sprintf(
			"Payment amount %s exceeds remaining balance %s", amount, remaining))
	}

	now := time.Now()
	record := PaymentRecord{
		ID:        uuid.New(),
		InvoiceID: i.ID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		PaidAt:    now,
		CreatedAt: now,
	}
	i.Payments = append(i.Payments, record)
	i.AmountPaid = i.AmountPaid.Add(amount)

	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, &record))

	if i.AmountPaid.Equal(i.TotalAmount) {
		if err := invoiceMachine.Authorize(i.Status, InvoiceStatusPaid, shared.ActorSystem); err != nil {
			return nil, err
		}
		i.Status = InvoiceStatusPaid
		i.PaidAt = &now
		i.AddDomainEvent(NewInvoicePaidEvent(i))
	}

	i.Touch()
	i.IncrementVersion()

	return &i.Payments[len(i.Payments)-1], nil
}

// Cancel cancels the invoice. Allowed from any pre-paid status.
func (i *Invoice) Cancel(actor shared.ActorContext, reason string) error {
	if err := invoiceMachine.Authorize(i.Status, InvoiceStatusCancelled, actor.Class); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.CancelReason = reason
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

// RemainingBalance returns the unpaid portion of the invoice total
func (i *Invoice) RemainingBalance() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// IsPaid returns true once the invoice has been fully paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOverdue derives the overdue flag at read time. Overdue is never stored:
// any invoice that is not yet paid and whose due date has passed is overdue,
// including cancelled invoices, so cancelled documents stay visible in
// overdue reporting until cleaned up.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status != InvoiceStatusPaid && now.After(i.DueDate)
}

// BelongsToSupplier reports whether the invoice was issued by the supplier
func (i *Invoice) BelongsToSupplier(supplierID uuid.UUID) bool {
	return i.SupplierID == supplierID
}
