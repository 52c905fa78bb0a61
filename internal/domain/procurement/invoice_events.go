package procurement

import (
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoiceSubmitted       = "InvoiceSubmitted"
	EventTypeInvoiceApproved        = "InvoiceApproved"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
	EventTypeInvoicePaid            = "InvoicePaid"
	EventTypeInvoiceCancelled       = "InvoiceCancelled"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID         uuid.UUID       `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	SourceQuotationID *uuid.UUID      `json:"source_quotation_id,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:         inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		SupplierID:        inv.SupplierID,
		SourceQuotationID: inv.SourceQuotationID,
		TotalAmount:       inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceSubmittedEvent is raised when the supplier submits the invoice
type InvoiceSubmittedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceSubmittedEvent creates a new InvoiceSubmittedEvent
func NewInvoiceSubmittedEvent(inv *Invoice) *InvoiceSubmittedEvent {
	return &InvoiceSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSubmitted, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		SupplierID:      inv.SupplierID,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceSubmittedEvent) EventType() string {
	return EventTypeInvoiceSubmitted
}

// InvoiceApprovedEvent is raised when the buyer approves the invoice
type InvoiceApprovedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceApprovedEvent creates a new InvoiceApprovedEvent
func NewInvoiceApprovedEvent(inv *Invoice) *InvoiceApprovedEvent {
	return &InvoiceApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceApproved, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *InvoiceApprovedEvent) EventType() string {
	return EventTypeInvoiceApproved
}

// InvoicePaymentRecordedEvent is raised when a payment is applied
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, record *PaymentRecord) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       record.ID,
		Amount:          record.Amount,
		AmountPaid:      inv.AmountPaid,
		Remaining:       inv.RemainingBalance(),
	}
}

// EventType returns the event type name
func (e *InvoicePaymentRecordedEvent) EventType() string {
	return EventTypeInvoicePaymentRecorded
}

// InvoicePaidEvent is raised when the final payment settles the invoice
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		SupplierID:      inv.SupplierID,
		TotalAmount:     inv.TotalAmount,
	}
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}

// InvoiceCancelledEvent is raised when the invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Reason        string    `json:"reason"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          inv.CancelReason,
	}
}

// EventType returns the event type name
func (e *InvoiceCancelledEvent) EventType() string {
	return EventTypeInvoiceCancelled
}
