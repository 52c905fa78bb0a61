package procurement

import (
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationSubmitted     = "QuotationSubmitted"
	EventTypeQuotationReviewStarted = "QuotationReviewStarted"
	EventTypeQuotationAccepted      = "QuotationAccepted"
	EventTypeQuotationRejected      = "QuotationRejected"
)

// QuotationSubmittedEvent is raised when a supplier submits a quotation
type QuotationSubmittedEvent struct {
	shared.BaseDomainEvent
	QuotationID      uuid.UUID       `json:"quotation_id"`
	SubmissionNumber string          `json:"submission_number"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	RFQID            *uuid.UUID      `json:"rfq_id,omitempty"`
	PurchaseOrderID  *uuid.UUID      `json:"purchase_order_id,omitempty"`
	QuotationType    QuotationType   `json:"quotation_type"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// NewQuotationSubmittedEvent creates a new QuotationSubmittedEvent
func NewQuotationSubmittedEvent(q *Quotation) *QuotationSubmittedEvent {
	return &QuotationSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeQuotationSubmitted, AggregateTypeQuotation, q.ID, q.TenantID),
		QuotationID:      q.ID,
		SubmissionNumber: q.SubmissionNumber,
		SupplierID:       q.SupplierID,
		RFQID:            q.RFQID,
		PurchaseOrderID:  q.PurchaseOrderID,
		QuotationType:    q.Type,
		TotalAmount:      q.TotalAmount,
	}
}

// EventType returns the event type name
func (e *QuotationSubmittedEvent) EventType() string {
	return EventTypeQuotationSubmitted
}

// QuotationReviewStartedEvent is raised when the buyer starts reviewing
type QuotationReviewStartedEvent struct {
	shared.BaseDomainEvent
	QuotationID      uuid.UUID `json:"quotation_id"`
	SubmissionNumber string    `json:"submission_number"`
	SupplierID       uuid.UUID `json:"supplier_id"`
}

// NewQuotationReviewStartedEvent creates a new QuotationReviewStartedEvent
func NewQuotationReviewStartedEvent(q *Quotation) *QuotationReviewStartedEvent {
	return &QuotationReviewStartedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeQuotationReviewStarted, AggregateTypeQuotation, q.ID, q.TenantID),
		QuotationID:      q.ID,
		SubmissionNumber: q.SubmissionNumber,
		SupplierID:       q.SupplierID,
	}
}

// EventType returns the event type name
func (e *QuotationReviewStartedEvent) EventType() string {
	return EventTypeQuotationReviewStarted
}

// QuotationAcceptedEvent is raised when the buyer accepts a quotation.
// Handlers use it to register invoice eligibility for the quotation.
type QuotationAcceptedEvent struct {
	shared.BaseDomainEvent
	QuotationID      uuid.UUID       `json:"quotation_id"`
	SubmissionNumber string          `json:"submission_number"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// NewQuotationAcceptedEvent creates a new QuotationAcceptedEvent
func NewQuotationAcceptedEvent(q *Quotation) *QuotationAcceptedEvent {
	return &QuotationAcceptedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeQuotationAccepted, AggregateTypeQuotation, q.ID, q.TenantID),
		QuotationID:      q.ID,
		SubmissionNumber: q.SubmissionNumber,
		SupplierID:       q.SupplierID,
		TotalAmount:      q.TotalAmount,
	}
}

// EventType returns the event type name
func (e *QuotationAcceptedEvent) EventType() string {
	return EventTypeQuotationAccepted
}

// QuotationRejectedEvent is raised when the buyer rejects a quotation
type QuotationRejectedEvent struct {
	shared.BaseDomainEvent
	QuotationID      uuid.UUID `json:"quotation_id"`
	SubmissionNumber string    `json:"submission_number"`
	SupplierID       uuid.UUID `json:"supplier_id"`
	Reason           string    `json:"reason"`
}

// NewQuotationRejectedEvent creates a new QuotationRejectedEvent
func NewQuotationRejectedEvent(q *Quotation) *QuotationRejectedEvent {
	return &QuotationRejectedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeQuotationRejected, AggregateTypeQuotation, q.ID, q.TenantID),
		QuotationID:      q.ID,
		SubmissionNumber: q.SubmissionNumber,
		SupplierID:       q.SupplierID,
		Reason:           q.RejectReason,
	}
}

// EventType returns the event type name
func (e *QuotationRejectedEvent) EventType() string {
	return EventTypeQuotationRejected
}
