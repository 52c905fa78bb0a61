package procurement

import (
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeRFQ = "RFQ"

// Event type constants
const (
	EventTypeRFQCreated           = "RFQCreated"
	EventTypeRFQSent              = "RFQSent"
	EventTypeRFQQuotationRecorded = "RFQQuotationRecorded"
	EventTypeRFQClosed            = "RFQClosed"
	EventTypeRFQCancelled         = "RFQCancelled"
)

// RFQCreatedEvent is raised when a new RFQ is created
type RFQCreatedEvent struct {
	shared.BaseDomainEvent
	RFQID     uuid.UUID `json:"rfq_id"`
	RFQNumber string    `json:"rfq_number"`
	Title     string    `json:"title"`
}

// NewRFQCreatedEvent creates a new RFQCreatedEvent
func NewRFQCreatedEvent(rfq *RFQ) *RFQCreatedEvent {
	return &RFQCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRFQCreated, AggregateTypeRFQ, rfq.ID, rfq.TenantID),
		RFQID:           rfq.ID,
		RFQNumber:       rfq.RFQNumber,
		Title:           rfq.Title,
	}
}

// EventType returns the event type name
func (e *RFQCreatedEvent) EventType() string {
	return EventTypeRFQCreated
}

// RFQSentEvent is raised when an RFQ is sent to its invited suppliers
type RFQSentEvent struct {
	shared.BaseDomainEvent
	RFQID       uuid.UUID   `json:"rfq_id"`
	RFQNumber   string      `json:"rfq_number"`
	Title       string      `json:"title"`
	SupplierIDs []uuid.UUID `json:"supplier_ids"`
}

// NewRFQSentEvent creates a new RFQSentEvent
func NewRFQSentEvent(rfq *RFQ) *RFQSentEvent {
	return &RFQSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRFQSent, AggregateTypeRFQ, rfq.ID, rfq.TenantID),
		RFQID:           rfq.ID,
		RFQNumber:       rfq.RFQNumber,
		Title:           rfq.Title,
		SupplierIDs:     rfq.InvitedSupplierIDs(),
	}
}

// EventType returns the event type name
func (e *RFQSentEvent) EventType() string {
	return EventTypeRFQSent
}

// RFQQuotationRecordedEvent is raised when an invited supplier's quotation is
// recorded against the RFQ
type RFQQuotationRecordedEvent struct {
	shared.BaseDomainEvent
	RFQID       uuid.UUID `json:"rfq_id"`
	RFQNumber   string    `json:"rfq_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	Status      RFQStatus `json:"status"`
	QuotedCount int       `json:"quoted_count"`
}

// NewRFQQuotationRecordedEvent creates a new RFQQuotationRecordedEvent
func NewRFQQuotationRecordedEvent(rfq *RFQ, supplierID uuid.UUID) *RFQQuotationRecordedEvent {
	return &RFQQuotationRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRFQQuotationRecorded, AggregateTypeRFQ, rfq.ID, rfq.TenantID),
		RFQID:           rfq.ID,
		RFQNumber:       rfq.RFQNumber,
		SupplierID:      supplierID,
		Status:          rfq.Status,
		QuotedCount:     rfq.QuotedCount(),
	}
}

// EventType returns the event type name
func (e *RFQQuotationRecordedEvent) EventType() string {
	return EventTypeRFQQuotationRecorded
}

// RFQClosedEvent is raised when the buyer closes an RFQ
type RFQClosedEvent struct {
	shared.BaseDomainEvent
	RFQID     uuid.UUID `json:"rfq_id"`
	RFQNumber string    `json:"rfq_number"`
}

// NewRFQClosedEvent creates a new RFQClosedEvent
func NewRFQClosedEvent(rfq *RFQ) *RFQClosedEvent {
	return &RFQClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRFQClosed, AggregateTypeRFQ, rfq.ID, rfq.TenantID),
		RFQID:           rfq.ID,
		RFQNumber:       rfq.RFQNumber,
	}
}

// EventType returns the event type name
func (e *RFQClosedEvent) EventType() string {
	return EventTypeRFQClosed
}

// RFQCancelledEvent is raised when the buyer cancels an RFQ
type RFQCancelledEvent struct {
	shared.BaseDomainEvent
	RFQID     uuid.UUID `json:"rfq_id"`
	RFQNumber string    `json:"rfq_number"`
	Reason    string    `json:"reason"`
}

// NewRFQCancelledEvent creates a new RFQCancelledEvent
func NewRFQCancelledEvent(rfq *RFQ) *RFQCancelledEvent {
	return &RFQCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRFQCancelled, AggregateTypeRFQ, rfq.ID, rfq.TenantID),
		RFQID:           rfq.ID,
		RFQNumber:       rfq.RFQNumber,
		Reason:          rfq.CancelReason,
	}
}

// EventType returns the event type name
func (e *RFQCancelledEvent) EventType() string {
	return EventTypeRFQCancelled
}
