package procurement

import (
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePOCreated         = "PurchaseOrderCreated"
	EventTypePOSent            = "PurchaseOrderSent"
	EventTypePOConfirmed       = "PurchaseOrderConfirmed"
	EventTypePOReceiptRecorded = "PurchaseOrderReceiptRecorded"
	EventTypePOCancelled       = "PurchaseOrderCancelled"
)

// POCreatedEvent is raised when a new purchase order is created
type POCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	PONumber        string          `json:"po_number"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewPOCreatedEvent creates a new POCreatedEvent
func NewPOCreatedEvent(po *PurchaseOrder) *POCreatedEvent {
	return &POCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePOCreated, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
		TotalAmount:     po.TotalAmount,
	}
}

// EventType returns the event type name
func (e *POCreatedEvent) EventType() string {
	return EventTypePOCreated
}

// POSentEvent is raised when the buyer sends the PO to the supplier
type POSentEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	PONumber        string          `json:"po_number"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewPOSentEvent creates a new POSentEvent
func NewPOSentEvent(po *PurchaseOrder) *POSentEvent {
	return &POSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePOSent, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
		TotalAmount:     po.TotalAmount,
	}
}

// EventType returns the event type name
func (e *POSentEvent) EventType() string {
	return EventTypePOSent
}

// POConfirmedEvent is raised when the supplier confirms the PO
type POConfirmedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	PONumber        string    `json:"po_number"`
	SupplierID      uuid.UUID `json:"supplier_id"`
}

// NewPOConfirmedEvent creates a new POConfirmedEvent
func NewPOConfirmedEvent(po *PurchaseOrder) *POConfirmedEvent {
	return &POConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePOConfirmed, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
	}
}

// EventType returns the event type name
func (e *POConfirmedEvent) EventType() string {
	return EventTypePOConfirmed
}

// POReceiptRecordedEvent is raised when a goods receipt is applied
type POReceiptRecordedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID           `json:"purchase_order_id"`
	PONumber        string              `json:"po_number"`
	LineID          uuid.UUID           `json:"line_id"`
	Quantity        decimal.Decimal     `json:"quantity"`
	Status          PurchaseOrderStatus `json:"status"`
}

// NewPOReceiptRecordedEvent creates a new POReceiptRecordedEvent
func NewPOReceiptRecordedEvent(po *PurchaseOrder, entry *GoodsReceiptEntry) *POReceiptRecordedEvent {
	return &POReceiptRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePOReceiptRecorded, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		LineID:          entry.LineID,
		Quantity:        entry.Quantity,
		Status:          po.Status,
	}
}

// EventType returns the event type name
func (e *POReceiptRecordedEvent) EventType() string {
	return EventTypePOReceiptRecorded
}

// POCancelledEvent is raised when the buyer cancels the PO
type POCancelledEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	PONumber        string    `json:"po_number"`
	Reason          string    `json:"reason"`
}

// NewPOCancelledEvent creates a new POCancelledEvent
func NewPOCancelledEvent(po *PurchaseOrder) *POCancelledEvent {
	return &POCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePOCancelled, AggregateTypePurchaseOrder, po.ID, po.TenantID),
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		Reason:          po.CancelReason,
	}
}

// EventType returns the event type name
func (e *POCancelledEvent) EventType() string {
	return EventTypePOCancelled
}
