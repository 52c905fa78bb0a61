package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
)

// RFQStatus represents the status of a request for quotation
type RFQStatus string

const (
	RFQStatusDraft      RFQStatus = "DRAFT"
	RFQStatusSent       RFQStatus = "SENT"
	RFQStatusInProgress RFQStatus = "IN_PROGRESS"
	RFQStatusReceived   RFQStatus = "RECEIVED"
	RFQStatusClosed     RFQStatus = "CLOSED"
	RFQStatusCancelled  RFQStatus = "CANCELLED"
)

// IsValid checks if the status is a valid RFQStatus
func (s RFQStatus) IsValid() bool {
	switch s {
	case RFQStatusDraft, RFQStatusSent, RFQStatusInProgress,
		RFQStatusReceived, RFQStatusClosed, RFQStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of RFQStatus
func (s RFQStatus) String() string {
	return string(s)
}

// IsTerminal returns true for closed and cancelled RFQs
func (s RFQStatus) IsTerminal() bool {
	return rfqMachine.IsTerminal(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s RFQStatus) CanTransitionTo(target RFQStatus) bool {
	return rfqMachine.CanTransition(s, target)
}

// rfqMachine is the transition table for RFQs. Quotation-driven moves are
// system transitions: the engine takes them as a consequence of a supplier
// submission, not on the supplier's direct authority.
var rfqMachine = NewStateMachine("rfq", RFQStatusDraft).
	Allow(RFQStatusDraft, RFQStatusSent, shared.ActorBuyer).
	Allow(RFQStatusDraft, RFQStatusCancelled, shared.ActorBuyer).
	Allow(RFQStatusSent, RFQStatusInProgress, shared.ActorSystem).
	Allow(RFQStatusSent, RFQStatusClosed, shared.ActorBuyer).
	Allow(RFQStatusSent, RFQStatusCancelled, shared.ActorBuyer).
	Allow(RFQStatusInProgress, RFQStatusReceived, shared.ActorSystem).
	Allow(RFQStatusInProgress, RFQStatusClosed, shared.ActorBuyer).
	Allow(RFQStatusReceived, RFQStatusClosed, shared.ActorBuyer).
	MarkTerminal(RFQStatusClosed, RFQStatusCancelled)

// RFQSupplier is an invited supplier on an RFQ
type RFQSupplier struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	RFQID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID  `gorm:"type:uuid;not null"`
	SupplierName string     `gorm:"type:varchar(200);not null"`
	QuotedAt     *time.Time // set when the supplier's quotation is recorded
	CreatedAt    time.Time  `gorm:"not null"`
}

// HasQuoted returns true once the supplier's quotation has been recorded
func (s *RFQSupplier) HasQuoted() bool {
	return s.QuotedAt != nil
}

// RFQ represents a request-for-quotation aggregate root.
// It is created by the buyer, mutable only while in draft, and collects
// quotations from invited suppliers after being sent.
type RFQ struct {
	shared.TenantAggregateRoot
	RFQNumber    string        `gorm:"type:varchar(50);not null;uniqueIndex:,composite:tenant_number,priority:2"`
	Title        string        `gorm:"type:varchar(200);not null"`
	Notes        string        `gorm:"type:text"`
	Deadline     *time.Time    `gorm:"index"`
	Lines        []LineItem    `gorm:"foreignKey:DocumentID;references:ID"`
	Suppliers    []RFQSupplier `gorm:"foreignKey:RFQID;references:ID"`
	Status       RFQStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SentAt       *time.Time    `gorm:"index"`
	ClosedAt     *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (RFQ) TableName() string {
	return "rfqs"
}

// NewRFQ creates a new RFQ in draft status
func NewRFQ(tenantID uuid.UUID, rfqNumber, title string, deadline *time.Time) (*RFQ, error) {
	if rfqNumber == "" {
		return nil, shared.NewValidationError("RFQ number cannot be empty")
	}
	if title == "" {
		return nil, shared.NewValidationError("RFQ title cannot be empty")
	}
	if deadline != nil && deadline.Before(time.Now()) {
		return nil, shared.NewValidationError("RFQ deadline cannot be in the past")
	}

	rfq := &RFQ{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RFQNumber:           rfqNumber,
		Title:               title,
		Deadline:            deadline,
		Lines:               make([]LineItem, 0),
		Suppliers:           make([]RFQSupplier, 0),
		Status:              rfqMachine.Initial(),
	}

	rfq.AddDomainEvent(NewRFQCreatedEvent(rfq))

	return rfq, nil
}

// AddLine adds a line item to the RFQ. Only allowed in draft status.
func (r *RFQ) AddLine(input LineItemInput) (*LineItem, error) {
	if r.Status != RFQStatusDraft {
		return nil, shared.NewGuardFailedError("Cannot add lines to an RFQ that has been sent")
	}

	line, err := NewLineItem(r.ID, input)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.Touch()
	r.IncrementVersion()

	return line, nil
}

// RemoveLine removes a line item. Only allowed in draft status.
func (r *RFQ) RemoveLine(lineID uuid.UUID) error {
	if r.Status != RFQStatusDraft {
		return shared.NewGuardFailedError("Cannot remove lines from an RFQ that has been sent")
	}

	for idx, line := range r.Lines {
		if line.ID == lineID {
			r.Lines = append(r.Lines[:idx], r.Lines[idx+1:]...)
			r.Touch()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// InviteSupplier adds a supplier to the invitation set. Only allowed in draft.
func (r *RFQ) InviteSupplier(supplierID uuid.UUID, supplierName string) error {
	if r.Status != RFQStatusDraft {
		return shared.NewGuardFailedError("Cannot invite suppliers after the RFQ has been sent")
	}
	if supplierID == uuid.Nil {
		return shared.NewValidationError("Supplier ID cannot be empty")
	}
	for _, s := range r.Suppliers {
		if s.SupplierID == supplierID {
			return shared.NewValidationError("Supplier is already invited")
		}
	}

	now := time.Now()
	r.Suppliers = append(r.Suppliers, RFQSupplier{
		ID:           uuid.New(),
		RFQID:        r.ID,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		CreatedAt:    now,
	})
	r.Touch()
	r.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the RFQ
func (r *RFQ) SetNotes(notes string) {
	r.Notes = notes
	r.Touch()
	r.IncrementVersion()
}

// Send transitions the RFQ from draft to sent.
// Guard: at least one line and at least one invited supplier.
func (r *RFQ) Send(actor shared.ActorContext) error {
	if err := rfqMachine.Authorize(r.Status, RFQStatusSent, actor.Class); err != nil {
		return err
	}
	if len(r.Lines) == 0 {
		return shared.NewGuardFailedError("Cannot send an RFQ without line items")
	}
	if len(r.Suppliers) == 0 {
		return shared.NewGuardFailedError("Cannot send an RFQ without invited suppliers")
	}

	now := time.Now()
	r.Status = RFQStatusSent
	r.SentAt = &now
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRFQSentEvent(r))

	return nil
}

// RecordQuotation records that an invited supplier has submitted a quotation.
// The first quotation moves the RFQ to in_progress; once every invited
// supplier has quoted it moves on to received.
func (r *RFQ) RecordQuotation(supplierID uuid.UUID) error {
	if r.Status != RFQStatusSent && r.Status != RFQStatusInProgress {
		return shared.NewInvalidTransitionError("rfq", string(r.Status), string(RFQStatusInProgress))
	}

	var supplier *RFQSupplier
	for idx := range r.Suppliers {
		if r.Suppliers[idx].SupplierID == supplierID {
			supplier = &r.Suppliers[idx]
			break
		}
	}
	if supplier == nil {
		return shared.NewGuardFailedError(fmt.Sprintf("Supplier %s was not invited to this RFQ", supplierID))
	}
	if supplier.HasQuoted() {
		return shared.NewGuardFailedError("Supplier has already submitted a quotation for this RFQ")
	}

	now := time.Now()
	supplier.QuotedAt = &now

	if r.Status == RFQStatusSent {
		if err := rfqMachine.Authorize(r.Status, RFQStatusInProgress, shared.ActorSystem); err != nil {
			return err
		}
		r.Status = RFQStatusInProgress
	}
	if r.allSuppliersQuoted() {
		if err := rfqMachine.Authorize(r.Status, RFQStatusReceived, shared.ActorSystem); err != nil {
			return err
		}
		r.Status = RFQStatusReceived
	}

	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRFQQuotationRecordedEvent(r, supplierID))

	return nil
}

// Close closes the RFQ. Buyer-only, terminal.
func (r *RFQ) Close(actor shared.ActorContext) error {
	if err := rfqMachine.Authorize(r.Status, RFQStatusClosed, actor.Class); err != nil {
		return err
	}

	now := time.Now()
	r.Status = RFQStatusClosed
	r.ClosedAt = &now
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRFQClosedEvent(r))

	return nil
}

// Cancel cancels the RFQ. Allowed from draft or sent only.
func (r *RFQ) Cancel(actor shared.ActorContext, reason string) error {
	if err := rfqMachine.Authorize(r.Status, RFQStatusCancelled, actor.Class); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	r.Status = RFQStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewRFQCancelledEvent(r))

	return nil
}

// InvitedSupplierIDs returns the IDs of all invited suppliers
func (r *RFQ) InvitedSupplierIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Suppliers))
	for i, s := range r.Suppliers {
		ids[i] = s.SupplierID
	}
	return ids
}

// IsInvited reports whether the supplier is on the invitation set
func (r *RFQ) IsInvited(supplierID uuid.UUID) bool {
	for _, s := range r.Suppliers {
		if s.SupplierID == supplierID {
			return true
		}
	}
	return false
}

// QuotedCount returns how many invited suppliers have quoted
func (r *RFQ) QuotedCount() int {
	count := 0
	for _, s := range r.Suppliers {
		if s.HasQuoted() {
			count++
		}
	}
	return count
}

func (r *RFQ) allSuppliersQuoted() bool {
	for _, s := range r.Suppliers {
		if !s.HasQuoted() {
			return false
		}
	}
	return len(r.Suppliers) > 0
}

// CanModify returns true while the RFQ is still a draft
func (r *RFQ) CanModify() bool {
	return r.Status == RFQStatusDraft
}
