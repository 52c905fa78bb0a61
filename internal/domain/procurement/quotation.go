package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuotationType distinguishes how a supplier submitted their quotation
type QuotationType string

const (
	QuotationTypeFileUpload  QuotationType = "FILE_UPLOAD"
	QuotationTypeManualEntry QuotationType = "MANUAL_ENTRY"
)

// IsValid checks if the quotation type is valid
func (t QuotationType) IsValid() bool {
	return t == QuotationTypeFileUpload || t == QuotationTypeManualEntry
}

// QuotationStatus represents the status of a supplier quotation
type QuotationStatus string

const (
	QuotationStatusSubmitted   QuotationStatus = "SUBMITTED"
	QuotationStatusUnderReview QuotationStatus = "UNDER_REVIEW"
	QuotationStatusAccepted    QuotationStatus = "ACCEPTED"
	QuotationStatusRejected    QuotationStatus = "REJECTED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusSubmitted, QuotationStatusUnderReview,
		QuotationStatusAccepted, QuotationStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// IsTerminal returns true for accepted and rejected quotations
func (s QuotationStatus) IsTerminal() bool {
	return quotationMachine.IsTerminal(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	return quotationMachine.CanTransition(s, target)
}

// quotationMachine is the transition table for quotations. The supplier
// creates the document; every status move after that belongs to the buyer.
var quotationMachine = NewStateMachine("quotation", QuotationStatusSubmitted).
	Allow(QuotationStatusSubmitted, QuotationStatusUnderReview, shared.ActorBuyer).
	Allow(QuotationStatusUnderReview, QuotationStatusAccepted, shared.ActorBuyer).
	Allow(QuotationStatusUnderReview, QuotationStatusRejected, shared.ActorBuyer).
	MarkTerminal(QuotationStatusAccepted, QuotationStatusRejected)

// Quotation represents a supplier's quotation aggregate root. It may answer
// an RFQ, refer to a purchase order, or arrive unsolicited (neither set), but
// never both: the two references are mutually exclusive.
type Quotation struct {
	shared.TenantAggregateRoot
	SubmissionNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:,composite:tenant_number,priority:2"`
	RFQID            *uuid.UUID      `gorm:"type:uuid;index"`
	PurchaseOrderID  *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName     string          `gorm:"type:varchar(200);not null"`
	Type             QuotationType   `gorm:"type:varchar(20);not null"`
	Lines            []LineItem      `gorm:"foreignKey:DocumentID;references:ID"`
	FileRef          string          `gorm:"type:varchar(500)"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status           QuotationStatus `gorm:"type:varchar(20);not null;default:'SUBMITTED'"`
	Notes            string          `gorm:"type:text"`
	ReviewedAt       *time.Time
	DecidedAt        *time.Time
	RejectReason     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

func validateQuotationRefs(rfqID, poID *uuid.UUID) error {
	if rfqID != nil && poID != nil {
		return shared.NewValidationError("A quotation may reference an RFQ or a purchase order, not both")
	}
	return nil
}

// NewManualQuotation creates an itemized quotation. When the supplier does
// not state a total, it is derived from the lines; a supplier-stated total is
// kept as-is so discrepancies stay visible to the reviewing buyer.
func NewManualQuotation(
	tenantID uuid.UUID,
	submissionNumber string,
	supplierID uuid.UUID,
	supplierName string,
	rfqID, poID *uuid.UUID,
	lines []LineItemInput,
	statedTotal *decimal.Decimal,
) (*Quotation, error) {
	if submissionNumber == "" {
		return nil, shared.NewValidationError("Submission number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if err := validateQuotationRefs(rfqID, poID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Manual quotation requires at least one line item")
	}
	if statedTotal != nil && statedTotal.IsNegative() {
		return nil, shared.NewValidationError("Quotation total cannot be negative")
	}

	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SubmissionNumber:    submissionNumber,
		RFQID:               rfqID,
		PurchaseOrderID:     poID,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Type:                QuotationTypeManualEntry,
		Lines:               make([]LineItem, 0, len(lines)),
		Status:              quotationMachine.Initial(),
	}

	for _, input := range lines {
		line, err := NewLineItem(q.ID, input)
		if err != nil {
			return nil, err
		}
		q.Lines = append(q.Lines, *line)
	}

	if statedTotal != nil {
		q.TotalAmount = *statedTotal
	} else {
		totals, err := AggregateTotals(q.Lines, decimal.Zero, decimal.Zero)
		if err != nil {
			return nil, err
		}
		q.TotalAmount = totals.Total
	}

	q.AddDomainEvent(NewQuotationSubmittedEvent(q))

	return q, nil
}

// NewFileQuotation creates a quotation backed by an uploaded document. The
// total cannot be derived from an opaque file, so the supplier-stated total
// is trusted here; that asymmetry with manual entry is deliberate.
func NewFileQuotation(
	tenantID uuid.UUID,
	submissionNumber string,
	supplierID uuid.UUID,
	supplierName string,
	rfqID, poID *uuid.UUID,
	fileRef string,
	totalAmount decimal.Decimal,
) (*Quotation, error) {
	if submissionNumber == "" {
		return nil, shared.NewValidationError("Submission number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if err := validateQuotationRefs(rfqID, poID); err != nil {
		return nil, err
	}
	if fileRef == "" {
		return nil, shared.NewValidationError("File-based quotation requires a file reference")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewValidationError("Quotation total cannot be negative")
	}

	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SubmissionNumber:    submissionNumber,
		RFQID:               rfqID,
		PurchaseOrderID:     poID,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Type:                QuotationTypeFileUpload,
		FileRef:             fileRef,
		TotalAmount:         totalAmount,
		Status:              quotationMachine.Initial(),
	}

	q.AddDomainEvent(NewQuotationSubmittedEvent(q))

	return q, nil
}

// SetNotes sets free-form notes on the quotation
func (q *Quotation) SetNotes(notes string) {
	q.Notes = notes
	q.Touch()
	q.IncrementVersion()
}

// StartReview moves the quotation into review. Buyer-only.
func (q *Quotation) StartReview(actor shared.ActorContext) error {
	if q.Status == QuotationStatusUnderReview {
		return nil // already under review, nothing to do
	}
	if err := quotationMachine.Authorize(q.Status, QuotationStatusUnderReview, actor.Class); err != nil {
		return err
	}

	now := time.Now()
	q.Status = QuotationStatusUnderReview
	q.ReviewedAt = &now
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationReviewStartedEvent(q))

	return nil
}

// Accept accepts the quotation. Buyer-only, terminal. Acceptance makes the
// quotation eligible for invoice generation; the invoice itself is created by
// an explicit follow-up action.
func (q *Quotation) Accept(actor shared.ActorContext) error {
	if err := quotationMachine.Authorize(q.Status, QuotationStatusAccepted, actor.Class); err != nil {
		return err
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.DecidedAt = &now
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationAcceptedEvent(q))

	return nil
}

// Reject rejects the quotation. Buyer-only, terminal.
func (q *Quotation) Reject(actor shared.ActorContext, reason string) error {
	if err := quotationMachine.Authorize(q.Status, QuotationStatusRejected, actor.Class); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewValidationError("Reject reason is required")
	}

	now := time.Now()
	q.Status = QuotationStatusRejected
	q.DecidedAt = &now
	q.RejectReason = reason
	q.Touch()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationRejectedEvent(q))

	return nil
}

// IsAccepted returns true once the buyer has accepted the quotation
func (q *Quotation) IsAccepted() bool {
	return q.Status == QuotationStatusAccepted
}

// IsUnsolicited returns true when the quotation answers neither an RFQ nor a
// purchase order
func (q *Quotation) IsUnsolicited() bool {
	return q.RFQID == nil && q.PurchaseOrderID == nil
}

// BelongsToSupplier reports whether the quotation was submitted by the given
// supplier
func (q *Quotation) BelongsToSupplier(supplierID uuid.UUID) bool {
	return q.SupplierID == supplierID
}
