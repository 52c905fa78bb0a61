package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
)

// InvoiceEligibility marks an accepted quotation as allowed to produce an
// invoice. Exactly one eligibility record exists per accepted quotation (the
// unique index on QuotationID enforces it), and it is consumed exactly once
// when the invoice is created. Acceptance therefore never creates the invoice
// itself; it only opens the gate.
type InvoiceEligibility struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_eligibility_quotation"`
	SupplierID  uuid.UUID `gorm:"type:uuid;not null"`
	ConsumedAt  *time.Time
	InvoiceID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceEligibility) TableName() string {
	return "invoice_eligibilities"
}

// NewInvoiceEligibility registers invoice eligibility for an accepted quotation
func NewInvoiceEligibility(q *Quotation) (*InvoiceEligibility, error) {
	if q == nil {
		return nil, shared.NewValidationError("Quotation is required")
	}
	if !q.IsAccepted() {
		return nil, shared.NewGuardFailedError("Only accepted quotations are eligible for invoicing")
	}

	now := time.Now()
	return &InvoiceEligibility{
		ID:          uuid.New(),
		TenantID:    q.TenantID,
		QuotationID: q.ID,
		SupplierID:  q.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsConsumed reports whether the eligibility has already produced an invoice
func (e *InvoiceEligibility) IsConsumed() bool {
	return e.ConsumedAt != nil
}

// Consume marks the eligibility as used by the given invoice
func (e *InvoiceEligibility) Consume(invoiceID uuid.UUID) error {
	if e.IsConsumed() {
		return shared.NewGuardFailedError("Quotation has already been invoiced")
	}

	now := time.Now()
	e.ConsumedAt = &now
	e.InvoiceID = &invoiceID
	e.UpdatedAt = now
	return nil
}
