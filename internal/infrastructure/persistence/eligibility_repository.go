package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormEligibilityRepository implements InvoiceEligibilityRepository using GORM
type GormEligibilityRepository struct {
	db *gorm.DB
}

// NewGormEligibilityRepository creates a new GormEligibilityRepository
func NewGormEligibilityRepository(db *gorm.DB) *GormEligibilityRepository {
	return &GormEligibilityRepository{db: db}
}

// FindByQuotation finds the eligibility record for a quotation
func (r *GormEligibilityRepository) FindByQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*procurement.InvoiceEligibility, error) {
	var e procurement.InvoiceEligibility
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND quotation_id = ?", tenantID, quotationID).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Save persists a new eligibility record. The per-quotation unique index
// absorbs redelivered acceptance events.
func (r *GormEligibilityRepository) Save(ctx context.Context, e *procurement.InvoiceEligibility) error {
	if err := conn(ctx, r.db).Create(e).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing eligibility record
func (r *GormEligibilityRepository) Update(ctx context.Context, e *procurement.InvoiceEligibility) error {
	result := conn(ctx, r.db).Model(&procurement.InvoiceEligibility{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"consumed_at": e.ConsumedAt,
			"invoice_id":  e.InvoiceID,
			"updated_at":  e.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ procurement.InvoiceEligibilityRepository = (*GormEligibilityRepository)(nil)
