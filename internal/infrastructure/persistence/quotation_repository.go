package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByIDForTenant finds a quotation by ID within a tenant
func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Quotation, error) {
	var q procurement.Quotation
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindAllForTenant finds all quotations for a tenant with filtering
func (r *GormQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Quotation, error) {
	query := conn(ctx, r.db).Model(&procurement.Quotation{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, QuotationSortFields)

	var quotations []procurement.Quotation
	if err := query.Preload("Lines").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByRFQ finds quotations submitted against an RFQ
func (r *GormQuotationRepository) FindByRFQ(ctx context.Context, tenantID, rfqID uuid.UUID) ([]procurement.Quotation, error) {
	var quotations []procurement.Quotation
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("tenant_id = ? AND rfq_id = ?", tenantID, rfqID).
		Order("created_at ASC").
		Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindBySupplier finds quotations submitted by a supplier
func (r *GormQuotationRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.Quotation, error) {
	query := conn(ctx, r.db).Model(&procurement.Quotation{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, QuotationSortFields)

	var quotations []procurement.Quotation
	if err := query.Preload("Lines").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByStatus finds quotations by status for a tenant
func (r *GormQuotationRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.QuotationStatus, filter shared.Filter) ([]procurement.Quotation, error) {
	query := conn(ctx, r.db).Model(&procurement.Quotation{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, QuotationSortFields)

	var quotations []procurement.Quotation
	if err := query.Preload("Lines").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// Save creates or updates a quotation together with its lines
func (r *GormQuotationRepository) Save(ctx context.Context, q *procurement.Quotation) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(q).Error; err != nil {
			if isDuplicateKey(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return replaceLineItems(tx, q.ID, q.Lines)
	})
}

// SaveWithLock saves with optimistic locking
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, q *procurement.Quotation) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		current, err := currentRowVersion(tx, &procurement.Quotation{}, q.ID)
		if err != nil {
			return err
		}
		if current >= q.Version {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&procurement.Quotation{}).
			Where("id = ? AND version = ?", q.ID, current).
			Updates(map[string]any{
				"status":        q.Status,
				"notes":         q.Notes,
				"total_amount":  q.TotalAmount,
				"file_ref":      q.FileRef,
				"reviewed_at":   q.ReviewedAt,
				"decided_at":    q.DecidedAt,
				"reject_reason": q.RejectReason,
				"version":       q.Version,
				"updated_at":    q.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return replaceLineItems(tx, q.ID, q.Lines)
	})
}

// CountForTenant counts quotations for a tenant with optional filters
func (r *GormQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&procurement.Quotation{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique submission number for a tenant.
// Format: QTN-YYYY-NNNN.
func (r *GormQuotationRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("QTN-%d-", time.Now().Year())
	return nextDocumentNumber(conn(ctx, r.db), &procurement.Quotation{}, "submission_number", tenantID, prefix)
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("submission_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "rfq_id":
			query = query.Where("rfq_id = ?", value)
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

var _ procurement.QuotationRepository = (*GormQuotationRepository)(nil)
