package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRFQRepository implements RFQRepository using GORM
type GormRFQRepository struct {
	db *gorm.DB
}

// NewGormRFQRepository creates a new GormRFQRepository
func NewGormRFQRepository(db *gorm.DB) *GormRFQRepository {
	return &GormRFQRepository{db: db}
}

// FindByIDForTenant finds an RFQ by ID within a tenant
func (r *GormRFQRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.RFQ, error) {
	var rfq procurement.RFQ
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Suppliers").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rfq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// FindByNumber finds an RFQ by its number for a tenant
func (r *GormRFQRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, rfqNumber string) (*procurement.RFQ, error) {
	var rfq procurement.RFQ
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Suppliers").
		Where("tenant_id = ? AND rfq_number = ?", tenantID, rfqNumber).
		First(&rfq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// FindAllForTenant finds all RFQs for a tenant with filtering
func (r *GormRFQRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.RFQ, error) {
	query := conn(ctx, r.db).Model(&procurement.RFQ{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, RFQSortFields)

	var rfqs []procurement.RFQ
	if err := query.Preload("Lines").Preload("Suppliers").Find(&rfqs).Error; err != nil {
		return nil, err
	}
	return rfqs, nil
}

// FindByStatus finds RFQs by status for a tenant
func (r *GormRFQRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.RFQStatus, filter shared.Filter) ([]procurement.RFQ, error) {
	query := conn(ctx, r.db).Model(&procurement.RFQ{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, RFQSortFields)

	var rfqs []procurement.RFQ
	if err := query.Preload("Lines").Preload("Suppliers").Find(&rfqs).Error; err != nil {
		return nil, err
	}
	return rfqs, nil
}

// FindInvitingSupplier finds non-terminal RFQs the supplier is invited to
func (r *GormRFQRepository) FindInvitingSupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.RFQ, error) {
	query := conn(ctx, r.db).Model(&procurement.RFQ{}).
		Joins("JOIN rfq_suppliers ON rfq_suppliers.rfq_id = rfqs.id").
		Where("rfqs.tenant_id = ? AND rfq_suppliers.supplier_id = ?", tenantID, supplierID).
		Where("rfqs.status NOT IN ?", []procurement.RFQStatus{
			procurement.RFQStatusDraft,
			procurement.RFQStatusClosed,
			procurement.RFQStatusCancelled,
		})
	query = applySortAndPagination(query, filter, RFQSortFields)

	var rfqs []procurement.RFQ
	if err := query.Preload("Lines").Preload("Suppliers").Find(&rfqs).Error; err != nil {
		return nil, err
	}
	return rfqs, nil
}

// Save creates or updates an RFQ together with its lines and invitations
func (r *GormRFQRepository) Save(ctx context.Context, rfq *procurement.RFQ) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "Suppliers").Save(rfq).Error; err != nil {
			if isDuplicateKey(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		if err := replaceLineItems(tx, rfq.ID, rfq.Lines); err != nil {
			return err
		}

		return r.saveSuppliers(tx, rfq)
	})
}

// SaveWithLock saves with optimistic locking. The aggregate increments its
// version on every mutation, so the persisted row must still be behind the
// in-memory version for the write to be legal.
func (r *GormRFQRepository) SaveWithLock(ctx context.Context, rfq *procurement.RFQ) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		current, err := currentRowVersion(tx, &procurement.RFQ{}, rfq.ID)
		if err != nil {
			return err
		}
		if current >= rfq.Version {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&procurement.RFQ{}).
			Where("id = ? AND version = ?", rfq.ID, current).
			Updates(map[string]any{
				"title":         rfq.Title,
				"notes":         rfq.Notes,
				"deadline":      rfq.Deadline,
				"status":        rfq.Status,
				"sent_at":       rfq.SentAt,
				"closed_at":     rfq.ClosedAt,
				"cancelled_at":  rfq.CancelledAt,
				"cancel_reason": rfq.CancelReason,
				"version":       rfq.Version,
				"updated_at":    rfq.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := replaceLineItems(tx, rfq.ID, rfq.Lines); err != nil {
			return err
		}

		return r.saveSuppliers(tx, rfq)
	})
}

func (r *GormRFQRepository) saveSuppliers(tx *gorm.DB, rfq *procurement.RFQ) error {
	currentIDs := make([]uuid.UUID, len(rfq.Suppliers))
	for i := range rfq.Suppliers {
		currentIDs[i] = rfq.Suppliers[i].ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("rfq_id = ? AND id NOT IN ?", rfq.ID, currentIDs).
			Delete(&procurement.RFQSupplier{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("rfq_id = ?", rfq.ID).
			Delete(&procurement.RFQSupplier{}).Error; err != nil {
			return err
		}
	}

	for i := range rfq.Suppliers {
		rfq.Suppliers[i].RFQID = rfq.ID
		if err := tx.Save(&rfq.Suppliers[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// CountForTenant counts RFQs for a tenant with optional filters
func (r *GormRFQRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&procurement.RFQ{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique RFQ number for a tenant.
// Format: RFQ-YYYY-NNNN (e.g., RFQ-2026-0001).
func (r *GormRFQRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("RFQ-%d-", time.Now().Year())
	return nextDocumentNumber(conn(ctx, r.db), &procurement.RFQ{}, "rfq_number", tenantID, prefix)
}

func (r *GormRFQRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("rfq_number ILIKE ? OR title ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "deadline_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("deadline <= ?", t)
			}
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

// nextDocumentNumber finds the highest existing number with the given prefix
// and returns the next one in sequence
func nextDocumentNumber(db *gorm.DB, model any, column string, tenantID uuid.UUID, prefix string) (string, error) {
	var last struct{ Number string }
	err := db.Model(model).
		Select(column+" AS number").
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, prefix+"%").
		Order(column + " DESC").
		Take(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if err == nil && last.Number != "" {
		parts := strings.Split(last.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				next = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%04d", prefix, next), nil
}

var _ procurement.RFQRepository = (*GormRFQRepository)(nil)
