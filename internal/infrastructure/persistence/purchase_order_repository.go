package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant finds a purchase order by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Receipts").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByNumber finds a purchase order by its number for a tenant
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Receipts").
		Where("tenant_id = ? AND po_number = ?", tenantID, poNumber).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindAllForTenant finds all purchase orders for a tenant with filtering
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := conn(ctx, r.db).Model(&procurement.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, PurchaseOrderSortFields)

	return r.findOrders(query)
}

// FindBySupplier finds purchase orders addressed to a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := conn(ctx, r.db).Model(&procurement.PurchaseOrder{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, PurchaseOrderSortFields)

	return r.findOrders(query)
}

// FindByStatus finds purchase orders by status for a tenant
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := conn(ctx, r.db).Model(&procurement.PurchaseOrder{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, PurchaseOrderSortFields)

	return r.findOrders(query)
}

// FindPendingReceipt finds orders still awaiting goods
func (r *GormPurchaseOrderRepository) FindPendingReceipt(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := conn(ctx, r.db).Model(&procurement.PurchaseOrder{}).
		Where("tenant_id = ? AND status IN ?", tenantID, []procurement.PurchaseOrderStatus{
			procurement.POStatusConfirmed,
			procurement.POStatusPartiallyReceived,
		})
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, PurchaseOrderSortFields)

	return r.findOrders(query)
}

func (r *GormPurchaseOrderRepository) findOrders(query *gorm.DB) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	if err := query.Preload("Lines").Preload("Receipts").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order together with its lines and receipts
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "Receipts").Save(po).Error; err != nil {
			if isDuplicateKey(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		if err := r.savePOLines(tx, po); err != nil {
			return err
		}

		return r.saveReceiptEntries(tx, po)
	})
}

// SaveWithLock saves with optimistic locking
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *procurement.PurchaseOrder) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		current, err := currentRowVersion(tx, &procurement.PurchaseOrder{}, po.ID)
		if err != nil {
			return err
		}
		if current >= po.Version {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ? AND version = ?", po.ID, current).
			Updates(map[string]any{
				"notes":             po.Notes,
				"shipping_charges":  po.ShippingCharges,
				"document_discount": po.DocumentDiscount,
				"subtotal":          po.Subtotal,
				"total_discount":    po.TotalDiscount,
				"total_tax":         po.TotalTax,
				"total_amount":      po.TotalAmount,
				"status":            po.Status,
				"sent_at":           po.SentAt,
				"confirmed_at":      po.ConfirmedAt,
				"received_at":       po.ReceivedAt,
				"cancelled_at":      po.CancelledAt,
				"cancel_reason":     po.CancelReason,
				"version":           po.Version,
				"updated_at":        po.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := r.savePOLines(tx, po); err != nil {
			return err
		}

		return r.saveReceiptEntries(tx, po)
	})
}

func (r *GormPurchaseOrderRepository) savePOLines(tx *gorm.DB, po *procurement.PurchaseOrder) error {
	currentIDs := make([]uuid.UUID, len(po.Lines))
	for i := range po.Lines {
		currentIDs[i] = po.Lines[i].ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", po.ID, currentIDs).
			Delete(&procurement.POLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", po.ID).
			Delete(&procurement.POLine{}).Error; err != nil {
			return err
		}
	}

	for i := range po.Lines {
		po.Lines[i].DocumentID = po.ID
		if err := tx.Save(&po.Lines[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// saveReceiptEntries appends new goods-receipt entries. Entries are
// append-only; the unique token index turns a replayed receipt that slipped
// past the in-memory checks into a DUPLICATE_RECEIPT error.
func (r *GormPurchaseOrderRepository) saveReceiptEntries(tx *gorm.DB, po *procurement.PurchaseOrder) error {
	for i := range po.Receipts {
		po.Receipts[i].PurchaseOrderID = po.ID
		err := tx.Save(&po.Receipts[i]).Error
		if err != nil {
			if isDuplicateKey(err) {
				return shared.NewDomainError(shared.CodeDuplicateReceipt,
					"A goods receipt with this token has already been applied")
			}
			return err
		}
	}
	return nil
}

// CountForTenant counts purchase orders for a tenant with optional filters
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&procurement.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique PO number for a tenant.
// Format: PO-YYYY-NNNN.
func (r *GormPurchaseOrderRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("PO-%d-", time.Now().Year())
	return nextDocumentNumber(conn(ctx, r.db), &procurement.PurchaseOrder{}, "po_number", tenantID, prefix)
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("po_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("po_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("po_date <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("total_amount >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("total_amount <= ?", d)
			}
		}
	}

	return query
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
