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

// GormReceiptRepository implements ReceiptRepository using GORM.
// Receipts are append-only; there is no update path.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByIDForTenant finds a receipt by ID within a tenant
func (r *GormReceiptRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PaymentReceipt, error) {
	var receipt procurement.PaymentReceipt
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByInvoiceID finds the receipt for an invoice, if one exists
func (r *GormReceiptRepository) FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*procurement.PaymentReceipt, error) {
	var receipt procurement.PaymentReceipt
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAllForTenant finds all receipts for a tenant with filtering
func (r *GormReceiptRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PaymentReceipt, error) {
	query := conn(ctx, r.db).Model(&procurement.PaymentReceipt{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, ReceiptSortFields)

	var receipts []procurement.PaymentReceipt
	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save persists a new receipt. The per-invoice unique index makes a second
// receipt for the same invoice fail with RECEIPT_ALREADY_EXISTS.
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *procurement.PaymentReceipt) error {
	if err := conn(ctx, r.db).Create(receipt).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError(shared.CodeReceiptAlreadyExists,
				"A receipt already exists for this invoice")
		}
		return err
	}
	return nil
}

// CountForTenant counts receipts for a tenant with optional filters
func (r *GormReceiptRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&procurement.PaymentReceipt{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique receipt number for a tenant.
// Format: RCP-YYYY-NNNN.
func (r *GormReceiptRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("RCP-%d-", time.Now().Year())
	return nextDocumentNumber(conn(ctx, r.db), &procurement.PaymentReceipt{}, "receipt_number", tenantID, prefix)
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR invoice_number ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "invoice_id":
			query = query.Where("invoice_id = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "issued_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("issued_at >= ?", t)
			}
		case "issued_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("issued_at <= ?", t)
			}
		}
	}

	return query
}

var _ procurement.ReceiptRepository = (*GormReceiptRepository)(nil)
