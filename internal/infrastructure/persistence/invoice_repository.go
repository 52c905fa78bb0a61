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

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Invoice, error) {
	var inv procurement.Invoice
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds an invoice by its number for a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*procurement.Invoice, error) {
	var inv procurement.Invoice
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Payments").
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindAllForTenant finds all invoices for a tenant with filtering
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Invoice, error) {
	query := conn(ctx, r.db).Model(&procurement.Invoice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, InvoiceSortFields)

	return r.findInvoices(query)
}

// FindBySupplier finds invoices issued by a supplier
func (r *GormInvoiceRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.Invoice, error) {
	query := conn(ctx, r.db).Model(&procurement.Invoice{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, InvoiceSortFields)

	return r.findInvoices(query)
}

// FindByStatus finds invoices by status for a tenant
func (r *GormInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.InvoiceStatus, filter shared.Filter) ([]procurement.Invoice, error) {
	query := conn(ctx, r.db).Model(&procurement.Invoice{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, InvoiceSortFields)

	return r.findInvoices(query)
}

// FindBySourceQuotation finds the invoice generated from a quotation, if any
func (r *GormInvoiceRepository) FindBySourceQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*procurement.Invoice, error) {
	var inv procurement.Invoice
	if err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Payments").
		Where("tenant_id = ? AND source_quotation_id = ?", tenantID, quotationID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindOverdue finds unpaid invoices whose due date has passed
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Invoice, error) {
	query := conn(ctx, r.db).Model(&procurement.Invoice{}).
		Where("tenant_id = ? AND due_date < ? AND status IN ?", tenantID, time.Now(),
			[]procurement.InvoiceStatus{
				procurement.InvoiceStatusPending,
				procurement.InvoiceStatusApproved,
			})
	query = r.applyFilter(query, filter)
	query = applySortAndPagination(query, filter, InvoiceSortFields)

	return r.findInvoices(query)
}

func (r *GormInvoiceRepository) findInvoices(query *gorm.DB) ([]procurement.Invoice, error) {
	var invoices []procurement.Invoice
	if err := query.Preload("Lines").Preload("Payments").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its lines and payments.
// A duplicate source quotation maps to ALREADY_EXISTS: the unique index is
// the authoritative one-invoice-per-quotation guard.
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *procurement.Invoice) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "Payments").Save(inv).Error; err != nil {
			if isDuplicateKey(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		if err := replaceLineItems(tx, inv.ID, inv.Lines); err != nil {
			return err
		}

		return r.savePayments(tx, inv)
	})
}

// SaveWithLock saves with optimistic locking
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *procurement.Invoice) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		current, err := currentRowVersion(tx, &procurement.Invoice{}, inv.ID)
		if err != nil {
			return err
		}
		if current >= inv.Version {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(&procurement.Invoice{}).
			Where("id = ? AND version = ?", inv.ID, current).
			Updates(map[string]any{
				"shipping_charges":  inv.ShippingCharges,
				"document_discount": inv.DocumentDiscount,
				"subtotal":          inv.Subtotal,
				"total_discount":    inv.TotalDiscount,
				"total_tax":         inv.TotalTax,
				"total_amount":      inv.TotalAmount,
				"amount_paid":       inv.AmountPaid,
				"due_date":          inv.DueDate,
				"notes":             inv.Notes,
				"status":            inv.Status,
				"submitted_at":      inv.SubmittedAt,
				"approved_at":       inv.ApprovedAt,
				"paid_at":           inv.PaidAt,
				"cancelled_at":      inv.CancelledAt,
				"cancel_reason":     inv.CancelReason,
				"version":           inv.Version,
				"updated_at":        inv.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := replaceLineItems(tx, inv.ID, inv.Lines); err != nil {
			return err
		}

		return r.savePayments(tx, inv)
	})
}

// savePayments appends payment records. Payments are append-only.
func (r *GormInvoiceRepository) savePayments(tx *gorm.DB, inv *procurement.Invoice) error {
	for i := range inv.Payments {
		inv.Payments[i].InvoiceID = inv.ID
		if err := tx.Save(&inv.Payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountForTenant counts invoices for a tenant with optional filters
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&procurement.Invoice{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique invoice number for a tenant.
// Format: INV-YYYY-NNNN.
func (r *GormInvoiceRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", time.Now().Year())
	return nextDocumentNumber(conn(ctx, r.db), &procurement.Invoice{}, "invoice_number", tenantID, prefix)
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
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
		case "due_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("due_date <= ?", t)
			}
		case "due_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("due_date >= ?", t)
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

var _ procurement.InvoiceRepository = (*GormInvoiceRepository)(nil)
