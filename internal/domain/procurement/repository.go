package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
)

// RFQRepository defines the interface for RFQ persistence
type RFQRepository interface {
	// FindByIDForTenant finds an RFQ by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RFQ, error)

	// FindByNumber finds an RFQ by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, rfqNumber string) (*RFQ, error)

	// FindAllForTenant finds all RFQs for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RFQ, error)

	// FindByStatus finds RFQs by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status RFQStatus, filter shared.Filter) ([]RFQ, error)

	// FindInvitingSupplier finds non-terminal RFQs the supplier is invited to
	FindInvitingSupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]RFQ, error)

	// Save creates or updates an RFQ
	Save(ctx context.Context, rfq *RFQ) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, rfq *RFQ) error

	// CountForTenant counts RFQs for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateNumber generates a unique RFQ number for a tenant
	GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByIDForTenant finds a quotation by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)

	// FindAllForTenant finds all quotations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByRFQ finds quotations submitted against an RFQ
	FindByRFQ(ctx context.Context, tenantID, rfqID uuid.UUID) ([]Quotation, error)

	// FindBySupplier finds quotations submitted by a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]Quotation, error)

	// FindByStatus finds quotations by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status QuotationStatus, filter shared.Filter) ([]Quotation, error)

	// Save creates or updates a quotation
	Save(ctx context.Context, q *Quotation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, q *Quotation) error

	// CountForTenant counts quotations for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateNumber generates a unique submission number for a tenant
	GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByIDForTenant finds a purchase order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByNumber finds a purchase order by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*PurchaseOrder, error)

	// FindAllForTenant finds all purchase orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders addressed to a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindPendingReceipt finds orders awaiting goods (CONFIRMED or PARTIALLY_RECEIVED)
	FindPendingReceipt(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, po *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, po *PurchaseOrder) error

	// CountForTenant counts purchase orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateNumber generates a unique PO number for a tenant
	GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindBySupplier finds invoices issued by a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByStatus finds invoices by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// FindBySourceQuotation finds the invoice generated from a quotation, if any
	FindBySourceQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*Invoice, error)

	// FindOverdue finds unpaid invoices whose due date has passed
	FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, inv *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, inv *Invoice) error

	// CountForTenant counts invoices for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateNumber generates a unique invoice number for a tenant
	GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// ReceiptRepository defines the interface for payment receipt persistence.
// Receipts are append-only; there is no update or delete.
type ReceiptRepository interface {
	// FindByIDForTenant finds a receipt by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReceipt, error)

	// FindByInvoiceID finds the receipt for an invoice, if one exists
	FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PaymentReceipt, error)

	// FindAllForTenant finds all receipts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PaymentReceipt, error)

	// Save persists a new receipt. Returns a duplicate error when a receipt
	// for the same invoice already exists.
	Save(ctx context.Context, r *PaymentReceipt) error

	// CountForTenant counts receipts for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateNumber generates a unique receipt number for a tenant
	GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// InvoiceEligibilityRepository defines the interface for invoice eligibility
// persistence
type InvoiceEligibilityRepository interface {
	// FindByQuotation finds the eligibility record for a quotation
	FindByQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*InvoiceEligibility, error)

	// Save persists an eligibility record. Returns a duplicate error when a
	// record for the same quotation already exists.
	Save(ctx context.Context, e *InvoiceEligibility) error

	// Update updates an existing eligibility record
	Update(ctx context.Context, e *InvoiceEligibility) error
}
