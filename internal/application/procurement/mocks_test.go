package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockRFQRepository is a mock implementation of RFQRepository
type MockRFQRepository struct {
	mock.Mock
}

func (m *MockRFQRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.RFQ, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, rfqNumber string) (*procurement.RFQ, error) {
	args := m.Called(ctx, tenantID, rfqNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.RFQ, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.RFQStatus, filter shared.Filter) ([]procurement.RFQ, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindInvitingSupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.RFQ, error) {
	args := m.Called(ctx, tenantID, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) Save(ctx context.Context, rfq *procurement.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) SaveWithLock(ctx context.Context, rfq *procurement.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRFQRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockQuotationRepository is a mock implementation of QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByRFQ(ctx context.Context, tenantID, rfqID uuid.UUID) ([]procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, rfqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.QuotationStatus, filter shared.Filter) ([]procurement.Quotation, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *procurement.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) SaveWithLock(ctx context.Context, q *procurement.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindPendingReceipt(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *procurement.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status procurement.InvoiceStatus, filter shared.Filter) ([]procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindBySourceQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *procurement.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, inv *procurement.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockReceiptRepository is a mock implementation of ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PaymentReceipt, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PaymentReceipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByInvoiceID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*procurement.PaymentReceipt, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PaymentReceipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PaymentReceipt, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PaymentReceipt), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, r *procurement.PaymentReceipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockEligibilityRepository is a mock implementation of InvoiceEligibilityRepository
type MockEligibilityRepository struct {
	mock.Mock
}

func (m *MockEligibilityRepository) FindByQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*procurement.InvoiceEligibility, error) {
	args := m.Called(ctx, tenantID, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.InvoiceEligibility), args.Error(1)
}

func (m *MockEligibilityRepository) Save(ctx context.Context, e *procurement.InvoiceEligibility) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEligibilityRepository) Update(ctx context.Context, e *procurement.InvoiceEligibility) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockNotifier is a mock implementation of shared.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient uuid.UUID, kind shared.TemplateKind, payload map[string]any) error {
	args := m.Called(ctx, recipient, kind, payload)
	return args.Error(0)
}

// MockFileStore is a mock implementation of shared.FileStore
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Get(ctx context.Context, fileRef string) ([]byte, error) {
	args := m.Called(ctx, fileRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, fileRef string) error {
	args := m.Called(ctx, fileRef)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, token, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
