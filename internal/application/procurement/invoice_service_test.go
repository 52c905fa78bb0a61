package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testInvoiceNumber = "INV-2026-0001"

func newInvoiceService(invoiceRepo *MockInvoiceRepository, quotationRepo *MockQuotationRepository, eligibilityRepo *MockEligibilityRepository) *InvoiceService {
	return NewInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo, zap.NewNop())
}

func createAcceptedQuotation() *procurement.Quotation {
	q, _ := procurement.NewManualQuotation(
		testTenantID, testSubmissionNumber, testSupplierID, testSupplierName,
		nil, nil,
		[]procurement.LineItemInput{{
			ProductRef: "STEEL-ROD-12",
			Quantity:   decimal.NewFromInt(10),
			UnitPrice:  decimal.NewFromInt(10),
		}},
		nil)
	q.StartReview(testBuyerActor)
	q.Accept(testBuyerActor)
	q.ClearDomainEvents()
	return q
}

func createApprovedTestInvoice() *procurement.Invoice {
	inv, _ := procurement.NewInvoice(testTenantID, procurement.InvoiceParams{
		InvoiceNumber: testInvoiceNumber,
		SupplierID:    testSupplierID,
		SupplierName:  testSupplierName,
		Lines: []procurement.LineItemInput{{
			ProductRef: "STEEL-ROD-12",
			Quantity:   decimal.NewFromInt(10),
			UnitPrice:  decimal.NewFromInt(10),
		}},
		DueDate: time.Now().AddDate(0, 0, 30),
	})
	inv.Submit(testSupplierActor)
	inv.Approve(testBuyerActor)
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	t.Run("create draft invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		ctx := context.Background()

		invoiceRepo.On("GenerateNumber", mock.Anything, testTenantID).Return(testInvoiceNumber, nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.Invoice")).Return(nil)

		req := CreateInvoiceRequest{
			SupplierName: testSupplierName,
			Lines:        []LineItemInput{testLineInput()},
			DueDate:      time.Now().AddDate(0, 0, 30),
		}

		result, err := service.Create(ctx, testTenantID, testSupplierActor, req)

		assert.NoError(t, err)
		assert.Equal(t, testInvoiceNumber, result.InvoiceNumber)
		assert.Equal(t, procurement.InvoiceStatusDraft, result.Status)
		assert.Equal(t, testSupplierID, result.SupplierID)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("fail when actor is a buyer", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		ctx := context.Background()

		result, err := service.Create(ctx, testTenantID, testBuyerActor, CreateInvoiceRequest{})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
	})
}

func TestInvoiceService_CreateFromQuotation(t *testing.T) {
	t.Run("create from accepted quotation consumes eligibility", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		quotationRepo := new(MockQuotationRepository)
		eligibilityRepo := new(MockEligibilityRepository)
		service := newInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo)
		ctx := context.Background()

		q := createAcceptedQuotation()
		eligibility, _ := procurement.NewInvoiceEligibility(q)

		quotationRepo.On("FindByIDForTenant", mock.Anything, testTenantID, q.ID).Return(q, nil)
		eligibilityRepo.On("FindByQuotation", mock.Anything, testTenantID, q.ID).Return(eligibility, nil)
		invoiceRepo.On("GenerateNumber", mock.Anything, testTenantID).Return(testInvoiceNumber, nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.Invoice")).Return(nil)
		eligibilityRepo.On("Update", mock.Anything, eligibility).Return(nil)

		result, err := service.CreateFromQuotation(ctx, testTenantID, testSupplierActor, CreateInvoiceFromQuotationRequest{
			QuotationID: q.ID,
			DueDate:     time.Now().AddDate(0, 0, 30),
		})

		assert.NoError(t, err)
		assert.Equal(t, &q.ID, result.SourceQuotationID)
		assert.True(t, q.TotalAmount.Equal(result.TotalAmount))
		assert.True(t, eligibility.IsConsumed())
		invoiceRepo.AssertExpectations(t)
		eligibilityRepo.AssertExpectations(t)
	})

	t.Run("fail when the eligibility consume cannot be persisted", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		quotationRepo := new(MockQuotationRepository)
		eligibilityRepo := new(MockEligibilityRepository)
		service := newInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo)
		ctx := context.Background()

		q := createAcceptedQuotation()
		eligibility, _ := procurement.NewInvoiceEligibility(q)

		quotationRepo.On("FindByIDForTenant", mock.Anything, testTenantID, q.ID).Return(q, nil)
		eligibilityRepo.On("FindByQuotation", mock.Anything, testTenantID, q.ID).Return(eligibility, nil)
		invoiceRepo.On("GenerateNumber", mock.Anything, testTenantID).Return(testInvoiceNumber, nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.Invoice")).Return(nil)
		eligibilityRepo.On("Update", mock.Anything, eligibility).Return(shared.ErrConcurrencyConflict)

		result, err := service.CreateFromQuotation(ctx, testTenantID, testSupplierActor, CreateInvoiceFromQuotationRequest{
			QuotationID: q.ID,
			DueDate:     time.Now().AddDate(0, 0, 30),
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeConcurrencyConflict))
	})

	t.Run("fail when quotation has no eligibility", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		quotationRepo := new(MockQuotationRepository)
		eligibilityRepo := new(MockEligibilityRepository)
		service := newInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo)
		ctx := context.Background()

		q := createAcceptedQuotation()
		quotationRepo.On("FindByIDForTenant", mock.Anything, testTenantID, q.ID).Return(q, nil)
		eligibilityRepo.On("FindByQuotation", mock.Anything, testTenantID, q.ID).Return(nil, shared.ErrNotFound)

		result, err := service.CreateFromQuotation(ctx, testTenantID, testSupplierActor, CreateInvoiceFromQuotationRequest{
			QuotationID: q.ID,
			DueDate:     time.Now().AddDate(0, 0, 30),
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fail when eligibility is already consumed", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		quotationRepo := new(MockQuotationRepository)
		eligibilityRepo := new(MockEligibilityRepository)
		service := newInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo)
		ctx := context.Background()

		q := createAcceptedQuotation()
		eligibility, _ := procurement.NewInvoiceEligibility(q)
		eligibility.Consume(uuid.New())

		quotationRepo.On("FindByIDForTenant", mock.Anything, testTenantID, q.ID).Return(q, nil)
		eligibilityRepo.On("FindByQuotation", mock.Anything, testTenantID, q.ID).Return(eligibility, nil)

		result, err := service.CreateFromQuotation(ctx, testTenantID, testSupplierActor, CreateInvoiceFromQuotationRequest{
			QuotationID: q.ID,
			DueDate:     time.Now().AddDate(0, 0, 30),
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fail for a different supplier", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		quotationRepo := new(MockQuotationRepository)
		eligibilityRepo := new(MockEligibilityRepository)
		service := newInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo)
		ctx := context.Background()

		q := createAcceptedQuotation()
		quotationRepo.On("FindByIDForTenant", mock.Anything, testTenantID, q.ID).Return(q, nil)

		result, err := service.CreateFromQuotation(ctx, testTenantID, shared.SupplierActor(uuid.New()), CreateInvoiceFromQuotationRequest{
			QuotationID: q.ID,
			DueDate:     time.Now().AddDate(0, 0, 30),
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
	})
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	t.Run("partial then final payment settles the invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		notifier := new(MockNotifier)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		service.SetNotifier(notifier)
		ctx := context.Background()

		inv := createApprovedTestInvoice()
		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
		notifier.On("Notify", mock.Anything, testSupplierID, shared.TemplateInvoicePaid, mock.Anything).Return(nil)

		partial, err := service.RecordPayment(ctx, testTenantID, inv.ID, testBuyerActor, RecordPaymentRequest{
			Amount: decimal.NewFromInt(40),
			Method: "WIRE",
		})
		assert.NoError(t, err)
		assert.Equal(t, procurement.InvoiceStatusApproved, partial.Status)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		final, err := service.RecordPayment(ctx, testTenantID, inv.ID, testBuyerActor, RecordPaymentRequest{
			Amount: decimal.NewFromInt(60),
			Method: "WIRE",
		})
		assert.NoError(t, err)
		assert.Equal(t, procurement.InvoiceStatusPaid, final.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		ctx := context.Background()

		inv := createApprovedTestInvoice()
		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)

		result, err := service.RecordPayment(ctx, testTenantID, inv.ID, testBuyerActor, RecordPaymentRequest{
			Amount: decimal.NewFromInt(101),
			Method: "WIRE",
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeOverpayment))
		invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("fail when actor is a supplier", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		ctx := context.Background()

		result, err := service.RecordPayment(ctx, testTenantID, uuid.New(), testSupplierActor, RecordPaymentRequest{
			Amount: decimal.NewFromInt(10),
			Method: "WIRE",
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
	})
}

func TestInvoiceService_Submit(t *testing.T) {
	t.Run("owner submits and buyer is notified", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		notifier := new(MockNotifier)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		service.SetNotifier(notifier)
		ctx := context.Background()

		inv, _ := procurement.NewInvoice(testTenantID, procurement.InvoiceParams{
			InvoiceNumber: testInvoiceNumber,
			SupplierID:    testSupplierID,
			SupplierName:  testSupplierName,
			Lines: []procurement.LineItemInput{{
				ProductRef: "STEEL-ROD-12",
				Quantity:   decimal.NewFromInt(10),
				UnitPrice:  decimal.NewFromInt(10),
			}},
			DueDate: time.Now().AddDate(0, 0, 30),
		})
		inv.ClearDomainEvents()

		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, inv).Return(nil)
		notifier.On("Notify", mock.Anything, testTenantID, shared.TemplateInvoiceIssued, mock.Anything).Return(nil)

		result, err := service.Submit(ctx, testTenantID, inv.ID, testSupplierActor)

		assert.NoError(t, err)
		assert.Equal(t, procurement.InvoiceStatusPending, result.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("fail for a supplier that does not own the invoice", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		ctx := context.Background()

		inv := createApprovedTestInvoice()
		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)

		result, err := service.Submit(ctx, testTenantID, inv.ID, shared.SupplierActor(uuid.New()))

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
	})
}

func TestInvoiceService_ListOverdue(t *testing.T) {
	t.Run("overdue invoices surface the derived flag", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		service := newInvoiceService(invoiceRepo, new(MockQuotationRepository), new(MockEligibilityRepository))
		ctx := context.Background()

		inv, _ := procurement.NewInvoice(testTenantID, procurement.InvoiceParams{
			InvoiceNumber: testInvoiceNumber,
			SupplierID:    testSupplierID,
			SupplierName:  testSupplierName,
			Lines: []procurement.LineItemInput{{
				ProductRef: "STEEL-ROD-12",
				Quantity:   decimal.NewFromInt(10),
				UnitPrice:  decimal.NewFromInt(10),
			}},
			DueDate: time.Now().AddDate(0, 0, -5),
		})

		invoiceRepo.On("FindOverdue", mock.Anything, testTenantID, mock.Anything).Return([]procurement.Invoice{*inv}, nil)

		result, err := service.ListOverdue(ctx, testTenantID, ListFilter{})

		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.True(t, result[0].IsOverdue)
		invoiceRepo.AssertExpectations(t)
	})
}
