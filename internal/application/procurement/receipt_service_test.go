package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testReceiptNumber = "RCP-2026-0001"

func createPaidTestInvoice() *procurement.Invoice {
	inv := createApprovedTestInvoice()
	inv.RecordPayment(decimal.NewFromInt(100), "WIRE", "wire-778")
	inv.ClearDomainEvents()
	return inv
}

func TestReceiptService_Generate(t *testing.T) {
	t.Run("generate receipt for paid invoice", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewReceiptService(receiptRepo, invoiceRepo, zap.NewNop())
		ctx := context.Background()

		inv := createPaidTestInvoice()
		receiptRepo.On("FindByInvoiceID", mock.Anything, testTenantID, inv.ID).Return(nil, shared.ErrNotFound)
		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)
		receiptRepo.On("GenerateNumber", mock.Anything, testTenantID).Return(testReceiptNumber, nil)
		receiptRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PaymentReceipt")).Return(nil)

		result, err := service.Generate(ctx, testTenantID, inv.ID, testBuyerActor, GenerateReceiptRequest{
			PaymentMethod: "WIRE",
		})

		assert.NoError(t, err)
		assert.Equal(t, testReceiptNumber, result.ReceiptNumber)
		assert.Equal(t, inv.ID, result.InvoiceID)
		assert.True(t, inv.TotalAmount.Equal(result.Amount))
		receiptRepo.AssertExpectations(t)
	})

	t.Run("repeat call returns the existing receipt", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewReceiptService(receiptRepo, invoiceRepo, zap.NewNop())
		ctx := context.Background()

		inv := createPaidTestInvoice()
		existing, _ := procurement.NewPaymentReceipt(testReceiptNumber, inv, "WIRE", "")
		receiptRepo.On("FindByInvoiceID", mock.Anything, testTenantID, inv.ID).Return(existing, nil)

		result, err := service.Generate(ctx, testTenantID, inv.ID, testBuyerActor, GenerateReceiptRequest{
			PaymentMethod: "WIRE",
		})

		assert.NoError(t, err)
		assert.Equal(t, existing.ID, result.ID)
		receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		invoiceRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing a save race returns the winner's receipt", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewReceiptService(receiptRepo, invoiceRepo, zap.NewNop())
		ctx := context.Background()

		inv := createPaidTestInvoice()
		winner, _ := procurement.NewPaymentReceipt(testReceiptNumber, inv, "WIRE", "")

		receiptRepo.On("FindByInvoiceID", mock.Anything, testTenantID, inv.ID).Return(nil, shared.ErrNotFound).Once()
		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)
		receiptRepo.On("GenerateNumber", mock.Anything, testTenantID).Return("RCP-2026-0002", nil)
		receiptRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PaymentReceipt")).
			Return(shared.NewDomainError(shared.CodeReceiptAlreadyExists, "A receipt already exists for this invoice"))
		receiptRepo.On("FindByInvoiceID", mock.Anything, testTenantID, inv.ID).Return(winner, nil).Once()

		result, err := service.Generate(ctx, testTenantID, inv.ID, testBuyerActor, GenerateReceiptRequest{
			PaymentMethod: "WIRE",
		})

		assert.NoError(t, err)
		assert.Equal(t, winner.ID, result.ID)
		receiptRepo.AssertExpectations(t)
	})

	t.Run("fail for an unpaid invoice", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewReceiptService(receiptRepo, invoiceRepo, zap.NewNop())
		ctx := context.Background()

		inv := createApprovedTestInvoice()
		receiptRepo.On("FindByInvoiceID", mock.Anything, testTenantID, inv.ID).Return(nil, shared.ErrNotFound)
		invoiceRepo.On("FindByIDForTenant", mock.Anything, testTenantID, inv.ID).Return(inv, nil)
		receiptRepo.On("GenerateNumber", mock.Anything, testTenantID).Return(testReceiptNumber, nil)

		result, err := service.Generate(ctx, testTenantID, inv.ID, testBuyerActor, GenerateReceiptRequest{
			PaymentMethod: "WIRE",
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeGuardFailed))
		receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fail when actor is a supplier", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewReceiptService(receiptRepo, invoiceRepo, zap.NewNop())
		ctx := context.Background()

		inv := createPaidTestInvoice()
		result, err := service.Generate(ctx, testTenantID, inv.ID, testSupplierActor, GenerateReceiptRequest{
			PaymentMethod: "WIRE",
		})

		assert.Nil(t, result)
		assert.True(t, shared.IsCode(err, shared.CodeForbiddenActor))
	})
}

func TestReceiptService_GetByInvoice(t *testing.T) {
	t.Run("lookup by invoice", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		invoiceRepo := new(MockInvoiceRepository)
		service := NewReceiptService(receiptRepo, invoiceRepo, zap.NewNop())
		ctx := context.Background()

		inv := createPaidTestInvoice()
		receipt, _ := procurement.NewPaymentReceipt(testReceiptNumber, inv, "WIRE", "")
		receiptRepo.On("FindByInvoiceID", mock.Anything, testTenantID, inv.ID).Return(receipt, nil)

		result, err := service.GetByInvoice(ctx, testTenantID, inv.ID)

		assert.NoError(t, err)
		assert.Equal(t, receipt.ID, result.ID)
		assert.WithinDuration(t, time.Now(), result.IssuedAt, time.Minute)
	})
}
