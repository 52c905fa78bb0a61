package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceiptService handles payment receipt generation and lookup
type ReceiptService struct {
	receiptRepo    procurement.ReceiptRepository
	invoiceRepo    procurement.InvoiceRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo procurement.ReceiptRepository,
	invoiceRepo procurement.InvoiceRepository,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Generate issues the payment receipt for a paid invoice. A repeated call
// returns the receipt issued the first time; when two calls race past the
// lookup, the unique invoice column rejects the second save and the winner's
// receipt is returned instead.
func (s *ReceiptService) Generate(ctx context.Context, tenantID, invoiceID uuid.UUID, actor shared.ActorContext, req GenerateReceiptRequest) (*ReceiptResponse, error) {
	if !actor.IsBuyer() {
		return nil, shared.ErrForbidden
	}

	existing, err := s.receiptRepo.FindByInvoiceID(ctx, tenantID, invoiceID)
	if err == nil {
		response := ToReceiptResponse(existing)
		return &response, nil
	}
	if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	receiptNumber, err := s.receiptRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	receipt, err := procurement.NewPaymentReceipt(receiptNumber, inv, req.PaymentMethod, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		if shared.IsCode(err, shared.CodeReceiptAlreadyExists) {
			winner, findErr := s.receiptRepo.FindByInvoiceID(ctx, tenantID, invoiceID)
			if findErr != nil {
				return nil, err
			}
			response := ToReceiptResponse(winner)
			return &response, nil
		}
		return nil, err
	}
	s.publishEvents(ctx, receipt)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves a receipt by ID
func (s *ReceiptService) GetByID(ctx context.Context, tenantID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByInvoice retrieves the receipt issued for an invoice
func (s *ReceiptService) GetByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByInvoiceID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves receipts for a tenant with filtering and pagination
func (s *ReceiptService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]ReceiptResponse, int64, error) {
	domainFilter := toSharedFilter(filter)

	receipts, err := s.receiptRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReceiptResponses(receipts), total, nil
}

func (s *ReceiptService) publishEvents(ctx context.Context, receipt *procurement.PaymentReceipt) {
	if s.eventPublisher == nil {
		return
	}
	events := receipt.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish receipt events",
			zap.String("receipt_id", receipt.ID.String()),
			zap.Error(err),
		)
	}
	receipt.ClearDomainEvents()
}
