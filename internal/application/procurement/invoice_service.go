package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService handles vendor invoice business operations
type InvoiceService struct {
	invoiceRepo     procurement.InvoiceRepository
	quotationRepo   procurement.QuotationRepository
	eligibilityRepo procurement.InvoiceEligibilityRepository
	eventPublisher  shared.EventPublisher
	notifier        shared.Notifier
	txManager       shared.TransactionManager
	logger          *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo procurement.InvoiceRepository,
	quotationRepo procurement.QuotationRepository,
	eligibilityRepo procurement.InvoiceEligibilityRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		quotationRepo:   quotationRepo,
		eligibilityRepo: eligibilityRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier sets the supplier notifier
func (s *InvoiceService) SetNotifier(notifier shared.Notifier) {
	s.notifier = notifier
}

// SetTransactionManager sets the unit-of-work runner. Without one, multi-write
// operations degrade to sequential saves.
func (s *InvoiceService) SetTransactionManager(txManager shared.TransactionManager) {
	s.txManager = txManager
}

// Create creates a draft invoice authored directly by the acting supplier
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}

	invoiceNumber, err := s.invoiceRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	inv, err := procurement.NewInvoice(tenantID, procurement.InvoiceParams{
		InvoiceNumber:    invoiceNumber,
		SupplierID:       actor.PartyID,
		SupplierName:     req.SupplierName,
		PurchaseOrderID:  req.PurchaseOrderID,
		Lines:            toDomainLineInputs(req.Lines),
		StatedTotal:      req.StatedTotal,
		FileRef:          req.FileRef,
		ShippingCharges:  req.ShippingCharges,
		DocumentDiscount: req.DocumentDiscount,
		DueDate:          req.DueDate,
		Notes:            req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// CreateFromQuotation creates a draft invoice from an accepted quotation,
// consuming its one-shot eligibility record. Lines, totals and the file
// reference carry over from the quotation. The invoice save and the
// eligibility consumption commit in one unit of work; the unique
// source-quotation column backstops the eligibility check under concurrent
// calls.
func (s *InvoiceService) CreateFromQuotation(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, req CreateInvoiceFromQuotationRequest) (*InvoiceResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}

	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, req.QuotationID)
	if err != nil {
		return nil, err
	}
	if !q.BelongsToSupplier(actor.PartyID) {
		return nil, shared.ErrForbidden
	}

	eligibility, err := s.eligibilityRepo.FindByQuotation(ctx, tenantID, q.ID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewGuardFailedError("Quotation is not eligible for invoicing")
		}
		return nil, err
	}
	if eligibility.IsConsumed() {
		return nil, shared.NewGuardFailedError("An invoice has already been created from this quotation")
	}

	invoiceNumber, err := s.invoiceRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	params := procurement.InvoiceParams{
		InvoiceNumber:     invoiceNumber,
		SupplierID:        q.SupplierID,
		SupplierName:      q.SupplierName,
		SourceQuotationID: &q.ID,
		PurchaseOrderID:   q.PurchaseOrderID,
		DueDate:           req.DueDate,
		Notes:             req.Notes,
	}
	if len(q.Lines) > 0 {
		params.Lines = quotationLineInputs(q.Lines)
	} else {
		total := q.TotalAmount
		params.StatedTotal = &total
		params.FileRef = q.FileRef
	}

	inv, err := procurement.NewInvoice(tenantID, params)
	if err != nil {
		return nil, err
	}
	if err := eligibility.Consume(inv.ID); err != nil {
		return nil, err
	}

	err = s.runInTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return err
		}
		return s.eligibilityRepo.Update(ctx, eligibility)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices for a tenant with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := toSharedFilter(filter)

	invs, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invs), total, nil
}

// ListForSupplier retrieves the acting supplier's own invoices
func (s *InvoiceService) ListForSupplier(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, filter ListFilter) ([]InvoiceResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}
	invs, err := s.invoiceRepo.FindBySupplier(ctx, tenantID, actor.PartyID, toSharedFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invs), nil
}

// ListOverdue retrieves unpaid invoices whose due date has passed
func (s *InvoiceService) ListOverdue(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]InvoiceResponse, error) {
	invs, err := s.invoiceRepo.FindOverdue(ctx, tenantID, toSharedFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invs), nil
}

// Submit transitions the invoice to pending. The acting supplier must own it.
func (s *InvoiceService) Submit(ctx context.Context, tenantID, invoiceID uuid.UUID, actor shared.ActorContext) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if actor.IsSupplier() && !inv.BelongsToSupplier(actor.PartyID) {
		return nil, shared.ErrForbidden
	}

	if err := inv.Submit(actor); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)
	s.notifyIssued(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Approve approves a pending invoice for payment
func (s *InvoiceService) Approve(ctx context.Context, tenantID, invoiceID uuid.UUID, actor shared.ActorContext) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Approve(actor); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RecordPayment applies a payment against an approved invoice. When the
// payment settles the full amount the invoice moves to paid and the supplier
// is notified.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, actor shared.ActorContext, req RecordPaymentRequest) (*InvoiceResponse, error) {
	if !actor.IsBuyer() {
		return nil, shared.ErrForbidden
	}

	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if _, err := inv.RecordPayment(req.Amount, req.Method, req.Reference); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)
	if inv.IsPaid() {
		s.notifyPaid(ctx, inv)
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Cancel cancels the invoice
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID, actor shared.ActorContext, req CancelRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if actor.IsSupplier() && !inv.BelongsToSupplier(actor.PartyID) {
		return nil, shared.ErrForbidden
	}

	if err := inv.Cancel(actor, req.Reason); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// quotationLineInputs re-derives line inputs from a quotation's stored lines
// so the invoice computes its own amounts from the same terms
func quotationLineInputs(lines []procurement.LineItem) []procurement.LineItemInput {
	inputs := make([]procurement.LineItemInput, len(lines))
	for i, l := range lines {
		inputs[i] = procurement.LineItemInput{
			ProductRef:  l.ProductRef,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
			TaxRatePct:  l.TaxRatePct,
		}
	}
	return inputs
}

func (s *InvoiceService) runInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.WithinTransaction(ctx, fn)
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *procurement.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
	inv.ClearDomainEvents()
}

// notifyIssued addresses the buyer organization, which shares the tenant's ID
func (s *InvoiceService) notifyIssued(ctx context.Context, inv *procurement.Invoice) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"invoice_id":     inv.ID.String(),
		"invoice_number": inv.InvoiceNumber,
		"supplier_name":  inv.SupplierName,
		"total_amount":   inv.TotalAmount.String(),
		"due_date":       inv.DueDate,
	}
	if err := s.notifier.Notify(ctx, inv.TenantID, shared.TemplateInvoiceIssued, payload); err != nil {
		s.logger.Warn("failed to notify buyer of invoice submission",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *InvoiceService) notifyPaid(ctx context.Context, inv *procurement.Invoice) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"invoice_id":     inv.ID.String(),
		"invoice_number": inv.InvoiceNumber,
		"total_amount":   inv.TotalAmount.String(),
	}
	if err := s.notifier.Notify(ctx, inv.SupplierID, shared.TemplateInvoicePaid, payload); err != nil {
		s.logger.Warn("failed to notify supplier of invoice payment",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}
