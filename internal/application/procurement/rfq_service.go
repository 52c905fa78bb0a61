package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RFQService handles RFQ business operations
type RFQService struct {
	rfqRepo        procurement.RFQRepository
	eventPublisher shared.EventPublisher
	notifier       shared.Notifier
	logger         *zap.Logger
}

// NewRFQService creates a new RFQService
func NewRFQService(rfqRepo procurement.RFQRepository, logger *zap.Logger) *RFQService {
	return &RFQService{
		rfqRepo: rfqRepo,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RFQService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier sets the supplier notifier
func (s *RFQService) SetNotifier(notifier shared.Notifier) {
	s.notifier = notifier
}

// Create creates a new RFQ in draft status
func (s *RFQService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, req CreateRFQRequest) (*RFQResponse, error) {
	if !actor.IsBuyer() {
		return nil, shared.ErrForbidden
	}

	rfqNumber, err := s.rfqRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	rfq, err := procurement.NewRFQ(tenantID, rfqNumber, req.Title, req.Deadline)
	if err != nil {
		return nil, err
	}

	for _, line := range toDomainLineInputs(req.Lines) {
		if _, err := rfq.AddLine(line); err != nil {
			return nil, err
		}
	}
	for _, sup := range req.Suppliers {
		if err := rfq.InviteSupplier(sup.SupplierID, sup.SupplierName); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		rfq.SetNotes(req.Notes)
	}

	if err := s.rfqRepo.Save(ctx, rfq); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rfq)

	response := ToRFQResponse(rfq)
	return &response, nil
}

// GetByID retrieves an RFQ by ID
func (s *RFQService) GetByID(ctx context.Context, tenantID, rfqID uuid.UUID) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}
	response := ToRFQResponse(rfq)
	return &response, nil
}

// List retrieves RFQs for a tenant with filtering and pagination
func (s *RFQService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]RFQListItemResponse, int64, error) {
	domainFilter := toSharedFilter(filter)

	rfqs, err := s.rfqRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.rfqRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRFQListItemResponses(rfqs), total, nil
}

// ListForSupplier retrieves open RFQs the supplier has been invited to
func (s *RFQService) ListForSupplier(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, filter ListFilter) ([]RFQListItemResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}

	rfqs, err := s.rfqRepo.FindInvitingSupplier(ctx, tenantID, actor.PartyID, toSharedFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToRFQListItemResponses(rfqs), nil
}

// AddLine adds a line to a draft RFQ
func (s *RFQService) AddLine(ctx context.Context, tenantID, rfqID uuid.UUID, req LineItemInput) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}

	if _, err := rfq.AddLine(toDomainLineInputs([]LineItemInput{req})[0]); err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return nil, err
	}

	response := ToRFQResponse(rfq)
	return &response, nil
}

// InviteSupplier adds a supplier to a draft RFQ's invitation set
func (s *RFQService) InviteSupplier(ctx context.Context, tenantID, rfqID uuid.UUID, req InvitedSupplierInput) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}

	if err := rfq.InviteSupplier(req.SupplierID, req.SupplierName); err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return nil, err
	}

	response := ToRFQResponse(rfq)
	return &response, nil
}

// Send transitions the RFQ to sent and notifies the invited suppliers.
// Notification failures are logged, never propagated: the transition stands
// once the save commits.
func (s *RFQService) Send(ctx context.Context, tenantID, rfqID uuid.UUID, actor shared.ActorContext) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}

	if err := rfq.Send(actor); err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rfq)
	s.notifySuppliers(ctx, rfq)

	response := ToRFQResponse(rfq)
	return &response, nil
}

// RecordQuotation marks a supplier's quotation as received on the RFQ.
// Called by QuotationService when a quotation referencing this RFQ arrives.
func (s *RFQService) RecordQuotation(ctx context.Context, tenantID, rfqID, supplierID uuid.UUID) error {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return err
	}

	if err := rfq.RecordQuotation(supplierID); err != nil {
		return err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return err
	}
	s.publishEvents(ctx, rfq)
	return nil
}

// Close closes the RFQ
func (s *RFQService) Close(ctx context.Context, tenantID, rfqID uuid.UUID, actor shared.ActorContext) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}

	if err := rfq.Close(actor); err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rfq)

	response := ToRFQResponse(rfq)
	return &response, nil
}

// Cancel cancels the RFQ
func (s *RFQService) Cancel(ctx context.Context, tenantID, rfqID uuid.UUID, actor shared.ActorContext, req CancelRequest) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForTenant(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}

	if err := rfq.Cancel(actor, req.Reason); err != nil {
		return nil, err
	}

	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rfq)

	response := ToRFQResponse(rfq)
	return &response, nil
}

func (s *RFQService) publishEvents(ctx context.Context, rfq *procurement.RFQ) {
	if s.eventPublisher == nil {
		return
	}
	events := rfq.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish RFQ events",
			zap.String("rfq_id", rfq.ID.String()),
			zap.Error(err),
		)
	}
	rfq.ClearDomainEvents()
}

func (s *RFQService) notifySuppliers(ctx context.Context, rfq *procurement.RFQ) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"rfq_id":     rfq.ID.String(),
		"rfq_number": rfq.RFQNumber,
		"title":      rfq.Title,
	}
	if rfq.Deadline != nil {
		payload["deadline"] = rfq.Deadline
	}
	for _, supplierID := range rfq.InvitedSupplierIDs() {
		if err := s.notifier.Notify(ctx, supplierID, shared.TemplateRFQInvitation, payload); err != nil {
			s.logger.Warn("failed to notify supplier of RFQ",
				zap.String("rfq_id", rfq.ID.String()),
				zap.String("supplier_id", supplierID.String()),
				zap.Error(err),
			)
		}
	}
}
