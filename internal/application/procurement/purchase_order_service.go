package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// receiptTokenTTL bounds how long a consumed goods-receipt token is remembered
// in the fast-path store. The database unique constraint remains authoritative
// after expiry.
const receiptTokenTTL = 24 * time.Hour

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	poRepo           procurement.PurchaseOrderRepository
	idempotencyStore shared.IdempotencyStore
	eventPublisher   shared.EventPublisher
	notifier         shared.Notifier
	logger           *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(poRepo procurement.PurchaseOrderRepository, logger *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{
		poRepo: poRepo,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore sets the fast-path store for receipt tokens
func (s *PurchaseOrderService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotencyStore = store
}

// SetNotifier sets the supplier notifier
func (s *PurchaseOrderService) SetNotifier(notifier shared.Notifier) {
	s.notifier = notifier
}

// Create creates a new purchase order in draft status
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if !actor.IsBuyer() {
		return nil, shared.ErrForbidden
	}

	poNumber, err := s.poRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	po, err := procurement.NewPurchaseOrder(
		tenantID, poNumber, req.SupplierID, req.SupplierName,
		req.WarehouseRef, req.PODate, req.ExpectedDeliveryDate,
		toDomainLineInputs(req.Lines),
		req.ShippingCharges, req.DocumentDiscount)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		po.SetNotes(req.Notes)
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, poID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// List retrieves purchase orders for a tenant with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := toSharedFilter(filter)

	pos, err := s.poRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.poRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(pos), total, nil
}

// ListForSupplier retrieves purchase orders addressed to the acting supplier
func (s *PurchaseOrderService) ListForSupplier(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, filter ListFilter) ([]PurchaseOrderListItemResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}
	pos, err := s.poRepo.FindBySupplier(ctx, tenantID, actor.PartyID, toSharedFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderListItemResponses(pos), nil
}

// Send transitions the PO to sent and notifies the supplier
func (s *PurchaseOrderService) Send(ctx context.Context, tenantID, poID uuid.UUID, actor shared.ActorContext) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}

	if err := po.Send(actor); err != nil {
		return nil, err
	}

	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po)
	s.notifySupplier(ctx, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Confirm records the supplier's confirmation. The acting supplier must be
// the one the order is addressed to.
func (s *PurchaseOrderService) Confirm(ctx context.Context, tenantID, poID uuid.UUID, actor shared.ActorContext) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if actor.IsSupplier() && !po.BelongsToSupplier(actor.PartyID) {
		return nil, shared.ErrForbidden
	}

	if err := po.Confirm(actor); err != nil {
		return nil, err
	}

	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// RecordReceipt applies a goods receipt against one PO line. Replays of the
// caller's idempotency token are rejected at three layers: the fast-path
// token store, the aggregate's applied-receipt log, and the unique token
// column the save ultimately hits.
func (s *PurchaseOrderService) RecordReceipt(ctx context.Context, tenantID, poID uuid.UUID, actor shared.ActorContext, req RecordReceiptRequest) (*PurchaseOrderResponse, error) {
	if !actor.IsBuyer() {
		return nil, shared.ErrForbidden
	}

	if s.idempotencyStore != nil {
		processed, err := s.idempotencyStore.IsProcessed(ctx, receiptTokenKey(poID, req.IdempotencyToken))
		if err != nil {
			s.logger.Warn("receipt token fast-path check failed",
				zap.String("po_id", poID.String()),
				zap.Error(err),
			)
		} else if processed {
			return nil, shared.NewDomainError(shared.CodeDuplicateReceipt,
				"A goods receipt with this token has already been applied")
		}
	}

	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}

	if _, err := po.RecordReceipt(req.LineID, req.Quantity, req.IdempotencyToken); err != nil {
		return nil, err
	}

	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}

	if s.idempotencyStore != nil {
		if _, err := s.idempotencyStore.MarkProcessed(ctx, receiptTokenKey(poID, req.IdempotencyToken), receiptTokenTTL); err != nil {
			s.logger.Warn("failed to mark receipt token as processed",
				zap.String("po_id", poID.String()),
				zap.Error(err),
			)
		}
	}
	s.publishEvents(ctx, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// Cancel cancels the purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, poID uuid.UUID, actor shared.ActorContext, req CancelRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}

	if err := po.Cancel(actor, req.Reason); err != nil {
		return nil, err
	}

	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

func receiptTokenKey(poID uuid.UUID, token string) string {
	return "po-receipt:" + poID.String() + ":" + token
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, po *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := po.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish purchase order events",
			zap.String("po_id", po.ID.String()),
			zap.Error(err),
		)
	}
	po.ClearDomainEvents()
}

func (s *PurchaseOrderService) notifySupplier(ctx context.Context, po *procurement.PurchaseOrder) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"po_id":        po.ID.String(),
		"po_number":    po.PONumber,
		"total_amount": po.TotalAmount.String(),
	}
	if err := s.notifier.Notify(ctx, po.SupplierID, shared.TemplatePOIssued, payload); err != nil {
		s.logger.Warn("failed to notify supplier of purchase order",
			zap.String("po_id", po.ID.String()),
			zap.Error(err),
		)
	}
}
