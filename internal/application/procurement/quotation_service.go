package procurement

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QuotationService handles supplier quotation intake and buyer review
type QuotationService struct {
	quotationRepo   procurement.QuotationRepository
	rfqService      *RFQService
	eligibilityRepo procurement.InvoiceEligibilityRepository
	fileStore       shared.FileStore
	eventPublisher  shared.EventPublisher
	notifier        shared.Notifier
	txManager       shared.TransactionManager
	logger          *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo procurement.QuotationRepository,
	rfqService *RFQService,
	eligibilityRepo procurement.InvoiceEligibilityRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo:   quotationRepo,
		rfqService:      rfqService,
		eligibilityRepo: eligibilityRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactionManager sets the unit-of-work runner. Without one, multi-write
// operations degrade to sequential saves.
func (s *QuotationService) SetTransactionManager(txManager shared.TransactionManager) {
	s.txManager = txManager
}

// SetFileStore sets the store for uploaded quotation documents
func (s *QuotationService) SetFileStore(store shared.FileStore) {
	s.fileStore = store
}

// SetNotifier sets the supplier notifier
func (s *QuotationService) SetNotifier(notifier shared.Notifier) {
	s.notifier = notifier
}

// SubmitManual accepts an itemized quotation from the acting supplier.
// The quotation is fully built and validated before anything is written;
// when it answers an RFQ, the RFQ's quotation tracking and the quotation
// save commit in one unit, so a rejected submission leaves the RFQ as it was.
func (s *QuotationService) SubmitManual(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, req SubmitManualQuotationRequest) (*QuotationResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}

	number, err := s.quotationRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	q, err := procurement.NewManualQuotation(
		tenantID, number, actor.PartyID, req.SupplierName,
		req.RFQID, req.PurchaseOrderID,
		toDomainLineInputs(req.Lines), req.StatedTotal)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		q.SetNotes(req.Notes)
	}

	if err := s.persistSubmission(ctx, tenantID, actor, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

// SubmitFile accepts a file-backed quotation. The uploaded document is
// stored first; the quotation keeps only the opaque reference.
func (s *QuotationService) SubmitFile(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, req SubmitFileQuotationRequest) (*QuotationResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}
	if s.fileStore == nil {
		return nil, shared.NewDomainError("FILE_STORE_UNAVAILABLE", "File uploads are not configured")
	}
	if len(req.Content) == 0 {
		return nil, shared.NewValidationError("Uploaded file cannot be empty")
	}

	number, err := s.quotationRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	key := path.Join("tenants", tenantID.String(), "quotations",
		fmt.Sprintf("%s-%s", number, req.FileName))
	fileRef, err := s.fileStore.Put(ctx, key, req.Content, req.ContentType)
	if err != nil {
		return nil, err
	}

	q, err := procurement.NewFileQuotation(
		tenantID, number, actor.PartyID, req.SupplierName,
		req.RFQID, req.PurchaseOrderID, fileRef, req.TotalAmount)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		q.SetNotes(req.Notes)
	}

	if err := s.persistSubmission(ctx, tenantID, actor, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

// persistSubmission commits a new quotation. When the quotation answers an
// RFQ, the RFQ's invitation and double-submission guards run against the
// loaded RFQ and its tracking update lands in the same unit of work as the
// quotation save.
func (s *QuotationService) persistSubmission(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, q *procurement.Quotation) error {
	return s.runInTransaction(ctx, func(ctx context.Context) error {
		if q.RFQID != nil {
			if err := s.rfqService.RecordQuotation(ctx, tenantID, *q.RFQID, actor.PartyID); err != nil {
				return err
			}
		}
		return s.quotationRepo.Save(ctx, q)
	})
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// DownloadFile returns the uploaded document backing a file quotation
func (s *QuotationService) DownloadFile(ctx context.Context, tenantID, quotationID uuid.UUID) ([]byte, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}
	if q.FileRef == "" {
		return nil, shared.ErrNotFound
	}
	if s.fileStore == nil {
		return nil, shared.NewDomainError("FILE_STORE_UNAVAILABLE", "File uploads are not configured")
	}
	return s.fileStore.Get(ctx, q.FileRef)
}

// List retrieves quotations for a tenant with filtering and pagination
func (s *QuotationService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]QuotationResponse, int64, error) {
	domainFilter := toSharedFilter(filter)

	qs, err := s.quotationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quotationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuotationResponses(qs), total, nil
}

// ListByRFQ retrieves the quotations submitted against an RFQ
func (s *QuotationService) ListByRFQ(ctx context.Context, tenantID, rfqID uuid.UUID) ([]QuotationResponse, error) {
	qs, err := s.quotationRepo.FindByRFQ(ctx, tenantID, rfqID)
	if err != nil {
		return nil, err
	}
	return ToQuotationResponses(qs), nil
}

// ListBySupplier retrieves the acting supplier's own quotations
func (s *QuotationService) ListBySupplier(ctx context.Context, tenantID uuid.UUID, actor shared.ActorContext, filter ListFilter) ([]QuotationResponse, error) {
	if !actor.IsSupplier() {
		return nil, shared.ErrForbidden
	}
	qs, err := s.quotationRepo.FindBySupplier(ctx, tenantID, actor.PartyID, toSharedFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToQuotationResponses(qs), nil
}

// StartReview moves the quotation into review
func (s *QuotationService) StartReview(ctx context.Context, tenantID, quotationID uuid.UUID, actor shared.ActorContext) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := q.StartReview(actor); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

// Accept accepts the quotation and registers its invoice eligibility in the
// same unit of work, so an accepted quotation can never be left uninvoiceable.
// The per-quotation unique index keeps the gate single-use; the accepted event
// still goes out for notification-class consumers.
func (s *QuotationService) Accept(ctx context.Context, tenantID, quotationID uuid.UUID, actor shared.ActorContext) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := q.Accept(actor); err != nil {
		return nil, err
	}

	eligibility, err := procurement.NewInvoiceEligibility(q)
	if err != nil {
		return nil, err
	}

	err = s.runInTransaction(ctx, func(ctx context.Context) error {
		if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
			return err
		}
		if err := s.eligibilityRepo.Save(ctx, eligibility); err != nil {
			if shared.IsCode(err, shared.CodeAlreadyExists) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)
	s.notifyDecision(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

// Reject rejects the quotation
func (s *QuotationService) Reject(ctx context.Context, tenantID, quotationID uuid.UUID, actor shared.ActorContext, req RejectQuotationRequest) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := q.Reject(actor, req.Reason); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)
	s.notifyDecision(ctx, q)

	response := ToQuotationResponse(q)
	return &response, nil
}

func (s *QuotationService) runInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.WithinTransaction(ctx, fn)
}

func (s *QuotationService) publishEvents(ctx context.Context, q *procurement.Quotation) {
	if s.eventPublisher == nil {
		return
	}
	events := q.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish quotation events",
			zap.String("quotation_id", q.ID.String()),
			zap.Error(err),
		)
	}
	q.ClearDomainEvents()
}

func (s *QuotationService) notifyDecision(ctx context.Context, q *procurement.Quotation) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"quotation_id":      q.ID.String(),
		"submission_number": q.SubmissionNumber,
		"status":            string(q.Status),
	}
	if q.RejectReason != "" {
		payload["reason"] = q.RejectReason
	}
	if err := s.notifier.Notify(ctx, q.SupplierID, shared.TemplateQuotationDecision, payload); err != nil {
		s.logger.Warn("failed to notify supplier of quotation decision",
			zap.String("quotation_id", q.ID.String()),
			zap.Error(err),
		)
	}
}
