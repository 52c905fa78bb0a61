package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ==================== Shared line DTOs ====================

// LineItemInput represents one line in a create request
type LineItemInput struct {
	ProductRef  string          `json:"product_ref" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxRatePct  decimal.Decimal `json:"tax_rate_pct"`
}

// LineItemResponse represents a line with its derived amounts
type LineItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductRef     string          `json:"product_ref"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	TaxRatePct     decimal.Decimal `json:"tax_rate_pct"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

func toDomainLineInputs(inputs []LineItemInput) []procurement.LineItemInput {
	out := make([]procurement.LineItemInput, len(inputs))
	for i, in := range inputs {
		out[i] = procurement.LineItemInput{
			ProductRef:  in.ProductRef,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			DiscountPct: in.DiscountPct,
			TaxRatePct:  in.TaxRatePct,
		}
	}
	return out
}

func toLineItemResponse(l *procurement.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:             l.ID,
		ProductRef:     l.ProductRef,
		Description:    l.Description,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		DiscountPct:    l.DiscountPct,
		TaxRatePct:     l.TaxRatePct,
		Subtotal:       l.Subtotal,
		DiscountAmount: l.DiscountAmount,
		TaxAmount:      l.TaxAmount,
		LineTotal:      l.LineTotal,
	}
}

// ListFilter carries common pagination and ordering parameters
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ==================== RFQ DTOs ====================

// InvitedSupplierInput identifies a supplier to invite to an RFQ
type InvitedSupplierInput struct {
	SupplierID   uuid.UUID `json:"supplier_id" binding:"required"`
	SupplierName string    `json:"supplier_name" binding:"required,min=1,max=200"`
}

// CreateRFQRequest represents a request to create an RFQ
type CreateRFQRequest struct {
	Title     string                 `json:"title" binding:"required,min=1,max=200"`
	Notes     string                 `json:"notes"`
	Deadline  *time.Time             `json:"deadline"`
	Lines     []LineItemInput        `json:"lines" binding:"required,min=1,dive"`
	Suppliers []InvitedSupplierInput `json:"suppliers" binding:"dive"`
}

// InvitedSupplierResponse represents an invited supplier on an RFQ
type InvitedSupplierResponse struct {
	SupplierID   uuid.UUID  `json:"supplier_id"`
	SupplierName string     `json:"supplier_name"`
	QuotedAt     *time.Time `json:"quoted_at,omitempty"`
}

// RFQResponse represents a full RFQ
type RFQResponse struct {
	ID          uuid.UUID                 `json:"id"`
	RFQNumber   string                    `json:"rfq_number"`
	Title       string                    `json:"title"`
	Notes       string                    `json:"notes,omitempty"`
	Deadline    *time.Time                `json:"deadline,omitempty"`
	Status      procurement.RFQStatus     `json:"status"`
	Lines       []LineItemResponse        `json:"lines"`
	Suppliers   []InvitedSupplierResponse `json:"suppliers"`
	SentAt      *time.Time                `json:"sent_at,omitempty"`
	ClosedAt    *time.Time                `json:"closed_at,omitempty"`
	CancelledAt *time.Time                `json:"cancelled_at,omitempty"`
	Version     int                       `json:"version"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// ToRFQResponse maps an RFQ aggregate to its response shape
func ToRFQResponse(rfq *procurement.RFQ) RFQResponse {
	lines := make([]LineItemResponse, len(rfq.Lines))
	for i := range rfq.Lines {
		lines[i] = toLineItemResponse(&rfq.Lines[i])
	}
	suppliers := make([]InvitedSupplierResponse, len(rfq.Suppliers))
	for i, s := range rfq.Suppliers {
		suppliers[i] = InvitedSupplierResponse{
			SupplierID:   s.SupplierID,
			SupplierName: s.SupplierName,
			QuotedAt:     s.QuotedAt,
		}
	}
	return RFQResponse{
		ID:          rfq.ID,
		RFQNumber:   rfq.RFQNumber,
		Title:       rfq.Title,
		Notes:       rfq.Notes,
		Deadline:    rfq.Deadline,
		Status:      rfq.Status,
		Lines:       lines,
		Suppliers:   suppliers,
		SentAt:      rfq.SentAt,
		ClosedAt:    rfq.ClosedAt,
		CancelledAt: rfq.CancelledAt,
		Version:     rfq.Version,
		CreatedAt:   rfq.CreatedAt,
		UpdatedAt:   rfq.UpdatedAt,
	}
}

// RFQListItemResponse is the compact RFQ shape for list views
type RFQListItemResponse struct {
	ID          uuid.UUID             `json:"id"`
	RFQNumber   string                `json:"rfq_number"`
	Title       string                `json:"title"`
	Status      procurement.RFQStatus `json:"status"`
	Deadline    *time.Time            `json:"deadline,omitempty"`
	LineCount   int                   `json:"line_count"`
	QuotedCount int                   `json:"quoted_count"`
	Invited     int                   `json:"invited_count"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ToRFQListItemResponses maps RFQs to their list shape
func ToRFQListItemResponses(rfqs []procurement.RFQ) []RFQListItemResponse {
	out := make([]RFQListItemResponse, len(rfqs))
	for i := range rfqs {
		r := &rfqs[i]
		out[i] = RFQListItemResponse{
			ID:          r.ID,
			RFQNumber:   r.RFQNumber,
			Title:       r.Title,
			Status:      r.Status,
			Deadline:    r.Deadline,
			LineCount:   len(r.Lines),
			QuotedCount: r.QuotedCount(),
			Invited:     len(r.Suppliers),
			CreatedAt:   r.CreatedAt,
		}
	}
	return out
}

// CancelRequest carries the mandatory reason for cancelling a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ==================== Quotation DTOs ====================

// SubmitManualQuotationRequest represents an itemized quotation submission
type SubmitManualQuotationRequest struct {
	SupplierName    string           `json:"supplier_name" binding:"required,min=1,max=200"`
	RFQID           *uuid.UUID       `json:"rfq_id"`
	PurchaseOrderID *uuid.UUID       `json:"purchase_order_id"`
	Lines           []LineItemInput  `json:"lines" binding:"required,min=1,dive"`
	StatedTotal     *decimal.Decimal `json:"stated_total"`
	Notes           string           `json:"notes"`
}

// SubmitFileQuotationRequest represents a file-backed quotation submission.
// Content is the raw uploaded document; the engine stores it and keeps only
// the opaque reference.
type SubmitFileQuotationRequest struct {
	SupplierName    string          `json:"supplier_name" binding:"required,min=1,max=200"`
	RFQID           *uuid.UUID      `json:"rfq_id"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id"`
	FileName        string          `json:"file_name" binding:"required"`
	ContentType     string          `json:"content_type"`
	Content         []byte          `json:"content" binding:"required"`
	TotalAmount     decimal.Decimal `json:"total_amount" binding:"required"`
	Notes           string          `json:"notes"`
}

// RejectQuotationRequest carries the mandatory rejection reason
type RejectQuotationRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// QuotationResponse represents a full quotation
type QuotationResponse struct {
	ID               uuid.UUID                   `json:"id"`
	SubmissionNumber string                      `json:"submission_number"`
	RFQID            *uuid.UUID                  `json:"rfq_id,omitempty"`
	PurchaseOrderID  *uuid.UUID                  `json:"purchase_order_id,omitempty"`
	SupplierID       uuid.UUID                   `json:"supplier_id"`
	SupplierName     string                      `json:"supplier_name"`
	Type             procurement.QuotationType   `json:"type"`
	Status           procurement.QuotationStatus `json:"status"`
	Lines            []LineItemResponse          `json:"lines,omitempty"`
	FileRef          string                      `json:"file_ref,omitempty"`
	TotalAmount      decimal.Decimal             `json:"total_amount"`
	Notes            string                      `json:"notes,omitempty"`
	RejectReason     string                      `json:"reject_reason,omitempty"`
	ReviewedAt       *time.Time                  `json:"reviewed_at,omitempty"`
	DecidedAt        *time.Time                  `json:"decided_at,omitempty"`
	Version          int                         `json:"version"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// ToQuotationResponse maps a quotation aggregate to its response shape
func ToQuotationResponse(q *procurement.Quotation) QuotationResponse {
	lines := make([]LineItemResponse, len(q.Lines))
	for i := range q.Lines {
		lines[i] = toLineItemResponse(&q.Lines[i])
	}
	return QuotationResponse{
		ID:               q.ID,
		SubmissionNumber: q.SubmissionNumber,
		RFQID:            q.RFQID,
		PurchaseOrderID:  q.PurchaseOrderID,
		SupplierID:       q.SupplierID,
		SupplierName:     q.SupplierName,
		Type:             q.Type,
		Status:           q.Status,
		Lines:            lines,
		FileRef:          q.FileRef,
		TotalAmount:      q.TotalAmount,
		Notes:            q.Notes,
		RejectReason:     q.RejectReason,
		ReviewedAt:       q.ReviewedAt,
		DecidedAt:        q.DecidedAt,
		Version:          q.Version,
		CreatedAt:        q.CreatedAt,
	}
}

// ToQuotationResponses maps quotations to their response shape
func ToQuotationResponses(qs []procurement.Quotation) []QuotationResponse {
	out := make([]QuotationResponse, len(qs))
	for i := range qs {
		out[i] = ToQuotationResponse(&qs[i])
	}
	return out
}

// ==================== Purchase order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID       `json:"supplier_id" binding:"required"`
	SupplierName         string          `json:"supplier_name" binding:"required,min=1,max=200"`
	WarehouseRef         string          `json:"warehouse_ref" binding:"required,min=1,max=100"`
	PODate               time.Time       `json:"po_date" binding:"required"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	Lines                []LineItemInput `json:"lines" binding:"required,min=1,dive"`
	ShippingCharges      decimal.Decimal `json:"shipping_charges"`
	DocumentDiscount     decimal.Decimal `json:"document_discount"`
	Notes                string          `json:"notes"`
}

// RecordReceiptRequest represents a goods receipt against one PO line
type RecordReceiptRequest struct {
	LineID           uuid.UUID       `json:"line_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	IdempotencyToken string          `json:"idempotency_token" binding:"required,min=1,max=100"`
}

// POLineResponse represents a PO line including receipt progress
type POLineResponse struct {
	LineItemResponse
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	Remaining        decimal.Decimal `json:"remaining"`
}

// PurchaseOrderResponse represents a full purchase order
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                       `json:"id"`
	PONumber             string                          `json:"po_number"`
	SupplierID           uuid.UUID                       `json:"supplier_id"`
	SupplierName         string                          `json:"supplier_name"`
	WarehouseRef         string                          `json:"warehouse_ref"`
	PODate               time.Time                       `json:"po_date"`
	ExpectedDeliveryDate *time.Time                      `json:"expected_delivery_date,omitempty"`
	Status               procurement.PurchaseOrderStatus `json:"status"`
	Lines                []POLineResponse                `json:"lines"`
	ShippingCharges      decimal.Decimal                 `json:"shipping_charges"`
	DocumentDiscount     decimal.Decimal                 `json:"document_discount"`
	Subtotal             decimal.Decimal                 `json:"subtotal"`
	TotalDiscount        decimal.Decimal                 `json:"total_discount"`
	TotalTax             decimal.Decimal                 `json:"total_tax"`
	TotalAmount          decimal.Decimal                 `json:"total_amount"`
	Notes                string                          `json:"notes,omitempty"`
	SentAt               *time.Time                      `json:"sent_at,omitempty"`
	ConfirmedAt          *time.Time                      `json:"confirmed_at,omitempty"`
	ReceivedAt           *time.Time                      `json:"received_at,omitempty"`
	CancelledAt          *time.Time                      `json:"cancelled_at,omitempty"`
	Version              int                             `json:"version"`
	CreatedAt            time.Time                       `json:"created_at"`
	UpdatedAt            time.Time                       `json:"updated_at"`
}

// ToPurchaseOrderResponse maps a PO aggregate to its response shape
func ToPurchaseOrderResponse(po *procurement.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]POLineResponse, len(po.Lines))
	for i := range po.Lines {
		l := &po.Lines[i]
		lines[i] = POLineResponse{
			LineItemResponse: toLineItemResponse(&l.LineItem),
			QuantityReceived: l.QuantityReceived,
			Remaining:        l.RemainingQuantity(),
		}
	}
	return PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		SupplierName:         po.SupplierName,
		WarehouseRef:         po.WarehouseRef,
		PODate:               po.PODate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Status:               po.Status,
		Lines:                lines,
		ShippingCharges:      po.ShippingCharges,
		DocumentDiscount:     po.DocumentDiscount,
		Subtotal:             po.Subtotal,
		TotalDiscount:        po.TotalDiscount,
		TotalTax:             po.TotalTax,
		TotalAmount:          po.TotalAmount,
		Notes:                po.Notes,
		SentAt:               po.SentAt,
		ConfirmedAt:          po.ConfirmedAt,
		ReceivedAt:           po.ReceivedAt,
		CancelledAt:          po.CancelledAt,
		Version:              po.Version,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

// PurchaseOrderListItemResponse is the compact PO shape for list views
type PurchaseOrderListItemResponse struct {
	ID           uuid.UUID                       `json:"id"`
	PONumber     string                          `json:"po_number"`
	SupplierID   uuid.UUID                       `json:"supplier_id"`
	SupplierName string                          `json:"supplier_name"`
	Status       procurement.PurchaseOrderStatus `json:"status"`
	TotalAmount  decimal.Decimal                 `json:"total_amount"`
	PODate       time.Time                       `json:"po_date"`
	CreatedAt    time.Time                       `json:"created_at"`
}

// ToPurchaseOrderListItemResponses maps POs to their list shape
func ToPurchaseOrderListItemResponses(pos []procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	out := make([]PurchaseOrderListItemResponse, len(pos))
	for i := range pos {
		p := &pos[i]
		out[i] = PurchaseOrderListItemResponse{
			ID:           p.ID,
			PONumber:     p.PONumber,
			SupplierID:   p.SupplierID,
			SupplierName: p.SupplierName,
			Status:       p.Status,
			TotalAmount:  p.TotalAmount,
			PODate:       p.PODate,
			CreatedAt:    p.CreatedAt,
		}
	}
	return out
}

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a manual invoice submission. Either lines
// or a stated total must be present.
type CreateInvoiceRequest struct {
	SupplierName     string           `json:"supplier_name" binding:"required,min=1,max=255"`
	PurchaseOrderID  *uuid.UUID       `json:"purchase_order_id"`
	Lines            []LineItemInput  `json:"lines" binding:"dive"`
	StatedTotal      *decimal.Decimal `json:"stated_total"`
	ShippingCharges  decimal.Decimal  `json:"shipping_charges"`
	DocumentDiscount decimal.Decimal  `json:"document_discount"`
	FileRef          string           `json:"file_ref"`
	DueDate          time.Time        `json:"due_date" binding:"required"`
	Notes            string           `json:"notes"`
}

// CreateInvoiceFromQuotationRequest represents an invoice drawn from an
// accepted quotation. Lines and totals come from the quotation itself.
type CreateInvoiceFromQuotationRequest struct {
	QuotationID uuid.UUID `json:"quotation_id" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Notes       string    `json:"notes" binding:"max=500"`
}

// RecordPaymentRequest represents a payment applied against an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,min=1,max=50"`
	Reference string          `json:"reference" binding:"max=100"`
}

// PaymentResponse represents one applied payment
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

// InvoiceResponse represents a full invoice. Overdue is derived at response
// time and never persisted.
type InvoiceResponse struct {
	ID                uuid.UUID                 `json:"id"`
	InvoiceNumber     string                    `json:"invoice_number"`
	SupplierID        uuid.UUID                 `json:"supplier_id"`
	SupplierName      string                    `json:"supplier_name"`
	SourceQuotationID *uuid.UUID                `json:"source_quotation_id,omitempty"`
	PurchaseOrderID   *uuid.UUID                `json:"purchase_order_id,omitempty"`
	Status            procurement.InvoiceStatus `json:"status"`
	Lines             []LineItemResponse        `json:"lines,omitempty"`
	Payments          []PaymentResponse         `json:"payments,omitempty"`
	FileRef           string                    `json:"file_ref,omitempty"`
	ShippingCharges   decimal.Decimal           `json:"shipping_charges"`
	DocumentDiscount  decimal.Decimal           `json:"document_discount"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	TotalDiscount     decimal.Decimal           `json:"total_discount"`
	TotalTax          decimal.Decimal           `json:"total_tax"`
	TotalAmount       decimal.Decimal           `json:"total_amount"`
	AmountPaid        decimal.Decimal           `json:"amount_paid"`
	RemainingBalance  decimal.Decimal           `json:"remaining_balance"`
	DueDate           time.Time                 `json:"due_date"`
	IsOverdue         bool                      `json:"is_overdue"`
	Notes             string                    `json:"notes,omitempty"`
	SubmittedAt       *time.Time                `json:"submitted_at,omitempty"`
	ApprovedAt        *time.Time                `json:"approved_at,omitempty"`
	PaidAt            *time.Time                `json:"paid_at,omitempty"`
	Version           int                       `json:"version"`
	CreatedAt         time.Time                 `json:"created_at"`
}

// ToInvoiceResponse maps an invoice aggregate to its response shape
func ToInvoiceResponse(inv *procurement.Invoice) InvoiceResponse {
	lines := make([]LineItemResponse, len(inv.Lines))
	for i := range inv.Lines {
		lines[i] = toLineItemResponse(&inv.Lines[i])
	}
	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		}
	}
	return InvoiceResponse{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		SupplierID:        inv.SupplierID,
		SupplierName:      inv.SupplierName,
		SourceQuotationID: inv.SourceQuotationID,
		PurchaseOrderID:   inv.PurchaseOrderID,
		Status:            inv.Status,
		Lines:             lines,
		Payments:          payments,
		FileRef:           inv.FileRef,
		ShippingCharges:   inv.ShippingCharges,
		DocumentDiscount:  inv.DocumentDiscount,
		Subtotal:          inv.Subtotal,
		TotalDiscount:     inv.TotalDiscount,
		TotalTax:          inv.TotalTax,
		TotalAmount:       inv.TotalAmount,
		AmountPaid:        inv.AmountPaid,
		RemainingBalance:  inv.RemainingBalance(),
		DueDate:           inv.DueDate,
		IsOverdue:         inv.IsOverdue(time.Now()),
		Notes:             inv.Notes,
		SubmittedAt:       inv.SubmittedAt,
		ApprovedAt:        inv.ApprovedAt,
		PaidAt:            inv.PaidAt,
		Version:           inv.Version,
		CreatedAt:         inv.CreatedAt,
	}
}

// ToInvoiceResponses maps invoices to their response shape
func ToInvoiceResponses(invs []procurement.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invs))
	for i := range invs {
		out[i] = ToInvoiceResponse(&invs[i])
	}
	return out
}

// ==================== Receipt DTOs ====================

// GenerateReceiptRequest represents a request to generate a payment receipt
type GenerateReceiptRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,min=1,max=50"`
	Notes         string `json:"notes" binding:"max=500"`
}

// ReceiptResponse represents a payment receipt
type ReceiptResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	IssuedAt      time.Time       `json:"issued_at"`
}

// ToReceiptResponse maps a receipt aggregate to its response shape
func ToReceiptResponse(r *procurement.PaymentReceipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		InvoiceID:     r.InvoiceID,
		InvoiceNumber: r.InvoiceNumber,
		SupplierID:    r.SupplierID,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
		IssuedAt:      r.IssuedAt,
	}
}

// ToReceiptResponses maps receipts to their response shape
func ToReceiptResponses(rs []procurement.PaymentReceipt) []ReceiptResponse {
	out := make([]ReceiptResponse, len(rs))
	for i := range rs {
		out[i] = ToReceiptResponse(&rs[i])
	}
	return out
}

// toSharedFilter converts a ListFilter to the domain filter shape with
// defaults applied
func toSharedFilter(f ListFilter) shared.Filter {
	out := shared.DefaultFilter()
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		out.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		out.OrderDir = f.OrderDir
	}
	out.Search = f.Search
	if f.Status != "" {
		out.Filters["status"] = f.Status
	}
	return out
}
