package handler

import (
	"github.com/gin-gonic/gin"
	app "github.com/procureflow/backend/internal/application/procurement"
)

// InvoiceHandler exposes invoice lifecycle endpoints
type InvoiceHandler struct {
	BaseHandler
	service *app.InvoiceService
}

// NewInvoiceHandler creates an InvoiceHandler
func NewInvoiceHandler(service *app.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /supplier/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req app.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateFromQuotation handles POST /supplier/invoices/from-quotation
func (h *InvoiceHandler) CreateFromQuotation(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req app.CreateInvoiceFromQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CreateFromQuotation(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter app.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListOwn handles GET /supplier/invoices, the supplier's own invoices
func (h *InvoiceHandler) ListOwn(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var filter app.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.service.ListForSupplier(c.Request.Context(), tenantID, actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, items)
}

// ListOverdue handles GET /invoices/overdue
func (h *InvoiceHandler) ListOverdue(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter app.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.service.ListOverdue(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, items)
}

// Submit handles POST /supplier/invoices/:id/submit
func (h *InvoiceHandler) Submit(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve handles POST /invoices/:id/approve
func (h *InvoiceHandler) Approve(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment handles POST /invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.RecordPayment(c.Request.Context(), tenantID, id, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), tenantID, id, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}
