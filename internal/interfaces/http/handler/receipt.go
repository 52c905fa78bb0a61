package handler

import (
	"github.com/gin-gonic/gin"
	app "github.com/procureflow/backend/internal/application/procurement"
)

// ReceiptHandler exposes payment receipt endpoints
type ReceiptHandler struct {
	BaseHandler
	service *app.ReceiptService
}

// NewReceiptHandler creates a ReceiptHandler
func NewReceiptHandler(service *app.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// Generate handles POST /invoices/:id/receipt. Repeated calls return the
// already-issued receipt; the service makes generation idempotent.
func (h *ReceiptHandler) Generate(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), tenantID, invoiceID, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
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

// GetByInvoice handles GET /invoices/:id/receipt
func (h *ReceiptHandler) GetByInvoice(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /receipts
func (h *ReceiptHandler) List(c *gin.Context) {
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
