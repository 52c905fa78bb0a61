package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	app "github.com/procureflow/backend/internal/application/procurement"
)

// QuotationHandler exposes quotation submission and review endpoints
type QuotationHandler struct {
	BaseHandler
	service *app.QuotationService
}

// NewQuotationHandler creates a QuotationHandler
func NewQuotationHandler(service *app.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: service}
}

// SubmitManual handles POST /supplier/quotations
func (h *QuotationHandler) SubmitManual(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req app.SubmitManualQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SubmitManual(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// SubmitFile handles POST /supplier/quotations/file
func (h *QuotationHandler) SubmitFile(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req app.SubmitFileQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SubmitFile(c.Request.Context(), tenantID, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
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

// DownloadFile handles GET /quotations/:id/file, streaming the stored
// quotation document back to the caller
func (h *QuotationHandler) DownloadFile(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	content, err := h.service.DownloadFile(c.Request.Context(), tenantID, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// List handles GET /quotations
func (h *QuotationHandler) List(c *gin.Context) {
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

// ListByRFQ handles GET /rfqs/:id/quotations
func (h *QuotationHandler) ListByRFQ(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	rfqID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListByRFQ(c.Request.Context(), tenantID, rfqID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, items)
}

// ListOwn handles GET /supplier/quotations, the supplier's own submissions
func (h *QuotationHandler) ListOwn(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var filter app.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.service.ListBySupplier(c.Request.Context(), tenantID, actor, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, items)
}

// StartReview handles POST /quotations/:id/review
func (h *QuotationHandler) StartReview(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.StartReview(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Accept handles POST /quotations/:id/accept
func (h *QuotationHandler) Accept(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Accept(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject handles POST /quotations/:id/reject
func (h *QuotationHandler) Reject(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.RejectQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), tenantID, id, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}
