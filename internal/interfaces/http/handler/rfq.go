package handler

import (
	"github.com/gin-gonic/gin"
	app "github.com/procureflow/backend/internal/application/procurement"
)

// RFQHandler exposes RFQ lifecycle endpoints
type RFQHandler struct {
	BaseHandler
	service *app.RFQService
}

// NewRFQHandler creates an RFQHandler
func NewRFQHandler(service *app.RFQService) *RFQHandler {
	return &RFQHandler{service: service}
}

// Create handles POST /rfqs
func (h *RFQHandler) Create(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req app.CreateRFQRequest
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

// Get handles GET /rfqs/:id
func (h *RFQHandler) Get(c *gin.Context) {
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

// List handles GET /rfqs
func (h *RFQHandler) List(c *gin.Context) {
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

// ListInviting handles GET /supplier/rfqs, the supplier's view of open RFQs
func (h *RFQHandler) ListInviting(c *gin.Context) {
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

// AddLine handles POST /rfqs/:id/lines
func (h *RFQHandler) AddLine(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.LineItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.AddLine(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// InviteSupplier handles POST /rfqs/:id/suppliers
func (h *RFQHandler) InviteSupplier(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.InvitedSupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.InviteSupplier(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Send handles POST /rfqs/:id/send
func (h *RFQHandler) Send(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Send(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Close handles POST /rfqs/:id/close
func (h *RFQHandler) Close(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Close(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /rfqs/:id/cancel
func (h *RFQHandler) Cancel(c *gin.Context) {
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
