package handler

import (
	"github.com/gin-gonic/gin"
	app "github.com/procureflow/backend/internal/application/procurement"
)

// PurchaseOrderHandler exposes purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	service *app.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a PurchaseOrderHandler
func NewPurchaseOrderHandler(service *app.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req app.CreatePurchaseOrderRequest
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

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
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

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
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

// ListOwn handles GET /supplier/purchase-orders, the supplier's incoming orders
func (h *PurchaseOrderHandler) ListOwn(c *gin.Context) {
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

// Send handles POST /purchase-orders/:id/send
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
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

// Confirm handles POST /purchase-orders/:id/confirm
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Confirm(c.Request.Context(), tenantID, id, actor)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordReceipt handles POST /purchase-orders/:id/receipts
func (h *PurchaseOrderHandler) RecordReceipt(c *gin.Context) {
	tenantID, actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req app.RecordReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.RecordReceipt(c.Request.Context(), tenantID, id, actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
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
