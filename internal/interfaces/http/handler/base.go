package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/logger"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
	"github.com/procureflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides shared response helpers for all handlers
type BaseHandler struct{}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with data and pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response for malformed input
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// Error maps the error to an HTTP response. Domain error codes pass through
// to the client unchanged; anything else becomes a 500 and is logged.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status,
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	logger.GetGinLogger(c).Error("unhandled error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An internal error occurred", requestID))
}

// identity reads the authenticated tenant and actor from the request context.
// The JWT middleware guarantees both are present on protected routes.
func (h *BaseHandler) identity(c *gin.Context) (uuid.UUID, shared.ActorContext, bool) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing authentication context"))
		return uuid.Nil, shared.ActorContext{}, false
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing authentication context"))
		return uuid.Nil, shared.ActorContext{}, false
	}
	return tenantID, actor, true
}

// pathUUID parses a UUID path parameter, replying 400 on failure
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}
