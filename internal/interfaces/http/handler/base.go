package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const messageLevelWarning = "warning"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// ownerID returns the authenticated cart owner, answering 401 when absent
func (h *BaseHandler) ownerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOwnerID(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
	}
	return id, ok
}

// Success sends a success response with optional user messages
func (h *BaseHandler) Success(c *gin.Context, data any, messages ...dto.Message) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data, messages...))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any, messages ...dto.Message) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data, messages...))
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError maps service errors to HTTP responses:
// validation failures carry field details, infrastructure failures answer
// 503 without leaking the cause, other domain errors use their code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)
	log := logger.L(c.Request.Context(), logger.GetGinLogger(c))

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]dto.ValidationDetail, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			details = append(details, dto.ValidationDetail{Field: f.Field, Message: f.Message})
		}
		c.JSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(
			"Please correct the highlighted fields", requestID, details))
		return
	}

	var infraErr *shared.InfrastructureError
	if errors.As(err, &infraErr) {
		log.Error("Infrastructure failure", zap.String("op", infraErr.Op), zap.Error(infraErr.Err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInfrastructure, shared.ErrInfrastructure.Message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		resp := dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID)
		switch domainErr.Code {
		case dto.ErrCodeNoActiveOrder, dto.ErrCodeLineNotInOrder:
			resp.Messages = []dto.Message{{Level: messageLevelWarning, Text: domainErr.Message}}
		}
		c.JSON(dto.GetHTTPStatus(domainErr.Code), resp)
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
