package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withOwner simulates the JWT middleware for an authenticated owner
func withOwner(ownerID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, ownerID.String())
		c.Next()
	}
}

func perform(router *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, getRequestID(c))

	c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
	assert.Equal(t, "header-id", getRequestID(c))

	c.Set(middleware.RequestIDContextKey, "ctx-id")
	assert.Equal(t, "ctx-id", getRequestID(c))
}

func TestBaseHandler_OwnerIDMissing(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := h.ownerID(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decode(t, w).Error.Code)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		code        string
		message     string
		warning     bool
		detailCount int
	}{
		{
			name:   "not found",
			err:    shared.NewDomainError(shared.CodeNotFound, "Product not found"),
			status: http.StatusNotFound, code: dto.ErrCodeNotFound, message: "Product not found",
		},
		{
			name:   "no active order carries warning",
			err:    fmt.Errorf("remove: %w", shared.ErrNoActiveOrder),
			status: http.StatusNotFound, code: dto.ErrCodeNoActiveOrder, message: shared.ErrNoActiveOrder.Message,
			warning: true,
		},
		{
			name:   "line not in order carries warning",
			err:    shared.ErrLineNotInOrder,
			status: http.StatusConflict, code: dto.ErrCodeLineNotInOrder, message: shared.ErrLineNotInOrder.Message,
			warning: true,
		},
		{
			name: "validation lists fields",
			err: shared.NewValidationError(
				shared.FieldError{Field: "zip", Message: "zip is required"},
				shared.FieldError{Field: "country", Message: "country is not valid"},
			),
			status: http.StatusUnprocessableEntity, code: dto.ErrCodeValidation, message: "Please correct the highlighted fields",
			detailCount: 2,
		},
		{
			name:   "infrastructure hides cause",
			err:    shared.NewInfrastructureError("draft_order.save", errors.New("connection refused")),
			status: http.StatusServiceUnavailable, code: dto.ErrCodeInfrastructure, message: shared.ErrInfrastructure.Message,
		},
		{
			name:   "unknown error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError, code: dto.ErrCodeInternal, message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDContextKey, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Len(t, resp.Error.Details, tt.detailCount)
			assert.NotContains(t, w.Body.String(), "connection refused")
			if tt.warning {
				require.Len(t, resp.Messages, 1)
				assert.Equal(t, messageLevelWarning, resp.Messages[0].Level)
			} else {
				assert.Empty(t, resp.Messages)
			}
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, nil)

	assert.Zero(t, w.Body.Len())
}
