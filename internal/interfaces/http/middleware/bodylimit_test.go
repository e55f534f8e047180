package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingForm struct {
	FirstName string `json:"first_name" binding:"required"`
	City      string `json:"city" binding:"required"`
}

func newBodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.Use(BodyLimit(limit))
	router.POST("/checkout", func(c *gin.Context) {
		var form billingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, form)
	})
	router.GET("/cart", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func billingPayload(cityLen int) string {
	return `{"first_name":"Ana","city":"` + strings.Repeat("z", cityLen) + `"}`
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		contentLength int64 // -1 streams the body without a declared length
		wantStatus    int
	}{
		{"payload under the cap binds", billingPayload(8), 0, http.StatusOK},
		{"declared length over the cap is refused", billingPayload(200), 0, http.StatusRequestEntityTooLarge},
		{"streamed payload over the cap is refused", billingPayload(200), -1, http.StatusRequestEntityTooLarge},
		{"streamed payload under the cap binds", billingPayload(8), -1, http.StatusOK},
	}

	router := newBodyLimitRouter(128)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.contentLength != 0 {
				req.ContentLength = tt.contentLength
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusRequestEntityTooLarge {
				var resp struct {
					Success bool `json:"success"`
					Error   struct {
						Code      string `json:"code"`
						RequestID string `json:"request_id"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.False(t, resp.Success)
				assert.Equal(t, "REQUEST_TOO_LARGE", resp.Error.Code)
				assert.NotEmpty(t, resp.Error.RequestID)
			}
		})
	}

	t.Run("bodyless requests pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed json under the cap stays a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"first_name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
