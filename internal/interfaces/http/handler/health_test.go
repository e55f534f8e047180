package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func() error

func (f pingerFunc) Ping() error { return f() }

func TestHealthHandler_Check(t *testing.T) {
	serve := func(p Pinger) (int, string) {
		r := gin.New()
		r.GET("/health", NewHealthHandler(p, "1.2.3").Check)
		w := perform(r, http.MethodGet, "/health", nil)
		return w.Code, w.Body.String()
	}

	code, body := serve(pingerFunc(func() error { return nil }))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"healthy"`)
	assert.Contains(t, body, "1.2.3")

	code, body = serve(pingerFunc(func() error { return errors.New("down") }))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "unhealthy")
}
