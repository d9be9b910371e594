package demo

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyDemoMode is set on every request so handlers can report whether
// they are serving sample data.
const ContextKeyDemoMode = "demo_mode"

// Middleware marks requests as served in demo mode and, when the demo is
// read-only, rejects every request that would mutate the collection.
type Middleware struct {
	enabled  bool
	readOnly bool
}

func NewMiddleware(enabled, readOnly bool) *Middleware {
	return &Middleware{enabled: enabled, readOnly: enabled && readOnly}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

func (m *Middleware) IsReadOnly() bool {
	return m.readOnly
}

// Handler returns a Gin middleware that blocks writes in a read-only demo.
// Reloading and dismissing the error banner stay available because they do
// not change the store.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)

		if !m.readOnly || isSafe(c.Request) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "This action is disabled in demo mode",
			"demo_mode": true,
		})
	}
}

func isSafe(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	switch r.URL.Path {
	case "/api/books/reload", "/api/status":
		return true
	}
	return false
}
