package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	ok := func(c *gin.Context) {
		demo, _ := c.Get(ContextKeyDemoMode)
		c.JSON(http.StatusOK, gin.H{"demo": demo})
	}
	router.GET("/api/books", ok)
	router.POST("/api/books", ok)
	router.DELETE("/api/books/:id", ok)
	router.POST("/api/books/reload", ok)
	router.DELETE("/api/status", ok)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewMiddleware(t *testing.T) {
	m := NewMiddleware(true, true)
	assert.True(t, m.IsEnabled())
	assert.True(t, m.IsReadOnly())

	m = NewMiddleware(false, true)
	assert.False(t, m.IsEnabled())
	assert.False(t, m.IsReadOnly(), "read-only only applies to demo mode")
}

func TestMiddleware_ReadOnlyBlocksWrites(t *testing.T) {
	router := newTestRouter(NewMiddleware(true, true))

	w := serve(router, http.MethodPost, "/api/books")
	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["demo_mode"])
	assert.Contains(t, body["error"], "demo mode")

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/api/books/1").Code)
}

func TestMiddleware_ReadOnlyAllowsSafeRequests(t *testing.T) {
	router := newTestRouter(NewMiddleware(true, true))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/books").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/books/reload").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodDelete, "/api/status").Code)
}

func TestMiddleware_WritableDemoPassesThrough(t *testing.T) {
	router := newTestRouter(NewMiddleware(true, false))

	w := serve(router, http.MethodPost, "/api/books")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"demo":true}`, w.Body.String())
}

func TestMiddleware_DisabledMarksContext(t *testing.T) {
	router := newTestRouter(NewMiddleware(false, false))

	w := serve(router, http.MethodGet, "/api/books")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"demo":false}`, w.Body.String())
}
