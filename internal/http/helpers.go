package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/gateway"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string, details any) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request", Details: details})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondStoreError sends a 502 Bad Gateway response for a failed store call.
func respondStoreError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: errorCode(err)})
}

// errorCode names the gateway error kind of err.
func errorCode(err error) string {
	switch {
	case errors.Is(err, gateway.ErrConnection):
		return "connection_error"
	case errors.Is(err, gateway.ErrValidation):
		return "validation_error"
	case errors.Is(err, gateway.ErrNotFound):
		return "not_found"
	case errors.Is(err, gateway.ErrQuery):
		return "query_error"
	default:
		return "store_error"
	}
}

// --- Request Helpers ---

// wantsWait reports whether the client asked to block until the store
// confirms the change (?wait=true).
func wantsWait(c *gin.Context) bool {
	wait, _ := strconv.ParseBool(c.Query("wait"))
	return wait
}

// parsePagination reads page and limit query parameters, clamping limit to
// 1..maxLimit.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}
