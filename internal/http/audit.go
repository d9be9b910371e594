package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type AuditController struct {
	auditLog AuditLog
	logger   *zap.Logger
}

func NewAuditController(auditLog AuditLog, logger *zap.Logger) *AuditController {
	return &AuditController{auditLog: auditLog, logger: logger}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?type=&page=&limit=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit, offset := parsePagination(c, 25, 100)
	eventType := c.Query("type")

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.auditLog.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditLog.GetEvents(limit, offset)
	}

	if err != nil {
		ac.logger.Error("failed to load audit events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load audit events"})
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    page < totalPages,
		TotalPages: totalPages,
	})
}

// GetBookHistory returns every recorded event for one book id.
// GET /api/books/:id/history
func (ac *AuditController) GetBookHistory(c *gin.Context) {
	events, err := ac.auditLog.GetBookHistory(c.Param("id"))
	if err != nil {
		ac.logger.Error("failed to load book history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load book history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
