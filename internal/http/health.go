package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/gateway"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Refresh *RefreshInfo      `json:"refresh,omitempty"`
}

// RefreshInfo describes the periodic refresh job.
type RefreshInfo struct {
	Scheduled   bool       `json:"scheduled"`
	Refreshing  bool       `json:"refreshing"`
	NextRefresh *time.Time `json:"next_refresh,omitempty"`
}

type HealthController struct {
	db         *database.Database
	gateway    gateway.Gateway
	collection CollectionReader
	refresh    RefreshStatus
	version    string
}

func NewHealthController(db *database.Database, gw gateway.Gateway, c CollectionReader, version string) *HealthController {
	return &HealthController{
		db:         db,
		gateway:    gw,
		collection: c,
		version:    version,
	}
}

// SetRefreshStatus adds the refresh scheduler to the report.
func (h *HealthController) SetRefreshStatus(r RefreshStatus) {
	h.refresh = r
}

// Status reports liveness. A broken local database is unhealthy (503); a
// failing store only degrades the service because the cached collection is
// still served.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if d, ok := h.gateway.(gateway.Describer); ok {
		checks["store"] = d.Describe()
	}

	if h.collection != nil {
		st := h.collection.Status()
		if st.State == collection.StateError {
			checks["sync"] = "error: " + st.Message
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["sync"] = string(st.State)
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	if h.refresh != nil {
		next := h.refresh.GetNextRunTime()
		health.Refresh = &RefreshInfo{
			Scheduled:   next != nil,
			Refreshing:  h.refresh.IsRefreshing(),
			NextRefresh: next,
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
