package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/gateway"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

func setupHealthTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()

	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database and store are fine", func(t *testing.T) {
		gw := gateway.NewMemoryGateway()
		sync := collection.NewSynchronizer(gw)
		require.NoError(t, sync.Load(context.Background()))

		code, response := getHealth(t, NewHealthController(setupHealthTestDB(t), gw, sync, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "memory", response.Checks["store"])
		assert.Equal(t, "idle", response.Checks["sync"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("database not configured is still healthy", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(nil, gateway.NewMemoryGateway(), nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db := setupHealthTestDB(t)
		require.NoError(t, db.Close())

		code, response := getHealth(t, NewHealthController(db, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})

	t.Run("unconfigured store degrades", func(t *testing.T) {
		gw := gateway.NewUnconfigured("STORE_URL", "STORE_KEY")
		sync := collection.NewSynchronizer(gw)
		require.Error(t, sync.Load(context.Background()))

		code, response := getHealth(t, NewHealthController(nil, gw, sync, ""))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", response.Status)
		assert.Equal(t, "unconfigured", response.Checks["store"])
		assert.Contains(t, response.Checks["sync"], "STORE_URL")
		assert.Empty(t, response.Version)
	})

	t.Run("reports the refresh schedule", func(t *testing.T) {
		next := time.Date(2026, 5, 1, 10, 15, 0, 0, time.UTC)
		controller := NewHealthController(nil, gateway.NewMemoryGateway(), nil, "")
		controller.SetRefreshStatus(&fakeRefresh{refreshing: true, next: &next})

		_, response := getHealth(t, controller)

		require.NotNil(t, response.Refresh)
		assert.True(t, response.Refresh.Scheduled)
		assert.True(t, response.Refresh.Refreshing)
		require.NotNil(t, response.Refresh.NextRefresh)
		assert.True(t, next.Equal(*response.Refresh.NextRefresh))
	})

	t.Run("refresh disabled", func(t *testing.T) {
		controller := NewHealthController(nil, gateway.NewMemoryGateway(), nil, "")
		controller.SetRefreshStatus(&fakeRefresh{})

		_, response := getHealth(t, controller)

		require.NotNil(t, response.Refresh)
		assert.False(t, response.Refresh.Scheduled)
		assert.Nil(t, response.Refresh.NextRefresh)
	})

	t.Run("refresh omitted without a scheduler", func(t *testing.T) {
		_, response := getHealth(t, NewHealthController(nil, gateway.NewMemoryGateway(), nil, ""))
		assert.Nil(t, response.Refresh)
	})
}

type fakeRefresh struct {
	refreshing bool
	next       *time.Time
}

func (f *fakeRefresh) IsRefreshing() bool         { return f.refreshing }
func (f *fakeRefresh) GetNextRunTime() *time.Time { return f.next }

func TestRouter_HealthReportsScheduler(t *testing.T) {
	gw := gateway.NewMemoryGateway()
	refresh := scheduler.NewRefreshScheduler(config.Refresh{Enabled: true, Schedule: "*/15 * * * *"}, 0,
		collection.NewSynchronizer(gw), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, refresh.Start(ctx))
	defer refresh.Stop()

	router := NewRouter(RouterConfig{Collection: collection.NewSynchronizer(gw), Gateway: gw, Refresh: refresh})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Refresh)
	assert.True(t, response.Refresh.Scheduled)
	require.NotNil(t, response.Refresh.NextRefresh)
	assert.True(t, response.Refresh.NextRefresh.After(time.Now()))
}
