package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/gateway"
)

// DefaultWaitTimeout bounds how long a ?wait=true request blocks on the store.
const DefaultWaitTimeout = 10 * time.Second

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Collection Collection
	Gateway    gateway.Gateway
	Database   *database.Database // optional, reported by /health
	AuditLog   AuditLog           // optional, enables /api/audit
	Refresh    RefreshStatus      // optional, reported by /health

	// Demo mode (optional)
	DemoMiddleware *demo.Middleware

	Logger *zap.Logger

	// WaitTimeout caps ?wait=true requests; zero means DefaultWaitTimeout.
	WaitTimeout time.Duration

	// Application info
	Version string
}
