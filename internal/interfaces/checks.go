package interfaces

// Compile-time checks that concrete types satisfy the interfaces they are
// wired through.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/gateway"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

// =============================================================================
// Remote Store
// =============================================================================

var _ gateway.Gateway = (*gateway.RemoteGateway)(nil)
var _ gateway.Gateway = (*gateway.SQLiteGateway)(nil)
var _ gateway.Gateway = (*gateway.MemoryGateway)(nil)
var _ gateway.Gateway = (*gateway.Unconfigured)(nil)

var _ gateway.Describer = (*gateway.RemoteGateway)(nil)
var _ gateway.Describer = (*gateway.SQLiteGateway)(nil)
var _ gateway.Describer = (*gateway.MemoryGateway)(nil)
var _ gateway.Describer = (*gateway.Unconfigured)(nil)

// =============================================================================
// Collection
// =============================================================================

var _ http.Collection = (*collection.Synchronizer)(nil)
var _ scheduler.Loader = (*collection.Synchronizer)(nil)

// =============================================================================
// Refresh
// =============================================================================

var _ http.RefreshStatus = (*scheduler.RefreshScheduler)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ collection.Recorder = (*audit.Service)(nil)
var _ http.AuditLog = (*audit.Service)(nil)
var _ scheduler.Pruner = (*audit.Service)(nil)
