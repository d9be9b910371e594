// Package interfaces documents the abstractions that connect the packages of
// the application and holds their compile-time implementation checks.
//
// # Interface Categories
//
// ## Remote Store
//
//   - Gateway: the four operations against the books collection (internal/gateway/gateway.go)
//   - Describer: names the backing store for /health (internal/gateway/gateway.go)
//
// ## Collection
//
//   - Collection, CollectionReader: what the HTTP layer needs from the synchronizer (internal/http/stores.go)
//   - Loader: what the refresh scheduler needs from the synchronizer (internal/scheduler/refresh.go)
//
// ## Audit
//
//   - Recorder: load, mutation and rollback outcomes (internal/collection/synchronizer.go)
//   - AuditLog: read access for /api/audit (internal/http/stores.go)
//   - Pruner: retention cleanup (internal/scheduler/refresh.go)
//
// # Adding a New Store Backend
//
//  1. Implement Gateway in internal/gateway/, returning *gateway.Error values
//     whose Kind is one of the sentinel errors:
//
//     type FirestoreGateway struct {
//         client *firestore.Client
//     }
//
//     func (g *FirestoreGateway) ListAll(ctx context.Context) ([]entities.Record, error)
//     func (g *FirestoreGateway) InsertOne(ctx context.Context, r entities.Record) (entities.Record, error)
//     func (g *FirestoreGateway) UpdateOne(ctx context.Context, id string, patch entities.Record) error
//     func (g *FirestoreGateway) DeleteOne(ctx context.Context, id string) error
//
//  2. Add a config.StoreBackend value and select it in gateway.New.
//
//  3. Add a compile-time check to checks.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
