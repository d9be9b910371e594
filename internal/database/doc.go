// Package database owns the local sqlite database.
//
//	database/
//	├── database.go   # Connection setup and migrations
//	└── audit/        # Sync audit events
//
// The same connection backs gateway.SQLiteGateway when the sqlite store
// backend is selected; the books table is migrated regardless so switching
// backends needs no manual step.
package database
