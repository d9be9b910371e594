package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the local database holding
	// the audit log and, with the sqlite backend, the books themselves.
	DefaultDatabasePath = "./bookshelf.db"
)
