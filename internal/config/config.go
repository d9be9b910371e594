package config

import (
	"time"

	"github.com/spf13/viper"
)

type StoreBackend string

const (
	StoreBackendRemote StoreBackend = "remote" // PostgREST / Supabase (default)
	StoreBackendSQLite StoreBackend = "sqlite" // Local database file
	StoreBackendMemory StoreBackend = "memory" // Process memory, lost on restart
)

type (
	Config struct {
		HTTP
		Global
		Store
		Database
		Refresh
		Audit
		Demo
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Store struct {
		Backend StoreBackend
		URL     string // Remote store endpoint, e.g. https://xyz.supabase.co
		Key     string // Remote store access credential
		Table   string
		Timeout time.Duration
		// ProgressColumn is false for tables created before reading
		// progress was tracked; progress is then never written.
		ProgressColumn bool
	}
	Database struct {
		Path string
	}
	Refresh struct {
		Enabled  bool
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Demo struct {
		Enabled  bool // Serve the sample library from memory
		ReadOnly bool // Reject mutations while in demo mode
	}
	Log struct {
		Level string
		File  string // Optional JSON log file, rotated
	}
)

// firstNonEmpty returns the value of the first key that is set, which lets
// the Supabase-style variable names keep working.
func firstNonEmpty(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("store_backend", string(StoreBackendRemote))
	v.SetDefault("store_table", "books")
	v.SetDefault("store_timeout", "30s")
	v.SetDefault("store_progress_column", true)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("refresh_enabled", false)
	v.SetDefault("refresh_schedule", "*/15 * * * *")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("demo_mode", false)
	v.SetDefault("demo_read_only", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Store: Store{
			Backend: StoreBackend(v.GetString("STORE_BACKEND")),
			URL:     firstNonEmpty(v, "STORE_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"),
			Key:     firstNonEmpty(v, "STORE_KEY", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"),
			Table:   v.GetString("STORE_TABLE"),
			Timeout: v.GetDuration("STORE_TIMEOUT"),

			ProgressColumn: v.GetBool("STORE_PROGRESS_COLUMN"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Refresh: Refresh{
			Enabled:  v.GetBool("REFRESH_ENABLED"),
			Schedule: v.GetString("REFRESH_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Demo: Demo{
			Enabled:  v.GetBool("DEMO_MODE"),
			ReadOnly: v.GetBool("DEMO_READ_ONLY"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}
}
