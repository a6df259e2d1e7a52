package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG     PGConfig
	CH     CHConfig
	SQLite SQLiteConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	LogSQL   bool
	// SlowQuery logs statements at or above it as warnings; negative disables
	SlowQuery time.Duration

	ConnectRetries int           // boot pings, default 20
	PingTimeout    time.Duration // per ping, default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName and ClientTag identify the process in system.query_log;
	// a blank tag reports the build version
	ClientName string
	ClientTag  string
}

// SQLiteConfig configures the embedded sqlite database
type SQLiteConfig struct {
	Enabled bool
	Path    string // file path or DSN, ":memory:" for tests
}
