package models

import "time"

// Store backends selectable through STORE_BACKEND
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFormance = "formance"
)

// Config represents the application configuration
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Postgres PostgresConfig
	Formance FormanceConfig
	Server   ServerConfig
	Ledger   LedgerConfig
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Backend string
	DataDir string
}

// DatabaseConfig holds SQLite connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// PostgresConfig holds PostgreSQL pool settings
type PostgresConfig struct {
	URL             string
	MaxConns        int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// FormanceConfig holds Formance stack credentials and the target ledger
type FormanceConfig struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CorsAllowedOrigins []string
	RequestLogSize     int
	NodeId             int64
}

// LedgerConfig holds engine settings
type LedgerConfig struct {
	DemoFixtureFile string
	LoadDemoOnStart bool
}
