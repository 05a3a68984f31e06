package config

import (
	"testing"
	"time"

	"bank-ledger-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "DATA_DIR", "HTTP_ADDR", "CORS_ALLOWED_ORIGINS", "REQUEST_LOG_SIZE", "LOAD_DEMO_ON_START", "FORMANCE_LEDGER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, models.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsAllowedOrigins)
	assert.Equal(t, 50, cfg.Server.RequestLogSize)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "bank-ledger", cfg.Formance.LedgerName)
	assert.False(t, cfg.Ledger.LoadDemoOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, ,https://bank.example.com")
	t.Setenv("REQUEST_LOG_SIZE", "0")
	t.Setenv("HTTP_WRITE_TIMEOUT", "2s")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("LOAD_DEMO_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, models.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, []string{"http://localhost:3000", "https://bank.example.com"}, cfg.Server.CorsAllowedOrigins)
	assert.Equal(t, 0, cfg.Server.RequestLogSize)
	assert.Equal(t, 2*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 7, cfg.Postgres.MaxConns)
	assert.True(t, cfg.Ledger.LoadDemoOnStart)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"STORE_BACKEND", "mongo"},
		{"DB_PING_TIMEOUT", "soon"},
		{"HTTP_READ_TIMEOUT", "10"},
		{"REQUEST_LOG_SIZE", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
