package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 900*time.Millisecond, cfg.Contact.SubmitLatency)
	assert.Equal(t, 2*time.Second, cfg.Contact.ClipboardTimeout)
	assert.Equal(t, 8760*time.Hour, cfg.Session.Lifetime)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WENTI_HTTP_ADDR", ":9000")
	t.Setenv("WENTI_HTTP_BASE_PATH", "/wentitech")
	t.Setenv("WENTI_CONTACT_SUBMIT_LATENCY", "2s")
	t.Setenv("WENTI_LOGGING_FORMAT", "console")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "/wentitech", cfg.HTTP.BasePath)
	assert.Equal(t, 2*time.Second, cfg.Contact.SubmitLatency)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  driver: postgres\n  dsn: postgres://localhost/wentitech\nlogging:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://localhost/wentitech", cfg.DB.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown driver", key: "WENTI_DB_DRIVER", val: "oracle"},
		{name: "bad level", key: "WENTI_LOGGING_LEVEL", val: "loud"},
		{name: "base path trailing slash", key: "WENTI_HTTP_BASE_PATH", val: "/wentitech/"},
		{name: "base path relative", key: "WENTI_HTTP_BASE_PATH", val: "wentitech"},
		{name: "bad latency", key: "WENTI_CONTACT_SUBMIT_LATENCY", val: "soon"},
		{name: "zero latency", key: "WENTI_CONTACT_SUBMIT_LATENCY", val: "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(Logging{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger(Logging{Level: "info", Format: "xml"})
	assert.Error(t, err)
	_, err = NewLogger(Logging{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
