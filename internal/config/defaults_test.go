package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsHolder_FallsBackWithoutFile(t *testing.T) {
	holder, err := NewDefaultsHolder(Config{})
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, DefaultDocumentDefaults(), got)
}

func TestNewDefaultsHolder_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yml")
	content := []byte("documents:\n  taxRate: 9\n  dueDays: 7\n  autosaveDelay: 250ms\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	holder, err := NewDefaultsHolder(Config{DefaultsPath: path})
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, 9.0, got.TaxRate)
	assert.Equal(t, 7, got.DueDays)
	assert.Equal(t, 250*time.Millisecond, got.AutosaveDelay)
	assert.Equal(t, 30, got.ConversionDueDays)
	assert.Equal(t, InvoiceNote, got.InvoiceNote)
}

func TestNewDefaultsHolder_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  taxRate: -1\n"), 0o600))

	_, err := NewDefaultsHolder(Config{DefaultsPath: path})
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_Tracing(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SAMPLING_RATIO", "")
	cfg := Load()
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)

	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", " HTTP ")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")
	cfg = Load()
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
	assert.Equal(t, 0.25, cfg.OtelSamplingRatio)
}
