package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// No config file in the test working dir; defaults apply.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "timeuse.db", cfg.Store.Path)
	assert.Equal(t, "https://api.bls.gov/publicAPI/v2", cfg.BLS.BaseURL)
	assert.Equal(t, 3, cfg.BLS.YearsBack)
	assert.Equal(t, "local", cfg.OCR.Provider)
	assert.Equal(t, "pdftotext", cfg.OCR.PdfToTextPath)
	assert.Equal(t, 23, cfg.Extract.Table11APage)
	assert.Equal(t, 24, cfg.Extract.Table11BPage)
	assert.Equal(t, "minutes", cfg.Report.Unit)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("TIMEUSE_BLS_API_KEY", "test-key")
	os.Setenv("TIMEUSE_STORE_DATABASE_URL", "postgres://localhost/timeuse")
	os.Setenv("TIMEUSE_LOG_LEVEL", "debug")
	t.Cleanup(func() {
		os.Unsetenv("TIMEUSE_BLS_API_KEY")
		os.Unsetenv("TIMEUSE_STORE_DATABASE_URL")
		os.Unsetenv("TIMEUSE_LOG_LEVEL")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.BLS.Key)
	assert.Equal(t, "postgres://localhost/timeuse", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
		require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	})

	t.Run("bad level", func(t *testing.T) {
		err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
		assert.Error(t, err)
	})
}
