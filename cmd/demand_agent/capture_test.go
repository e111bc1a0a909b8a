package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCaptureConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	captureConfigPath = ""
	t.Cleanup(func() { captureConfigPath = "" })

	_, err := loadCaptureConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadCaptureConfigFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"wait_seconds": 120,
		"screenshot_prefix": "tn_demand"
	}`), 0o644))

	t.Setenv("DATABASE_URL", "postgres://agent@localhost:5432/demand")
	captureConfigPath = path
	t.Cleanup(func() { captureConfigPath = "" })

	cfg, err := loadCaptureConfig()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.WaitSeconds, "config file value applied")
	assert.Equal(t, "tn_demand", cfg.ScreenshotPrefix)
	assert.Equal(t, "postgres://agent@localhost:5432/demand", cfg.DatabaseURL, "env override applied")
	assert.NotEmpty(t, cfg.TargetURL, "defaults fill the rest")
}
