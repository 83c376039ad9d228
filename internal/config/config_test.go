package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Collector.OutputDir)
	assert.Equal(t, 100*time.Millisecond, cfg.Collector.DelayBetweenItems)
	assert.Equal(t, "headed", cfg.Scraper.Engine)
	assert.Equal(t, 30*time.Second, cfg.Scraper.RequestTimeout)
	assert.True(t, cfg.Scraper.HeadlessMode)
	assert.Equal(t, 0.85, cfg.Harmonize.NetAdjustmentFactor)
	assert.Equal(t, 50, cfg.Harmonize.SalaryRoundingStep)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
collector:
  output_dir: /var/collector
  delay_between_items: 250ms
scraper:
  engine: firecrawl
harmonize:
  net_adjustment_factor: 0.87
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/collector", cfg.Collector.OutputDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Collector.DelayBetweenItems)
	assert.Equal(t, "firecrawl", cfg.Scraper.Engine)
	assert.Equal(t, 0.87, cfg.Harmonize.NetAdjustmentFactor)
	// Untouched sections keep their defaults.
	assert.Equal(t, 3, cfg.Scraper.MaxRetries)
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collector:\n  output_dir: /from/yaml\n"), 0o644))

	t.Setenv("OUTPUT_DIR", "/from/env")
	t.Setenv("SCRAPER_ENGINE", "firecrawl")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Collector.OutputDir)
	assert.Equal(t, "firecrawl", cfg.Scraper.Engine)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scraper:
  captcha:
    api_key: ${TEST_CAPTCHA_KEY}
`), 0o644))

	t.Setenv("TEST_CAPTCHA_KEY", "secret-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Scraper.Captcha.APIKey)
}

func TestLoadConfigRejectsUnknownEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scraper:\n  engine: selenium\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
