package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                  "",
		"CATALOG_PATH":          "",
		"OBS_LOG_FORMAT":        "",
		"REGISTER_STRICT_ITEMS": "",
		"RATE_LIMIT_PER_MINUTE": "",
		"RECEIPT_HISTORY_LIMIT": "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "json", cfg.LogFormat)
	require.True(t, cfg.StrictItems)
	require.Equal(t, 600, cfg.RateLimitPerMinute)
	require.Equal(t, 50, cfg.ReceiptHistoryLimit)
	require.Empty(t, cfg.CatalogPath)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                       ":9090",
		"CATALOG_PATH":               " ./catalog.yaml ",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, ,https://b.example",
		"OBS_LOG_FORMAT":             "console",
		"OBS_ENABLE_PROMETHEUS":      "off",
		"OBS_TRACING_SAMPLING_RATIO": "0.25",
		"REGISTER_STRICT_ITEMS":      "false",
		"RATE_LIMIT_PER_MINUTE":      "30",
		"RECEIPT_HISTORY_LIMIT":      "5",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "./catalog.yaml", cfg.CatalogPath)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "console", cfg.LogFormat)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, 0.25, cfg.TracingSampling)
	require.False(t, cfg.StrictItems)
	require.Equal(t, 30, cfg.RateLimitPerMinute)
	require.Equal(t, 5, cfg.ReceiptHistoryLimit)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := LoadForTests(map[string]string{"OBS_TRACING_SAMPLING_RATIO": "2"})
	require.ErrorContains(t, err, "OBS_TRACING_SAMPLING_RATIO")

	_, err = LoadForTests(map[string]string{"RECEIPT_HISTORY_LIMIT": "0", "OBS_TRACING_SAMPLING_RATIO": ""})
	require.ErrorContains(t, err, "RECEIPT_HISTORY_LIMIT")
}
