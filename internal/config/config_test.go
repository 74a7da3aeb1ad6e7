package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/etc/weathercron/env.snapshot", cfg.SnapshotPath)
	assert.Equal(t, "/var/log/weathercron/jobs.log", cfg.JobLogPath)
	assert.Equal(t, "0 7 * * *", cfg.Schedule)
	assert.Equal(t, "continue", cfg.StartupPolicy)
	assert.True(t, cfg.RunOnStartup)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "DefaultCity", cfg.CityName)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 465, cfg.SMTPPort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEATHERCRON_SCHEDULE", "*/15 * * * *")
	t.Setenv("WEATHERCRON_STARTUP_POLICY", "abort")
	t.Setenv("WEATHERCRON_SNAPSHOT_PATH", "/tmp/env.snapshot")
	t.Setenv("OPENWEATHER_API_KEY", "key-123")
	t.Setenv("CITY_NAME", "Boston")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "*/15 * * * *", cfg.Schedule)
	assert.Equal(t, "abort", cfg.StartupPolicy)
	assert.Equal(t, "/tmp/env.snapshot", cfg.SnapshotPath)
	assert.Equal(t, "key-123", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "Boston", cfg.CityName)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"schedule: 0 6 * * 1",
		"city_name: Lisbon",
		"metrics_addr: :9191",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0 6 * * 1", cfg.Schedule)
	assert.Equal(t, "Lisbon", cfg.CityName)
	assert.Equal(t, ":9191", cfg.MetricsAddr)
}

func TestValidateNotifier_MissingVars(t *testing.T) {
	cfg := &Config{
		OpenWeatherAPIKey: "key",
		Latitude:          "42.3",
		Longitude:         "-71.0",
	}

	err := cfg.ValidateNotifier()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GMAIL_USER")
	assert.Contains(t, err.Error(), "GMAIL_PASSWORD")
	assert.Contains(t, err.Error(), "TO_EMAIL")
	assert.NotContains(t, err.Error(), "OPENWEATHER_API_KEY")
}

func TestValidateNotifier_NumericCoordinates(t *testing.T) {
	cfg := &Config{
		OpenWeatherAPIKey: "key",
		GmailUser:         "u@example.com",
		GmailPassword:     "pw",
		ToEmail:           "t@example.com",
		Latitude:          "not-a-number",
		Longitude:         "-71.0",
	}

	err := cfg.ValidateNotifier()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LATITUDE")
}

func TestValidateNotifier_OK(t *testing.T) {
	cfg := &Config{
		OpenWeatherAPIKey: "key",
		GmailUser:         "u@example.com",
		GmailPassword:     "pw",
		ToEmail:           "t@example.com",
		Latitude:          "42.36",
		Longitude:         "-71.05",
	}
	assert.NoError(t, cfg.ValidateNotifier())
}
