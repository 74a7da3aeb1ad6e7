// Package config loads weathercron configuration. All configuration arrives
// as environment variables injected at container start; an optional YAML file
// exists for local development runs only.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full configuration surface
type Config struct {
	// Sequencing layer
	SnapshotPath  string        `mapstructure:"snapshot_path" yaml:"snapshot_path"`
	JobLogPath    string        `mapstructure:"job_log_path" yaml:"job_log_path"`
	Schedule      string        `mapstructure:"schedule" yaml:"schedule"`
	StartupPolicy string        `mapstructure:"startup_policy" yaml:"startup_policy"`
	RunOnStartup  bool          `mapstructure:"run_on_startup" yaml:"run_on_startup"`
	TaskCommand   string        `mapstructure:"task_command" yaml:"task_command"`
	StopTimeout   time.Duration `mapstructure:"stop_timeout" yaml:"stop_timeout"`

	// Observability
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogJSON        bool   `mapstructure:"log_json" yaml:"log_json"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
	MetricsAddr    string `mapstructure:"metrics_addr" yaml:"metrics_addr"`

	// Notifier task
	OpenWeatherAPIKey string `mapstructure:"openweather_api_key" yaml:"openweather_api_key"`
	GmailUser         string `mapstructure:"gmail_user" yaml:"gmail_user"`
	GmailPassword     string `mapstructure:"gmail_password" yaml:"-"`
	ToEmail           string `mapstructure:"to_email" yaml:"to_email"`
	Latitude          string `mapstructure:"latitude" yaml:"latitude"`
	Longitude         string `mapstructure:"longitude" yaml:"longitude"`
	CityName          string `mapstructure:"city_name" yaml:"city_name"`
	SMTPHost          string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort          int    `mapstructure:"smtp_port" yaml:"smtp_port"`
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables win over file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("snapshot_path", "/etc/weathercron/env.snapshot")
	v.SetDefault("job_log_path", "/var/log/weathercron/jobs.log")
	v.SetDefault("schedule", "0 7 * * *")
	v.SetDefault("startup_policy", "continue")
	v.SetDefault("run_on_startup", true)
	v.SetDefault("task_command", "")
	v.SetDefault("stop_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("city_name", "DefaultCity")
	v.SetDefault("smtp_host", "smtp.gmail.com")
	v.SetDefault("smtp_port", 465)

	v.SetEnvPrefix("WEATHERCRON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The notifier's variables predate the WEATHERCRON_ prefix and are
	// injected unprefixed by existing deployments.
	v.BindEnv("openweather_api_key", "OPENWEATHER_API_KEY")
	v.BindEnv("gmail_user", "GMAIL_USER")
	v.BindEnv("gmail_password", "GMAIL_PASSWORD")
	v.BindEnv("to_email", "TO_EMAIL")
	v.BindEnv("latitude", "LATITUDE")
	v.BindEnv("longitude", "LONGITUDE")
	v.BindEnv("city_name", "CITY_NAME")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ValidateNotifier checks that every variable the notification task needs is
// set. The error names all missing variables at once so a broken deployment
// is diagnosed in a single run.
func (c *Config) ValidateNotifier() error {
	required := map[string]string{
		"OPENWEATHER_API_KEY": c.OpenWeatherAPIKey,
		"GMAIL_USER":          c.GmailUser,
		"GMAIL_PASSWORD":      c.GmailPassword,
		"TO_EMAIL":            c.ToEmail,
		"LATITUDE":            c.Latitude,
		"LONGITUDE":           c.Longitude,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	if _, err := strconv.ParseFloat(c.Latitude, 64); err != nil {
		return fmt.Errorf("LATITUDE must be numeric: %q", c.Latitude)
	}
	if _, err := strconv.ParseFloat(c.Longitude, 64); err != nil {
		return fmt.Errorf("LONGITUDE must be numeric: %q", c.Longitude)
	}
	return nil
}
