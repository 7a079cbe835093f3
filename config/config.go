package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mergington/activityboard/logging"
)

const (
	defaultUpstreamTimeout = 10 * time.Second
	defaultMessageTimeout  = 5 * time.Second
	defaultListenAddr      = ":8080"
	defaultTitle           = "Mergington High School"

	defaultMetricsPrefix = "activityboard"
	defaultJobName       = "activityboard"
	defaultConsoleSize   = 100
)

// Environment variables that override values from the config file.
const (
	EnvUpstreamURL = "ACTIVITYBOARD_UPSTREAM_URL"
	EnvListenAddr  = "ACTIVITYBOARD_LISTEN_ADDR"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the complete application configuration.
type Config struct {
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Board      BoardConfig      `yaml:"board"`
	Listener   ListenerConfig   `yaml:"listener"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    logging.Config   `yaml:"logging"`
}

// UpstreamConfig locates the activities server.
type UpstreamConfig struct {
	// URL is the base URL of the activities server, e.g. http://localhost:8000
	URL string `yaml:"url" validate:"required,url"`
	// Timeout bounds each request to the activities server
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// BoardConfig controls the board UI.
type BoardConfig struct {
	Title string `yaml:"title"`
	// MessageTimeout is how long a status message stays visible
	MessageTimeout time.Duration `yaml:"message_timeout" validate:"gt=0"`
	// RefreshSchedule optionally reloads the activity list on a cron schedule
	RefreshSchedule string `yaml:"refresh_schedule"`
	// ConsoleSize is the number of diagnostic log entries kept for /api/console
	ConsoleSize int `yaml:"console_size" validate:"gte=0"`
}

// ListenerConfig holds HTTP server listener settings.
type ListenerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// MonitoringConfig holds metrics settings. VictoriaMetricsURL is only used by
// the CLI, which pushes its metrics on exit.
type MonitoringConfig struct {
	VictoriaMetricsURL string `yaml:"victoriametrics_url" validate:"omitempty,url"`
	MetricsPrefix      string `yaml:"metrics_prefix"`
	JobName            string `yaml:"jobname"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SetDefaults sets default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = defaultUpstreamTimeout
	}
	if c.Board.Title == "" {
		c.Board.Title = defaultTitle
	}
	if c.Board.MessageTimeout == 0 {
		c.Board.MessageTimeout = defaultMessageTimeout
	}
	if c.Board.ConsoleSize == 0 {
		c.Board.ConsoleSize = defaultConsoleSize
	}
	if c.Listener.Addr == "" {
		c.Listener.Addr = defaultListenAddr
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvUpstreamURL); v != "" {
		c.Upstream.URL = v
	}
	if v := getenv(EnvListenAddr); v != "" {
		c.Listener.Addr = v
	}
}

// Redacted returns a copy of the config with URL passwords masked.
func (c Config) Redacted() Config {
	c.Upstream.URL = redactURL(c.Upstream.URL)
	c.Monitoring.VictoriaMetricsURL = redactURL(c.Monitoring.VictoriaMetricsURL)
	return c
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// LoadConfig reads the YAML config file at path, applies environment
// overrides and defaults, and validates the result. An empty path builds the
// configuration from the environment alone.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
