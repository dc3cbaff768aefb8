package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultPanelTTL       = 5 * time.Minute
	DefaultStreamInterval = 5 * time.Second
	DefaultAuthHeader     = "x-api-key"
)

const (
	configName = "statcard"
	configType = "yaml"
	envPrefix  = "STATCARD"
)

// Config is the top-level configuration file.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	HTTPPort    int          `mapstructure:"http_port"`
	Auth        AuthConfig   `mapstructure:"auth"`
	Panels      PanelsConfig `mapstructure:"panels"`
	Stream      StreamConfig `mapstructure:"stream"`
	OptionsFile string       `mapstructure:"options_file"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `mapstructure:"alerts"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `mapstructure:"rules"`
	Webhooks []WebhookConfig `mapstructure:"webhooks"`
}

// AlertRule defines one threshold-based alert condition on a card.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `mapstructure:"name"`

	// Condition is a simple expression: "average > 90", "anomalies > 0",
	// "status == HIGH", "trend == volatile".
	Condition string `mapstructure:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `mapstructure:"severity"`

	// Cooldown is the minimum time between two notifications for the same panel.
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `mapstructure:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `mapstructure:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `mapstructure:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	KeyEnv string `mapstructure:"key_env"`

	// Header is the HTTP header the key is read from.
	Header string `mapstructure:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAuthHeader
}

// PanelsConfig controls in-memory card retention.
type PanelsConfig struct {
	// TTL is how long a panel's card stays live after its last render.
	TTL time.Duration `mapstructure:"ttl"`
}

// StreamConfig controls the WebSocket broadcast.
type StreamConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads the config file at path. With an empty path, statcard.yaml is
// searched in the working directory and $HOME, and a missing file means
// defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("server config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("server config: unmarshal: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", DefaultHTTPPort)
	v.SetDefault("server.auth.mode", "none")
	v.SetDefault("server.auth.key_env", "")
	v.SetDefault("server.auth.header", DefaultAuthHeader)
	v.SetDefault("server.panels.ttl", DefaultPanelTTL)
	v.SetDefault("server.stream.interval", DefaultStreamInterval)
	v.SetDefault("server.options_file", "")
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Panels.TTL < 0 {
		return fmt.Errorf("server.panels.ttl must not be negative")
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	for i, r := range cfg.Server.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("server.alerts.rules[%d].name is required", i)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("server.alerts.rules[%d].severity %q unknown: want critical|warning|info", i, r.Severity)
		}
	}
	for i, w := range cfg.Server.Alerts.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("server.alerts.webhooks[%d].type %q unknown: want slack|teams|http", i, w.Type)
		}
	}
	return nil
}
