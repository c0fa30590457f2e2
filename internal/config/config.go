// Package config loads application configuration from environment variables,
// an optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable Load reads.
	EnvPrefix = "GITMONITOR_"
	// ConfigFileEnv names the optional YAML config file. Environment
	// variables override values from the file.
	ConfigFileEnv = EnvPrefix + "CONFIG_FILE"
)

// ErrMissingAppCredentials is returned by Validate when the GitHub App id,
// private key or webhook secret is not configured.
var ErrMissingAppCredentials = errors.New("missing github app credentials")

// Config holds the application configuration.
type Config struct {
	GitHubAppID         int64  `koanf:"github_app_id"`
	GitHubAppPrivateKey string `koanf:"github_app_private_key"`
	GitHubWebhookSecret string `koanf:"github_webhook_secret"`
	GitHubAPIURL        string `koanf:"github_api_url"`
	ListenAddr          string `koanf:"listen_addr"`
	LogLevel            string `koanf:"log_level"`
	LogFormat           string `koanf:"log_format"`
	TracingEnabled      bool   `koanf:"tracing_enabled"`
	SettingsPath        string `koanf:"settings_path"`
}

var defaults = map[string]any{
	"github_api_url":  "https://api.github.com/",
	"listen_addr":     "127.0.0.1:8080",
	"log_level":       "info",
	"log_format":      "text",
	"tracing_enabled": false,
	"settings_path":   ".github/ahk-monitor.yml",
}

// Load reads configuration and returns it. Sources, lowest precedence first:
// built-in defaults, the YAML file named by GITMONITOR_CONFIG_FILE, a .env file
// in the working directory, and GITMONITOR_* environment variables.
//
// GitHub App credentials are optional here; the service starts without them
// and rejects webhooks until they are provided (see Validate).
func Load() (*Config, error) {
	// A missing .env is not an error. Values already in the environment win.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: loading %s: %w", ConfigFileEnv, path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("setting default %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if _, err := cfg.Level(); err != nil {
		return nil, fmt.Errorf("%sLOG_LEVEL: %w", EnvPrefix, err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("%sLOG_FORMAT must be text or json, got %q", EnvPrefix, cfg.LogFormat)
	}

	return &cfg, nil
}

// Validate reports whether the GitHub App credentials needed to serve
// webhooks are present. The returned error wraps ErrMissingAppCredentials and
// names the missing settings.
func (c *Config) Validate() error {
	var missing []string
	if c.GitHubAppID <= 0 {
		missing = append(missing, EnvPrefix+"GITHUB_APP_ID")
	}
	if strings.TrimSpace(c.GitHubAppPrivateKey) == "" {
		missing = append(missing, EnvPrefix+"GITHUB_APP_PRIVATE_KEY")
	}
	if c.GitHubWebhookSecret == "" {
		missing = append(missing, EnvPrefix+"GITHUB_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingAppCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// WebhookSecret returns the secret GitHub signs deliveries with.
func (c *Config) WebhookSecret() string {
	return c.GitHubWebhookSecret
}

// PrivateKey returns the PEM encoded App private key. Keys passed through a
// single-line environment variable may carry literal "\n" sequences; those
// are turned back into newlines.
func (c *Config) PrivateKey() []byte {
	return []byte(strings.ReplaceAll(c.GitHubAppPrivateKey, `\n`, "\n"))
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
