// Package config resolves sync settings from flags, environment and an
// optional config file.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ralt/rhinopackages/internal/models"
	"github.com/spf13/viper"
)

const (
	envPrefix           = "RHINOPACKAGES"
	defaultRegistryURL  = "https://yak.rhino3d.com"
	defaultTimeout      = 60 * time.Second
	defaultUserAgent    = "rhinopackages"
	defaultOutputDir    = "public"
	defaultFallbackIcon = "/icons/special/default.png"
	defaultLogLevel     = "info"
)

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("registry.url", defaultRegistryURL)
	configViper.SetDefault("registry.timeout", defaultTimeout)
	configViper.SetDefault("registry.user_agent", defaultUserAgent)
	configViper.SetDefault("output.dir", defaultOutputDir)
	configViper.SetDefault("output.compress", false)
	configViper.SetDefault("icon.fallback", defaultFallbackIcon)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("sign.key", "")
	configViper.SetDefault("sign.passphrase", "")
	configViper.SetDefault("rebuild", false)
}

// ReadFile merges a YAML, TOML or JSON config file into configViper.
// An empty path is a no-op.
func ReadFile(configViper *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	configViper.SetConfigFile(path)
	if err := configViper.ReadInConfig(); err != nil {
		return &models.SyncError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("failed to read config file %s: %w", path, err),
		}
	}
	return nil
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (models.SyncConfig, error) {
	cfg := models.SyncConfig{
		RegistryURL:   strings.TrimSpace(configViper.GetString("registry.url")),
		Timeout:       configViper.GetDuration("registry.timeout"),
		UserAgent:     configViper.GetString("registry.user_agent"),
		OutputDir:     strings.TrimSpace(configViper.GetString("output.dir")),
		FallbackIcon:  configViper.GetString("icon.fallback"),
		Compress:      configViper.GetBool("output.compress"),
		GPGKeyPath:    configViper.GetString("sign.key"),
		GPGPassphrase: configViper.GetString("sign.passphrase"),
		Rebuild:       configViper.GetBool("rebuild"),
	}

	if err := validate(cfg); err != nil {
		return models.SyncConfig{}, &models.SyncError{Type: models.ErrInvalidConfig, Err: err}
	}

	return cfg, nil
}

func validate(c models.SyncConfig) error {
	if c.RegistryURL == "" {
		return fmt.Errorf("registry.url is required")
	}
	u, err := url.Parse(c.RegistryURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("registry.url must be an absolute http(s) URL, got %q", c.RegistryURL)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("registry.timeout must be positive")
	}
	if c.GPGPassphrase != "" && c.GPGKeyPath == "" {
		return fmt.Errorf("sign.passphrase is set without sign.key")
	}
	return nil
}
