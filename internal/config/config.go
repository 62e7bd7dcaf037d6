// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formsession/pkg/model"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Form    FormConfig    `yaml:"form"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// FormConfig configures the sign-up form catalog.
type FormConfig struct {
	Title             string            `yaml:"title"`
	Countries         []string          `yaml:"countries"`
	Hobbies           []string          `yaml:"hobbies"`
	PasswordMinLength int               `yaml:"password_min_length"`
	Descriptions      map[string]string `yaml:"descriptions"`
}

// Catalog converts the form section into a model.Catalog.
func (f FormConfig) Catalog() model.Catalog {
	return model.Catalog{
		Countries:         append([]string{}, f.Countries...),
		Hobbies:           append([]string{}, f.Hobbies...),
		PasswordMinLength: f.PasswordMinLength,
		Descriptions:      f.Descriptions,
	}
}

// FormModel builds the sign-up form described by the configuration.
func (c *Config) FormModel() model.FormModel {
	form := model.SignupForm(c.Form.Catalog())
	if c.Form.Title != "" {
		form.Title = c.Form.Title
	}
	return form
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. Missing keys fall back to
// defaults and environment variables override file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback loads path when it is set and exists, otherwise defaults
// plus environment overrides.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORMSESSION_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FORMSESSION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FORMSESSION_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("FORMSESSION_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true" || v == "1"
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	defaults := model.DefaultCatalog()
	if len(cfg.Form.Countries) == 0 {
		cfg.Form.Countries = defaults.Countries
	}
	if len(cfg.Form.Hobbies) == 0 {
		cfg.Form.Hobbies = defaults.Hobbies
	}
	if cfg.Form.PasswordMinLength == 0 {
		cfg.Form.PasswordMinLength = defaults.PasswordMinLength
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format))
	}
	if cfg.Form.PasswordMinLength < 1 {
		errs = append(errs, fmt.Errorf("form.password_min_length must be positive, got %d", cfg.Form.PasswordMinLength))
	}
	for _, country := range cfg.Form.Countries {
		if country == model.CountryPlaceholder {
			errs = append(errs, fmt.Errorf("form.countries must not contain the placeholder %q", model.CountryPlaceholder))
		}
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with /, got %q", cfg.Metrics.Path))
	}

	return errors.Join(errs...)
}
