package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/internal/config"
	"github.com/goliatone/go-formsession/pkg/model"
)

func writeAndLoad(t *testing.T, content string) (*config.Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return config.Load(path)
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := writeAndLoad(t, `
server:
  addr: "127.0.0.1:9090"
  read_timeout: 3s
logging:
  level: debug
  format: console
form:
  title: "Join the club"
  countries: ["Norway", "Chile"]
  password_min_length: 10
  descriptions:
    email: "We never share it."
`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server.ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default 10s", cfg.Server.WriteTimeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	form := cfg.FormModel()
	if form.Title != "Join the club" {
		t.Errorf("form title = %q", form.Title)
	}
	country, _ := form.Field("country")
	if diff := cmp.Diff([]string{model.CountryPlaceholder, "Norway", "Chile"}, country.OptionValues()); diff != "" {
		t.Errorf("countries mismatch (-want +got):\n%s", diff)
	}
	hobbies, _ := form.Field("hobbies")
	if diff := cmp.Diff(model.DefaultCatalog().Hobbies, hobbies.OptionValues()); diff != "" {
		t.Errorf("hobbies should default (-want +got):\n%s", diff)
	}
	email, _ := form.Field("email")
	if email.Description != "We never share it." {
		t.Errorf("email description = %q", email.Description)
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %s", cfg.Metrics.Path)
	}
	if cfg.Form.PasswordMinLength != model.DefaultPasswordMinLength {
		t.Errorf("PasswordMinLength = %d", cfg.Form.PasswordMinLength)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FORMSESSION_ADDR", ":9999")
	t.Setenv("FORMSESSION_LOG_LEVEL", "warn")
	t.Setenv("FORMSESSION_METRICS_ENABLED", "true")

	cfg, err := writeAndLoad(t, "server:\n  addr: \":7000\"\n")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %s, want env override", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Errorf("Metrics.Enabled should be true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"format":      "logging:\n  format: xml\n",
		"placeholder": "form:\n  countries: [\"Select a country\"]\n",
		"min length":  "form:\n  password_min_length: -3\n",
		"yaml":        "server: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := writeAndLoad(t, content); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadWithFallback_MissingFile(t *testing.T) {
	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		t.Fatalf("expected defaults, got %+v", cfg.Metrics)
	}
}
