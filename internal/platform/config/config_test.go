package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("expected development environment, got %s", cfg.Server.Environment)
	}
	if cfg.SEOAPI.BaseURL != defaultSEOAPIBaseURL {
		t.Errorf("expected default seo api url, got %s", cfg.SEOAPI.BaseURL)
	}
	if cfg.SEOAPI.Timeout != defaultSEOAPITimeout {
		t.Errorf("unexpected seo api timeout: %s", cfg.SEOAPI.Timeout)
	}
	if cfg.Site.Name != "React SEO" || cfg.Site.Language != "zh-TW" {
		t.Errorf("unexpected site defaults: %+v", cfg.Site)
	}
	if !cfg.Debug.Panels {
		t.Errorf("expected debug panels enabled outside production")
	}
	if cfg.Production() {
		t.Errorf("expected non-production config")
	}
}

func TestLoadProductionDisablesPanels(t *testing.T) {
	env := map[string]string{"SITE_ENVIRONMENT": "Production"}
	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Production() {
		t.Fatalf("expected production config")
	}
	if cfg.Debug.Panels {
		t.Fatalf("expected debug panels disabled in production")
	}

	env["SITE_DEBUG_PANELS"] = "on"
	cfg, err = Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Debug.Panels {
		t.Fatalf("expected explicit flag to enable panels")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"SITE_SERVER_PORT":          "9090",
		"SITE_SERVER_READ_TIMEOUT":  "20s",
		"SITE_SERVER_WRITE_TIMEOUT": "25s",
		"SITE_SEO_API_BASE_URL":     "https://meta.example.com/",
		"SITE_SEO_API_TIMEOUT":      "3s",
		"SITE_BASE_URL":             "https://www.example.com/",
		"SITE_NAME":                 "Example",
		"SITE_LANGUAGE":             "en-US",
		"LOG_LEVEL":                 "DEBUG",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second || cfg.Server.WriteTimeout != 25*time.Second {
		t.Errorf("unexpected timeouts: %+v", cfg.Server)
	}
	if cfg.SEOAPI.BaseURL != "https://meta.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.SEOAPI.BaseURL)
	}
	if cfg.SEOAPI.Timeout != 3*time.Second {
		t.Errorf("unexpected api timeout: %s", cfg.SEOAPI.Timeout)
	}
	if cfg.Site.BaseURL != "https://www.example.com" {
		t.Errorf("unexpected site base url: %s", cfg.Site.BaseURL)
	}
	if cfg.Site.Language != "en-US" {
		t.Errorf("unexpected language: %s", cfg.Site.Language)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected lowercase log level, got %s", cfg.Log.Level)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"SITE_SEO_API_BASE_URL": "not a url",
		"SITE_BASE_URL":         "/relative",
		"SITE_LANGUAGE":         "???",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := vErr.Fields()
	want := map[string]bool{"SEOAPI.BaseURL": false, "Site.BaseURL": false, "Site.Language": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("expected %s in validation fields %v", field, fields)
		}
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport SITE_SERVER_PORT=7070\nSITE_NAME=\"Dot Env Site\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{
		"SITE_NAME": "Env Map Site",
	}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.Site.Name != "Env Map Site" {
		t.Errorf("expected env map to win over .env, got %s", cfg.Site.Name)
	}
}
