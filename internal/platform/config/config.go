package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultSEOAPIBaseURL  = "http://127.0.0.1:8000"
	defaultSEOAPITimeout  = 10 * time.Second
	defaultSiteBaseURL    = "http://localhost:8080"
	defaultSiteName       = "React SEO"
	defaultSiteAuthor     = "React SEO Team"
	defaultSiteLanguage   = "zh-TW"
	defaultSiteImage      = "/static/logo.svg"
	defaultTwitterCard    = "summary_large_image"
	productionEnvironment = "production"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	SEOAPI SEOAPIConfig
	Site   SiteConfig
	Debug  DebugConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string
}

// SEOAPIConfig points at the metadata service.
type SEOAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SiteConfig holds the values the head renderer falls back to.
type SiteConfig struct {
	BaseURL     string
	Name        string
	Author      string
	Language    string
	Image       string
	TwitterCard string
}

// DebugConfig toggles development-only surfaces.
type DebugConfig struct {
	Panels bool
}

// Production reports whether the server runs in the production environment.
func (c Config) Production() bool {
	return c.Server.Environment == productionEnvironment
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the site configuration by combining defaults, .env overrides and
// environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	environment := strings.ToLower(stringWithDefault(lookup, "SITE_ENVIRONMENT", defaultEnvironment))
	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "SITE_SERVER_PORT", defaultPort),
			Environment:  environment,
			ReadTimeout:  durationWithDefault(lookup, "SITE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SITE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SITE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
		SEOAPI: SEOAPIConfig{
			BaseURL: strings.TrimRight(stringWithDefault(lookup, "SITE_SEO_API_BASE_URL", defaultSEOAPIBaseURL), "/"),
			Timeout: durationWithDefault(lookup, "SITE_SEO_API_TIMEOUT", defaultSEOAPITimeout),
		},
		Site: SiteConfig{
			BaseURL:     strings.TrimRight(stringWithDefault(lookup, "SITE_BASE_URL", defaultSiteBaseURL), "/"),
			Name:        stringWithDefault(lookup, "SITE_NAME", defaultSiteName),
			Author:      stringWithDefault(lookup, "SITE_AUTHOR", defaultSiteAuthor),
			Language:    stringWithDefault(lookup, "SITE_LANGUAGE", defaultSiteLanguage),
			Image:       stringWithDefault(lookup, "SITE_OG_IMAGE", defaultSiteImage),
			TwitterCard: stringWithDefault(lookup, "SITE_TWITTER_CARD", defaultTwitterCard),
		},
		Debug: DebugConfig{
			// Panels default to on everywhere except production.
			Panels: boolWithDefault(lookup, "SITE_DEBUG_PANELS", environment != productionEnvironment),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if !isAbsoluteURL(cfg.SEOAPI.BaseURL) {
		missing = append(missing, "SEOAPI.BaseURL")
	}
	if cfg.SEOAPI.Timeout <= 0 {
		missing = append(missing, "SEOAPI.Timeout")
	}
	if !isAbsoluteURL(cfg.Site.BaseURL) {
		missing = append(missing, "Site.BaseURL")
	}
	if strings.TrimSpace(cfg.Site.Name) == "" {
		missing = append(missing, "Site.Name")
	}
	if _, err := language.Parse(cfg.Site.Language); err != nil {
		missing = append(missing, "Site.Language")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
