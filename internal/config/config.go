package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Feed      FeedConfig      `yaml:"feed"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	// Mode is "http" (REST + MCP) or "stdio" (MCP only).
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled       bool   `yaml:"enabled"`
	JWTSecret     string `yaml:"jwt_secret"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	DefaultTenant string `yaml:"default_tenant"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

type SessionsConfig struct {
	Gap             time.Duration `yaml:"gap"`
	ActiveThreshold time.Duration `yaml:"active_threshold"`
	FetchLimit      int           `yaml:"fetch_limit"`
}

type FeedConfig struct {
	// Mode is "local" (events in SQLite) or "remote" (upstream HTTP API).
	Mode      string        `yaml:"mode"`
	BaseURL   string        `yaml:"base_url"`
	Token     string        `yaml:"token"`
	Timeout   time.Duration `yaml:"timeout"`
	DeleteRPS float64       `yaml:"delete_rps"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			DefaultTenant: "default",
		},
		DB: DBConfig{
			Path: "activity.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Sessions: SessionsConfig{
			Gap:             2 * time.Hour,
			ActiveThreshold: 10 * time.Minute,
			FetchLimit:      1000,
		},
		Feed: FeedConfig{
			Mode:      "local",
			Timeout:   10 * time.Second,
			DeleteRPS: 10,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("ACTIVITY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Transport.Mode != "http" && c.Transport.Mode != "stdio" {
		errs = append(errs, fmt.Errorf("transport.mode must be http or stdio, got %q", c.Transport.Mode))
	}
	if c.Sessions.Gap <= 0 {
		errs = append(errs, errors.New("sessions.gap must be positive"))
	}
	if c.Sessions.ActiveThreshold <= 0 {
		errs = append(errs, errors.New("sessions.active_threshold must be positive"))
	}
	if c.Sessions.FetchLimit <= 0 {
		errs = append(errs, errors.New("sessions.fetch_limit must be positive"))
	}
	switch c.Feed.Mode {
	case "local":
	case "remote":
		if c.Feed.BaseURL == "" {
			errs = append(errs, errors.New("feed.base_url is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("feed.mode must be local or remote, got %q", c.Feed.Mode))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("ACTIVITY_SERVER_HOST", &cfg.Server.Host)
	str("ACTIVITY_TRANSPORT_MODE", &cfg.Transport.Mode)
	str("ACTIVITY_JWT_SECRET", &cfg.Auth.JWTSecret)
	str("ACTIVITY_JWT_ISSUER", &cfg.Auth.JWTIssuer)
	str("ACTIVITY_DEFAULT_TENANT", &cfg.Auth.DefaultTenant)
	str("ACTIVITY_DB_PATH", &cfg.DB.Path)
	str("ACTIVITY_LOG_LEVEL", &cfg.Log.Level)
	str("ACTIVITY_LOG_FORMAT", &cfg.Log.Format)
	str("ACTIVITY_LOG_PATH", &cfg.Log.Path)
	str("ACTIVITY_FEED_MODE", &cfg.Feed.Mode)
	str("ACTIVITY_FEED_BASE_URL", &cfg.Feed.BaseURL)
	str("ACTIVITY_FEED_TOKEN", &cfg.Feed.Token)

	if v, ok := lookup("ACTIVITY_SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup("ACTIVITY_AUTH_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid ACTIVITY_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if v, ok := lookup("ACTIVITY_SESSION_FETCH_LIMIT"); ok && v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITY_SESSION_FETCH_LIMIT: %w", err)
		}
		cfg.Sessions.FetchLimit = limit
	}
	if v, ok := lookup("ACTIVITY_FEED_DELETE_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITY_FEED_DELETE_RPS: %w", err)
		}
		cfg.Feed.DeleteRPS = rps
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ACTIVITY_SESSION_GAP", &cfg.Sessions.Gap},
		{"ACTIVITY_ACTIVE_THRESHOLD", &cfg.Sessions.ActiveThreshold},
		{"ACTIVITY_FEED_TIMEOUT", &cfg.Feed.Timeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}
