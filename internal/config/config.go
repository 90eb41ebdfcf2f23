package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/user/lightbox-fetcher/internal/domain"
)

const (
	RendererHTTP   = "http"
	RendererChrome = "chrome"
)

// Config stores all configuration for the application.
type Config struct {
	HomeURL           string   `mapstructure:"HOME_URL"`
	DataPath          string   `mapstructure:"DATA_PATH"`
	ServerPort        string   `mapstructure:"SERVER_PORT"`
	PostgresURL       string   `mapstructure:"POSTGRES_URL"`
	RedisAddr         string   `mapstructure:"REDIS_ADDR"`
	FetchTimeout      int      `mapstructure:"FETCH_TIMEOUT"`
	DeduplicationDays int      `mapstructure:"DEDUPLICATION_DAYS"`
	PageRenderer      string   `mapstructure:"PAGE_RENDERER"`
	StrictStatus      bool     `mapstructure:"STRICT_STATUS"`
	ProxyURLs         []string `mapstructure:"PROXY_URLS"`
	UserAgentList     string   `mapstructure:"USER_AGENTS"` // "|" separated, agents contain commas
	LogLevel          string   `mapstructure:"LOG_LEVEL"`

	UserAgents []string `mapstructure:"-"`
}

// Load reads configuration from an env file and environment variables.
// An empty path falls back to ".env" in the working directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine, environment variables alone are enough.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	// Every key needs a default so Unmarshal sees env-only values.
	v.SetDefault("HOME_URL", "")
	v.SetDefault("DATA_PATH", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("FETCH_TIMEOUT", 30)     // in seconds, 0 disables
	v.SetDefault("DEDUPLICATION_DAYS", 2) // 0 disables the recently-fetched cache
	v.SetDefault("PAGE_RENDERER", RendererHTTP)
	v.SetDefault("STRICT_STATUS", false)
	v.SetDefault("PROXY_URLS", "")
	v.SetDefault("USER_AGENTS", "")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ProxyURLs = compact(cfg.ProxyURLs)
	cfg.UserAgents = compact(strings.Split(cfg.UserAgentList, "|"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the fetcher cannot run without.
func (c *Config) Validate() error {
	if c.HomeURL == "" {
		return fmt.Errorf("%w: HOME_URL", domain.ErrMissingConfig)
	}
	if c.DataPath == "" {
		return fmt.Errorf("%w: DATA_PATH", domain.ErrMissingConfig)
	}
	switch c.PageRenderer {
	case RendererHTTP, RendererChrome:
	default:
		return fmt.Errorf("unknown PAGE_RENDERER %q", c.PageRenderer)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT must not be negative, got %d", c.FetchTimeout)
	}
	if c.DeduplicationDays < 0 {
		return fmt.Errorf("DEDUPLICATION_DAYS must not be negative, got %d", c.DeduplicationDays)
	}
	return nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
