package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the matchdeck client.
type Config struct {
	API   APIConfig
	Cache CacheConfig
	Retry RetryConfig
	Store StoreConfig
}

// APIConfig points the client at the recommendation backend.
type APIConfig struct {
	BaseURL string        // recommendation API root, e.g. https://api.example.com/v1
	Token   string        // bearer token, expanded from env var by Load
	Timeout time.Duration // per-request timeout
}

// CacheConfig controls the first-page cache.
type CacheConfig struct {
	Validity time.Duration // age after which the cached first page is stale
}

// RetryConfig controls the retry decorator around the best-matches fetch.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// StoreConfig locates the local saved-jobs database.
type StoreConfig struct {
	Path string
}

const (
	defaultTimeout  = 30 * time.Second
	defaultValidity = 1 * time.Hour
	defaultRetries  = 2
	defaultDelay    = 5 * time.Second
	defaultDBPath   = "matchdeck.db"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	API   rawAPIConfig   `yaml:"api"`
	Cache rawCacheConfig `yaml:"cache"`
	Retry rawRetryConfig `yaml:"retry"`
	Store rawStoreConfig `yaml:"store"`
}

type rawAPIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

type rawCacheConfig struct {
	Validity string `yaml:"validity"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawStoreConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables (token is usually ${MATCHDECK_TOKEN}).
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := defaultTimeout
	if raw.API.Timeout != "" {
		timeout, err = time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
	}

	validity := defaultValidity
	if raw.Cache.Validity != "" {
		validity, err = time.ParseDuration(raw.Cache.Validity)
		if err != nil {
			return nil, fmt.Errorf("parse cache.validity %q: %w", raw.Cache.Validity, err)
		}
	}

	retries := defaultRetries
	if raw.Retry.MaxRetries != nil {
		retries = *raw.Retry.MaxRetries
	}

	baseDelay := defaultDelay
	if raw.Retry.BaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}

	dbPath := raw.Store.Path
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(raw.API.BaseURL, "/"),
			Token:   raw.API.Token,
			Timeout: timeout,
		},
		Cache: CacheConfig{Validity: validity},
		Retry: RetryConfig{MaxRetries: retries, BaseDelay: baseDelay},
		Store: StoreConfig{Path: dbPath},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(cfg.API.BaseURL, "http://") && !strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}
	if cfg.Cache.Validity <= 0 {
		return fmt.Errorf("cache.validity must be positive, got %v", cfg.Cache.Validity)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base_delay must be positive, got %v", cfg.Retry.BaseDelay)
	}
	return nil
}
