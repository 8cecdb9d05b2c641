package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tendant/content-gateway/pkg/lifecycle"
	memorycache "github.com/tendant/content-gateway/pkg/lifecycle/cache/memory"
	rediscache "github.com/tendant/content-gateway/pkg/lifecycle/cache/redis"
	"github.com/tendant/content-gateway/pkg/lifecycle/provider"
	"github.com/tendant/content-gateway/pkg/lifecycle/validation"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:          "8080",
		Environment:   "development",
		CacheType:     "memory",
		CacheTTL:      time.Hour,
		CodePrefix:    "org.sunbird.",
		DefaultLocale: "en",
	}
}

// ServerConfig represents server configuration for the content gateway service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Upstream provider configuration
	ProviderBaseURL string
	ProviderAPIKey  string

	// Framework cache configuration
	CacheType string // "memory", "redis"
	RedisURL  string
	CacheTTL  time.Duration

	// Service options
	CodePrefix    string
	DefaultLocale string

	// Logger used by the built service; slog.Default() when nil
	Logger *slog.Logger
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.ProviderBaseURL == "" {
		return errors.New("provider_base_url is required")
	}

	if c.CacheType != "memory" && c.CacheType != "redis" {
		return errors.New("cache_type must be 'memory' or 'redis'")
	}

	if c.CacheType == "redis" && c.RedisURL == "" {
		return errors.New("redis_url is required when using redis")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (lifecycle.Service, error) {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}

	providerOpts := []provider.Option{provider.WithLogger(log)}
	if c.ProviderAPIKey != "" {
		providerOpts = append(providerOpts, provider.WithAPIKey(c.ProviderAPIKey))
	}
	client, err := provider.New(c.ProviderBaseURL, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider client: %w", err)
	}

	store, err := c.buildCacheStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache store: %w", err)
	}

	return lifecycle.New(
		lifecycle.WithProvider(client),
		lifecycle.WithCacheStore(store),
		lifecycle.WithValidator(validation.New()),
		lifecycle.WithNotifier(lifecycle.NewLogNotifier(log)),
		lifecycle.WithLogger(log),
		lifecycle.WithCodePrefix(c.CodePrefix),
		lifecycle.WithDefaultLocale(c.DefaultLocale),
	)
}

// buildCacheStore creates a CacheStore based on the configuration
func (c *ServerConfig) buildCacheStore() (lifecycle.CacheStore, error) {
	switch c.CacheType {
	case "memory":
		return memorycache.New(), nil
	case "redis":
		opt, err := goredis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client := goredis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return rediscache.New(client, rediscache.WithTTL(c.CacheTTL)), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", c.CacheType)
	}
}
