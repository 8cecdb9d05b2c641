package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/content-gateway/pkg/lifecycle/api"
	"github.com/tendant/content-gateway/pkg/lifecycle/config"
)

type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	Provider ProviderConfig
	Cache    CacheConfig

	CodePrefix    string `env:"CONTENT_CODE_PREFIX" env-default:"org.sunbird."`
	DefaultLocale string `env:"DEFAULT_LOCALE" env-default:"en"`
}

type ProviderConfig struct {
	BaseURL string `env:"PROVIDER_BASE_URL" env-default:"http://localhost:5000"`
	APIKey  string `env:"PROVIDER_API_KEY"`
}

type CacheConfig struct {
	Type     string        `env:"CACHE_TYPE" env-default:"memory"`
	RedisURL string        `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	TTL      time.Duration `env:"CACHE_TTL" env-default:"1h"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment == "development" {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	serverCfg, err := config.Load(func(c *config.ServerConfig) error {
		c.Port = cfg.Port
		c.Environment = cfg.Environment
		c.ProviderBaseURL = cfg.Provider.BaseURL
		c.ProviderAPIKey = cfg.Provider.APIKey
		c.CacheType = cfg.Cache.Type
		c.RedisURL = cfg.Cache.RedisURL
		c.CacheTTL = cfg.Cache.TTL
		c.CodePrefix = cfg.CodePrefix
		c.DefaultLocale = cfg.DefaultLocale
		c.Logger = log
		return nil
	})
	if err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	svc, err := serverCfg.BuildService()
	if err != nil {
		log.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(api.RequestIDMiddleware)
	r.Use(api.RequestLoggerMiddleware(log))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Mount("/api/v1", api.NewContentHandler(svc).Routes())

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Starting content gateway", "port", serverCfg.Port, "environment", serverCfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", "err", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
