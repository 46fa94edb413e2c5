// Package config содержит логику чтения конфигурации сервиса бронирования.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса бронирования.
type Config struct {
	RunAddress       string `env:"RUN_ADDRESS"`
	DatabaseURI      string `env:"DATABASE_URI"`
	SeedFile         string `env:"FLIGHTS_SEED_FILE"`
	AuthSecret       string `env:"AUTH_SECRET"`
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`

	// Учётная запись администратора создаётся при старте, если заданы оба поля.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envSeedFile := cfg.SeedFile
	envAuthSecret := cfg.AuthSecret
	envWebhookURL := cfg.NotifyWebhookURL

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory storage when empty")
	flag.StringVar(&cfg.SeedFile, "s", "", "flight catalog file (yaml or json)")
	flag.StringVar(&cfg.AuthSecret, "k", "", "auth cookie signing key")
	flag.StringVar(&cfg.NotifyWebhookURL, "w", "", "booking events webhook URL")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envSeedFile != "" {
		cfg.SeedFile = envSeedFile
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envWebhookURL != "" {
		cfg.NotifyWebhookURL = envWebhookURL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
