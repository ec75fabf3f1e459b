// Package config содержит логику чтения конфигурации сервиса вовлечённости.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса вовлечённости.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	DatabaseURI     string `env:"DATABASE_URI"`
	AdminPassword   string `env:"ADMIN_PASSWORD"`
	ExportPrefix    string `env:"EXPORT_PREFIX"`
	GoogleReviewURL string `env:"GOOGLE_REVIEW_URL"`
	InstagramURL    string `env:"INSTAGRAM_URL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envAdminPassword := cfg.AdminPassword
	envExportPrefix := cfg.ExportPrefix

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.AdminPassword, "p", "", "admin dashboard password")
	flag.StringVar(&cfg.ExportPrefix, "e", "bhutan-customers", "CSV export filename prefix")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envAdminPassword != "" {
		cfg.AdminPassword = envAdminPassword
	}
	if envExportPrefix != "" {
		cfg.ExportPrefix = envExportPrefix
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.ExportPrefix == "" {
		cfg.ExportPrefix = "bhutan-customers"
	}
	if cfg.GoogleReviewURL == "" {
		cfg.GoogleReviewURL = "https://g.page/r/CboEJIhRzjcDEBM/review"
	}
	if cfg.InstagramURL == "" {
		cfg.InstagramURL = "https://www.instagram.com/bhutanwine/"
	}

	return cfg, nil
}
