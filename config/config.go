package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:":8080"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" default:""`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"default_secret_change_me"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	NATSURL         string        `envconfig:"NATS_URL" default:""`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	CheckoutTimeout time.Duration `envconfig:"CHECKOUT_TIMEOUT" default:"5s"`
	CheckoutRetries int           `envconfig:"CHECKOUT_RETRIES" default:"3"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Println("Warning: .env file not found, using environment variables or defaults.")
		} else {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return &cfg, nil
}
