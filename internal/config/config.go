package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	MySQLDSN  string
	JWTSecret string
	Env       string
	TokenTTL  time.Duration
}

// devSecret keeps local development friction-free. Production must supply
// its own secret; Load refuses to fall back there.
const devSecret = "dev_secret_change_me"

func Load() (*Config, error) {
	cfg := &Config{
		Port:      getenv("PORT", "8080"),
		MySQLDSN:  getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/shop?parseTime=true"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Env:       getenv("APP_ENV", "development"),
		TokenTTL:  time.Hour,
	}

	if ttl := os.Getenv("TOKEN_TTL_SECONDS"); ttl != "" {
		n, err := strconv.Atoi(ttl)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_SECONDS %q", ttl)
		}
		cfg.TokenTTL = time.Duration(n) * time.Second
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devSecret
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
