package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, read from the environment
// with sensible defaults for local development. JWT_SECRET has no
// default and is required.
type Config struct {
	AppPort     string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	RabbitMQURL string
	RedisAddr   string
	CORSOrigins string
	LogLevel    string
}

// Load reads the configuration via viper.
func Load() (*Config, error) {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=comandero port=5432 sslmode=disable")
	viper.SetDefault("TOKEN_TTL", "2h")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	cfg := &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseDSN: viper.GetString("DATABASE_DSN"),
		JWTSecret:   viper.GetString("JWT_SECRET"),
		TokenTTL:    viper.GetDuration("TOKEN_TTL"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
		RedisAddr:   viper.GetString("REDIS_ADDR"),
		CORSOrigins: viper.GetString("CORS_ORIGINS"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration")
	}
	return cfg, nil
}
