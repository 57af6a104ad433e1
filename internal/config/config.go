package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	// Sin DATABASE_URL se usan stores en memoria.
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	OTPTTL               time.Duration `env:"OTP_TTL" envDefault:"10m"`
	OTPRateLimitMax      int           `env:"OTP_RATE_LIMIT_MAX" envDefault:"5"`
	OTPRateLimitWindow   time.Duration `env:"OTP_RATE_LIMIT_WINDOW" envDefault:"10m"`
	OTPVerifyMaxAttempts int           `env:"OTP_VERIFY_MAX_ATTEMPTS" envDefault:"5"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	SMSGatewayURL string `env:"SMS_GATEWAY_URL"`
	SMSAPIKey     string `env:"SMS_API_KEY"`
	SMSSenderID   string `env:"SMS_SENDER_ID" envDefault:"TableBid"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
