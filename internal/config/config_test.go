package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("expected otp ttl 10m, got %v", cfg.OTPTTL)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Fatalf("expected session ttl 720h, got %v", cfg.SessionTTL)
	}
	if cfg.OTPRateLimitMax != 5 || cfg.OTPVerifyMaxAttempts != 5 {
		t.Fatalf("unexpected otp limits: %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "9090" || cfg.OTPTTL != 2*time.Minute || cfg.SessionTTL != time.Hour || !cfg.AutoMigrate {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("OTP_TTL", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error for invalid duration")
	}
}
