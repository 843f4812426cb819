package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Fatalf("expected memory store by default, got %q", cfg.Store.Backend)
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("unexpected default port: %q", cfg.Server.Port)
	}
	if cfg.Identity.MaxSessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected max session ttl: %v", cfg.Identity.MaxSessionTTL)
	}
	if cfg.Redis.Addr() != "" {
		t.Fatalf("redis should be disabled without REDIS_HOST, got %q", cfg.Redis.Addr())
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("IDENTITY_URL", "http://idp.local/")
	t.Setenv("IDENTITY_REALM", "dao")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Store.Backend != "redis" {
		t.Fatalf("backend should be normalized, got %q", cfg.Store.Backend)
	}
	if cfg.Redis.Addr() != "localhost:6380" {
		t.Fatalf("unexpected redis addr %q", cfg.Redis.Addr())
	}
	if len(cfg.Events.KafkaBrokers) != 2 || cfg.Events.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.Events.KafkaBrokers)
	}
	if got := cfg.Identity.Issuer(); got != "http://idp.local/realms/dao" {
		t.Fatalf("unexpected issuer %q", got)
	}
	if !cfg.RateLimit.Enabled {
		t.Fatalf("rate limit should be enabled")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("jwt secret not loaded")
	}
}
