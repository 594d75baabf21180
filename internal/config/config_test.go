package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("Env %q", cfg.Env)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("HTTPPort %q", cfg.HTTPPort)
	}
	if cfg.AdminPassword != "" {
		t.Fatal("ADMIN_PASSWORD must not have a default")
	}
	if cfg.AuthCookieTTL != 24*time.Hour {
		t.Fatalf("AuthCookieTTL %v", cfg.AuthCookieTTL)
	}
	if cfg.CheckinDedupWindow != 0 {
		t.Fatalf("dedup window must default off, got %v", cfg.CheckinDedupWindow)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("RateLimitPerMin %d", cfg.RateLimitPerMin)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("CHECKIN_DEDUP_WINDOW", "5m")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("LIVE_BACKEND", "memory")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("Env %q", cfg.Env)
	}
	if cfg.AdminPassword != "hunter2" {
		t.Fatalf("AdminPassword %q", cfg.AdminPassword)
	}
	if cfg.CheckinDedupWindow != 5*time.Minute {
		t.Fatalf("CheckinDedupWindow %v", cfg.CheckinDedupWindow)
	}
	if cfg.RateLimitPerMin != 30 {
		t.Fatalf("RateLimitPerMin %d", cfg.RateLimitPerMin)
	}
	if cfg.LiveBackend != "memory" {
		t.Fatalf("LiveBackend %q", cfg.LiveBackend)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CHECKIN_DEDUP_WINDOW", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")

	cfg := Load()
	if cfg.CheckinDedupWindow != 0 {
		t.Fatalf("bad duration must fall back, got %v", cfg.CheckinDedupWindow)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("bad int must fall back, got %d", cfg.RateLimitPerMin)
	}
}
