package config

import (
    "testing"
    "time"
)

func clearRateLimitEnv(t *testing.T) {
    t.Helper()
    for _, k := range []string{
        "RATE_LIMIT_ENABLED",
        "RATE_LIMIT_CAPACITY",
        "RATE_LIMIT_REFILL_TOKENS",
        "RATE_LIMIT_REFILL_INTERVAL",
        "RATE_LIMIT_TTL",
        "RATE_LIMIT_PREFIX",
    } {
        t.Setenv(k, "")
    }
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
    clearRateLimitEnv(t)

    cfg := LoadRateLimitConfig()
    if !cfg.Enabled {
        t.Fatal("limiter should default to enabled")
    }
    if cfg.Capacity != 10 || cfg.RefillTokens != 1 {
        t.Fatalf("capacity/refill = %d/%d, want 10/1", cfg.Capacity, cfg.RefillTokens)
    }
    if cfg.RefillInterval != 6*time.Second {
        t.Fatalf("refill interval = %v, want 6s", cfg.RefillInterval)
    }
    if cfg.TTL != 10*time.Minute {
        t.Fatalf("ttl = %v, want 10m", cfg.TTL)
    }
    if cfg.Prefix != "rl" {
        t.Fatalf("prefix = %q", cfg.Prefix)
    }
}

func TestLoadRateLimitConfigClampsBadValues(t *testing.T) {
    clearRateLimitEnv(t)
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
        t.Fatalf("capacity/refill = %d/%d, want clamped to 1/1", cfg.Capacity, cfg.RefillTokens)
    }
    if cfg.RefillInterval != time.Second {
        t.Fatalf("refill interval = %v, want 1s floor", cfg.RefillInterval)
    }
    if cfg.TTL < 5*cfg.RefillInterval {
        t.Fatalf("ttl = %v, must cover at least five refill cycles", cfg.TTL)
    }
}

func TestLoadRateLimitConfigSubSecondInterval(t *testing.T) {
    clearRateLimitEnv(t)
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "500ms")

    cfg := LoadRateLimitConfig()
    if cfg.RefillInterval != 500*time.Millisecond {
        t.Fatalf("refill interval = %v, want 500ms", cfg.RefillInterval)
    }
    if cfg.TTL < 5*cfg.RefillInterval {
        t.Fatalf("ttl = %v too short for interval %v", cfg.TTL, cfg.RefillInterval)
    }
}
