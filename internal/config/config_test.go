package config

import (
	"testing"
	"time"
)

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("DATA_DIR", "/tmp/mentoria-test")
	t.Setenv("STATIC_DIR", "/srv/static")
	t.Setenv("REDIS_ADDR", "127.0.0.1:16379")
	t.Setenv("LISTING_CACHE_TTL", "90s")

	cfg := Load()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.DataDir != "/tmp/mentoria-test" {
		t.Fatalf("expected DATA_DIR override, got %s", cfg.DataDir)
	}
	if cfg.StaticDir != "/srv/static" {
		t.Fatalf("expected STATIC_DIR override, got %s", cfg.StaticDir)
	}
	if cfg.RedisAddr != "127.0.0.1:16379" {
		t.Fatalf("expected REDIS_ADDR override, got %s", cfg.RedisAddr)
	}
	if cfg.ListingCacheTTL != 90*time.Second {
		t.Fatalf("expected LISTING_CACHE_TTL 90s, got %s", cfg.ListingCacheTTL)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DATA_DIR", "STATIC_DIR", "REDIS_ADDR", "LISTING_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP addr, got %s", cfg.HTTPAddr)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("expected default data dir, got %s", cfg.DataDir)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.ListingCacheTTL != 30*time.Second {
		t.Fatalf("expected default cache TTL 30s, got %s", cfg.ListingCacheTTL)
	}
}
