package cfg

import (
	"os"
	"testing"
	"time"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	original := os.Args
	os.Args = append([]string{"radar"}, args...)
	t.Cleanup(func() { os.Args = original })
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadDefaults(t *testing.T) {
	withArgs(t)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CX", "")
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.FeedSource != FeedSourceSearch {
		t.Errorf("Expected feed source '%s', got '%s'", FeedSourceSearch, cfg.FeedSource)
	}
	if cfg.UserAgent != defaultUserAgent {
		t.Errorf("Expected browser user agent, got '%s'", cfg.UserAgent)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("Expected fetch timeout 15s, got %v", cfg.FetchTimeout)
	}
	if cfg.PopularityTTL != 24*time.Hour {
		t.Errorf("Expected popularity TTL 24h, got %v", cfg.PopularityTTL)
	}
	if cfg.TrendsBatchDelay != time.Second {
		t.Errorf("Expected trends batch delay 1s, got %v", cfg.TrendsBatchDelay)
	}
	if cfg.FeedCacheTTL != time.Hour {
		t.Errorf("Expected feed cache TTL 1h, got %v", cfg.FeedCacheTTL)
	}
	if cfg.PopularitySchedule != "@daily" {
		t.Errorf("Expected popularity schedule '@daily', got '%s'", cfg.PopularitySchedule)
	}
	if cfg.HasSearchCredentials() {
		t.Error("Expected no search credentials by default")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadFlagsAndEnvironment(t *testing.T) {
	withArgs(t, "--port", "9090", "--feed-source", "synthetic", "--trends-batch-delay", "0")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CX", "cx")
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.FeedSource != FeedSourceSynthetic {
		t.Errorf("Expected feed source '%s', got '%s'", FeedSourceSynthetic, cfg.FeedSource)
	}
	if cfg.TrendsBatchDelay != 0 {
		t.Errorf("Expected no trends batch delay, got %v", cfg.TrendsBatchDelay)
	}
	if !cfg.HasSearchCredentials() {
		t.Error("Expected search credentials from environment")
	}
}

func TestLoadRejectsUnknownFeedSource(t *testing.T) {
	withArgs(t, "--feed-source", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Error("Expected error for unknown feed source")
	}
}

func TestLoadRejectsZeroWorkers(t *testing.T) {
	withArgs(t, "--worker-count", "0")

	if _, err := Load(); err == nil {
		t.Error("Expected error for zero workers")
	}
}
