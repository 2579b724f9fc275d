package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Pool.Size != 100000 {
		t.Fatalf("default pool size = %d", cfg.Pool.Size)
	}
	if cfg.Pool.PageSize != 40 || cfg.Pool.CachePages != 12 {
		t.Fatalf("default paging = %d/%d", cfg.Pool.PageSize, cfg.Pool.CachePages)
	}
	if !cfg.Playback.SimulateTyping {
		t.Fatalf("typing simulation off by default")
	}
	if cfg.Playback.SeedBase != nil {
		t.Fatalf("seed base should default to nil (non-deterministic)")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatsim.yaml")
	data := `
pool:
  size: 500
  seed: 99
  page_size: 25
playback:
  rate_per_min: 90
  seed_base: 123
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pool.Size != 500 || cfg.Pool.Seed != 99 || cfg.Pool.PageSize != 25 {
		t.Fatalf("file values not applied: %+v", cfg.Pool)
	}
	if cfg.Playback.RatePerMin != 90 {
		t.Fatalf("rate = %v", cfg.Playback.RatePerMin)
	}
	if cfg.Playback.SeedBase == nil || *cfg.Playback.SeedBase != 123 {
		t.Fatalf("seed base not applied: %v", cfg.Playback.SeedBase)
	}
	// Untouched fields keep defaults.
	if cfg.Pool.SpanDays != 30 {
		t.Fatalf("span days = %d, want default 30", cfg.Pool.SpanDays)
	}
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Pool.Size != 100000 {
		t.Fatalf("defaults not applied on missing file")
	}
}

func TestMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pool: ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

// Out-of-range values are corrected, never rejected: the demo has no user
// facing error surface for configuration.
func TestClamping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatsim.yaml")
	data := `
pool:
  size: -5
  page_size: 0
  reply_fraction: 3.0
playback:
  rate_per_min: 0.2
  jitter_fraction: -1
  typing_min_ms: 500
  typing_max_ms: 100
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pool.Size != 1 {
		t.Fatalf("pool size clamped to %d, want 1", cfg.Pool.Size)
	}
	if cfg.Pool.PageSize != 40 {
		t.Fatalf("page size clamped to %d, want 40", cfg.Pool.PageSize)
	}
	if cfg.Pool.ReplyFraction != 1 {
		t.Fatalf("reply fraction clamped to %v, want 1", cfg.Pool.ReplyFraction)
	}
	if cfg.Playback.RatePerMin != 1 {
		t.Fatalf("rate clamped to %v, want 1", cfg.Playback.RatePerMin)
	}
	if cfg.Playback.JitterFraction != 0 {
		t.Fatalf("jitter clamped to %v, want 0", cfg.Playback.JitterFraction)
	}
	if cfg.Playback.TypingMaxMs != cfg.Playback.TypingMinMs {
		t.Fatalf("typing max %d not raised to min %d", cfg.Playback.TypingMaxMs, cfg.Playback.TypingMinMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHATSIM_POOL_SIZE", "777")
	t.Setenv("CHATSIM_RATE_PER_MIN", "42")
	t.Setenv("CHATSIM_METRICS_ADDR", "127.0.0.1:9999")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pool.Size != 777 {
		t.Fatalf("env pool size = %d", cfg.Pool.Size)
	}
	if cfg.Playback.RatePerMin != 42 {
		t.Fatalf("env rate = %v", cfg.Playback.RatePerMin)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != "127.0.0.1:9999" {
		t.Fatalf("env metrics not applied: %+v", cfg.Metrics)
	}
}
