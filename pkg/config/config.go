package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"chatsim/pkg/logger"
)

// Default returns the stock configuration: a 100k-message pool replayed at
// a conversational rate with typing simulation on.
func Default() Config {
	var cfg Config
	cfg.Logging.Level = "info"
	cfg.Directory.Size = 120
	cfg.Directory.Seed = 7
	cfg.Directory.PresencePercent = 0.12
	cfg.Directory.PresenceCron = "* * * * *"
	cfg.Pool.Size = 100000
	cfg.Pool.Seed = 1
	cfg.Pool.SpanDays = 30
	cfg.Pool.PageSize = 40
	cfg.Pool.CachePages = 12
	cfg.Pool.ReplyFraction = 0.06
	cfg.Pool.AttachmentFraction = 0.04
	cfg.Pool.PinnedFraction = 0.0008
	cfg.Playback.RatePerMin = 20
	cfg.Playback.JitterFraction = 0.35
	cfg.Playback.SimulateTyping = true
	cfg.Playback.SimulateTypingFraction = 0.4
	cfg.Playback.TypingMinMs = 800
	cfg.Playback.TypingMaxMs = 3500
	cfg.Playback.TypingPerCharMs = 45
	cfg.Metrics.Addr = "127.0.0.1:9188"
	return cfg
}

// Load reads the YAML file at path over the defaults, applies CHATSIM_*
// env overrides, and clamps out-of-range values. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
			logger.Warn("config_file_missing", "path", path)
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.clamp()
	return cfg, nil
}

// applyEnv lets environment variables override file values, mirroring the
// precedence used elsewhere: env wins over file, flags win over both.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CHATSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := envInt("CHATSIM_POOL_SIZE"); ok {
		cfg.Pool.Size = v
	}
	if v, ok := envInt("CHATSIM_POOL_SEED"); ok {
		cfg.Pool.Seed = uint32(v)
	}
	if v, ok := envInt("CHATSIM_SPAN_DAYS"); ok {
		cfg.Pool.SpanDays = v
	}
	if v, ok := envFloat("CHATSIM_RATE_PER_MIN"); ok {
		cfg.Playback.RatePerMin = v
	}
	if v := os.Getenv("CHATSIM_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("CHATSIM_PIN_PATH"); v != "" {
		cfg.Store.PinPath = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("config_env_invalid", "key", key, "value", v)
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("config_env_invalid", "key", key, "value", v)
		return 0, false
	}
	return f, true
}

// clamp corrects out-of-range numerics instead of failing; the demo must
// start with whatever it was given.
func (c *Config) clamp() {
	if c.Directory.Size < 0 {
		logger.Warn("config_clamped", "field", "directory.size", "value", c.Directory.Size)
		c.Directory.Size = 0
	}
	c.Directory.PresencePercent = clamp01("directory.presence_percent", c.Directory.PresencePercent)
	if c.Pool.Size < 1 {
		logger.Warn("config_clamped", "field", "pool.size", "value", c.Pool.Size)
		c.Pool.Size = 1
	}
	if c.Pool.SpanDays < 1 {
		logger.Warn("config_clamped", "field", "pool.span_days", "value", c.Pool.SpanDays)
		c.Pool.SpanDays = 1
	}
	if c.Pool.PageSize < 1 {
		logger.Warn("config_clamped", "field", "pool.page_size", "value", c.Pool.PageSize)
		c.Pool.PageSize = 40
	}
	if c.Pool.CachePages < 1 {
		logger.Warn("config_clamped", "field", "pool.cache_pages", "value", c.Pool.CachePages)
		c.Pool.CachePages = 12
	}
	c.Pool.ReplyFraction = clamp01("pool.reply_fraction", c.Pool.ReplyFraction)
	c.Pool.AttachmentFraction = clamp01("pool.attachment_fraction", c.Pool.AttachmentFraction)
	c.Pool.PinnedFraction = clamp01("pool.pinned_fraction", c.Pool.PinnedFraction)
	if c.Playback.RatePerMin < 1 {
		logger.Warn("config_clamped", "field", "playback.rate_per_min", "value", c.Playback.RatePerMin)
		c.Playback.RatePerMin = 1
	}
	c.Playback.JitterFraction = clamp01("playback.jitter_fraction", c.Playback.JitterFraction)
	c.Playback.SimulateTypingFraction = clamp01("playback.simulate_typing_fraction", c.Playback.SimulateTypingFraction)
	if c.Playback.TypingMinMs < 0 {
		c.Playback.TypingMinMs = 0
	}
	if c.Playback.TypingMaxMs < c.Playback.TypingMinMs {
		logger.Warn("config_clamped", "field", "playback.typing_max_ms", "value", c.Playback.TypingMaxMs)
		c.Playback.TypingMaxMs = c.Playback.TypingMinMs
	}
	if c.Playback.TypingPerCharMs < 1 {
		c.Playback.TypingPerCharMs = 45
	}
}

func clamp01(field string, v float64) float64 {
	if v < 0 {
		logger.Warn("config_clamped", "field", field, "value", v)
		return 0
	}
	if v > 1 {
		logger.Warn("config_clamped", "field", field, "value", v)
		return 1
	}
	return v
}
