package config

// Config is the main configuration struct.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Directory DirectoryConfig `yaml:"directory"`
	Pool      PoolConfig      `yaml:"pool"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Store     StoreConfig     `yaml:"store"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DirectoryConfig shapes the synthetic member directory and its presence
// simulation.
type DirectoryConfig struct {
	Size            int     `yaml:"size"`
	Seed            uint32  `yaml:"seed"`
	PresencePercent float64 `yaml:"presence_percent"`
	// PresenceCron schedules background presence refresh steps. Empty
	// disables the refresher.
	PresenceCron string `yaml:"presence_cron"`
}

// PoolConfig shapes message generation and paging.
type PoolConfig struct {
	Size     int    `yaml:"size"`
	Seed     uint32 `yaml:"seed"`
	SpanDays int    `yaml:"span_days"`
	PageSize int    `yaml:"page_size"`
	// CachePages bounds the LRU page cache.
	CachePages int  `yaml:"cache_pages"`
	AllowWrap  bool `yaml:"allow_wrap"`
	// Materialize generates the full pool up front (with de-duplication)
	// instead of paging virtually.
	Materialize        bool    `yaml:"materialize"`
	ReplyFraction      float64 `yaml:"reply_fraction"`
	AttachmentFraction float64 `yaml:"attachment_fraction"`
	PinnedFraction     float64 `yaml:"pinned_fraction"`
}

// PlaybackConfig shapes the emission loop.
type PlaybackConfig struct {
	RatePerMin             float64 `yaml:"rate_per_min"`
	JitterFraction         float64 `yaml:"jitter_fraction"`
	UseStreamAPI           bool    `yaml:"use_stream_api"`
	SimulateTyping         bool    `yaml:"simulate_typing"`
	SimulateTypingFraction float64 `yaml:"simulate_typing_fraction"`
	TypingMinMs            int     `yaml:"typing_min_ms"`
	TypingMaxMs            int     `yaml:"typing_max_ms"`
	TypingPerCharMs        int     `yaml:"typing_per_char_ms"`
	// SeedBase, when set, makes jitter and typing decisions reproducible.
	SeedBase *uint32 `yaml:"seed_base"`
}

// MetricsConfig controls the optional local prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StoreConfig holds local persistence paths.
type StoreConfig struct {
	// PinPath, when set, persists pinned messages in a pebble DB there.
	PinPath string `yaml:"pin_path"`
}
