// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and environment on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Record store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// PaletteEntry binds one category to its color in legend order.
type PaletteEntry struct {
	Category string `koanf:"category"`
	Color    string `koanf:"color"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath points to a JSON dataset. Empty uses the embedded one.
	DatasetPath string `koanf:"dataset_path"`

	// Store selects the record store: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the SQLite database file used by the sqlite store.
	// Empty keeps the database in memory.
	SQLitePath string `koanf:"sqlite_path"`

	// PitchPath points to a PNG, JPEG or TGA pitch image. Empty draws one.
	PitchPath string `koanf:"pitch_path"`

	// InvertY flips the vertical scale so data y grows upwards.
	InvertY bool `koanf:"invert_y"`

	// MarkRadius is the circle radius of every mark in pixels.
	MarkRadius float64 `koanf:"mark_radius"`

	// EnterDurationMS is how long entering marks take to fade in.
	EnterDurationMS int `koanf:"enter_duration_ms"`

	// SessionCapacity bounds the number of viewer sessions kept in memory.
	SessionCapacity int `koanf:"session_capacity"`

	// QueueSize bounds the interaction queue feeding the UI loop.
	QueueSize int `koanf:"queue_size"`

	// InteractionTimeoutMS caps how long a request waits for the UI loop.
	InteractionTimeoutMS int `koanf:"interaction_timeout_ms"`

	// Palette overrides the category colors. Order is legend order.
	Palette []PaletteEntry `koanf:"palette"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		Store:                StoreMemory,
		InvertY:              true,
		MarkRadius:           12,
		EnterDurationMS:      2000,
		SessionCapacity:      1024,
		QueueSize:            4096,
		InteractionTimeoutMS: 2000,
		Palette:              DefaultPalette(),
	}
}

// DefaultPalette returns the six club colors in legend order.
func DefaultPalette() []PaletteEntry {
	return []PaletteEntry{
		{Category: "AC Milan", Color: "#8e0f0f"},
		{Category: "England", Color: "#fff"},
		{Category: "LA Galaxy", Color: "#2256f1"},
		{Category: "Manchester United", Color: "#cc3434"},
		{Category: "Preston North End", Color: "#5cc0f6"},
		{Category: "Real Madrid", Color: "#5f5c5c"},
	}
}
