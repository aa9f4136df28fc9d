package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/freekicks/internal/domain/model"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FREEKICKS_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FREEKICKS_CONFIG is set
//  3. env (prefix FREEKICKS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// FREEKICKS_QUEUE_SIZE -> queue_size; underscores are kept to match the tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		if s == "config" {
			return ""
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the service unusable.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Store != StoreMemory && c.Store != StoreSQLite:
		return fmt.Errorf("%w: store must be %q or %q", ErrInvalidConfig, StoreMemory, StoreSQLite)
	case c.MarkRadius <= 0:
		return fmt.Errorf("%w: mark_radius must be positive", ErrInvalidConfig)
	case c.EnterDurationMS < 0:
		return fmt.Errorf("%w: enter_duration_ms must not be negative", ErrInvalidConfig)
	case c.SessionCapacity <= 0:
		return fmt.Errorf("%w: session_capacity must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.InteractionTimeoutMS <= 0:
		return fmt.Errorf("%w: interaction_timeout_ms must be positive", ErrInvalidConfig)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Palette))
	for _, p := range c.Palette {
		if strings.TrimSpace(p.Category) == "" || strings.TrimSpace(p.Color) == "" {
			return fmt.Errorf("%w: palette entries need category and color", ErrInvalidConfig)
		}
		if strings.TrimSpace(p.Category) == model.AllCategories {
			return fmt.Errorf("%w: palette category %q is reserved", ErrInvalidConfig, model.AllCategories)
		}
		if _, dup := seen[p.Category]; dup {
			return fmt.Errorf("%w: palette category %q listed twice", ErrInvalidConfig, p.Category)
		}
		seen[p.Category] = struct{}{}
	}
	return nil
}
