package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/bitpacket/internal/logging"
	"github.com/danmuck/bitpacket/internal/protocol/packet"
)

const (
	FormatPlain = "plain"
	FormatTable = "table"
)

// Config holds pktdecode runtime settings.
type Config struct {
	LogLevel        string
	Format          string
	Binary          bool
	Tree            bool
	Limits          packet.Limits
	MetricsTextfile string
}

// fileConfig is the config.toml key mapping.
type fileConfig struct {
	LogLevel         string `toml:"log_level"`
	Format           string `toml:"format"`
	Binary           bool   `toml:"binary"`
	Tree             bool   `toml:"tree"`
	MaxDepth         int    `toml:"max_depth"`
	MaxLiteralGroups int    `toml:"max_literal_groups"`
	MetricsTextfile  string `toml:"metrics_textfile"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Format:   FormatPlain,
		Limits:   packet.DefaultLimits(),
	}
}

// Load reads path and applies every defined key on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("binary") {
		cfg.Binary = raw.Binary
	}
	if meta.IsDefined("tree") {
		cfg.Tree = raw.Tree
	}
	if meta.IsDefined("max_depth") {
		cfg.Limits.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("max_literal_groups") {
		cfg.Limits.MaxLiteralGroups = raw.MaxLiteralGroups
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	switch cfg.Format {
	case FormatPlain, FormatTable:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", cfg.Format, FormatPlain, FormatTable)
	}
	if cfg.Limits.MaxDepth < 0 || cfg.Limits.MaxDepth > packet.MaxDepthCeiling {
		return fmt.Errorf("max_depth must be between 0 and %d", packet.MaxDepthCeiling)
	}
	if cfg.Limits.MaxLiteralGroups < 0 {
		return fmt.Errorf("max_literal_groups must not be negative")
	}
	return nil
}
