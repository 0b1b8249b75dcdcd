// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/pktparse/pkg/decoder"
)

// GlobalConfig represents the top-level configuration.
// Maps to the `pktparse:` root key in YAML.
type GlobalConfig struct {
	Log      LogConfig      `mapstructure:"log"`
	Decoder  DecoderConfig  `mapstructure:"decoder"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─── Decoder ───

// DecoderConfig selects the optional behaviour of the chained decoder.
type DecoderConfig struct {
	VLAN            bool `mapstructure:"vlan"`              // unwrap one 802.1Q tag
	QinQ            bool `mapstructure:"qinq"`              // unwrap every stacked tag
	SkipIPv4Options bool `mapstructure:"skip_ipv4_options"` // honour IHL before the transport header
	StrictARP       bool `mapstructure:"strict_arp"`        // reject non Ethernet/IPv4 ARP
}

// Options converts the section to decoder.Config.
func (c DecoderConfig) Options() decoder.Config {
	return decoder.Config{
		VLAN:            c.VLAN,
		QinQ:            c.QinQ,
		SkipIPv4Options: c.SkipIPv4Options,
		StrictARP:       c.StrictARP,
	}
}

// ─── Pipeline ───

// PipelineConfig controls how capture files are processed.
type PipelineConfig struct {
	Workers     int  `mapstructure:"workers"`      // files decoded in parallel, 0 = one per file
	StopOnError bool `mapstructure:"stop_on_error"` // abort a file on the first malformed frame
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`  // MB
	MaxAgeDays int  `mapstructure:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `pktparse: ...`.
type configRoot struct {
	Pktparse GlobalConfig `mapstructure:"pktparse"`
}

// Load loads configuration from file.
// The YAML file uses `pktparse:` as root key; env vars use the PKTPARSE_ prefix
// (e.g., PKTPARSE_LOG_LEVEL). An empty path yields Default with env overrides.
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// key "pktparse.log.level" → env "PKTPARSE_LOG_LEVEL"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Pktparse

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration, ignoring the environment.
func Default() *GlobalConfig {
	v := viper.New()
	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		panic(fmt.Sprintf("config: defaults do not unmarshal: %v", err))
	}
	return &root.Pktparse
}

// setDefaults sets default values for configuration.
// All keys use "pktparse." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("pktparse.log.level", "info")
	v.SetDefault("pktparse.log.format", "text")
	v.SetDefault("pktparse.log.outputs.file.enabled", false)
	v.SetDefault("pktparse.log.outputs.file.path", "/var/log/pktparse/pktparse.log")
	v.SetDefault("pktparse.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("pktparse.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("pktparse.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("pktparse.log.outputs.file.rotation.compress", true)

	// Decoder defaults
	v.SetDefault("pktparse.decoder.vlan", true)
	v.SetDefault("pktparse.decoder.qinq", false)
	v.SetDefault("pktparse.decoder.skip_ipv4_options", true)
	v.SetDefault("pktparse.decoder.strict_arp", false)

	// Pipeline defaults
	v.SetDefault("pktparse.pipeline.workers", 0)
	v.SetDefault("pktparse.pipeline.stop_on_error", false)

	// Metrics defaults
	v.SetDefault("pktparse.metrics.enabled", false)
	v.SetDefault("pktparse.metrics.listen", ":9091")
	v.SetDefault("pktparse.metrics.path", "/metrics")
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}
	if cfg.Log.Outputs.File.Enabled && cfg.Log.Outputs.File.Path == "" {
		return fmt.Errorf("log.outputs.file.path is required when file output is enabled")
	}

	// ── Decoder ──
	if cfg.Decoder.QinQ {
		cfg.Decoder.VLAN = true
	}

	// ── Pipeline ──
	if cfg.Pipeline.Workers < 0 {
		return fmt.Errorf("invalid pipeline.workers: %d (must be >= 0)", cfg.Pipeline.Workers)
	}

	// ── Metrics ──
	if cfg.Metrics.Enabled {
		if cfg.Metrics.Listen == "" {
			return fmt.Errorf("metrics.listen is required when metrics.enabled=true")
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return fmt.Errorf("invalid metrics.path: %q (must start with /)", cfg.Metrics.Path)
		}
	}

	return nil
}
