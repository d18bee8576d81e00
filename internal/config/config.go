// Package config loads the merge engine's effective parameters. Like the
// teacher it follows Flags (handled by the caller) > Env Vars > Config
// File > Defaults, built on spf13/viper, and threads the result through
// the pipeline as a single explicit value — no package-level globals
// no package-level globals.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/hubmerge/internal/core"
	"github.com/sevigo/hubmerge/internal/logger"
)

// defaultIgnoreDirs is the Walker's default ignore-directory set.
var defaultIgnoreDirs = []string{
	".git", "__pycache__", "node_modules", ".venv", "dist", "build",
	"target", ".idea", ".vscode",
}

// WalkerConfig configures the filesystem walk.
type WalkerConfig struct {
	IgnoreDirs           []string `mapstructure:"ignore_dirs"`
	IncludePaths         []string `mapstructure:"include_paths"` // empty or ["ALL"] means unrestricted
	ExtFilter            []string `mapstructure:"ext_filter"`
	PathFilter           string   `mapstructure:"path_filter"`
	CalculateFingerprint bool     `mapstructure:"calculate_fingerprint"`
	// RepoOrder establishes the canonical multi-repo ordering;
	// repos absent from this list sort after those present.
	RepoOrder []string `mapstructure:"repo_order"`
}

// MergeConfig configures Selector/Renderer/Splitter/Sidecar behavior.
type MergeConfig struct {
	Profile      string        `mapstructure:"profile"`
	PlanOnly     bool          `mapstructure:"plan_only"`
	CodeOnly     bool          `mapstructure:"code_only"`
	MetaDensity  string        `mapstructure:"meta_density"`
	MaxFileBytes int64         `mapstructure:"max_file_bytes"` // 0 = unlimited
	SplitSize    int64         `mapstructure:"split_size"`     // 0 = single part
	Mode         string        `mapstructure:"mode"`           // combined | per-repo
	JSONSidecar  bool          `mapstructure:"json_sidecar"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Config is the top-level configuration threaded through the whole pipeline.
type Config struct {
	Logging logger.Config `mapstructure:"logging"`
	Walker  WalkerConfig  `mapstructure:"walker"`
	Merge   MergeConfig   `mapstructure:"merge"`
}

// LoadConfig loads configuration using Viper with the hierarchy:
// Flags (handled by caller) > Env Vars > Config File > Defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("hubmerge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.hubmerge")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded configuration", "file", v.ConfigFileUsed())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("walker.ignore_dirs", defaultIgnoreDirs)
	v.SetDefault("walker.include_paths", []string{})
	v.SetDefault("walker.ext_filter", []string{})
	v.SetDefault("walker.path_filter", "")
	v.SetDefault("walker.calculate_fingerprint", true)
	v.SetDefault("walker.repo_order", []string{})

	v.SetDefault("merge.profile", string(core.ProfileDev))
	v.SetDefault("merge.plan_only", false)
	v.SetDefault("merge.code_only", false)
	v.SetDefault("merge.meta_density", string(core.MetaDensityAuto))
	v.SetDefault("merge.max_file_bytes", 0)
	v.SetDefault("merge.split_size", 0)
	v.SetDefault("merge.mode", string(core.RenderModeCombined))
	v.SetDefault("merge.json_sidecar", true)
	v.SetDefault("merge.timeout", "10m")
}

// Validate checks the effective configuration against the closed
// vocabularies defined in internal/core.
func (c *Config) Validate() error {
	if !core.ValidProfile(core.ProfileName(c.Merge.Profile)) {
		return fmt.Errorf("invalid profile %q", c.Merge.Profile)
	}
	switch core.MetaDensity(c.Merge.MetaDensity) {
	case core.MetaDensityMin, core.MetaDensityStandard, core.MetaDensityFull, core.MetaDensityAuto:
	default:
		return fmt.Errorf("invalid meta_density %q", c.Merge.MetaDensity)
	}
	switch core.RenderMode(c.Merge.Mode) {
	case core.RenderModeCombined, core.RenderModePerRepo:
	default:
		return fmt.Errorf("invalid mode %q", c.Merge.Mode)
	}
	if c.Merge.MaxFileBytes < 0 {
		return errors.New("merge.max_file_bytes cannot be negative")
	}
	if c.Merge.SplitSize < 0 {
		return errors.New("merge.split_size cannot be negative")
	}
	return nil
}

// IncludesAll reports whether the include-path whitelist is the ALL sentinel
// (equivalent to "no whitelist restriction").
func (w WalkerConfig) IncludesAll() bool {
	if len(w.IncludePaths) == 0 {
		return true
	}
	for _, p := range w.IncludePaths {
		if p == "ALL" {
			return true
		}
	}
	return false
}
