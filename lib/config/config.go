// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Vessel agent.
//
// Configuration is loaded from a single file specified by:
//   - VESSEL_CONFIG environment variable, or
//   - --config flag passed to the agent
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"

	"github.com/vessel-foundation/vessel/jail"
)

// RootlessMode selects how a rootless flag is derived at startup.
type RootlessMode string

const (
	// RootlessAuto derives the flag from the agent's runtime state.
	RootlessAuto RootlessMode = "auto"
	// RootlessEnabled forces the flag on.
	RootlessEnabled RootlessMode = "enabled"
	// RootlessDisabled forces the flag off.
	RootlessDisabled RootlessMode = "disabled"
)

// Config is the master configuration for the Vessel agent.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Rootless configures the agent's rootless startup flags.
	Rootless RootlessConfig `yaml:"rootless"`

	// Fallback configures behavior when kernel namespace support is
	// missing at startup.
	Fallback FallbackConfig `yaml:"fallback"`

	// Limits configures default resource ceilings applied to
	// containers that declare none.
	Limits LimitsConfig `yaml:"limits"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for agent data.
	Root string `yaml:"root"`

	// State is where runtime state is stored.
	State string `yaml:"state"`

	// Bundles is where container bundles are unpacked.
	Bundles string `yaml:"bundles"`
}

// RootlessConfig configures the two agent-wide rootless flags that
// every container Config inherits at creation time.
type RootlessConfig struct {
	// EUID selects rootless-EUID mode: "auto" (non-zero effective
	// UID), "enabled", or "disabled".
	EUID RootlessMode `yaml:"euid"`

	// Cgroups selects rootless-cgroups mode: "auto" (rootless EUID
	// or agent already inside a user namespace), "enabled", or
	// "disabled".
	Cgroups RootlessMode `yaml:"cgroups"`
}

// FallbackConfig configures startup behavior when a namespace kind is
// unsupported. Values: "skip" (continue without), "warn" (warn and
// continue), "error" (refuse to start).
type FallbackConfig struct {
	NoUserns   string `yaml:"no_userns"`
	NoCgroupns string `yaml:"no_cgroupns"`
}

// LimitsConfig configures default resource ceilings.
type LimitsConfig struct {
	// DefaultMemoryMax is a human-readable size ("512m", "2g").
	// Empty means no default memory ceiling.
	DefaultMemoryMax string `yaml:"default_memory_max"`

	// DefaultPidsMax caps the task count. Zero means no default.
	DefaultPidsMax int64 `yaml:"default_pids_max"`
}

// Default returns the default configuration. These defaults ensure
// all fields have sensible values before the config file is merged
// in; the config file remains the source of truth.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Root:    "/run/vessel",
			State:   "/run/vessel/state",
			Bundles: "/run/vessel/bundles",
		},
		Rootless: RootlessConfig{
			EUID:    RootlessAuto,
			Cgroups: RootlessAuto,
		},
		Fallback: FallbackConfig{
			NoUserns:   "warn",
			NoCgroupns: "skip",
		},
	}
}

// Load loads configuration from the VESSEL_CONFIG environment
// variable. There are no fallbacks - if VESSEL_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("VESSEL_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("VESSEL_CONFIG environment variable not set; " +
			"set it to the path of your vessel.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults. Environment variables do not override config
// values; the only expansion performed is ${HOME} and similar path
// variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"VESSEL_ROOT": c.Paths.Root,
		"HOME":        os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["VESSEL_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Paths.Bundles = expandVars(c.Paths.Bundles, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}

	rootlessModes := []RootlessMode{RootlessAuto, RootlessEnabled, RootlessDisabled}
	if !containsMode(rootlessModes, c.Rootless.EUID) {
		errs = append(errs, fmt.Errorf("rootless.euid must be one of: %v", rootlessModes))
	}
	if !containsMode(rootlessModes, c.Rootless.Cgroups) {
		errs = append(errs, fmt.Errorf("rootless.cgroups must be one of: %v", rootlessModes))
	}

	fallbackValues := []string{"skip", "warn", "error"}
	if !contains(fallbackValues, c.Fallback.NoUserns) {
		errs = append(errs, fmt.Errorf("fallback.no_userns must be one of: %v", fallbackValues))
	}
	if !contains(fallbackValues, c.Fallback.NoCgroupns) {
		errs = append(errs, fmt.Errorf("fallback.no_cgroupns must be one of: %v", fallbackValues))
	}

	if _, err := c.DefaultMemoryBytes(); err != nil {
		errs = append(errs, fmt.Errorf("limits.default_memory_max: %w", err))
	}
	if c.Limits.DefaultPidsMax < 0 {
		errs = append(errs, fmt.Errorf("limits.default_pids_max must be >= 0"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DefaultMemoryBytes parses the configured default memory ceiling.
// Empty means no ceiling and returns zero.
func (c *Config) DefaultMemoryBytes() (int64, error) {
	if c.Limits.DefaultMemoryMax == "" {
		return 0, nil
	}
	return units.RAMInBytes(c.Limits.DefaultMemoryMax)
}

// DefaultResources builds the cgroup resource limits applied to a
// container whose specification declares none.
func (c *Config) DefaultResources() (*jail.Resources, error) {
	memory, err := c.DefaultMemoryBytes()
	if err != nil {
		return nil, err
	}
	return &jail.Resources{
		Memory:    memory,
		PidsLimit: c.Limits.DefaultPidsMax,
	}, nil
}

// RootlessFlags resolves the configured rootless modes into the two
// flags container Configs carry, using the agent's effective UID and
// the probed host capabilities.
func (c *Config) RootlessFlags(host *jail.HostCapabilities) (euid, cgroups bool, err error) {
	switch c.Rootless.EUID {
	case RootlessAuto, "":
		euid = os.Geteuid() != 0
	case RootlessEnabled:
		euid = true
	case RootlessDisabled:
		euid = false
	default:
		return false, false, fmt.Errorf("invalid rootless.euid mode %q", c.Rootless.EUID)
	}

	switch c.Rootless.Cgroups {
	case RootlessAuto, "":
		cgroups = euid || (host != nil && host.InUserNamespace)
	case RootlessEnabled:
		cgroups = true
	case RootlessDisabled:
		cgroups = false
	default:
		return false, false, fmt.Errorf("invalid rootless.cgroups mode %q", c.Rootless.Cgroups)
	}

	return euid, cgroups, nil
}

// EnsurePaths creates all configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.State, c.Paths.Bundles} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

// StatePath returns a path under the configured state directory.
func (c *Config) StatePath(elem ...string) string {
	return filepath.Join(append([]string{c.Paths.State}, elem...)...)
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

func containsMode(slice []RootlessMode, m RootlessMode) bool {
	for _, v := range slice {
		if v == m {
			return true
		}
	}
	return false
}
