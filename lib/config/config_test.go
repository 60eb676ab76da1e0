// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vessel-foundation/vessel/jail"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vessel.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration should validate: %v", err)
	}
	if cfg.Paths.Root != "/run/vessel" {
		t.Errorf("default root = %q, want /run/vessel", cfg.Paths.Root)
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("VESSEL_CONFIG", "")

	if _, err := Load(); err == nil {
		t.Error("Load without VESSEL_CONFIG should fail")
	}
}

func TestLoadFromEnvVar(t *testing.T) {
	path := writeConfig(t, "paths:\n  root: /tmp/vessel-test\n")
	t.Setenv("VESSEL_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.Root != "/tmp/vessel-test" {
		t.Errorf("root = %q, want /tmp/vessel-test", cfg.Paths.Root)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
paths:
  root: /var/lib/vessel
limits:
  default_memory_max: 512m
  default_pids_max: 100
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Paths.Root != "/var/lib/vessel" {
		t.Errorf("root = %q, want /var/lib/vessel", cfg.Paths.Root)
	}
	// Untouched sections keep their defaults.
	if cfg.Rootless.EUID != RootlessAuto {
		t.Errorf("rootless.euid = %q, want auto", cfg.Rootless.EUID)
	}
	if cfg.Fallback.NoCgroupns != "skip" {
		t.Errorf("fallback.no_cgroupns = %q, want skip", cfg.Fallback.NoCgroupns)
	}
	if cfg.Limits.DefaultPidsMax != 100 {
		t.Errorf("default_pids_max = %d, want 100", cfg.Limits.DefaultPidsMax)
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile("/nonexistent/vessel.yaml"); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "paths: [not a mapping\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestVariableExpansion(t *testing.T) {
	path := writeConfig(t, `
paths:
  root: /srv/vessel
  state: ${VESSEL_ROOT}/state
  bundles: ${VESSEL_BUNDLES:-/srv/bundles}
`)
	t.Setenv("VESSEL_BUNDLES", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Paths.State != "/srv/vessel/state" {
		t.Errorf("state = %q, want /srv/vessel/state", cfg.Paths.State)
	}
	if cfg.Paths.Bundles != "/srv/bundles" {
		t.Errorf("bundles = %q, want the /srv/bundles default", cfg.Paths.Bundles)
	}
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "empty root",
			mutate: func(c *Config) { c.Paths.Root = "" },
			want:   "paths.root",
		},
		{
			name:   "bad rootless euid mode",
			mutate: func(c *Config) { c.Rootless.EUID = "sometimes" },
			want:   "rootless.euid",
		},
		{
			name:   "bad rootless cgroups mode",
			mutate: func(c *Config) { c.Rootless.Cgroups = "maybe" },
			want:   "rootless.cgroups",
		},
		{
			name:   "bad userns fallback",
			mutate: func(c *Config) { c.Fallback.NoUserns = "panic" },
			want:   "fallback.no_userns",
		},
		{
			name:   "unparseable memory limit",
			mutate: func(c *Config) { c.Limits.DefaultMemoryMax = "lots" },
			want:   "limits.default_memory_max",
		},
		{
			name:   "negative pids limit",
			mutate: func(c *Config) { c.Limits.DefaultPidsMax = -1 },
			want:   "limits.default_pids_max",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateAccumulates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Paths.Root = ""
	cfg.Rootless.EUID = "sometimes"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"paths.root", "rootless.euid"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error %q should mention %q", err, want)
		}
	}
}

func TestDefaultMemoryBytes(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if n, err := cfg.DefaultMemoryBytes(); err != nil || n != 0 {
		t.Errorf("empty limit should be (0, nil), got (%d, %v)", n, err)
	}

	cfg.Limits.DefaultMemoryMax = "512m"
	n, err := cfg.DefaultMemoryBytes()
	if err != nil {
		t.Fatalf("DefaultMemoryBytes: %v", err)
	}
	if n != 512*1024*1024 {
		t.Errorf("512m = %d bytes, want %d", n, 512*1024*1024)
	}
}

func TestDefaultResources(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Limits.DefaultMemoryMax = "1g"
	cfg.Limits.DefaultPidsMax = 200

	res, err := cfg.DefaultResources()
	if err != nil {
		t.Fatalf("DefaultResources: %v", err)
	}
	if res.Memory != 1024*1024*1024 {
		t.Errorf("memory = %d, want 1g in bytes", res.Memory)
	}
	if res.PidsLimit != 200 {
		t.Errorf("pids limit = %d, want 200", res.PidsLimit)
	}
}

func TestRootlessFlags(t *testing.T) {
	t.Parallel()

	host := &jail.HostCapabilities{}

	t.Run("forced modes win", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Rootless.EUID = RootlessEnabled
		cfg.Rootless.Cgroups = RootlessDisabled

		euid, cgroups, err := cfg.RootlessFlags(host)
		if err != nil {
			t.Fatalf("RootlessFlags: %v", err)
		}
		if !euid || cgroups {
			t.Errorf("got euid=%v cgroups=%v, want euid=true cgroups=false", euid, cgroups)
		}
	})

	t.Run("auto cgroups follows euid", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Rootless.EUID = RootlessEnabled
		cfg.Rootless.Cgroups = RootlessAuto

		_, cgroups, err := cfg.RootlessFlags(host)
		if err != nil {
			t.Fatalf("RootlessFlags: %v", err)
		}
		if !cgroups {
			t.Error("rootless euid should imply rootless cgroups in auto mode")
		}
	})

	t.Run("auto cgroups follows user namespace", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Rootless.EUID = RootlessDisabled
		cfg.Rootless.Cgroups = RootlessAuto

		_, cgroups, err := cfg.RootlessFlags(&jail.HostCapabilities{InUserNamespace: true})
		if err != nil {
			t.Fatalf("RootlessFlags: %v", err)
		}
		if !cgroups {
			t.Error("running inside a user namespace should imply rootless cgroups")
		}
	})

	t.Run("auto euid matches effective uid", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		euid, _, err := cfg.RootlessFlags(host)
		if err != nil {
			t.Fatalf("RootlessFlags: %v", err)
		}
		if want := os.Geteuid() != 0; euid != want {
			t.Errorf("auto euid = %v, want %v", euid, want)
		}
	})
}

func TestEnsurePathsAndStatePath(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := Default()
	cfg.Paths.Root = base
	cfg.Paths.State = filepath.Join(base, "state")
	cfg.Paths.Bundles = filepath.Join(base, "bundles")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	for _, dir := range []string{cfg.Paths.State, cfg.Paths.Bundles} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s should be a directory", dir)
		}
	}

	got := cfg.StatePath("containers", "c1")
	want := filepath.Join(cfg.Paths.State, "containers", "c1")
	if got != want {
		t.Errorf("StatePath = %q, want %q", got, want)
	}
}
