// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestOptionValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opt    string
		prefix string
		want   string
		wantOK bool
	}{
		{"uid=1000", "uid=", "1000", true},
		{"gid=", "gid=", "", true},
		{"nosuid", "uid=", "", false},
		{"uid=1000", "gid=", "", false},
		{"", "uid=", "", false},
	}

	for _, tt := range tests {
		got, ok := optionValue(tt.opt, tt.prefix)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("optionValue(%q, %q) = %q, %v; want %q, %v",
				tt.opt, tt.prefix, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMountFlagsPassThroughValidation(t *testing.T) {
	t.Parallel()

	// Mount flags and rlimits are opaque to the validation engine;
	// only rootless uid=/gid= options are inspected.
	cfg := validConfig(t)
	cfg.Mounts = []*Mount{{
		Source:           "proc",
		Destination:      "/proc",
		Device:           "proc",
		Flags:            unix.MS_NOSUID | unix.MS_NODEV | unix.MS_NOEXEC,
		PropagationFlags: []int{unix.MS_PRIVATE},
	}}
	cfg.Rlimits = []Rlimit{{Type: unix.RLIMIT_NOFILE, Hard: 1024, Soft: 1024}}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected acceptance, got %v", err)
	}
}
