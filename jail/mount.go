// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import "strings"

// Mount describes one filesystem mount performed inside the
// container's rootfs by the mount executor.
type Mount struct {
	// Source path for the mount on the host side.
	Source string `json:"source"`

	// Destination path inside the container.
	Destination string `json:"destination"`

	// Device is the device or filesystem type ("bind", "proc",
	// "tmpfs", ...).
	Device string `json:"device"`

	// Flags are the mount(2) flags (unix.MS_* values or'd together).
	Flags int `json:"flags"`

	// PropagationFlags are applied to the mount point after the
	// mount itself, each a single MS_SHARED/MS_PRIVATE/MS_SLAVE/
	// MS_UNBINDABLE value, optionally with MS_REC.
	PropagationFlags []int `json:"propagation_flags,omitempty"`

	// Data is the filesystem-specific data argument to mount(2).
	Data string `json:"data,omitempty"`

	// Relabel requests SELinux relabeling of Source: "z" shared,
	// "Z" unshared.
	Relabel string `json:"relabel,omitempty"`

	// Options are the raw option strings from the specification
	// (e.g. "uid=1000"). They are not folded into Flags or Data;
	// under rootless mode [Validate] checks every uid=/gid= option
	// against the declared ID mappings.
	Options []string `json:"options,omitempty"`

	// PremountCmds and PostmountCmds run on the host around the
	// mount, in order.
	PremountCmds  []Command `json:"premount_cmds,omitempty"`
	PostmountCmds []Command `json:"postmount_cmds,omitempty"`
}

// optionValue extracts the value of a prefix-style mount option
// ("uid=", "gid=") from opt, reporting whether opt carries the prefix.
func optionValue(opt, prefix string) (string, bool) {
	if !strings.HasPrefix(opt, prefix) {
		return "", false
	}
	return opt[len(prefix):], true
}
