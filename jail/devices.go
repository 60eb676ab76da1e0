// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"fmt"
	"os"
)

// Device is one device node created inside the container and, when
// Allow is set, whitelisted in the devices cgroup.
type Device struct {
	// Type is the node type: 'c' (char), 'b' (block), 'p' (fifo).
	Type rune `json:"type"`

	// Path inside the container rootfs.
	Path string `json:"path"`

	Major int64 `json:"major"`
	Minor int64 `json:"minor"`

	// Permissions is the cgroup access string ("rwm" subset).
	Permissions string `json:"permissions"`

	// FileMode of the created node.
	FileMode os.FileMode `json:"file_mode"`

	// Uid and Gid own the created node. These are container-side
	// ids when a user namespace is in play.
	Uid uint32 `json:"uid"`
	Gid uint32 `json:"gid"`

	// Allow marks the device as permitted in the devices cgroup.
	Allow bool `json:"allow"`
}

// CgroupString renders the device in the devices.allow/devices.deny
// controller format.
func (d *Device) CgroupString() string {
	return fmt.Sprintf("%c %d:%d %s", d.Type, d.Major, d.Minor, d.Permissions)
}

// Mkdev packs Major and Minor into the kernel's dev_t encoding.
func (d *Device) Mkdev() int {
	return int((d.Major << 8) | (d.Minor & 0xff) | ((d.Minor & 0xfff00) << 12))
}
