// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"os"

	"github.com/moby/sys/userns"
	"golang.org/x/sys/unix"
)

// Kernel-exposed paths probed for namespace support. A kernel built
// without a namespace kind does not create the matching /proc entry.
const (
	userNamespacePath   = "/proc/self/ns/user"
	cgroupNamespacePath = "/proc/self/ns/cgroup"

	// hostNetNamespacePath identifies the agent's own network
	// namespace; a container joining a namespace path that resolves
	// to the same target would leak its net.* sysctls into the host.
	hostNetNamespacePath = "/proc/self/ns/net"
)

// HostCapabilities describes what the guest kernel exposes to this
// agent. Filled once by [DetectHostCapabilities]; read-only
// afterwards.
type HostCapabilities struct {
	// UserNamespaces is true when the kernel supports user
	// namespaces.
	UserNamespaces bool

	// CgroupNamespaces is true when the kernel supports cgroup
	// namespaces.
	CgroupNamespaces bool

	// CgroupUnified is true when /sys/fs/cgroup is the cgroup v2
	// unified hierarchy.
	CgroupUnified bool

	// InUserNamespace is true when the agent itself already runs
	// inside a user namespace. Cgroup writes are then unlikely to
	// have full access, so rootless-cgroups mode should be assumed.
	InUserNamespace bool
}

// DetectHostCapabilities probes the guest kernel. All probes are
// read-only stat/statfs calls.
func DetectHostCapabilities() *HostCapabilities {
	caps := &HostCapabilities{
		UserNamespaces:   pathExists(userNamespacePath),
		CgroupNamespaces: pathExists(cgroupNamespacePath),
		InUserNamespace:  userns.RunningInUserNS(),
	}

	var st unix.Statfs_t
	if err := unix.Statfs("/sys/fs/cgroup", &st); err == nil {
		caps.CgroupUnified = st.Type == unix.CGROUP2_SUPER_MAGIC
	}

	return caps
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
