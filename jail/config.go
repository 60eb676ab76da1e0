// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import "fmt"

// Rlimit is one resource limit applied to the container's init
// process. Type is one of the unix.RLIMIT_* constants.
type Rlimit struct {
	Type int    `json:"type"`
	Hard uint64 `json:"hard"`
	Soft uint64 `json:"soft"`
}

// IDMap is one entry of a UID or GID mapping for a user namespace: a
// contiguous range of Size ids starting at ContainerID inside the
// namespace and at HostID outside it.
type IDMap struct {
	ContainerID int `json:"container_id"`
	HostID      int `json:"host_id"`
	Size        int `json:"size"`
}

// Config is the resolved specification for one container
// instantiation. It is created once per create request, validated
// exactly once by [Validate], and read-only from the point validation
// begins; after a successful validation the setup pipeline owns it.
type Config struct {
	// NoPivotRoot jails the init process with MS_MOVE and a chroot
	// instead of pivot_root. Used when the rootfs lives on a ramdisk.
	NoPivotRoot bool `json:"no_pivot_root,omitempty"`

	// ParentDeathSignal is delivered to the container's init process
	// if the agent dies.
	ParentDeathSignal int `json:"parent_death_signal,omitempty"`

	// Rootfs is the path to the directory holding the container's
	// root filesystem. Must be absolute, existing, and free of
	// symlink components; [Validate] enforces all three.
	Rootfs string `json:"rootfs"`

	// Readonlyfs remounts the rootfs read-only; externally mounted
	// bind mounts stay writable.
	Readonlyfs bool `json:"readonlyfs,omitempty"`

	// RootPropagation is the mount propagation applied to /.
	RootPropagation int `json:"root_propagation,omitempty"`

	// Mounts are performed inside the rootfs, in order, by the mount
	// executor.
	Mounts []*Mount `json:"mounts,omitempty"`

	// Devices are the device nodes created inside the container.
	Devices []*Device `json:"devices,omitempty"`

	MountLabel string `json:"mount_label,omitempty"`

	// Hostname, when non-empty, is set inside the container's UTS
	// namespace. Setting it through the sysctl map instead is always
	// rejected.
	Hostname string `json:"hostname,omitempty"`

	// Namespaces the container creates or joins. At most one entry
	// per kind.
	Namespaces Namespaces `json:"namespaces"`

	// Capabilities kept for the container's process. Nil leaves the
	// process with its inherited capability sets.
	Capabilities *Capabilities `json:"capabilities,omitempty"`

	// Resources are the cgroup controller limits applied by the
	// cgroup manager.
	Resources *Resources `json:"resources,omitempty"`

	// Rlimits applied to the init process. Empty inherits the
	// agent's limits.
	Rlimits []Rlimit `json:"rlimits,omitempty"`

	// OomScoreAdj adjusts the kernel's OOM score for the init
	// process. Nil leaves the current value untouched.
	OomScoreAdj *int `json:"oom_score_adj,omitempty"`

	// UIDMappings and GIDMappings translate ids between the user
	// namespace and the host. Only meaningful together with a user
	// namespace; [Validate] rejects mappings without one.
	UIDMappings []IDMap `json:"uid_mappings,omitempty"`
	GIDMappings []IDMap `json:"gid_mappings,omitempty"`

	// MaskPaths are bind-mounted over with /dev/null to prevent
	// reads; ReadonlyPaths are remounted read-only. Both require a
	// mount namespace to be enforceable.
	MaskPaths     []string `json:"mask_paths,omitempty"`
	ReadonlyPaths []string `json:"readonly_paths,omitempty"`

	// Sysctl maps kernel tunables to the values written inside the
	// container. Each key must belong to a namespace the container
	// actually declares.
	Sysctl map[string]string `json:"sysctl,omitempty"`

	// Seccomp is the syscall filter policy compiled and loaded by
	// the seccomp collaborator. Nil disables filtering.
	Seccomp *Seccomp `json:"seccomp,omitempty"`

	// NoNewPrivileges prevents the container's processes from
	// gaining privileges through execve.
	NoNewPrivileges bool `json:"no_new_privileges,omitempty"`

	// Hooks run at container lifecycle points.
	Hooks Hooks `json:"-"`

	// Version of the container specification this Config was
	// resolved from.
	Version string `json:"version,omitempty"`

	// Labels are opaque caller-defined metadata.
	Labels []string `json:"labels,omitempty"`

	// RootlessEUID is set at agent startup when the agent runs with
	// a non-zero effective UID. It switches [Validate] into rootless
	// mode, where ID mappings become mandatory and uid=/gid= mount
	// options must fall inside them.
	RootlessEUID bool `json:"rootless_euid,omitempty"`

	// RootlessCgroups is set at agent startup when full cgroup
	// access is unlikely; the cgroup manager then treats write
	// failures as non-fatal.
	RootlessCgroups bool `json:"rootless_cgroups,omitempty"`
}

// HostUID returns the host uid that container-side uid 0 maps to.
// Without a user namespace this is plain root.
func (c *Config) HostUID() (int, error) {
	if !c.Namespaces.Contains(NamespaceUser) {
		return 0, nil
	}
	if len(c.UIDMappings) == 0 {
		return -1, fmt.Errorf("user namespace declared but no uid mappings found")
	}
	id, ok := hostIDFromMapping(0, c.UIDMappings)
	if !ok {
		return -1, fmt.Errorf("user namespace declared but no mapping covers uid 0")
	}
	return id, nil
}

// HostGID returns the host gid that container-side gid 0 maps to.
func (c *Config) HostGID() (int, error) {
	if !c.Namespaces.Contains(NamespaceUser) {
		return 0, nil
	}
	if len(c.GIDMappings) == 0 {
		return -1, fmt.Errorf("user namespace declared but no gid mappings found")
	}
	id, ok := hostIDFromMapping(0, c.GIDMappings)
	if !ok {
		return -1, fmt.Errorf("user namespace declared but no mapping covers gid 0")
	}
	return id, nil
}

// hostIDFromMapping translates a container-side id to its host-side
// id through the first range that covers it.
func hostIDFromMapping(containerID int, mappings []IDMap) (int, bool) {
	for _, m := range mappings {
		if containerID >= m.ContainerID && containerID <= m.ContainerID+m.Size-1 {
			return m.HostID + (containerID - m.ContainerID), true
		}
	}
	return -1, false
}

// mappingCovers reports whether any range in mappings contains the
// container-side id.
func mappingCovers(containerID int, mappings []IDMap) bool {
	_, ok := hostIDFromMapping(containerID, mappings)
	return ok
}
