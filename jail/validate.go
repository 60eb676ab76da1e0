// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrInvalidConfig marks every rejection from [Validate]. It wraps
// unix.EINVAL so the agent's RPC layer can translate rejections into
// the conventional errno; errors.Is works against either.
var ErrInvalidConfig = fmt.Errorf("invalid container configuration: %w", unix.EINVAL)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// check is one validation stage: a side-effect-free predicate over
// the Config, allowed read-only filesystem probes only.
type check func(*Config) error

// Validate checks a Config for internal consistency against the
// capabilities the guest kernel exposes. It is called exactly once
// per container-create request, before any namespace, cgroup, or
// mount state is created; on error the create request must be
// rejected with no setup collaborator invoked.
//
// The pipeline is fixed and short-circuits on the first failing
// stage, so a later stage never observes a Config an earlier stage
// already rejected. Validation is deterministic in the Config and
// host state: calling it again on an unmodified Config returns the
// same result.
func Validate(config *Config) error {
	checks := []check{
		rootfs,
		network,
		hostname,
		securityPaths,
		userNamespace,
		cgroupNamespace,
		sysctl,
	}
	if config.RootlessEUID {
		checks = append(checks, rootlessEUIDMappings, rootlessEUIDMountOptions)
	}
	for _, c := range checks {
		if err := c(config); err != nil {
			return err
		}
	}
	return nil
}

// rootfs requires the declared root path to be absolute, existing,
// and canonical: the lexically cleaned path must equal its
// symlink-resolved form. A rootfs redirected by a symlink in any
// component could silently point outside the intended tree, so it is
// rejected outright.
func rootfs(config *Config) error {
	if !filepath.IsAbs(config.Rootfs) {
		return invalidf("rootfs path %q is not absolute", config.Rootfs)
	}
	cleaned := filepath.Clean(config.Rootfs)
	if _, err := os.Stat(cleaned); err != nil {
		return invalidf("rootfs %q: %v", cleaned, err)
	}
	resolved, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		return invalidf("resolving rootfs %q: %v", cleaned, err)
	}
	if resolved != cleaned {
		return invalidf("rootfs %q resolves to %q; symlinked rootfs paths are rejected", cleaned, resolved)
	}
	return nil
}

// network is an extension point for host- and CNI-specific checks.
// Currently nothing to verify.
func network(*Config) error {
	return nil
}

func hostname(config *Config) error {
	if config.Hostname != "" && !config.Namespaces.Contains(NamespaceUTS) {
		return invalidf("hostname %q requires a uts namespace", config.Hostname)
	}
	return nil
}

// securityPaths requires a mount namespace whenever masked or
// read-only paths are declared: without one the bind mounts that
// enforce them would land on the host.
func securityPaths(config *Config) error {
	if config.Namespaces.Contains(NamespaceMount) {
		return nil
	}
	if len(config.MaskPaths) > 0 {
		return invalidf("masked paths require a mount namespace")
	}
	if len(config.ReadonlyPaths) > 0 {
		return invalidf("read-only paths require a mount namespace")
	}
	return nil
}

func hasPositiveMapping(mappings []IDMap) bool {
	for _, m := range mappings {
		if m.Size > 0 {
			return true
		}
	}
	return false
}

// userNamespace checks user-namespace consistency: a declared user
// namespace needs kernel support and usable UID and GID mappings,
// and mappings without the namespace to apply them in are always an
// error.
func userNamespace(config *Config) error {
	if config.Namespaces.Contains(NamespaceUser) {
		if !pathExists(userNamespacePath) {
			return invalidf("user namespaces unsupported on this host")
		}
		if !hasPositiveMapping(config.UIDMappings) {
			return invalidf("user namespace requires a uid mapping with a positive size")
		}
		if !hasPositiveMapping(config.GIDMappings) {
			return invalidf("user namespace requires a gid mapping with a positive size")
		}
		return nil
	}
	if len(config.UIDMappings) > 0 || len(config.GIDMappings) > 0 {
		return invalidf("uid/gid mappings declared without a user namespace")
	}
	return nil
}

func cgroupNamespace(config *Config) error {
	if config.Namespaces.Contains(NamespaceCgroup) && !pathExists(cgroupNamespacePath) {
		return invalidf("cgroup namespaces unsupported on this host")
	}
	return nil
}

// sysctl verifies that every requested sysctl key is scoped by a
// namespace the container actually declares. Keys outside any
// container-scoped namespace would modify host state and are
// rejected.
func sysctl(config *Config) error {
	for key := range config.Sysctl {
		switch {
		case isIPCSysctl(key):
			if !config.Namespaces.Contains(NamespaceIPC) {
				return invalidf("sysctl %q requires an ipc namespace", key)
			}

		case strings.HasPrefix(key, "net."):
			if !config.Namespaces.Contains(NamespaceNetwork) {
				return invalidf("sysctl %q requires a network namespace", key)
			}
			if err := checkJoinedNetNamespace(config.Namespaces.PathOf(NamespaceNetwork), key); err != nil {
				return err
			}

		case key == "kernel.domainname":
			if !config.Namespaces.Contains(NamespaceUTS) {
				return invalidf("sysctl %q requires a uts namespace", key)
			}

		case key == "kernel.hostname":
			return invalidf("sysctl %q is not allowed; set the hostname field instead", key)

		default:
			return invalidf("sysctl %q is not in a container-scoped namespace", key)
		}
	}
	return nil
}

// checkJoinedNetNamespace rejects a net.* sysctl when the container
// joins an existing network namespace that aliases the agent's own:
// the write would reach the host network namespace. Paths are
// compared by their symlink targets (the kernel renders ns links as
// "net:[inode]"). An empty path means a fresh namespace and is always
// safe.
func checkJoinedNetNamespace(nsPath, key string) error {
	if nsPath == "" {
		return nil
	}
	hostTarget, err := os.Readlink(hostNetNamespacePath)
	if err != nil {
		return invalidf("reading %s: %v", hostNetNamespacePath, err)
	}
	nsTarget, err := os.Readlink(nsPath)
	if err != nil {
		return invalidf("reading network namespace path %q: %v", nsPath, err)
	}
	if hostTarget == nsTarget {
		return invalidf("sysctl %q would apply to the host network namespace via %q", key, nsPath)
	}
	return nil
}

// rootlessEUIDMappings requires a user namespace with UID and GID
// mappings present when the agent runs rootless. Presence means
// non-empty lists; the positive-size requirement belongs to
// userNamespace and already ran.
func rootlessEUIDMappings(config *Config) error {
	if !config.Namespaces.Contains(NamespaceUser) {
		return invalidf("rootless mode requires a user namespace")
	}
	if len(config.UIDMappings) == 0 {
		return invalidf("rootless mode requires uid mappings")
	}
	if len(config.GIDMappings) == 0 {
		return invalidf("rootless mode requires gid mappings")
	}
	return nil
}

// rootlessEUIDMountOptions scans every mount's option strings for
// uid=/gid= assignments and requires each named id to fall inside
// the corresponding mapping ranges. An unmapped id would make the
// mount run with an unintended owner inside the user namespace.
func rootlessEUIDMountOptions(config *Config) error {
	for _, m := range config.Mounts {
		for _, opt := range m.Options {
			if value, ok := optionValue(opt, "uid="); ok {
				uid, err := strconv.Atoi(value)
				if err != nil {
					return invalidf("mount %q: malformed option %q", m.Destination, opt)
				}
				if !mappingCovers(uid, config.UIDMappings) {
					return invalidf("mount %q: uid %d is not mapped in the user namespace", m.Destination, uid)
				}
			}
			if value, ok := optionValue(opt, "gid="); ok {
				gid, err := strconv.Atoi(value)
				if err != nil {
					return invalidf("mount %q: malformed option %q", m.Destination, opt)
				}
				if !mappingCovers(gid, config.GIDMappings) {
					return invalidf("mount %q: gid %d is not mapped in the user namespace", m.Destination, gid)
				}
			}
		}
	}
	return nil
}
