// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

// Package jail holds the resolved container configuration and the
// validation engine that gatekeeps it before any kernel state is
// created for the container.
//
// The central type is [Config]: a plain, frozen snapshot of the full
// container specification surface (rootfs, namespaces, mounts,
// devices, cgroup resources, capabilities, seccomp policy, rlimits,
// ID mappings, sysctls, lifecycle hooks). Construction never fails;
// every optional field defaults to its zero value, and all failure is
// deferred to [Validate]. Once a Config is handed to Validate it is
// read-only, and ownership transfers to the setup pipeline only after
// Validate returns nil.
//
// [Validate] is a fixed pipeline of independent checks, each a
// side-effect-free predicate over the Config (plus a small number of
// read-only /proc probes), sequenced with early exit so that a later
// stage never runs after an earlier stage has failed. Every rule in
// the pipeline encodes a kernel invariant: a hostname needs a UTS
// namespace to land in, ID mappings need a user namespace to apply
// in, a net.* sysctl written through a joined namespace path must not
// silently reach the host's own network namespace, and a rootfs path
// must not be redirected by a symlink out of the intended tree. Every
// rejection wraps [ErrInvalidConfig].
//
// The actual application of a validated Config (unsharing
// namespaces, writing cgroup controller files, performing mounts,
// compiling the seccomp filter, invoking hooks) is the job of the
// downstream setup collaborators, not this package. The one piece of
// behavior the model itself owns is the hook run capability:
// [FuncHook] and [CommandHook] know how to execute themselves against
// a container [State], because how a hook runs is determined by how
// it was declared.
//
// [HostCapabilities] and [Preflight] probe what the guest kernel
// actually supports (user namespaces, cgroup namespaces, the unified
// cgroup hierarchy) so the agent can report readiness at startup; the
// same probes back the host-support checks inside Validate.
package jail
