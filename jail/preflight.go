// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"fmt"
	"io"
	"log/slog"
)

// CheckResult holds the result of one preflight check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	Warning bool // True if this is a warning, not an error.
}

// Preflight reports host readiness at agent startup, before any
// container-create request is accepted. It accumulates results
// instead of short-circuiting so the whole picture surfaces at once;
// [Validate] is the per-request gate and remains strict.
type Preflight struct {
	results []CheckResult
	errors  int
}

// NewPreflight creates an empty preflight report.
func NewPreflight() *Preflight {
	return &Preflight{results: make([]CheckResult, 0)}
}

// Results returns all recorded check results.
func (p *Preflight) Results() []CheckResult {
	return p.results
}

// HasErrors returns true if any check failed.
func (p *Preflight) HasErrors() bool {
	return p.errors > 0
}

func (p *Preflight) pass(name, message string) {
	p.results = append(p.results, CheckResult{Name: name, Passed: true, Message: message})
}

func (p *Preflight) warn(name, message string) {
	p.results = append(p.results, CheckResult{Name: name, Passed: true, Message: message, Warning: true})
}

func (p *Preflight) fail(name, message string) {
	p.results = append(p.results, CheckResult{Name: name, Passed: false, Message: message})
	p.errors++
}

// CheckAll probes the host once and runs every preflight check
// against the result.
func (p *Preflight) CheckAll() {
	host := DetectHostCapabilities()
	p.CheckUserNamespaces(host)
	p.CheckCgroupNamespaces(host)
	p.CheckCgroupHierarchy(host)
	p.CheckRootless(host)
}

// CheckUserNamespaces records whether the kernel supports user
// namespaces. Missing support is a failure: rootless containers and
// every ID-mapped configuration depend on it.
func (p *Preflight) CheckUserNamespaces(host *HostCapabilities) {
	if !host.UserNamespaces {
		p.fail("userns", "kernel does not expose "+userNamespacePath+" (user namespaces unsupported)")
		return
	}
	p.pass("userns", "user namespaces supported")
}

// CheckCgroupNamespaces records whether the kernel supports cgroup
// namespaces. Missing support is only a warning: configurations that
// do not declare a cgroup namespace still validate.
func (p *Preflight) CheckCgroupNamespaces(host *HostCapabilities) {
	if !host.CgroupNamespaces {
		p.warn("cgroupns", "kernel does not expose "+cgroupNamespacePath+" (cgroup namespace requests will be rejected)")
		return
	}
	p.pass("cgroupns", "cgroup namespaces supported")
}

// CheckCgroupHierarchy records which cgroup hierarchy is mounted.
func (p *Preflight) CheckCgroupHierarchy(host *HostCapabilities) {
	if host.CgroupUnified {
		p.pass("cgroup2", "unified cgroup v2 hierarchy mounted")
		return
	}
	p.warn("cgroup2", "legacy cgroup v1 hierarchy (per-controller limits apply)")
}

// CheckRootless records whether the agent already runs inside a user
// namespace, which implies rootless-cgroups handling downstream.
func (p *Preflight) CheckRootless(host *HostCapabilities) {
	if host.InUserNamespace {
		p.warn("rootless", "agent runs inside a user namespace; cgroup write failures will be tolerated")
		return
	}
	p.pass("rootless", "agent runs in the initial user namespace")
}

// PrintResults writes the report to a writer.
func (p *Preflight) PrintResults(w io.Writer) {
	for _, r := range p.results {
		var prefix string
		if r.Passed {
			if r.Warning {
				prefix = "⚠"
			} else {
				prefix = "✓"
			}
		} else {
			prefix = "✗"
		}
		fmt.Fprintf(w, "%s %s: %s\n", prefix, r.Name, r.Message)
	}

	fmt.Fprintln(w)
	if p.HasErrors() {
		fmt.Fprintf(w, "Preflight failed with %d error(s)\n", p.errors)
	} else {
		fmt.Fprintln(w, "Host ready for container creation")
	}
}

// Log emits the report through a structured logger. A nil logger
// uses slog.Default.
func (p *Preflight) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, r := range p.results {
		switch {
		case !r.Passed:
			logger.Error("preflight check failed", "check", r.Name, "message", r.Message)
		case r.Warning:
			logger.Warn("preflight check", "check", r.Name, "message", r.Message)
		default:
			logger.Info("preflight check", "check", r.Name, "message", r.Message)
		}
	}
}
