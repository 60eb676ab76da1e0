// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import "golang.org/x/sys/unix"

// NamespaceType identifies one of the Linux namespace kinds a
// container can create or join.
type NamespaceType string

const (
	NamespaceMount   NamespaceType = "mount"
	NamespaceUTS     NamespaceType = "uts"
	NamespaceIPC     NamespaceType = "ipc"
	NamespaceUser    NamespaceType = "user"
	NamespacePID     NamespaceType = "pid"
	NamespaceNetwork NamespaceType = "network"
	NamespaceCgroup  NamespaceType = "cgroup"
)

// namespaceCloneFlags maps each kind to its clone(2) flag. Doubles as
// the set of valid kinds.
var namespaceCloneFlags = map[NamespaceType]uintptr{
	NamespaceMount:   unix.CLONE_NEWNS,
	NamespaceUTS:     unix.CLONE_NEWUTS,
	NamespaceIPC:     unix.CLONE_NEWIPC,
	NamespaceUser:    unix.CLONE_NEWUSER,
	NamespacePID:     unix.CLONE_NEWPID,
	NamespaceNetwork: unix.CLONE_NEWNET,
	NamespaceCgroup:  unix.CLONE_NEWCGROUP,
}

// IsNamespaceSupported reports whether t names a known namespace kind.
func IsNamespaceSupported(t NamespaceType) bool {
	_, ok := namespaceCloneFlags[t]
	return ok
}

// Namespace is one declared namespace. A non-empty Path means the
// container joins the existing namespace behind that path instead of
// creating a new one.
type Namespace struct {
	Type NamespaceType `json:"type"`
	Path string        `json:"path,omitempty"`
}

// Namespaces is the set of namespaces declared for a container,
// keyed by kind: Add replaces rather than duplicates, so there is at
// most one entry per kind.
type Namespaces []Namespace

func (n Namespaces) index(t NamespaceType) int {
	for i, ns := range n {
		if ns.Type == t {
			return i
		}
	}
	return -1
}

// Contains reports whether a namespace of kind t is declared.
func (n Namespaces) Contains(t NamespaceType) bool {
	return n.index(t) != -1
}

// PathOf returns the join path declared for kind t, or "" when the
// kind is absent or creates a fresh namespace.
func (n Namespaces) PathOf(t NamespaceType) string {
	i := n.index(t)
	if i == -1 {
		return ""
	}
	return n[i].Path
}

// Add declares a namespace of kind t, replacing any existing entry of
// the same kind.
func (n *Namespaces) Add(t NamespaceType, path string) {
	if i := n.index(t); i != -1 {
		(*n)[i].Path = path
		return
	}
	*n = append(*n, Namespace{Type: t, Path: path})
}

// Remove drops the entry of kind t and reports whether one existed.
func (n *Namespaces) Remove(t NamespaceType) bool {
	i := n.index(t)
	if i == -1 {
		return false
	}
	*n = append((*n)[:i], (*n)[i+1:]...)
	return true
}

// CloneFlags returns the clone(2) flags for every declared namespace
// that is created fresh. Namespaces joined via a path are excluded;
// those are entered with setns(2) by the namespace collaborator.
func (n Namespaces) CloneFlags() uintptr {
	var flags uintptr
	for _, ns := range n {
		if ns.Path != "" {
			continue
		}
		flags |= namespaceCloneFlags[ns.Type]
	}
	return flags
}
