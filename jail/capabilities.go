// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"slices"
	"strings"
	"sync"

	"github.com/moby/sys/capability"
)

// Capabilities are the five capability sets applied to the
// container's process, each a set of CAP_* names. Order and
// duplicates are meaningless; the collaborator applying them treats
// each list as a set.
type Capabilities struct {
	Bounding    []string `json:"bounding"`
	Effective   []string `json:"effective"`
	Inheritable []string `json:"inheritable"`
	Permitted   []string `json:"permitted"`
	Ambient     []string `json:"ambient"`
}

// knownCapabilities is the set of CAP_* names this build's capability
// library knows. Initialized once on first use; read-only afterwards,
// so concurrent lookups need no locking.
var knownCapabilities = sync.OnceValue(func() map[string]struct{} {
	list := capability.ListKnown()
	known := make(map[string]struct{}, len(list))
	for _, c := range list {
		known["CAP_"+strings.ToUpper(c.String())] = struct{}{}
	}
	return known
})

// Unknown returns the capability names, across all five sets, that
// the capability library does not recognize, sorted and deduplicated.
// Unknown names are not a validation failure: the kernel the
// container eventually runs on may be newer than this build. Callers
// log them instead.
func (c *Capabilities) Unknown() []string {
	known := knownCapabilities()
	seen := make(map[string]struct{})
	var unknown []string
	for _, set := range [][]string{c.Bounding, c.Effective, c.Inheritable, c.Permitted, c.Ambient} {
		for _, name := range set {
			if _, ok := known[name]; ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}
