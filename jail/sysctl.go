// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"strings"
	"sync"
)

// ipcSysctls is the set of sysctl keys scoped by the IPC namespace.
// Process-wide lookup table: built exactly once on first use (the
// sync.OnceValue makes concurrent first use race-free and idempotent)
// and never mutated afterwards, so any number of concurrent
// validation calls may read it without locking.
var ipcSysctls = sync.OnceValue(func() map[string]struct{} {
	keys := []string{
		"kernel.msgmax",
		"kernel.msgmnb",
		"kernel.msgmni",
		"kernel.sem",
		"kernel.shmall",
		"kernel.shmmax",
		"kernel.shmmni",
		"kernel.shm_rmid_forced",
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
})

// isIPCSysctl reports whether key is scoped by the IPC namespace:
// either one of the fixed System V IPC keys or any POSIX message
// queue key under fs.mqueue.
func isIPCSysctl(key string) bool {
	if strings.HasPrefix(key, "fs.mqueue.") {
		return true
	}
	_, ok := ipcSysctls()[key]
	return ok
}
