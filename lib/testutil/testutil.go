// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Vessel packages.
//
// The helpers build filesystem fixtures for validation tests: rootfs
// directories with and without symlink components, and files inside
// them. [ResolvedTempDir] exists because t.TempDir() may itself sit
// behind a symlink (TMPDIR on some systems), which would make every
// canonical-path assertion fail for reasons unrelated to the code
// under test.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ResolvedTempDir returns a fresh temporary directory with every
// symlink in its own path resolved, so the returned path is already
// canonical.
func ResolvedTempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	return dir
}

// MkdirAll creates a directory (and parents) under a fixture tree.
func MkdirAll(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("creating directory %s: %v", path, err)
	}
}

// WriteFile writes content to path, creating parent directories as
// needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// Symlink creates a symbolic link at linkname pointing to target.
func Symlink(t *testing.T, target, linkname string) {
	t.Helper()

	if err := os.Symlink(target, linkname); err != nil {
		t.Fatalf("creating symlink %s -> %s: %v", linkname, target, err)
	}
}
