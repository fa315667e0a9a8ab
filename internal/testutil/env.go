// Package testutil provides utilities for testing paqman in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every path paqman resolves from the environment
// at a per-test temp directory, so tests never touch:
// - the user's real paqman state (~/.paqman)
// - the user's paqman.lua in the config directory
// - a corporate proxy picked up from the calling shell
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	// Home and config locations across platforms
	t.Setenv("HOME", tmpDir)
	t.Setenv("USERPROFILE", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	t.Setenv("AppData", filepath.Join(tmpDir, "AppData"))

	// paqman state directory
	t.Setenv("PAQMAN_DIR", filepath.Join(tmpDir, "paqman"))

	// Keep httptest traffic off any ambient proxy
	t.Setenv("HTTP_PROXY", "")
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("NO_PROXY", "*")

	dirs := []string{
		filepath.Join(tmpDir, ".config"),
		filepath.Join(tmpDir, "AppData"),
		filepath.Join(tmpDir, "paqman"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return tmpDir
}
