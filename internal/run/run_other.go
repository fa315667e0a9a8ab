//go:build !windows

package run

import "os/exec"

// hideConsoleWindow is a no-op off Windows.
func hideConsoleWindow(cmd *exec.Cmd) {}

// RebootPending always reports false off Windows.
func RebootPending() bool {
	return false
}
