// Package run executes softpaq installer binaries with vendor silent
// flags and discovers installers in a working directory.
//
// Runs are sequential and unbounded: an installer is awaited to
// completion before control returns, and no timeout is imposed unless
// the caller's context carries one.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// InstallerExt is the extension installer discovery matches on.
const InstallerExt = ".exe"

// DirPlaceholder marks where the extraction directory is substituted
// into configured silent-extract flags.
const DirPlaceholder = "{dir}"

// DefaultExtractArgs returns the vendor silent-extraction flags:
// extract only, into the given folder, silently.
func DefaultExtractArgs() []string {
	return []string{"-e", "-f", DirPlaceholder, "-s"}
}

// DefaultInstallArgs returns the vendor silent-install flags.
func DefaultInstallArgs() []string {
	return []string{"-s"}
}

// Result captures one installer invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes installer binaries.
type Runner interface {
	Run(ctx context.Context, exe string, args []string, workDir string) (*Result, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

// NewRunner creates an ExecRunner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run invokes exe with args from workDir and waits for it to exit.
// A non-zero exit returns the populated Result together with an error;
// failures to start at all return a nil Result.
func (r *ExecRunner) Run(ctx context.Context, exe string, args []string, workDir string) (*Result, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	hideConsoleWindow(cmd)

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() != nil {
			result.ExitCode = -1
			return result, fmt.Errorf("installer interrupted: %w", ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("installer exited with code %d", result.ExitCode)
		}

		return nil, fmt.Errorf("run installer: %w", err)
	}

	return result, nil
}

// DiscoverInstallers returns the names of every installer file in dir,
// in lexical order. Discovery is by extension over the whole directory,
// not just files written by the current run.
func DiscoverInstallers(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read target directory: %w", err)
	}

	installers := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), InstallerExt) {
			installers = append(installers, entry.Name())
		}
	}

	return installers, nil
}

// ExpandArgs substitutes the extraction directory into configured
// flag templates.
func ExpandArgs(args []string, dir string) []string {
	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = strings.ReplaceAll(arg, DirPlaceholder, dir)
	}
	return expanded
}
