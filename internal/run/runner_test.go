package run

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeInstaller drops an executable stub named like a softpaq
// installer into dir.
func writeInstaller(t *testing.T, dir, name, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub installers require a unix shell")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("cannot create stub installer: %v", err)
	}
	return path
}

func TestExecRunner_Run(t *testing.T) {
	dir := t.TempDir()
	exe := writeInstaller(t, dir, "Chipset Driver - 3.1 (Jan 15, 2024).exe", `#!/bin/bash
echo "extracting to $3"
`)

	runner := NewRunner()
	result, err := runner.Run(context.Background(), exe, []string{"-e", "-f", "out", "-s"}, dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(result.Stdout, "extracting to out") {
		t.Errorf("Stdout = %q, want extraction message", result.Stdout)
	}
	if result.Duration <= 0 {
		t.Error("Duration should be positive")
	}
}

func TestExecRunner_Run_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	exe := writeInstaller(t, dir, "Broken Driver - 1.0 (Jan 01, 2024).exe", `#!/bin/bash
echo "unsupported hardware" >&2
exit 3
`)

	runner := NewRunner()
	result, err := runner.Run(context.Background(), exe, []string{"-s"}, dir)
	if err == nil {
		t.Fatal("Run() expected error for non-zero exit")
	}

	if result == nil {
		t.Fatal("Run() result should be populated on exit errors")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "unsupported hardware") {
		t.Errorf("Stderr = %q, want installer message", result.Stderr)
	}
}

func TestExecRunner_Run_MissingInstaller(t *testing.T) {
	runner := NewRunner()

	result, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "gone.exe"), nil, "")
	if err == nil {
		t.Fatal("Run() expected error for missing installer")
	}
	if result != nil {
		t.Errorf("Run() result = %+v, want nil when start fails", result)
	}
}

func TestExecRunner_Run_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	exe := writeInstaller(t, dir, "Slow Driver - 1.0 (Jan 01, 2024).exe", `#!/bin/bash
sleep 5
`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	runner := NewRunner()
	_, err := runner.Run(ctx, exe, nil, dir)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestDiscoverInstallers(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"Intel Wireless LAN Driver - 22.200.0.6 (Jan 15, 2024).exe",
		"Audio Driver - 6.0 (Jun 01, 2023).EXE",
		"Available Driver Packs.log",
		"DriverPack.zip",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	// A directory with the installer extension must not be discovered.
	if err := os.Mkdir(filepath.Join(dir, "Old Installer.exe"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := DiscoverInstallers(dir)
	if err != nil {
		t.Fatalf("DiscoverInstallers() error = %v", err)
	}

	want := []string{
		"Audio Driver - 6.0 (Jun 01, 2023).EXE",
		"Intel Wireless LAN Driver - 22.200.0.6 (Jan 15, 2024).exe",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverInstallers() = %v, want %v", got, want)
	}
}

func TestDiscoverInstallers_EmptyDir(t *testing.T) {
	got, err := DiscoverInstallers(t.TempDir())
	if err != nil {
		t.Fatalf("DiscoverInstallers() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DiscoverInstallers() = %v, want empty", got)
	}
}

func TestDiscoverInstallers_MissingDir(t *testing.T) {
	_, err := DiscoverInstallers(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Error("DiscoverInstallers() expected error for missing directory")
	}
}

func TestExpandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		dir  string
		want []string
	}{
		{
			name: "default extract flags",
			args: DefaultExtractArgs(),
			dir:  "/packs/Audio Driver - 6.0 (Jun 01, 2023)",
			want: []string{"-e", "-f", "/packs/Audio Driver - 6.0 (Jun 01, 2023)", "-s"},
		},
		{
			name: "no placeholder untouched",
			args: []string{"-s"},
			dir:  "/packs/x",
			want: []string{"-s"},
		},
		{
			name: "placeholder embedded in flag",
			args: []string{"-f{dir}"},
			dir:  "/out",
			want: []string{"-f/out"},
		},
		{
			name: "empty args",
			args: []string{},
			dir:  "/out",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandArgs(tt.args, tt.dir)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultArgs(t *testing.T) {
	if got := DefaultInstallArgs(); !reflect.DeepEqual(got, []string{"-s"}) {
		t.Errorf("DefaultInstallArgs() = %v", got)
	}

	extract := DefaultExtractArgs()
	if len(extract) != 4 || extract[2] != DirPlaceholder {
		t.Errorf("DefaultExtractArgs() = %v, want placeholder in -f position", extract)
	}

	// Callers mutate expanded copies; the defaults must stay pristine.
	extract[2] = "mutated"
	if DefaultExtractArgs()[2] != DirPlaceholder {
		t.Error("DefaultExtractArgs() shares state between calls")
	}
}
