package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
)

func TestInjectHostTable_Windows(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	if err := injectHostTable(L, windowsHost()); err != nil {
		t.Fatalf("injectHostTable() error = %v", err)
	}

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"os", `return host.os`, lua.LString("windows")},
		{"arch", `return host.arch`, lua.LString("amd64")},
		{"product", `return host.product`, lua.LString("Microsoft Windows 11 Pro")},
		{"build", `return host.build`, lua.LNumber(26100)},
		{"os_name", `return host.os_name`, lua.LString("win11")},
		{"os_version", `return host.os_version`, lua.LString("24H2")},
		{"is_windows", `return host.is_windows`, lua.LTrue},
		{"is_linux", `return host.is_linux`, lua.LFalse},
		{"is_macos", `return host.is_macos`, lua.LFalse},
		{"is_amd64", `return host.is_amd64`, lua.LTrue},
		{"is_arm64", `return host.is_arm64`, lua.LFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("failed to execute code: %v", err)
			}
			got := L.Get(-1)
			L.Pop(1)

			if got.Type() != tt.want.Type() {
				t.Errorf("type mismatch: got %v, want %v", got.Type(), tt.want.Type())
				return
			}
			if got.String() != tt.want.String() {
				t.Errorf("value mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInjectHostTable_NonWindowsHasNoVendorOS(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	info := &platform.Info{OS: "linux", Arch: "arm64", Product: "ubuntu"}
	if err := injectHostTable(L, info); err != nil {
		t.Fatalf("injectHostTable() error = %v", err)
	}

	code := `
		if host.os_name ~= nil then error("os_name should be nil") end
		if host.os_version ~= nil then error("os_version should be nil") end
		if host.build ~= nil then error("build should be nil") end
		if not host.is_linux then error("is_linux should be true") end
		if not host.is_arm64 then error("is_arm64 should be true") end
	`
	if err := L.DoString(code); err != nil {
		t.Errorf("host table checks failed: %v", err)
	}
}

func TestInjectHostTable_ReadOnly(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	if err := injectHostTable(L, windowsHost()); err != nil {
		t.Fatalf("injectHostTable() error = %v", err)
	}

	err := L.DoString(`host.os = "hacked"`)
	if err == nil {
		t.Fatal("writing to host table succeeded, want error")
	}
	if !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %v, want read-only violation", err)
	}

	// The protected metatable must not be reachable either.
	if err := L.DoString(`return getmetatable(host)`); err != nil {
		t.Fatalf("getmetatable failed: %v", err)
	}
	got := L.Get(-1)
	L.Pop(1)
	if got.String() != "protected" {
		t.Errorf("getmetatable(host) = %v, want protected marker", got)
	}
}

func TestInjectHostTable_WhenHelper(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	if err := injectHostTable(L, windowsHost()); err != nil {
		t.Fatalf("injectHostTable() error = %v", err)
	}

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"true condition", `return host.when(host.is_windows, "8B41")`, lua.LString("8B41")},
		{"false condition", `return host.when(host.is_linux, "8B41")`, lua.LNil},
		{"truthy string", `return host.when("yes", "8B41")`, lua.LString("8B41")},
		{"nil condition", `return host.when(nil, "8B41")`, lua.LNil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("failed to execute code: %v", err)
			}
			got := L.Get(-1)
			L.Pop(1)

			if got.Type() != tt.want.Type() {
				t.Errorf("type mismatch: got %v, want %v", got.Type(), tt.want.Type())
				return
			}
			if got.String() != tt.want.String() {
				t.Errorf("value mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}
