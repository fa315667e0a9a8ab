package platform

import (
	"context"
	"runtime"
	"testing"
)

// MockDetector is a test implementation of Detector.
type MockDetector struct {
	info *Info
	err  error
}

// NewMockDetector creates a mock detector with specified return values.
func NewMockDetector(info *Info, err error) Detector {
	return &MockDetector{info: info, err: err}
}

// Detect returns the pre-configured info and error.
func (m *MockDetector) Detect(ctx context.Context) (*Info, error) {
	return m.info, m.err
}

func TestRealDetector_Detect(t *testing.T) {
	detector := NewDetector()
	ctx := context.Background()

	info, err := detector.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}

	if info.Arch == "" {
		t.Error("Arch should not be empty")
	}
	if info.Arch != "amd64" && info.Arch != "arm64" {
		t.Errorf("Arch = %v, want amd64 or arm64", info.Arch)
	}

	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %v, want %v", info.ArchRaw, runtime.GOARCH)
	}

	// Windows release fields are only ever set on Windows hosts.
	if runtime.GOOS != "windows" {
		if info.Build != 0 {
			t.Errorf("Build should be 0 on non-Windows, got %v", info.Build)
		}
		if info.OSName != "" {
			t.Errorf("OSName should be empty on non-Windows, got %v", info.OSName)
		}
		if info.OSVersion != "" {
			t.Errorf("OSVersion should be empty on non-Windows, got %v", info.OSVersion)
		}
	}
}

func TestResolveWindowsRelease(t *testing.T) {
	tests := []struct {
		name          string
		version       string
		wantBuild     int
		wantOSName    string
		wantOSVersion string
	}{
		{
			name:          "win10 22H2",
			version:       "10.0.19045",
			wantBuild:     19045,
			wantOSName:    OSNameWin10,
			wantOSVersion: "22H2",
		},
		{
			name:          "win10 with revision",
			version:       "10.0.19044.3570",
			wantBuild:     19044,
			wantOSName:    OSNameWin10,
			wantOSVersion: "21H2",
		},
		{
			name:          "win11 23H2 build suffix",
			version:       "10.0.22631 Build 22631",
			wantBuild:     22631,
			wantOSName:    OSNameWin11,
			wantOSVersion: "23H2",
		},
		{
			name:          "unknown future build keeps name only",
			version:       "10.0.28000",
			wantBuild:     28000,
			wantOSName:    OSNameWin11,
			wantOSVersion: "",
		},
		{
			name:          "garbage version resolves nothing",
			version:       "n/a",
			wantBuild:     0,
			wantOSName:    "",
			wantOSVersion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &Info{OS: "windows"}
			resolveWindowsRelease(info, tt.version)

			if info.Build != tt.wantBuild {
				t.Errorf("Build = %v, want %v", info.Build, tt.wantBuild)
			}
			if info.OSName != tt.wantOSName {
				t.Errorf("OSName = %v, want %v", info.OSName, tt.wantOSName)
			}
			if info.OSVersion != tt.wantOSVersion {
				t.Errorf("OSVersion = %v, want %v", info.OSVersion, tt.wantOSVersion)
			}
		})
	}
}

func TestInfo_VendorOS(t *testing.T) {
	tests := []struct {
		name        string
		info        Info
		wantName    string
		wantVersion string
		wantOK      bool
	}{
		{
			name:        "resolved windows host",
			info:        Info{OS: "windows", OSName: OSNameWin10, OSVersion: "22H2"},
			wantName:    "win10",
			wantVersion: "22H2",
			wantOK:      true,
		},
		{
			name:   "unresolved release",
			info:   Info{OS: "windows", OSName: OSNameWin11},
			wantOK: false,
		},
		{
			name:   "linux host",
			info:   Info{OS: "linux"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, version, ok := tt.info.VendorOS()
			if ok != tt.wantOK {
				t.Fatalf("VendorOS() ok = %v, want %v", ok, tt.wantOK)
			}
			if name != tt.wantName {
				t.Errorf("VendorOS() name = %q, want %q", name, tt.wantName)
			}
			if version != tt.wantVersion {
				t.Errorf("VendorOS() version = %q, want %q", version, tt.wantVersion)
			}
		})
	}
}

func TestMockDetector(t *testing.T) {
	want := &Info{OS: "windows", Arch: "amd64", OSName: OSNameWin10, OSVersion: "22H2"}
	detector := NewMockDetector(want, nil)

	got, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got != want {
		t.Errorf("Detect() = %+v, want %+v", got, want)
	}
}
