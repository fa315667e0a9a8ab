// Package platform provides host detection for paqman.
//
// It detects OS and architecture, and on Windows resolves the build
// number to the vendor's OS/OS-version vocabulary (e.g. "win10"/"22H2")
// so catalog queries can default sensibly. Detection uses gopsutil and
// falls back gracefully to OS/arch only when host lookup fails.
package platform

import "context"

// Vendor OS name constants, as the catalog client expects them.
const (
	OSNameWin10 = "win10"
	OSNameWin11 = "win11"
)

// Info contains host detection information.
type Info struct {
	OS        string `json:"os"`                   // "linux", "darwin", "windows"
	Arch      string `json:"arch"`                 // "amd64", "arm64" (normalized)
	ArchRaw   string `json:"arch_raw"`             // original GOARCH (e.g., "x86_64", "aarch64")
	Product   string `json:"product"`              // host product string (e.g., "Microsoft Windows 10 Pro", "ubuntu")
	Build     int    `json:"build,omitempty"`      // Windows build number (0 when unknown)
	OSName    string `json:"os_name,omitempty"`    // vendor OS name ("win10", "win11"; Windows only)
	OSVersion string `json:"os_version,omitempty"` // vendor OS version label (e.g., "22H2"; Windows only)
}

// VendorOS returns the vendor catalog (os, os-version) pair for this host.
// ok is false on non-Windows hosts or when the build could not be resolved
// to a release label.
func (i *Info) VendorOS() (name, version string, ok bool) {
	if i.OSName == "" || i.OSVersion == "" {
		return "", "", false
	}
	return i.OSName, i.OSVersion, true
}

// IsLinux returns true if the host is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the host is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the host is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// Detector is the interface for host detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
