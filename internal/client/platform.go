package client

import (
	"fmt"
	"runtime"
)

// archNames maps Go architecture names to the names used in release
// artifact filenames.
var archNames = map[string]string{
	"amd64": "x64",
	"arm64": "arm64",
	"arm":   "armv7",
	"386":   "x86",
}

// DetectPlatform returns platform information for the current host.
func DetectPlatform() (PlatformInfo, error) {
	p := PlatformInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	switch p.OS {
	case "linux", "darwin", "windows":
	default:
		return PlatformInfo{}, fmt.Errorf("unsupported operating system: %s", p.OS)
	}

	if _, ok := archNames[p.Arch]; !ok {
		return PlatformInfo{}, fmt.Errorf("unsupported architecture: %s", p.Arch)
	}

	return p, nil
}

// releaseInfo derives the artifact URLs for one release version on one
// platform. Releases ship as tar.gz archives except on Windows, which
// uses zip.
func releaseInfo(base, version string, p PlatformInfo) (ReleaseInfo, error) {
	arch, ok := archNames[p.Arch]
	if !ok {
		return ReleaseInfo{}, fmt.Errorf("unsupported architecture: %s", p.Arch)
	}

	ext := "tar.gz"
	binaryName := "cmsl"
	if p.OS == "windows" {
		ext = "zip"
		binaryName = "cmsl.exe"
	}

	archive := fmt.Sprintf("cmsl-%s-%s-%s.%s", version, p.OS, arch, ext)
	url := fmt.Sprintf("%s/v%s/%s", base, version, archive)

	return ReleaseInfo{
		Version:      version,
		OS:           p.OS,
		Arch:         p.Arch,
		URL:          url,
		SignatureURL: url + ".sig",
		ChecksumURL:  fmt.Sprintf("%s/v%s/checksums.txt", base, version),
		BinaryName:   binaryName,
	}, nil
}
