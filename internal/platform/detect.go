package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual host detection.
type RealDetector struct{}

// NewDetector creates a new host detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs host detection and returns host information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture,
// and gopsutil for the host product string. On Windows the build
// number is parsed out of the product version and mapped to the
// vendor's OS/OS-version vocabulary.
//
// If gopsutil fails, detection continues with OS/arch only; catalog
// defaults then come from configuration instead of the host.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	arch, err := normalizeArch(runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("host detection failed: %w", err)
	}
	info.Arch = arch

	product, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		// Context cancellation is a hard failure.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("host detection cancelled: %w", ctx.Err())
		}
		// Graceful fallback: OS/arch alone still serve most callers.
		return info, nil
	}

	info.Product = product

	if runtime.GOOS == "windows" {
		resolveWindowsRelease(info, version)
	}

	return info, nil
}

// resolveWindowsRelease fills Build, OSName and OSVersion from a host
// version string such as "10.0.19045.3570 Build 19045".
func resolveWindowsRelease(info *Info, version string) {
	build := parseBuild(version)
	if build == 0 {
		return
	}
	info.Build = build
	info.OSName = osNameForBuild(build)
	info.OSVersion = releaseForBuild(build)
}
