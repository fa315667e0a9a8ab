package platform

import (
	"strconv"
	"strings"
)

// windowsReleases maps Windows build numbers to the release labels the
// vendor catalog expects as the OS version parameter.
var windowsReleases = map[int]string{
	10240: "1507",
	10586: "1511",
	14393: "1607",
	15063: "1703",
	16299: "1709",
	17134: "1803",
	17763: "1809",
	18362: "1903",
	18363: "1909",
	19041: "2004",
	19042: "20H2",
	19043: "21H1",
	19044: "21H2",
	19045: "22H2",
	22000: "21H2",
	22621: "22H2",
	22631: "23H2",
	26100: "24H2",
}

// parseBuild extracts the Windows build number from a host version
// string such as "10.0.19045", "10.0.19045.3570" or
// "10.0.22631 Build 22631". Returns 0 when no build is recognizable.
func parseBuild(version string) int {
	fields := strings.FieldsFunc(version, func(r rune) bool {
		return r < '0' || r > '9'
	})

	// Prefer a number that is a known build.
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		if _, ok := windowsReleases[n]; ok {
			return n
		}
	}

	// Otherwise accept anything build-sized so osNameForBuild still works
	// on releases newer than this table.
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		if n >= 10240 && n < 40000 {
			return n
		}
	}

	return 0
}

// osNameForBuild maps a build number to the vendor OS name.
func osNameForBuild(build int) string {
	switch {
	case build >= 22000:
		return OSNameWin11
	case build >= 10240:
		return OSNameWin10
	default:
		return ""
	}
}

// releaseForBuild maps a build number to the vendor release label.
// Unknown builds yield an empty string; callers then require an
// explicit OS version.
func releaseForBuild(build int) string {
	return windowsReleases[build]
}
