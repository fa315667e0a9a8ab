// Package softpaq derives filesystem artifacts from softpaq metadata.
//
// Installer filenames follow the vendor convention
// "{title} - {version} ({release date}).exe" with the release date
// reformatted from yyyyMMdd to "MMM dd, yyyy". Derivation is
// deterministic: identical metadata always yields the identical name.
package softpaq

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/paqman/internal/cmsl"
)

// InstallerExt is the extension softpaq installers ship with.
const InstallerExt = ".exe"

const (
	dateInputLayout  = "20060102"
	dateOutputLayout = "Jan 02, 2006"
)

// ErrNoTitle means metadata cannot name a file.
var ErrNoTitle = errors.New("metadata has no title")

// FormatReleaseDate reformats the vendor yyyyMMdd timestamp for
// display. Input that does not parse is returned trimmed, so a
// filename can still be formed from degraded metadata.
func FormatReleaseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	ts, err := time.Parse(dateInputLayout, raw)
	if err != nil {
		return raw
	}
	return ts.Format(dateOutputLayout)
}

// Namer issues installer filenames and guarantees uniqueness within
// one run: distinct packages that happen to share a title, version and
// date get the softpaq identifier appended so no write can clobber
// another.
type Namer struct {
	used map[string]bool
}

// NewNamer creates an empty Namer.
func NewNamer() *Namer {
	return &Namer{used: make(map[string]bool)}
}

// Filename derives the installer filename for meta and reserves it.
func (n *Namer) Filename(meta *cmsl.Metadata) (string, error) {
	title := sanitizeComponent(meta.Title)
	if title == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTitle, meta.ID)
	}

	version := sanitizeComponent(meta.Version)
	date := sanitizeComponent(FormatReleaseDate(meta.ReleaseDate))

	base := fmt.Sprintf("%s - %s (%s)", title, version, date)

	name := base + InstallerExt
	if n.used[name] && meta.ID != "" {
		name = fmt.Sprintf("%s [%s]%s", base, meta.ID, InstallerExt)
	}
	for i := 2; n.used[name]; i++ {
		name = fmt.Sprintf("%s [%s-%d]%s", base, meta.ID, i, InstallerExt)
	}

	n.used[name] = true
	return name, nil
}

// ExtractDirName returns the extraction directory for an installer
// filename: the base filename without its extension.
func ExtractDirName(filename string) string {
	return strings.TrimSuffix(filename, InstallerExt)
}

// sanitizeComponent makes a metadata field safe as a filename part.
// Characters Windows rejects are replaced and trailing dots/spaces
// trimmed.
func sanitizeComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range strings.TrimSpace(s) {
		switch {
		case r < 0x20:
			sb.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			sb.WriteRune('_')
		default:
			sb.WriteRune(r)
		}
	}

	return strings.TrimRight(sb.String(), ". ")
}
