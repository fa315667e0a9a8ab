package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/paqman/internal/cmsl"
	"github.com/ZebulonRouseFrantzich/paqman/internal/run"
	"github.com/ZebulonRouseFrantzich/paqman/internal/softpaq"
)

// ItemStatus classifies one catalog entry against the target directory.
type ItemStatus string

const (
	StatusOK      ItemStatus = "OK"      // expected file is on disk
	StatusMissing ItemStatus = "MISSING" // in the catalog, not downloaded
	StatusExtra   ItemStatus = "EXTRA"   // on disk, not in the catalog
	StatusUnknown ItemStatus = "UNKNOWN" // metadata could not be resolved
)

// StatusEntry is one classified catalog or disk entry.
type StatusEntry struct {
	Status   ItemStatus
	ID       string
	Filename string
	Title    string
}

// StatusReport compares the live catalog against on-disk downloads.
type StatusReport struct {
	Platform string
	Scraped  bool
	Entries  []StatusEntry
}

// InSync returns true when every catalog entry is on disk and nothing
// unexpected is.
func (r *StatusReport) InSync() bool {
	for _, e := range r.Entries {
		if e.Status != StatusOK {
			return false
		}
	}
	return true
}

// StatusRequest selects the catalog slice and directory to compare.
type StatusRequest struct {
	Platform  string
	OS        string
	OSVersion string
	TargetDir string
}

// Status recomputes the expected filename for every softpaq in the
// live catalog and classifies the target directory against that set.
// Filenames are deterministic, so a file downloaded by an earlier run
// still matches as long as its metadata has not changed.
func (s *Service) Status(ctx context.Context, req StatusRequest) (*StatusReport, error) {
	if req.Platform == "" {
		return nil, errors.New("platform identifier is required")
	}
	if req.TargetDir == "" {
		return nil, errors.New("target directory is required")
	}

	listing, err := s.catalog.List(ctx, cmsl.Query{
		Platform:  req.Platform,
		OS:        req.OS,
		OSVersion: req.OSVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	report := &StatusReport{
		Platform: req.Platform,
		Scraped:  listing.Scraped,
	}

	namer := softpaq.NewNamer()
	expected := make(map[string]bool, len(listing.IDs))
	for _, id := range listing.IDs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("operation cancelled: %w", err)
		}

		meta, err := s.catalog.Metadata(ctx, id)
		if err != nil {
			s.logger.Debug("metadata fetch failed", "softpaq", id, "error", err)
			report.Entries = append(report.Entries, StatusEntry{Status: StatusUnknown, ID: id})
			continue
		}

		name, err := namer.Filename(meta)
		if err != nil {
			report.Entries = append(report.Entries, StatusEntry{Status: StatusUnknown, ID: id, Title: meta.Title})
			continue
		}
		expected[strings.ToLower(name)] = true

		entry := StatusEntry{ID: id, Filename: name, Title: meta.Title}
		if _, err := os.Stat(filepath.Join(req.TargetDir, name)); err == nil {
			entry.Status = StatusOK
		} else {
			entry.Status = StatusMissing
		}
		report.Entries = append(report.Entries, entry)
	}

	// Anything with the installer extension that the catalog does not
	// account for is extra. A missing target directory just means
	// nothing is downloaded yet.
	installers, err := run.DiscoverInstallers(req.TargetDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		return nil, err
	}
	for _, name := range installers {
		if !expected[strings.ToLower(name)] {
			report.Entries = append(report.Entries, StatusEntry{Status: StatusExtra, Filename: name})
		}
	}

	return report, nil
}

// FormatStatusReport formats a status comparison for user display
func FormatStatusReport(r *StatusReport) string {
	var sb strings.Builder
	// Pre-allocate for typical report size (header + entries + summary)
	sb.Grow(1024 + len(r.Entries)*256)

	sb.WriteString("\n" + reportRule + "\n")
	sb.WriteString("DRIVER PACK STATUS\n")
	sb.WriteString(reportRule + "\n\n")

	// Count entry classes
	counts := make(map[ItemStatus]int)
	for _, e := range r.Entries {
		counts[e.Status]++
	}

	// Display each difference (skip OK entries in detailed view)
	for _, e := range r.Entries {
		switch e.Status {
		case StatusMissing:
			sb.WriteString("[MISSING]\n")
			sb.WriteString(fmt.Sprintf("  %s\n", e.ID))
			sb.WriteString(fmt.Sprintf("    Expected:  %s\n", e.Filename))
			sb.WriteString("    → In the catalog but not downloaded\n\n")
		case StatusExtra:
			sb.WriteString("[EXTRA]\n")
			sb.WriteString(fmt.Sprintf("  %s\n", e.Filename))
			sb.WriteString("    → On disk but not in the current catalog\n\n")
		case StatusUnknown:
			sb.WriteString("[UNKNOWN]\n")
			sb.WriteString(fmt.Sprintf("  %s\n", e.ID))
			sb.WriteString("    → Metadata could not be fetched\n\n")
		}
	}

	if counts[StatusOK] > 0 {
		sb.WriteString(fmt.Sprintf("[OK] ✓\n  %d softpaqs match the catalog\n\n", counts[StatusOK]))
	}

	sb.WriteString(reportRule + "\n")

	diffs := len(r.Entries) - counts[StatusOK]
	if diffs == 0 {
		sb.WriteString("SUMMARY: target directory is in sync ✓\n")
	} else {
		sb.WriteString(fmt.Sprintf("SUMMARY: %d differences detected\n", diffs))

		var parts []string
		if counts[StatusMissing] > 0 {
			parts = append(parts, fmt.Sprintf("%d missing", counts[StatusMissing]))
		}
		if counts[StatusExtra] > 0 {
			parts = append(parts, fmt.Sprintf("%d extra", counts[StatusExtra]))
		}
		if counts[StatusUnknown] > 0 {
			parts = append(parts, fmt.Sprintf("%d unknown", counts[StatusUnknown]))
		}

		sb.WriteString("  " + strings.Join(parts, ", ") + "\n")
	}

	sb.WriteString(reportRule + "\n")

	return sb.String()
}
