package provision

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const reportRule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// FormatRunReport formats a sync result for user display
func FormatRunReport(r *Result) string {
	var sb strings.Builder
	// Pre-allocate for typical report size (header + entries + summary)
	sb.Grow(1024 + len(r.Items)*256)

	sb.WriteString("\n" + reportRule + "\n")
	sb.WriteString("DRIVER PACK SYNC\n")
	sb.WriteString(reportRule + "\n\n")

	sb.WriteString(fmt.Sprintf("Platform: %s (%s %s)\n", r.Platform, r.OS, r.OSVersion))
	if len(r.DeviceNames) > 0 {
		sb.WriteString(fmt.Sprintf("Device:   %s\n", strings.Join(r.DeviceNames, ", ")))
	}
	if r.Scraped {
		sb.WriteString("Catalog:  legacy text report (scraped)\n")
	}
	sb.WriteString("\n")

	// Display each failure (successful downloads appear only in the summary)
	for _, item := range r.Items {
		if !item.Failed() {
			continue
		}
		sb.WriteString("[FAILED]\n")
		sb.WriteString(fmt.Sprintf("  %s\n", item.ID))
		if item.Filename != "" {
			sb.WriteString(fmt.Sprintf("    File:   %s\n", item.Filename))
		}
		sb.WriteString(fmt.Sprintf("    → %v\n", item.Err))
		sb.WriteString("\n")
	}

	if ok := r.Downloaded(); ok > 0 {
		var total int64
		for _, item := range r.Items {
			if !item.Failed() {
				total += item.SizeBytes
			}
		}
		sb.WriteString(fmt.Sprintf("[DOWNLOADED] ✓\n  %d softpaqs (%s)\n\n", ok, humanize.Bytes(uint64(total))))
	}

	if len(r.Extracted) > 0 {
		sb.WriteString(fmt.Sprintf("[EXTRACTED] ✓\n  %d installers unpacked\n\n", len(r.Extracted)))
	}
	if len(r.Installed) > 0 {
		sb.WriteString(fmt.Sprintf("[INSTALLED] ✓\n  %d installers executed\n\n", len(r.Installed)))
	}
	if r.ArchivePath != "" {
		sb.WriteString(fmt.Sprintf("[ARCHIVED] ✓\n  %d directories in %s\n\n", len(r.ArchivedDirs), r.ArchivePath))
	}
	for _, w := range r.Warnings {
		sb.WriteString(fmt.Sprintf("[WARNING]\n  %s\n\n", w))
	}

	sb.WriteString(reportRule + "\n")
	if len(r.Items) == 0 {
		sb.WriteString("SUMMARY: catalog returned no softpaqs\n")
	} else if r.Failures() == 0 {
		sb.WriteString(fmt.Sprintf("SUMMARY: %d softpaqs downloaded ✓\n", r.Downloaded()))
	} else {
		sb.WriteString(fmt.Sprintf("SUMMARY: %d of %d softpaqs failed\n", r.Failures(), len(r.Items)))
	}
	sb.WriteString(reportRule + "\n")

	return sb.String()
}
