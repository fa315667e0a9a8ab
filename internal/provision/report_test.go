package provision

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatRunReport(t *testing.T) {
	result := &Result{
		Platform:    "8760",
		OS:          "win10",
		OSVersion:   "22H2",
		DeviceNames: []string{"Example Book 840 G8"},
		Items: []ItemResult{
			{ID: "sp100001", Filename: "Intel Chipset Driver - 10.1.2 (Jan 15, 2024).exe", SizeBytes: 2048},
			{ID: "sp100002", Err: errors.New("connection reset")},
			{ID: "sp100003", Filename: "Intel Wireless LAN - 22.200.0 (Mar 01, 2024).exe", SizeBytes: 4096},
		},
		Extracted:    []string{"a", "b"},
		ArchivePath:  "/drivers/DriverPack.zip",
		ArchivedDirs: []string{"a", "b"},
		Warnings:     []string{"something minor"},
	}

	out := FormatRunReport(result)

	for _, want := range []string{
		"DRIVER PACK SYNC",
		"Platform: 8760 (win10 22H2)",
		"Example Book 840 G8",
		"[FAILED]",
		"sp100002",
		"connection reset",
		"[DOWNLOADED] ✓",
		"2 softpaqs",
		"[EXTRACTED] ✓",
		"[ARCHIVED] ✓",
		"[WARNING]",
		"something minor",
		"SUMMARY: 1 of 3 softpaqs failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	// Successful downloads appear only in the aggregate, not per item.
	if strings.Contains(out, "sp100001") {
		t.Error("successful item should not be listed individually")
	}
}

func TestFormatRunReport_AllDownloaded(t *testing.T) {
	result := &Result{
		Platform: "8760",
		Items: []ItemResult{
			{ID: "sp100001", Filename: "A.exe", SizeBytes: 100},
		},
	}

	out := FormatRunReport(result)
	if !strings.Contains(out, "SUMMARY: 1 softpaqs downloaded ✓") {
		t.Errorf("report missing success summary:\n%s", out)
	}
	if strings.Contains(out, "[FAILED]") {
		t.Error("report should not contain failure sections")
	}
}

func TestFormatRunReport_EmptyCatalog(t *testing.T) {
	out := FormatRunReport(&Result{Platform: "8760"})
	if !strings.Contains(out, "SUMMARY: catalog returned no softpaqs") {
		t.Errorf("report missing empty summary:\n%s", out)
	}
}

func TestFormatRunReport_ScrapedListing(t *testing.T) {
	out := FormatRunReport(&Result{Platform: "8760", Scraped: true})
	if !strings.Contains(out, "legacy text report") {
		t.Errorf("report missing scrape notice:\n%s", out)
	}
}
