package provision

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the machine-readable run journal dropped in the
// target directory after every sync.
const ManifestName = "paqman-run.json"

// ItemState tracks the download outcome for one softpaq.
type ItemState string

const (
	StateDownloaded ItemState = "downloaded"
	StateFailed     ItemState = "failed"
)

// Manifest records what a sync run did, for auditing and for later
// status comparison.
type Manifest struct {
	Version   int            `json:"version"` // Schema version for future evolution
	ID        string         `json:"id"`      // UUID for unique identification
	Platform  string         `json:"platform"`
	OS        string         `json:"os,omitempty"`
	OSVersion string         `json:"os_version,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Items     []ManifestItem `json:"items"`
	Extracted []string       `json:"extracted,omitempty"`
	Installed []string       `json:"installed,omitempty"`
	Archive   string         `json:"archive,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// ManifestItem is the journal entry for a single softpaq.
type ManifestItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Version   string    `json:"version,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	State     ItemState `json:"state"`
	LastError string    `json:"last_error,omitempty"`
}

// newManifest builds the journal from a finished run.
func newManifest(req Request, result *Result, now time.Time) *Manifest {
	items := make([]ManifestItem, 0, len(result.Items))
	for _, it := range result.Items {
		mi := ManifestItem{
			ID:        it.ID,
			Title:     it.Title,
			Version:   it.Version,
			Filename:  it.Filename,
			SizeBytes: it.SizeBytes,
			State:     StateDownloaded,
		}
		if it.Failed() {
			mi.State = StateFailed
			mi.LastError = it.Err.Error()
		}
		items = append(items, mi)
	}

	archive := ""
	if result.ArchivePath != "" {
		archive = filepath.Base(result.ArchivePath)
	}

	return &Manifest{
		Version:   1,
		ID:        uuid.New().String(),
		Platform:  req.Platform,
		OS:        req.OS,
		OSVersion: req.OSVersion,
		Timestamp: now.UTC(),
		Items:     items,
		Extracted: result.Extracted,
		Installed: result.Installed,
		Archive:   archive,
		Warnings:  result.Warnings,
	}
}

// Save writes the manifest to dir atomically.
// Uses write-then-rename pattern for atomicity.
func (m *Manifest) Save(dir string) error {
	finalPath := filepath.Join(dir, ManifestName)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, FilePermissions); err != nil {
		return fmt.Errorf("write temporary manifest file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename manifest file: %w", err)
	}

	return nil
}

// LoadManifest reads a previously saved run manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// FailedItems returns the journal entries that did not download.
func (m *Manifest) FailedItems() []ManifestItem {
	var failed []ManifestItem
	for _, it := range m.Items {
		if it.State == StateFailed {
			failed = append(failed, it)
		}
	}
	return failed
}

// AllDownloaded returns true if every item downloaded successfully.
func (m *Manifest) AllDownloaded() bool {
	for _, it := range m.Items {
		if it.State != StateDownloaded {
			return false
		}
	}
	return len(m.Items) > 0
}
