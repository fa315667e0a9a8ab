package provision

import (
	"errors"
	"time"
)

// Request contains the parameters for one sync run.
type Request struct {
	Platform  string
	OS        string
	OSVersion string
	TargetDir string

	Extract  bool
	Install  bool
	Compress bool

	// ExtractArgs and InstallArgs are the silent flag templates handed
	// to each installer. Empty slices select the vendor defaults.
	ExtractArgs []string
	InstallArgs []string
}

func (r Request) validate() error {
	if r.Platform == "" {
		return errors.New("platform identifier is required")
	}
	if r.TargetDir == "" {
		return errors.New("target directory is required")
	}
	return nil
}

// ItemResult records the outcome for a single softpaq.
type ItemResult struct {
	ID        string
	Title     string
	Version   string
	Filename  string
	SizeBytes int64
	Err       error
}

// Failed reports whether the item could not be downloaded.
func (i ItemResult) Failed() bool {
	return i.Err != nil
}

// Result contains everything a sync run produced.
type Result struct {
	Platform    string
	OS          string
	OSVersion   string
	DeviceNames []string

	// Scraped is true when the identifier list came from the legacy
	// free-text report instead of a structured listing.
	Scraped bool

	Items      []ItemResult
	CatalogLog string

	Extracted []string
	Installed []string

	ArchivePath  string
	ArchivedDirs []string

	Warnings []string

	StartedAt time.Time
	Duration  time.Duration
}

// Downloaded returns the number of softpaqs fetched successfully.
func (r *Result) Downloaded() int {
	n := 0
	for _, item := range r.Items {
		if !item.Failed() {
			n++
		}
	}
	return n
}

// Failures returns the number of softpaqs that could not be fetched.
func (r *Result) Failures() int {
	return len(r.Items) - r.Downloaded()
}
