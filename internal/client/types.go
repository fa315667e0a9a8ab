package client

import "time"

const (
	// DefaultVersion is the vendor client release installed when no
	// version is pinned in configuration.
	DefaultVersion = "1.8.2"

	// DefaultReleaseBase is the base URL for vendor client release
	// artifacts. Individual artifact URLs are derived from it.
	DefaultReleaseBase = "https://github.com/cmsl-tools/cmsl/releases/download"

	// DefaultDownloadTimeout bounds a single artifact download.
	DefaultDownloadTimeout = 5 * time.Minute

	// DefaultRetries is the number of download attempts before giving up.
	DefaultRetries = 3
)

// PlatformInfo identifies the operating system and architecture the
// client binary must be built for.
type PlatformInfo struct {
	OS   string // linux, darwin, windows
	Arch string // amd64, arm64, arm, 386
}

// VerificationMethod records how a downloaded artifact was verified.
type VerificationMethod int

const (
	// VerificationNone means the artifact has not been verified.
	VerificationNone VerificationMethod = iota

	// VerificationGPG means a detached GPG signature was checked
	// against the embedded release keyring.
	VerificationGPG

	// VerificationSHA256 means the artifact digest matched the
	// published checksum file.
	VerificationSHA256
)

// String returns a human-readable name for the verification method.
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "gpg"
	case VerificationSHA256:
		return "sha256"
	default:
		return "none"
	}
}

// ReleaseInfo describes the artifacts that make up one published
// release for one platform.
type ReleaseInfo struct {
	Version      string
	OS           string
	Arch         string
	URL          string // release archive
	SignatureURL string // detached GPG signature for the archive
	ChecksumURL  string // SHA256 checksum manifest
	BinaryName   string // name of the executable inside the archive
}

// DownloadOptions controls a download-and-install run.
type DownloadOptions struct {
	// Version selects the release to install. Empty means DefaultVersion.
	Version string

	// SkipGPG disables signature verification and relies on checksums
	// alone. Intended for air-gapped mirrors that strip signatures.
	SkipGPG bool
}

// DownloadResult reports the outcome of a completed download.
type DownloadResult struct {
	Version      string
	Path         string
	Verified     VerificationMethod
	DownloadTime time.Duration
}
