package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZebulonRouseFrantzich/paqman/internal/logging"
)

// Manager coordinates download, verification, and installation of the
// vendor client binary under the paqman state directory.
type Manager struct {
	binDir     string
	keyringDir string
	cacheDir   string

	releaseBase string
	platform    PlatformInfo

	downloader *Downloader
	verifier   *Verifier
	extractor  *Extractor
	logger     logging.Logger
}

// Config carries the settings needed to construct a Manager.
type Config struct {
	// PaqmanDir is the root state directory. The manager keeps bin/,
	// keyrings/, and cache/ beneath it.
	PaqmanDir string

	// PlatformInfo selects the release artifacts to install.
	PlatformInfo PlatformInfo

	// ReleaseBase overrides the release endpoint. Empty means
	// DefaultReleaseBase.
	ReleaseBase string

	// Progress enables download progress bars.
	Progress bool

	// Logger receives download and verification events. Nil disables
	// logging.
	Logger logging.Logger
}

// NewManager creates a manager rooted at cfg.PaqmanDir.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.PaqmanDir == "" {
		return nil, errors.New("paqman directory is required")
	}

	releaseBase := cfg.ReleaseBase
	if releaseBase == "" {
		releaseBase = DefaultReleaseBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Noop()
	}

	binDir := filepath.Join(cfg.PaqmanDir, "bin")
	keyringDir := filepath.Join(cfg.PaqmanDir, "keyrings")
	cacheDir := filepath.Join(cfg.PaqmanDir, "cache", "downloads")

	return &Manager{
		binDir:      binDir,
		keyringDir:  keyringDir,
		cacheDir:    cacheDir,
		releaseBase: releaseBase,
		platform:    cfg.PlatformInfo,
		downloader:  NewDownloader(cacheDir, cfg.Progress),
		verifier:    NewVerifier(keyringDir),
		extractor:   NewExtractor(),
		logger:      logger,
	}, nil
}

// BinaryPath returns the path of the installed client executable.
func (m *Manager) BinaryPath() string {
	name := "cmsl"
	if m.platform.OS == "windows" {
		name = "cmsl.exe"
	}
	return filepath.Join(m.binDir, name)
}

// IsInstalled reports whether a client executable is already installed.
func (m *Manager) IsInstalled() bool {
	info, err := os.Stat(m.BinaryPath())
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if m.platform.OS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}

// EnsureKeyring installs the embedded release keyring when none exists.
func (m *Manager) EnsureKeyring() error {
	return extractKeyring(m.keyringDir)
}

// Download fetches and verifies the release archive without installing
// it. The result records which verification method succeeded.
func (m *Manager) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}

	info, err := releaseInfo(m.releaseBase, version, m.platform)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	m.logger.Info("downloading vendor client", "version", version, "url", info.URL)

	archivePath, err := m.downloader.DownloadRelease(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("download release: %w", err)
	}

	signaturePath := ""
	if !opts.SkipGPG {
		signaturePath, err = m.downloader.DownloadSignature(ctx, info)
		switch {
		case errors.Is(err, ErrNotFound):
			m.logger.Warn("release has no published signature", "version", version)
			signaturePath = ""
		case err != nil:
			return nil, fmt.Errorf("download signature: %w", err)
		}
	}

	checksumPath := ""
	if signaturePath == "" {
		checksumPath, err = m.downloader.DownloadChecksums(ctx, info)
		switch {
		case errors.Is(err, ErrNotFound):
			checksumPath = ""
		case err != nil:
			return nil, fmt.Errorf("download checksums: %w", err)
		}
	}

	method, err := m.verifier.Verify(archivePath, signaturePath, checksumPath)
	if err != nil {
		// Drop the cached archive so a corrupted download is refetched
		// on the next attempt instead of failing forever.
		_ = os.Remove(archivePath)
		return nil, err
	}

	m.logger.Info("verified vendor client release", "version", version, "method", method.String())

	return &DownloadResult{
		Version:      version,
		Path:         archivePath,
		Verified:     method,
		DownloadTime: time.Since(start),
	}, nil
}

// Install downloads, verifies, and installs the client executable.
// Installing over an existing binary replaces it.
func (m *Manager) Install(ctx context.Context, opts DownloadOptions) error {
	if err := m.EnsureKeyring(); err != nil {
		return err
	}

	result, err := m.Download(ctx, opts)
	if err != nil {
		return err
	}

	info, err := releaseInfo(m.releaseBase, result.Version, m.platform)
	if err != nil {
		return err
	}

	if err := m.extractor.ExtractBinary(result.Path, info.BinaryName, m.BinaryPath()); err != nil {
		return fmt.Errorf("extract client binary: %w", err)
	}

	m.logger.Info("installed vendor client", "version", result.Version, "path", m.BinaryPath())
	return nil
}
