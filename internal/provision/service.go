// Package provision provides high-level business logic for driver pack
// runs: catalog query, download, extraction, install and packaging.
package provision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/paqman/internal/bundle"
	"github.com/ZebulonRouseFrantzich/paqman/internal/cmsl"
	"github.com/ZebulonRouseFrantzich/paqman/internal/lockfile"
	"github.com/ZebulonRouseFrantzich/paqman/internal/logging"
	"github.com/ZebulonRouseFrantzich/paqman/internal/run"
	"github.com/ZebulonRouseFrantzich/paqman/internal/softpaq"
)

const (
	// CatalogLogName is the listing report left in the target directory
	// after every catalog query.
	CatalogLogName = "Available Driver Packs.log"

	// DirPermissions sets the permission mode for created directories.
	DirPermissions = 0755
	// FilePermissions sets the permission mode for report files.
	FilePermissions = 0644
)

// Service orchestrates sync runs against the vendor catalog.
type Service struct {
	catalog cmsl.Catalog
	runner  run.Runner
	bundler *bundle.Bundler
	clock   Clock
	logger  logging.Logger
}

// NewService creates a sync service with dependency injection.
func NewService(catalog cmsl.Catalog, runner run.Runner, bundler *bundle.Bundler, clock Clock, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Service{
		catalog: catalog,
		runner:  runner,
		bundler: bundler,
		clock:   clock,
		logger:  logger,
	}
}

// Execute performs a full sync run: query the catalog for the platform,
// download every listed softpaq, then run the optional extraction,
// install and packaging steps. Per-softpaq failures are recorded and
// the run continues; only setup failures abort.
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	started := s.clock.Now()
	result := &Result{
		Platform:  req.Platform,
		OS:        req.OS,
		OSVersion: req.OSVersion,
		StartedAt: started,
	}

	// 1. Create the target directory and take the sync lock.
	lock, err := lockfile.Acquire(ctx, req.TargetDir)
	if err != nil {
		return nil, fmt.Errorf("lock target directory: %w", err)
	}
	defer func() { _ = lock.Release() }()

	// 2. Probe the vendor client before any catalog work.
	clientVersion, err := s.catalog.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("vendor client unavailable: %w", err)
	}
	s.logger.Debug("vendor client available", "version", clientVersion)

	// 3. Resolve the device family names. Purely informational.
	if devices, err := s.catalog.DeviceDetails(ctx, req.Platform); err != nil {
		s.logger.Debug("device lookup failed", "platform", req.Platform, "error", err)
	} else {
		for _, d := range devices {
			result.DeviceNames = append(result.DeviceNames, d.Name)
		}
	}

	// 4. Catalog query.
	listing, err := s.catalog.List(ctx, cmsl.Query{
		Platform:  req.Platform,
		OS:        req.OS,
		OSVersion: req.OSVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	result.Scraped = listing.Scraped
	if listing.Scraped {
		s.logger.Warn("structured listing unavailable, scraped legacy report", "platform", req.Platform)
	}

	logPath := filepath.Join(req.TargetDir, CatalogLogName)
	if err := os.WriteFile(logPath, []byte(listing.Raw), FilePermissions); err != nil {
		return nil, fmt.Errorf("write catalog log: %w", err)
	}
	result.CatalogLog = logPath

	s.logger.Info("catalog query complete",
		"platform", req.Platform,
		"os", req.OS,
		"osver", req.OSVersion,
		"softpaqs", len(listing.IDs))

	// 5. Download every softpaq, continuing past per-item failures.
	namer := softpaq.NewNamer()
	for _, id := range listing.IDs {
		if err := ctx.Err(); err != nil {
			result.Duration = s.clock.Now().Sub(started)
			return result, fmt.Errorf("operation cancelled: %w", err)
		}
		result.Items = append(result.Items, s.fetchOne(ctx, namer, req.TargetDir, id))
	}

	// 6. Extraction covers every installer in the target directory,
	// not just the ones this run downloaded.
	if req.Extract {
		extracted, err := s.extractAll(ctx, req)
		if err != nil {
			result.Duration = s.clock.Now().Sub(started)
			return result, err
		}
		result.Extracted = extracted
	}

	// 7. Install step, same discovery as extraction.
	if req.Install {
		installed, err := s.installAll(ctx, req)
		if err != nil {
			result.Duration = s.clock.Now().Sub(started)
			return result, err
		}
		result.Installed = installed
	}

	// 8. Packaging requires extraction; without it the step degrades
	// to a warning and the run completes.
	if req.Compress {
		if !req.Extract {
			const msg = "compression requested without extraction, skipping archive"
			result.Warnings = append(result.Warnings, msg)
			s.logger.Warn(msg)
		} else {
			archivePath := filepath.Join(req.TargetDir, bundle.ArchiveName)
			dirs, err := s.bundler.Create(req.TargetDir, archivePath)
			switch {
			case errors.Is(err, bundle.ErrNoDirectories):
				const msg = "no extracted directories to archive"
				result.Warnings = append(result.Warnings, msg)
				s.logger.Warn(msg)
			case err != nil:
				result.Duration = s.clock.Now().Sub(started)
				return result, fmt.Errorf("create archive: %w", err)
			default:
				result.ArchivePath = archivePath
				result.ArchivedDirs = dirs
				s.logger.Info("archive created", "path", archivePath, "dirs", len(dirs))
			}
		}
	}

	// 9. Drop the run manifest next to the downloads.
	manifest := newManifest(req, result, s.clock.Now())
	if err := manifest.Save(req.TargetDir); err != nil {
		s.logger.Warn("failed to save run manifest", "error", err)
	}

	result.Duration = s.clock.Now().Sub(started)
	return result, nil
}

// fetchOne resolves metadata, derives the display filename and
// downloads a single softpaq. Any failure is recorded on the item.
func (s *Service) fetchOne(ctx context.Context, namer *softpaq.Namer, targetDir, id string) ItemResult {
	item := ItemResult{ID: id}

	meta, err := s.catalog.Metadata(ctx, id)
	if err != nil {
		item.Err = fmt.Errorf("fetch metadata: %w", err)
		s.logger.Error("metadata fetch failed", "softpaq", id, "error", err)
		return item
	}
	item.Title = meta.Title
	item.Version = meta.Version

	name, err := namer.Filename(meta)
	if err != nil {
		item.Err = fmt.Errorf("derive filename: %w", err)
		s.logger.Error("filename derivation failed", "softpaq", id, "error", err)
		return item
	}
	item.Filename = name

	dest := filepath.Join(targetDir, name)
	s.logger.Info("downloading", "softpaq", id, "file", name)
	if err := s.catalog.Download(ctx, id, dest); err != nil {
		item.Err = fmt.Errorf("download: %w", err)
		s.logger.Error("download failed", "softpaq", id, "error", err)
		return item
	}

	// A digest mismatch counts as a download failure; the bad file is
	// removed so later extract/install passes never touch it.
	if meta.SHA256 != "" {
		if err := verifyDigest(dest, meta.SHA256); err != nil {
			_ = os.Remove(dest)
			item.Err = fmt.Errorf("verify download: %w", err)
			s.logger.Error("digest verification failed", "softpaq", id, "error", err)
			return item
		}
	}

	if info, err := os.Stat(dest); err == nil {
		item.SizeBytes = info.Size()
	}
	return item
}

// verifyDigest compares a file's SHA-256 against the catalog digest.
func verifyDigest(path, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("sha256 mismatch: have %s, want %s", got, want)
	}
	return nil
}

// extractAll runs every installer in the target directory with the
// silent extraction flags, one subdirectory per installer. Exit status
// is advisory only: a launch failure or non-zero exit leaves the loop
// running.
func (s *Service) extractAll(ctx context.Context, req Request) ([]string, error) {
	installers, err := run.DiscoverInstallers(req.TargetDir)
	if err != nil {
		return nil, err
	}

	args := req.ExtractArgs
	if len(args) == 0 {
		args = run.DefaultExtractArgs()
	}

	extracted := make([]string, 0, len(installers))
	for _, name := range installers {
		if err := ctx.Err(); err != nil {
			return extracted, fmt.Errorf("operation cancelled: %w", err)
		}

		subdir := softpaq.ExtractDirName(name)
		dest := filepath.Join(req.TargetDir, subdir)
		if err := os.MkdirAll(dest, DirPermissions); err != nil {
			s.logger.Error("create extraction directory failed", "installer", name, "error", err)
			continue
		}

		s.logger.Info("extracting", "installer", name, "dir", subdir)
		res, err := s.runner.Run(ctx, filepath.Join(req.TargetDir, name), run.ExpandArgs(args, dest), req.TargetDir)
		if err != nil && ctx.Err() != nil {
			return extracted, fmt.Errorf("operation cancelled: %w", ctx.Err())
		}
		if res == nil {
			s.logger.Warn("extraction failed to launch", "installer", name, "error", err)
			continue
		}
		if res.ExitCode != 0 {
			s.logger.Debug("extractor exit status ignored", "installer", name, "exit_code", res.ExitCode)
		}
		extracted = append(extracted, subdir)
	}

	return extracted, nil
}

// installAll runs every installer in the target directory with the
// silent install flags. Results are not inspected beyond logging.
func (s *Service) installAll(ctx context.Context, req Request) ([]string, error) {
	if run.RebootPending() {
		s.logger.Warn("a system restart is already pending, installs may queue behind it")
	}

	installers, err := run.DiscoverInstallers(req.TargetDir)
	if err != nil {
		return nil, err
	}

	args := req.InstallArgs
	if len(args) == 0 {
		args = run.DefaultInstallArgs()
	}

	installed := make([]string, 0, len(installers))
	for _, name := range installers {
		if err := ctx.Err(); err != nil {
			return installed, fmt.Errorf("operation cancelled: %w", err)
		}

		s.logger.Info("installing", "installer", name)
		res, err := s.runner.Run(ctx, filepath.Join(req.TargetDir, name), run.ExpandArgs(args, req.TargetDir), req.TargetDir)
		if err != nil && ctx.Err() != nil {
			return installed, fmt.Errorf("operation cancelled: %w", ctx.Err())
		}
		if res == nil {
			s.logger.Warn("install failed to launch", "installer", name, "error", err)
			continue
		}
		if res.ExitCode != 0 {
			s.logger.Debug("installer exit status ignored", "installer", name, "exit_code", res.ExitCode)
		}
		installed = append(installed, name)
	}

	return installed, nil
}
