// Package bundle packages extracted driver directories into a single
// zip archive.
//
// The archive holds the immediate subdirectories of the target
// directory and nothing else: loose installers, logs and the archive
// itself never appear in it. Entries are deflate-compressed at the
// maximum level.
package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
)

// ArchiveName is the fixed archive filename within the target directory.
const ArchiveName = "DriverPack.zip"

// ErrNoDirectories means the target directory has nothing to bundle. No
// archive is written in that case, so an earlier good archive survives.
var ErrNoDirectories = errors.New("no subdirectories to bundle")

// Bundler writes driver pack archives.
type Bundler struct{}

// NewBundler creates a Bundler.
func NewBundler() *Bundler {
	return &Bundler{}
}

// Create compresses every immediate subdirectory of targetDir into one
// archive at archivePath, overwriting any pre-existing archive. It
// returns the names of the bundled directories in lexical order.
//
// The archive is written to a temporary file first and renamed into
// place, so a failed run never leaves a truncated archive behind.
func (b *Bundler) Create(targetDir, archivePath string) ([]string, error) {
	dirs, err := subdirectories(targetDir)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, ErrNoDirectories
	}

	tmpPath := archivePath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, dir := range dirs {
		if err := addTree(zw, targetDir, filepath.Join(targetDir, dir)); err != nil {
			zw.Close()
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		return nil, fmt.Errorf("move archive into place: %w", err)
	}

	cleanupNeeded = false
	return dirs, nil
}

// subdirectories lists the immediate subdirectories of dir in lexical
// order.
func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read target directory: %w", err)
	}

	dirs := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs, nil
}

// addTree writes one directory tree into the archive. Entry names are
// slash-separated paths relative to root, so the archive unpacks to
// the same layout the extraction step produced.
func addTree(zw *zip.Writer, root, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("archive header for %s: %w", relPath, err)
		}
		header.Name = filepath.ToSlash(relPath)

		if info.IsDir() {
			header.Name += "/"
			_, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("archive directory %s: %w", relPath, err)
			}
			return nil
		}

		// Sockets, devices and symlinks have no place in a driver pack.
		if !info.Mode().IsRegular() {
			return nil
		}

		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("archive entry %s: %w", relPath, err)
		}

		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", relPath, err)
		}
		defer src.Close()

		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("compress %s: %w", relPath, err)
		}
		return nil
	})
}
