package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

// ErrNotFound indicates the release endpoint has no artifact at the
// requested URL. Optional artifacts such as signatures treat this as
// absence rather than failure.
var ErrNotFound = errors.New("artifact not found")

// Downloader fetches release artifacts over HTTP with retries and an
// on-disk cache keyed by release version.
type Downloader struct {
	client    *http.Client
	cacheDir  string
	userAgent string
	retries   int
	backoff   time.Duration
	progress  bool
}

// NewDownloader creates a downloader that caches artifacts under
// cacheDir. When progress is true, downloads render a progress bar.
func NewDownloader(cacheDir string, progress bool) *Downloader {
	return &Downloader{
		client:    &http.Client{Timeout: DefaultDownloadTimeout},
		cacheDir:  cacheDir,
		userAgent: "paqman/1.0",
		retries:   DefaultRetries,
		backoff:   time.Second,
		progress:  progress,
	}
}

// DownloadRelease fetches the release archive, returning the cached
// copy when one exists.
func (d *Downloader) DownloadRelease(ctx context.Context, info ReleaseInfo) (string, error) {
	dest := d.cachePath(info.Version, filepath.Base(info.URL))
	if fileExists(dest) {
		return dest, nil
	}
	if err := d.DownloadToFile(ctx, info.URL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// DownloadSignature fetches the detached signature for the release
// archive. Callers should treat ErrNotFound as "no signature published".
func (d *Downloader) DownloadSignature(ctx context.Context, info ReleaseInfo) (string, error) {
	dest := d.cachePath(info.Version, filepath.Base(info.SignatureURL))
	if fileExists(dest) {
		return dest, nil
	}
	if err := d.DownloadToFile(ctx, info.SignatureURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// DownloadChecksums fetches the SHA256 checksum manifest for the
// release. Callers should treat ErrNotFound as "no checksums published".
func (d *Downloader) DownloadChecksums(ctx context.Context, info ReleaseInfo) (string, error) {
	dest := d.cachePath(info.Version, filepath.Base(info.ChecksumURL))
	if fileExists(dest) {
		return dest, nil
	}
	if err := d.DownloadToFile(ctx, info.ChecksumURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// DownloadToFile downloads url to destPath, retrying transient failures
// with exponential backoff. Missing artifacts (HTTP 404) fail
// immediately with ErrNotFound.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < d.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * d.backoff):
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("download failed after %d attempts: %w", d.retries, lastErr)
}

func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	tmpPath := destPath + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		_ = out.Close()
		if cleanupNeeded {
			_ = os.Remove(tmpPath)
		}
	}()

	src := io.Reader(resp.Body)
	var finish func(failed bool)
	if d.progress && resp.ContentLength > 0 {
		p := mpb.New()
		name := fmt.Sprintf("%s (%s)", filepath.Base(destPath), humanize.Bytes(uint64(resp.ContentLength)))
		bar := p.AddBar(resp.ContentLength,
			mpb.PrependDecorators(decor.Name(name, decor.WCSyncSpaceR)),
			mpb.AppendDecorators(decor.Percentage()),
		)
		src = bar.ProxyReader(resp.Body)
		finish = func(failed bool) {
			if failed {
				bar.Abort(true)
			} else {
				bar.SetTotal(0, true)
			}
			p.Wait()
		}
	}

	_, copyErr := io.Copy(out, src)
	if finish != nil {
		finish(copyErr != nil)
	}
	if copyErr != nil {
		return fmt.Errorf("write download: %w", copyErr)
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync download: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close download: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	cleanupNeeded = false

	return nil
}

func (d *Downloader) cachePath(version, name string) string {
	return filepath.Join(d.cacheDir, version, name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
