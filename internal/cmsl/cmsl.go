// Package cmsl provides an interface-based wrapper for the vendor
// catalog/download client executable, with environment isolation and
// error abstraction.
//
// The client binary is invoked with a scrubbed environment so host
// client configuration cannot leak into paqman runs, and its failures
// are translated into stable sentinel errors with sensitive paths
// redacted.
package cmsl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

// DefaultBinary is the client executable name resolved via PATH when
// no explicit path is configured.
const DefaultBinary = "cmsl"

// DefaultOS and DefaultOSVersion are the catalog coordinates used when
// neither flags, config nor host detection supply them. Driver packs
// target Windows regardless of the host paqman runs on.
const (
	DefaultOS        = "win10"
	DefaultOSVersion = "22H2"
)

// Error types for user-facing errors.
var (
	ErrClientNotFound   = errors.New("catalog client not available")
	ErrPlatformRejected = errors.New("platform not recognized by catalog")
	ErrClientInvocation = errors.New("catalog client invocation failed")
	ErrInvalidSoftpaqID = errors.New("invalid softpaq identifier")
)

// RedactedError wraps an error with a user-friendly message while
// preserving the error chain for errors.Is/errors.As checks.
type RedactedError struct {
	message string
	wrapped error
}

// Error returns the redacted error message.
func (e *RedactedError) Error() string {
	return e.message
}

// Unwrap returns the wrapped error, preserving the error chain.
func (e *RedactedError) Unwrap() error {
	return e.wrapped
}

// Catalog is the interface for vendor catalog operations.
// Following Go best practices: accept interfaces, return structs.
type Catalog interface {
	Version(ctx context.Context) (string, error)
	List(ctx context.Context, q Query) (*Listing, error)
	Metadata(ctx context.Context, id string) (*Metadata, error)
	Download(ctx context.Context, id, dest string) error
	DeviceDetails(ctx context.Context, platformID string) ([]Device, error)
}

// Client implements the Catalog interface by shelling out to the
// vendor client executable.
type Client struct {
	bin   string // client executable: bare name (PATH lookup) or absolute path
	proxy string // optional proxy URL forwarded to the client environment
}

// NewClient creates a client for the given executable. An empty bin
// selects DefaultBinary; an empty proxy forwards nothing.
func NewClient(bin, proxy string) *Client {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Client{bin: bin, proxy: proxy}
}

// Version probes the client and returns its version string. This is
// the availability check run before any catalog work starts.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, _, err := c.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// run executes the client with the given arguments, capturing stdout
// and stderr separately. Failures are translated before returning.
func (c *Client) run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)

	// Scrub environment for complete isolation.
	// Explicitly do NOT pass CMSL_* variables from the host.
	cmd.Env = c.commandEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := stderr.String()
		if strings.TrimSpace(detail) == "" {
			detail = stdout.String()
		}
		return stdout.String(), stderr.String(), translateClientError(err, detail)
	}

	return stdout.String(), stderr.String(), nil
}

// commandEnv returns the minimal environment the client runs with.
func (c *Client) commandEnv() []string {
	env := []string{
		"HOME=" + os.Getenv("HOME"),
		"PATH=" + os.Getenv("PATH"),
		"USER=" + os.Getenv("USER"),
		"LANG=" + os.Getenv("LANG"),
	}

	if runtime.GOOS == "windows" {
		env = append(env,
			"SYSTEMROOT="+os.Getenv("SYSTEMROOT"),
			"TEMP="+os.Getenv("TEMP"),
			"USERPROFILE="+os.Getenv("USERPROFILE"),
		)
	}

	if c.proxy != "" {
		env = append(env,
			"HTTPS_PROXY="+c.proxy,
			"HTTP_PROXY="+c.proxy,
		)
	}

	return env
}

// translateClientError maps client failures to stable paqman errors.
func translateClientError(err error, detail string) error {
	// Context cancellation/timeout first.
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("operation cancelled: %w", context.Canceled)
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline exceeded") {
		return fmt.Errorf("operation timed out: %w", context.DeadlineExceeded)
	}

	// Missing executable, whether resolved via PATH or given absolute.
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: install it with 'paqman setup'", ErrClientNotFound)
	}

	detailLower := strings.ToLower(detail)

	if strings.Contains(detailLower, "unknown platform") ||
		strings.Contains(detailLower, "invalid platform") ||
		strings.Contains(detailLower, "platform not found") {
		return fmt.Errorf("%w: %s", ErrPlatformRejected, redactSensitiveInfo(detail))
	}

	// Generic fallback: redact sensitive info but preserve useful context.
	sanitized := redactSensitiveInfo(detail)
	if sanitized == "" {
		sanitized = err.Error()
	}
	return fmt.Errorf("%w: %s", ErrClientInvocation, sanitized)
}

var (
	unixHomePattern    = regexp.MustCompile(`/home/[^/\s]+`)
	darwinHomePattern  = regexp.MustCompile(`/Users/[^/\s]+`)
	windowsHomePattern = regexp.MustCompile(`(?i)C:\\Users\\[^\\\s]+`)
)

// redactSensitiveInfo removes potentially sensitive information from
// error messages. Redacts paths that might contain usernames and
// limits message length.
func redactSensitiveInfo(msg string) string {
	msg = strings.TrimSpace(msg)

	const maxLen = 200
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		msg = strings.ReplaceAll(msg, home, "$HOME")
	}

	msg = unixHomePattern.ReplaceAllString(msg, "/home/<user>")
	msg = darwinHomePattern.ReplaceAllString(msg, `/Users/<user>`)
	msg = windowsHomePattern.ReplaceAllString(msg, `C:\Users\<user>`)

	return msg
}

// validateID rejects identifiers that do not look like softpaq tokens
// before they reach the client command line.
func validateID(id string) error {
	if !idExactPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSoftpaqID, id)
	}
	return nil
}
