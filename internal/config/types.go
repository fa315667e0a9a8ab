package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
)

// Config represents the complete paqman configuration.
// This matches the Lua schema documented in the package comment.
type Config struct {
	// Platforms queried when --platform is absent
	Platforms []string `json:"platforms,omitempty"`

	// Catalog OS name and version label (win10/win11, 22H2, ...)
	OS        string `json:"os,omitempty"`
	OSVersion string `json:"os_version,omitempty"`

	// Target directory for downloads (supports ~)
	Target string `json:"target,omitempty"`

	// Pipeline step defaults
	Steps Steps `json:"steps,omitempty"`

	// Vendor client settings
	Client ClientConfig `json:"client,omitempty"`

	// Logging settings
	Log LogConfig `json:"log,omitempty"`
}

// Steps holds the default on/off state of the optional pipeline steps.
type Steps struct {
	Extract  bool `json:"extract,omitempty"`
	Install  bool `json:"install,omitempty"`
	Compress bool `json:"compress,omitempty"`
}

// ClientConfig contains vendor client invocation settings.
type ClientConfig struct {
	// Bin is the client executable: a bare name resolved via PATH or
	// an absolute path.
	Bin string `json:"bin,omitempty"`

	// TimeoutMinutes bounds a whole sync run. Zero means no timeout.
	TimeoutMinutes int `json:"timeout_minutes,omitempty"`

	// Proxy is forwarded to the client environment.
	Proxy string `json:"proxy,omitempty"`

	// ExtractArgs/InstallArgs override the silent flag templates.
	// "{dir}" expands to the per-installer destination directory.
	ExtractArgs []string `json:"extract_args,omitempty"`
	InstallArgs []string `json:"install_args,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty"`  // trace, debug, info, warn, error
	Format string `json:"format,omitempty"` // console or json
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if len(c.Platforms) > MaxPlatformCount {
		return &ValidationError{
			Field:   "platforms",
			Message: fmt.Sprintf("too many platforms (%d), maximum is %d", len(c.Platforms), MaxPlatformCount),
		}
	}

	for i, id := range c.Platforms {
		if err := validatePlatformID(id); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("platforms[%d]", i),
				Message: err.Error(),
			}
		}
	}

	if c.OS != "" && c.OS != platform.OSNameWin10 && c.OS != platform.OSNameWin11 {
		return &ValidationError{
			Field:   "os",
			Message: fmt.Sprintf("unknown catalog OS name %q (expected %s or %s)", c.OS, platform.OSNameWin10, platform.OSNameWin11),
		}
	}

	if c.OSVersion != "" && !osVersionPattern.MatchString(c.OSVersion) {
		return &ValidationError{
			Field:   "os_version",
			Message: fmt.Sprintf("invalid OS version label: %q", c.OSVersion),
		}
	}

	if c.Target != "" {
		if err := validateTargetPath(c.Target); err != nil {
			return &ValidationError{Field: "target", Message: err.Error()}
		}
	}

	if c.Client.TimeoutMinutes < 0 || c.Client.TimeoutMinutes > MaxTimeoutMinutes {
		return &ValidationError{
			Field:   "client.timeout_minutes",
			Message: fmt.Sprintf("timeout must be between 0 and %d minutes", MaxTimeoutMinutes),
		}
	}

	if c.Client.Proxy != "" {
		if err := validateProxyURL(c.Client.Proxy); err != nil {
			return &ValidationError{Field: "client.proxy", Message: err.Error()}
		}
	}

	if err := validateArgs(c.Client.ExtractArgs); err != nil {
		return &ValidationError{Field: "client.extract_args", Message: err.Error()}
	}
	if err := validateArgs(c.Client.InstallArgs); err != nil {
		return &ValidationError{Field: "client.install_args", Message: err.Error()}
	}

	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level %q", c.Log.Level),
		}
	}

	switch c.Log.Format {
	case "", "console", "json":
	default:
		return &ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unknown log format %q (expected console or json)", c.Log.Format),
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

var (
	// platformIDPattern matches catalog platform IDs such as "8760" or
	// "8B41".
	platformIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{3,8}$`)

	// osVersionPattern matches release labels such as "22H2" or "1809".
	osVersionPattern = regexp.MustCompile(`^[0-9A-Za-z]{2,8}$`)
)

// validatePlatformID validates a catalog platform identifier.
func validatePlatformID(id string) error {
	if id == "" {
		return fmt.Errorf("platform ID cannot be empty")
	}
	if !platformIDPattern.MatchString(id) {
		return fmt.Errorf("invalid platform ID: %q", id)
	}
	return nil
}

// validateTargetPath validates the download target directory.
// Absolute paths are fine here (fleet scripts point at data drives);
// what is rejected is traversal left over after cleaning.
func validateTargetPath(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}

	cleaned := filepath.Clean(expanded)
	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed: %s", path)
		}
	}

	return nil
}

// validateProxyURL validates the proxy setting.
func validateProxyURL(proxy string) error {
	u, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("proxy URL must use http:// or https:// scheme (got: %s)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("proxy URL has no host: %s", proxy)
	}
	return nil
}

// validateArgs validates a silent flag template list.
func validateArgs(args []string) error {
	if len(args) > MaxArgCount {
		return fmt.Errorf("too many arguments (%d), maximum is %d", len(args), MaxArgCount)
	}
	for i, arg := range args {
		if arg == "" {
			return fmt.Errorf("argument %d is empty", i)
		}
		if len(arg) > MaxArgLength {
			return fmt.Errorf("argument %d too long (%d chars, max %d)", i, len(arg), MaxArgLength)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
