package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
)

// Parser represents a Lua config parser with host detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given host detector.
// A nil detector skips host table injection.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// Locate returns the config file path to use. An explicit path wins and
// must exist; otherwise the working directory is checked, then the user
// config directory. An empty path with nil error means no config file
// exists, which is fine: the config is optional.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		expanded, err := ExpandPath(explicit)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return expanded, nil
	}

	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	candidate := filepath.Join(configDir, "paqman", DefaultFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	return "", nil
}

// ParseFile parses the Lua config at path. Files over MaxConfigSize are
// rejected before evaluation.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", filepath.Base(path), info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
// This is useful for testing and in-memory config generation.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if len(luaCode) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxConfigSize),
		}
	}

	// Bound evaluation so a non-terminating config cannot hang a
	// provisioning run.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	// Detect host and inject the host table
	if p.detector != nil {
		hostInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("host detection failed: %w", err)
		}
		if err := injectHostTable(L, hostInfo); err != nil {
			return nil, fmt.Errorf("inject host table: %w", err)
		}
	}

	// Execute Lua code
	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "invalid Lua configuration",
			Detail:  err.Error(),
		}
	}

	// Extract config from the Lua state
	return extractConfig(L)
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig extracts the config from a Lua state.
// It expects a global "paqman" table with the config structure.
func extractConfig(L *lua.LState) (*Config, error) {
	paqmanTable := L.GetGlobal(luaGlobalPaqman)
	if paqmanTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'paqman' table",
			Detail:  fmt.Sprintf("expected table, got %s", paqmanTable.Type()),
		}
	}

	config := &Config{}
	table := paqmanTable.(*lua.LTable)

	if platformsVal := table.RawGetString(luaFieldPlatforms); platformsVal.Type() == lua.LTTable {
		config.Platforms = extractStrings(platformsVal.(*lua.LTable))
	}

	if osVal := table.RawGetString(luaFieldOS); osVal.Type() == lua.LTString {
		config.OS = osVal.String()
	}

	if verVal := table.RawGetString(luaFieldOSVersion); verVal.Type() == lua.LTString {
		config.OSVersion = verVal.String()
	}

	if targetVal := table.RawGetString(luaFieldTarget); targetVal.Type() == lua.LTString {
		config.Target = targetVal.String()
	}

	if stepsVal := table.RawGetString(luaFieldSteps); stepsVal.Type() == lua.LTTable {
		config.Steps = extractSteps(stepsVal.(*lua.LTable))
	}

	if clientVal := table.RawGetString(luaFieldClient); clientVal.Type() == lua.LTTable {
		config.Client = extractClient(clientVal.(*lua.LTable))
	}

	if logVal := table.RawGetString(luaFieldLog); logVal.Type() == lua.LTTable {
		config.Log = extractLog(logVal.(*lua.LTable))
	}

	// Validate the extracted config
	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractStrings extracts a string array from a Lua table.
// It filters out nil values from host conditionals such as
// `host.is_windows and "8760" or nil`.
func extractStrings(table *lua.LTable) []string {
	var out []string

	table.ForEach(func(key, value lua.LValue) {
		// Skip nils (from host conditionals) and non-strings; empty
		// strings are kept so validation can report them.
		if value.Type() != lua.LTString {
			return
		}
		out = append(out, value.String())
	})

	return out
}

// extractSteps extracts pipeline step defaults from a Lua table.
func extractSteps(table *lua.LTable) Steps {
	steps := Steps{}

	if v := table.RawGetString(luaFieldExtract); v.Type() == lua.LTBool {
		steps.Extract = bool(v.(lua.LBool))
	}
	if v := table.RawGetString(luaFieldInstall); v.Type() == lua.LTBool {
		steps.Install = bool(v.(lua.LBool))
	}
	if v := table.RawGetString(luaFieldCompress); v.Type() == lua.LTBool {
		steps.Compress = bool(v.(lua.LBool))
	}

	return steps
}

// extractClient extracts vendor client settings from a Lua table.
func extractClient(table *lua.LTable) ClientConfig {
	client := ClientConfig{}

	if v := table.RawGetString(luaFieldBin); v.Type() == lua.LTString {
		client.Bin = v.String()
	}
	if v := table.RawGetString(luaFieldTimeout); v.Type() == lua.LTNumber {
		client.TimeoutMinutes = int(lua.LVAsNumber(v))
	}
	if v := table.RawGetString(luaFieldProxy); v.Type() == lua.LTString {
		client.Proxy = v.String()
	}
	if v := table.RawGetString(luaFieldExtractArgs); v.Type() == lua.LTTable {
		client.ExtractArgs = extractStrings(v.(*lua.LTable))
	}
	if v := table.RawGetString(luaFieldInstallArgs); v.Type() == lua.LTTable {
		client.InstallArgs = extractStrings(v.(*lua.LTable))
	}

	return client
}

// extractLog extracts logging settings from a Lua table.
func extractLog(table *lua.LTable) LogConfig {
	log := LogConfig{}

	if v := table.RawGetString(luaFieldLevel); v.Type() == lua.LTString {
		log.Level = v.String()
	}
	if v := table.RawGetString(luaFieldFormat); v.Type() == lua.LTString {
		log.Format = v.String()
	}

	return log
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show the friendly
// message with the traceback trimmed.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
