package config

import "time"

// DefaultFileName is the config file paqman looks for.
const DefaultFileName = "paqman.lua"

// Lua schema field names and globals
const (
	luaGlobalPaqman     = "paqman"
	luaFieldPlatforms   = "platforms"
	luaFieldOS          = "os"
	luaFieldOSVersion   = "os_version"
	luaFieldTarget      = "target"
	luaFieldSteps       = "steps"
	luaFieldExtract     = "extract"
	luaFieldInstall     = "install"
	luaFieldCompress    = "compress"
	luaFieldClient      = "client"
	luaFieldBin         = "bin"
	luaFieldTimeout     = "timeout_minutes"
	luaFieldProxy       = "proxy"
	luaFieldExtractArgs = "extract_args"
	luaFieldInstallArgs = "install_args"
	luaFieldLog         = "log"
	luaFieldLevel       = "level"
	luaFieldFormat      = "format"
)

// Resource limits for config evaluation.
const (
	// MaxConfigSize bounds the config file size read from disk.
	MaxConfigSize = 1 << 20 // 1MB

	// DefaultParseTimeout bounds Lua evaluation when the caller's
	// context carries no deadline.
	DefaultParseTimeout = 5 * time.Second
)

// Validation caps for extracted values.
const (
	// MaxPlatformCount caps the platforms list.
	MaxPlatformCount = 16

	// MaxArgCount caps extract_args/install_args entries.
	MaxArgCount = 32

	// MaxArgLength caps a single argument string.
	MaxArgLength = 256

	// MaxTimeoutMinutes caps client.timeout_minutes.
	MaxTimeoutMinutes = 24 * 60
)
