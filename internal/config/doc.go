// Package config provides secure Lua configuration parsing and
// generation for paqman.
//
// # Overview
//
// An optional paqman.lua file supplies defaults for catalog queries and
// pipeline steps so fleet scripts can run `paqman sync` with no flags.
// The package provides:
//   - Bidirectional conversion between Lua configs and Go structs
//   - Host-aware conditional configuration via a read-only `host` table
//   - Sandboxed execution of user Lua code
//   - Credential scanning of config text before it is written or shared
//
// # Architecture
//
// The package uses gopher-lua, a pure Go Lua 5.1 VM, for sandboxed
// execution of user configuration files. Host information from the
// platform package is injected as a read-only table, so one config can
// serve machines on different Windows releases.
//
// Key components:
//   - Parser: Lua → Go struct conversion with host detection
//   - Generator: Go struct → commented Lua code (config init)
//   - Sandbox: restricted Lua VM preventing dangerous operations
//
// # Security Model
//
// User Lua code runs in a restricted sandbox that removes:
//   - System command execution (the os library)
//   - Filesystem access (the io library)
//   - External code loading (require, dofile, loadfile, load, loadstring)
//   - The debug library
//
// String, table, and math libraries remain available, as do the basic
// utilities (type, tostring, tonumber, pairs, ipairs).
//
// Resource limits: configs larger than MaxConfigSize are rejected
// before evaluation, and evaluation runs under a context deadline
// (DefaultParseTimeout when the caller sets none) so a non-terminating
// config cannot hang a provisioning run.
//
// # Configuration Schema
//
//	paqman = {
//	  platforms  = { "8760" },          -- catalog platform IDs
//	  os         = "win10",
//	  os_version = "22H2",
//	  target     = "~/driverpacks",
//	  steps      = { extract = true, install = false, compress = true },
//	  client     = {
//	    bin             = "cmsl",
//	    timeout_minutes = 0,            -- 0 = no timeout
//	    proxy           = "",
//	    extract_args    = { "-e", "-f", "{dir}", "-s" },
//	    install_args    = { "-s" },
//	  },
//	  log = { level = "info", format = "console" },
//	}
//
// Host conditionals let one file describe several machines:
//
//	paqman = {
//	  platforms = {
//	    host.is_windows and host.os_version == "23H2" and "8B41" or nil,
//	    host.when(host.is_windows, "8760"),
//	  },
//	}
//
// # Precedence
//
// Command-line flags override config values; config values override
// host detection; detection overrides built-in defaults. That merge
// happens in the cmd layer, not here.
package config
