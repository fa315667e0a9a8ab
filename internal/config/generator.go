package config

import (
	"fmt"
	"strings"
)

// Generate produces Lua source for the given config, suitable for
// writing to paqman.lua. Zero-valued fields are emitted as comments so
// the generated file doubles as documentation.
func Generate(config *Config) string {
	var b strings.Builder

	b.WriteString("-- paqman configuration\n")
	b.WriteString("-- Values here are defaults; command-line flags override them.\n")
	b.WriteString("-- The host table (host.os, host.arch, host.product, host.os_version,\n")
	b.WriteString("-- host.is_windows, ...) is available for conditionals.\n")
	b.WriteString("\n")
	b.WriteString(luaGlobalPaqman + " = {\n")

	writeStringList(&b, luaFieldPlatforms, config.Platforms, `{ "8B41" }`)
	writeString(&b, luaFieldOS, config.OS, `"win11"`)
	writeString(&b, luaFieldOSVersion, config.OSVersion, `"24H2"`)
	writeString(&b, luaFieldTarget, config.Target, `"~/driverpacks"`)

	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s = {\n", luaFieldSteps)
	writeBool(&b, luaFieldExtract, config.Steps.Extract)
	writeBool(&b, luaFieldInstall, config.Steps.Install)
	writeBool(&b, luaFieldCompress, config.Steps.Compress)
	b.WriteString("    },\n")

	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s = {\n", luaFieldClient)
	writeNestedString(&b, luaFieldBin, config.Client.Bin, `"cmsl"`)
	if config.Client.TimeoutMinutes > 0 {
		fmt.Fprintf(&b, "        %s = %d,\n", luaFieldTimeout, config.Client.TimeoutMinutes)
	} else {
		fmt.Fprintf(&b, "        -- %s = 30,\n", luaFieldTimeout)
	}
	writeNestedString(&b, luaFieldProxy, config.Client.Proxy, `"http://proxy.corp.example:8080"`)
	writeNestedStringList(&b, luaFieldExtractArgs, config.Client.ExtractArgs, `{ "-e", "-f", "{dir}", "-s" }`)
	writeNestedStringList(&b, luaFieldInstallArgs, config.Client.InstallArgs, `{ "-s" }`)
	b.WriteString("    },\n")

	b.WriteString("\n")
	fmt.Fprintf(&b, "    %s = {\n", luaFieldLog)
	writeNestedString(&b, luaFieldLevel, config.Log.Level, `"info"`)
	writeNestedString(&b, luaFieldFormat, config.Log.Format, `"console"`)
	b.WriteString("    },\n")

	b.WriteString("}\n")

	return b.String()
}

func writeString(b *strings.Builder, field, value, example string) {
	if value != "" {
		fmt.Fprintf(b, "    %s = %s,\n", field, quoteLuaString(value))
		return
	}
	fmt.Fprintf(b, "    -- %s = %s,\n", field, example)
}

func writeNestedString(b *strings.Builder, field, value, example string) {
	if value != "" {
		fmt.Fprintf(b, "        %s = %s,\n", field, quoteLuaString(value))
		return
	}
	fmt.Fprintf(b, "        -- %s = %s,\n", field, example)
}

func writeBool(b *strings.Builder, field string, value bool) {
	fmt.Fprintf(b, "        %s = %t,\n", field, value)
}

func writeStringList(b *strings.Builder, field string, values []string, example string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "    -- %s = %s,\n", field, example)
		return
	}
	fmt.Fprintf(b, "    %s = %s,\n", field, luaStringList(values))
}

func writeNestedStringList(b *strings.Builder, field string, values []string, example string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "        -- %s = %s,\n", field, example)
		return
	}
	fmt.Fprintf(b, "        %s = %s,\n", field, luaStringList(values))
}

func luaStringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteLuaString(v)
	}
	return "{ " + strings.Join(quoted, ", ") + " }"
}

// quoteLuaString quotes a string for Lua, escaping as needed.
func quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
