package config

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/paqman/internal/platform"
)

// injectHostTable creates a read-only host table and installs it as a
// global in the Lua state. It must run before any user configuration
// code is loaded.
func injectHostTable(L *lua.LState, info *platform.Info) error {
	hostTable := L.NewTable()

	// Basic OS and architecture
	L.SetField(hostTable, "os", lua.LString(info.OS))
	L.SetField(hostTable, "arch", lua.LString(info.Arch))
	L.SetField(hostTable, "product", lua.LString(info.Product))

	// OS booleans
	L.SetField(hostTable, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(hostTable, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(hostTable, "is_windows", lua.LBool(info.IsWindows()))

	// Architecture booleans
	L.SetField(hostTable, "is_amd64", lua.LBool(info.IsAMD64()))
	L.SetField(hostTable, "is_arm64", lua.LBool(info.IsARM64()))

	// Windows release vocabulary (nil elsewhere or when unresolved)
	if name, version, ok := info.VendorOS(); ok {
		L.SetField(hostTable, "os_name", lua.LString(name))
		L.SetField(hostTable, "os_version", lua.LString(version))
	} else {
		L.SetField(hostTable, "os_name", lua.LNil)
		L.SetField(hostTable, "os_version", lua.LNil)
	}
	if info.Build > 0 {
		L.SetField(hostTable, "build", lua.LNumber(info.Build))
	} else {
		L.SetField(hostTable, "build", lua.LNil)
	}

	// Helper function: when(condition, value)
	// Returns value if condition is true, nil otherwise
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(hostTable, "when", whenFunc)

	L.SetGlobal("host", makeReadOnly(L, hostTable))

	return nil
}

// makeReadOnly makes a Lua table read-only by creating a proxy table
// with a metatable. The proxy redirects reads to the original table but
// prevents all writes.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()

	// Redirect reads to the original table
	L.SetField(mt, "__index", table)

	// Prevent all writes (both new and existing keys)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("host table is read-only and cannot be modified")
		return 0
	}))

	// Prevent changing the metatable itself
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
