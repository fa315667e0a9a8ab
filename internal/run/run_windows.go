//go:build windows

package run

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows/registry"
)

// hideConsoleWindow keeps silent installers from flashing a console.
func hideConsoleWindow(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	} else {
		cmd.SysProcAttr.HideWindow = true
	}
}

// RebootPending checks the known registry locations that flag a
// pending restart. Installs still proceed when it reports true; the
// caller only warns.
func RebootPending() bool {
	if registryKeyExists(`SOFTWARE\Microsoft\Windows\CurrentVersion\WindowsUpdate\Auto Update\RebootRequired`) {
		return true
	}
	if registryKeyExists(`SOFTWARE\Microsoft\Windows\CurrentVersion\Component Based Servicing\RebootPending`) {
		return true
	}
	if registryValueExists(`SYSTEM\CurrentControlSet\Control\Session Manager`, `PendingFileRenameOperations`) {
		return true
	}
	return false
}

func registryKeyExists(path string) bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.READ)
	if err == nil {
		_ = k.Close()
		return true
	}
	return false
}

func registryValueExists(path, valueName string) bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.READ)
	if err != nil {
		return false
	}
	defer k.Close()

	_, valType, err := k.GetValue(valueName, nil)
	return err == nil && valType != registry.NONE
}
