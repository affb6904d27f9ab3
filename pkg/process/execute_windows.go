//go:build windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func platformCapabilities() Capabilities {
	return Capabilities{SupportsWindowSuppression: true}
}

// setupProcessAttributes creates the worker detached from any console when hideConsole is set.
// Without it the worker gets the default creation flags, so a console may appear in debug mode.
func setupProcessAttributes(cmd *exec.Cmd, hideConsole bool) {
	if !hideConsole {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS,
		HideWindow:    true,
	}
}
