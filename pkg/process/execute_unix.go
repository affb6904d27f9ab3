//go:build !windows

package process

import (
	"os/exec"
)

func platformCapabilities() Capabilities {
	return Capabilities{SupportsWindowSuppression: false}
}

// setupProcessAttributes is a no-op on Unix: workers inherit normal process creation
func setupProcessAttributes(cmd *exec.Cmd, hideConsole bool) {}
