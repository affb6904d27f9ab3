//go:build windows

package processstate

import (
	"errors"

	"golang.org/x/sys/windows"
)

// STILL_ACTIVE is the exit code GetExitCodeProcess reports for a live process
const STILL_ACTIVE = 259

func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, ErrInvalidPID
	}

	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return false, nil
		}
		return false, err
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false, err
	}

	return exitCode == STILL_ACTIVE, nil
}
