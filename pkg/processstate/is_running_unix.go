//go:build !windows

package processstate

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsProcessRunning probes pid with signal 0; EPERM still means the process exists
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, ErrInvalidPID
	}

	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	case errors.Is(err, unix.EPERM):
		return true, nil
	default:
		return false, err
	}
}
