package process

import (
	stderrors "errors"
	"os"

	"github.com/core-tools/hsu-shell/pkg/errors"
)

// Kill sends the terminate signal to proc.
// A process that has already finished is reported as done=false with no error.
func Kill(proc *os.Process) (bool, error) {
	if proc == nil {
		return false, nil
	}

	// Kill sends SIGKILL on Unix and TerminateProcess on Windows
	err := proc.Kill()
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, os.ErrProcessDone):
		return false, nil
	default:
		return false, errors.NewKillError("failed to kill process", err).WithContext("pid", proc.Pid)
	}
}
