package process

import (
	"os"
	"os/exec"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
)

// Spawn starts the worker described by inv with stderr bound to its error log.
// Stdout is left nil and therefore goes to the null device.
func Spawn(inv Invocation, logger logging.Logger) (*exec.Cmd, error) {
	if err := ValidateInvocation(inv); err != nil {
		logger.Errorf("Invocation validation failed, id: %s, error: %v", inv.ID, err)
		return nil, err
	}

	logger.Debugf("Opening error log, id: %s, path: '%s'", inv.ID, inv.ErrorLogPath)

	stderrFile, err := os.Create(inv.ErrorLogPath)
	if err != nil {
		return nil, errors.NewLogFileError("failed to create stderr log file", err).WithContext("id", inv.ID).WithContext("error_log", inv.ErrorLogPath)
	}
	// The child holds its own descriptor after Start
	defer stderrFile.Close()

	cmd := exec.Command(inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stderr = stderrFile

	setupProcessAttributes(cmd, inv.HideConsole)

	logger.Infof("Executing process, id: %s, path: '%s', args: %v, dir: '%s', hide console: %t",
		inv.ID, inv.Path, inv.Args, inv.Dir, inv.HideConsole)

	if err := cmd.Start(); err != nil {
		return nil, errors.NewSpawnError("failed to start the process", err).WithContext("id", inv.ID).WithContext("executable_path", inv.Path)
	}

	logger.Infof("Successfully executed process, id: %s, PID: %d", inv.ID, cmd.Process.Pid)

	return cmd, nil
}
