package process

import (
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-shell/pkg/errors"
)

// ExecutableDir returns the directory containing the running executable, with symlinks resolved
func ExecutableDir() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", errors.NewPathResolutionError("failed to get current executable path", err)
	}

	resolved, err := filepath.EvalSymlinks(exePath)
	if err != nil {
		return "", errors.NewPathResolutionError("failed to resolve executable symlinks", err).WithContext("executable_path", exePath)
	}

	dir := filepath.Dir(resolved)
	if dir == "" || dir == "." {
		return "", errors.NewPathResolutionError("executable has no parent directory", nil).WithContext("executable_path", resolved)
	}

	return dir, nil
}
