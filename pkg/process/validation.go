package process

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-shell/pkg/errors"
)

// ValidateSpec validates a single worker spec before it is resolved
func ValidateSpec(spec ProcessSpec) error {
	if spec.Binary == "" {
		return errors.NewValidationError("binary path is required", nil)
	}

	if filepath.IsAbs(spec.Binary) {
		return errors.NewValidationError("binary path must be relative to the executable directory: "+spec.Binary, nil)
	}

	if spec.ErrorLog == "" {
		return errors.NewValidationError("error log path is required", nil)
	}

	for i, arg := range spec.Args {
		if arg == "" {
			return errors.NewValidationError(fmt.Sprintf("argument %d is empty", i), nil)
		}
	}

	return nil
}

// ValidateSpecs validates every spec and rejects duplicate IDs and shared error logs
func ValidateSpecs(specs []ProcessSpec) error {
	seenIDs := make(map[string]int)
	seenLogs := make(map[string]int)

	for i, spec := range specs {
		if err := ValidateSpec(spec); err != nil {
			return errors.NewValidationError(fmt.Sprintf("invalid worker spec at index %d", i), err).WithContext("worker_id", spec.ID)
		}

		name := spec.Name(i)
		if prev, exists := seenIDs[name]; exists {
			return errors.NewValidationError(
				fmt.Sprintf("duplicate worker ID '%s' found at indices %d and %d", name, prev, i),
				nil,
			)
		}
		seenIDs[name] = i

		logPath := filepath.Clean(spec.ErrorLog)
		if prev, exists := seenLogs[logPath]; exists {
			return errors.NewValidationError(
				fmt.Sprintf("error log '%s' shared by workers at indices %d and %d", spec.ErrorLog, prev, i),
				nil,
			)
		}
		seenLogs[logPath] = i
	}

	return nil
}

// ValidateInvocation checks that the resolved executable exists before spawning
func ValidateInvocation(inv Invocation) error {
	if inv.Path == "" {
		return errors.NewSpawnError("executable path is required", nil).WithContext("id", inv.ID)
	}

	info, err := os.Stat(inv.Path)
	if err != nil {
		return errors.NewSpawnError("executable not found: "+inv.Path, err).WithContext("id", inv.ID)
	}
	if info.IsDir() {
		return errors.NewSpawnError("executable path is a directory: "+inv.Path, nil).WithContext("id", inv.ID)
	}

	if inv.Dir != "" {
		if info, err := os.Stat(inv.Dir); err != nil {
			return errors.NewSpawnError("working directory not accessible: "+inv.Dir, err).WithContext("id", inv.ID)
		} else if !info.IsDir() {
			return errors.NewSpawnError("working directory is not a directory: "+inv.Dir, nil).WithContext("id", inv.ID)
		}
	}

	return nil
}
