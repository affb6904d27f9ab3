package process

import (
	"fmt"
	"path/filepath"
)

// DataDirArgKey is the token key used to hand the application data directory to a worker
const DataDirArgKey = "app_data_path"

// ProcessSpec is the static description of one worker
type ProcessSpec struct {
	ID       string   `yaml:"id,omitempty"`
	Binary   string   `yaml:"binary"`
	Args     []string `yaml:"args,omitempty"`
	ErrorLog string   `yaml:"error_log"`
}

// Name returns the worker ID, falling back to a positional name
func (s ProcessSpec) Name(index int) string {
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("worker-%d", index)
}

// Invocation is a ProcessSpec resolved against a base directory and runtime parameters
type Invocation struct {
	ID           string
	Path         string
	Args         []string
	Dir          string
	ErrorLogPath string
	HideConsole  bool
}

// DataDirArg formats the data directory token exactly as workers expect it
func DataDirArg(dataDir string) string {
	return fmt.Sprintf(`%s="%s"`, DataDirArgKey, dataDir)
}

// BuildInvocation resolves the spec against baseDir; the spec itself is never modified
func BuildInvocation(spec ProcessSpec, index int, baseDir string, dataDir string, hideConsole bool) Invocation {
	args := make([]string, 0, len(spec.Args)+1)
	args = append(args, spec.Args...)
	if dataDir != "" {
		args = append(args, DataDirArg(dataDir))
	}

	return Invocation{
		ID:           spec.Name(index),
		Path:         ResolvePath(baseDir, spec.Binary),
		Args:         args,
		Dir:          baseDir,
		ErrorLogPath: ResolvePath(baseDir, spec.ErrorLog),
		HideConsole:  hideConsole,
	}
}

// ResolvePath joins a relative path onto baseDir; absolute paths pass through
func ResolvePath(baseDir string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
