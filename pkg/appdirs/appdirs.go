package appdirs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
	"github.com/core-tools/hsu-shell/pkg/process"
)

// Default application name used for the per-user data subdirectory
const DefaultAppName = "hsu-shell"

// ScreenshotDirName is the directory under the executable directory that receives screenshots
const ScreenshotDirName = "screenshot"

// Config holds the directory layout configuration
type Config struct {
	// Directory the worker binaries, logs and config are resolved against. If empty, the
	// directory of the running executable is used
	BaseDirectory string

	// Explicit data directory. If empty, an OS-appropriate per-user directory is used
	DataDirectory string

	// Application name for the data subdirectory
	AppName string
}

// Dirs resolves the shell's directory layout
type Dirs struct {
	config  Config
	baseDir string
	logger  logging.Logger
}

// New resolves the base directory once; failure to locate the executable is fatal for the shell
func New(config Config, logger logging.Logger) (*Dirs, error) {
	if config.AppName == "" {
		config.AppName = DefaultAppName
	}

	baseDir := config.BaseDirectory
	if baseDir == "" {
		exeDir, err := process.ExecutableDir()
		if err != nil {
			return nil, err
		}
		baseDir = exeDir
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.NewPathResolutionError("failed to get absolute base directory", err).WithContext("base_directory", baseDir)
	}

	logger.Debugf("Resolved base directory: %s", absBase)

	return &Dirs{
		config:  config,
		baseDir: absBase,
		logger:  logger,
	}, nil
}

// BaseDir returns the directory everything relative is resolved against
func (d *Dirs) BaseDir() string {
	return d.baseDir
}

// Resolve resolves a relative path against the base directory
func (d *Dirs) Resolve(path string) string {
	return process.ResolvePath(d.baseDir, path)
}

// DataDir returns the data directory handed to workers
func (d *Dirs) DataDir() string {
	if d.config.DataDirectory != "" {
		return d.config.DataDirectory
	}
	return filepath.Join(userDataDirectory(), d.config.AppName)
}

// EnsureDataDir creates the data directory if needed and returns it
func (d *Dirs) EnsureDataDir() (string, error) {
	dir := d.DataDir()
	if err := EnsureDirectory(dir); err != nil {
		d.logger.Errorf("Data directory is not usable, path: %s, error: %v", dir, err)
		return "", err
	}
	return dir, nil
}

// ScreenshotPath returns the absolute path for a screenshot file, rejecting names that escape the directory
func (d *Dirs) ScreenshotPath(fileName string) (string, error) {
	if err := ValidateFileName(fileName); err != nil {
		return "", err
	}
	return filepath.Join(d.baseDir, ScreenshotDirName, fileName), nil
}

// ValidateFileName accepts only a bare file name
func ValidateFileName(fileName string) error {
	if fileName == "" {
		return errors.NewValidationError("file name cannot be empty", nil)
	}
	if fileName == "." || fileName == ".." {
		return errors.NewValidationError("invalid file name: "+fileName, nil)
	}
	if strings.ContainsAny(fileName, `/\`) || filepath.Base(fileName) != fileName || filepath.VolumeName(fileName) != "" {
		return errors.NewValidationError("file name must not contain path separators: "+fileName, nil)
	}
	return nil
}

// EnsureDirectory creates dir if it is missing and checks that it is a writable directory
func EnsureDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.NewIOError("failed to access directory", err).WithContext("directory", dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIOError("failed to create directory", err).WithContext("directory", dir)
		}
	} else if !info.IsDir() {
		return errors.NewValidationError("path is not a directory", nil).WithContext("path", dir)
	}

	testFile, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return errors.NewPermissionError("directory is not writable", err).WithContext("directory", dir)
	}
	testFile.Close()
	os.Remove(testFile.Name())

	return nil
}

// userDataDirectory returns the per-user application data root
func userDataDirectory() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, "AppData", "Roaming")
		}
		return os.TempDir()

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return os.TempDir()
		}
		return filepath.Join(homeDir, "Library", "Application Support")

	default:
		// XDG Base Directory
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			return dataHome
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return os.TempDir()
		}
		return filepath.Join(homeDir, ".local", "share")
	}
}
