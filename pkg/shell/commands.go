package shell

import (
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-shell/pkg/appdirs"
	"github.com/core-tools/hsu-shell/pkg/configstore"
	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
)

// Commands is the surface the UI invokes; mutations are persisted to the config store
type Commands struct {
	window Window
	store  *configstore.Store
	dirs   *appdirs.Dirs
	logger logging.Logger
}

func NewCommands(window Window, store *configstore.Store, dirs *appdirs.Dirs, logger logging.Logger) *Commands {
	return &Commands{
		window: window,
		store:  store,
		dirs:   dirs,
		logger: logger,
	}
}

// ToggleFullscreen applies explicit if given, otherwise the inverse of the current state, and persists it.
// The window keeps the new state even if persisting fails.
func (c *Commands) ToggleFullscreen(explicit *bool) (bool, error) {
	target := !c.window.IsFullscreen()
	if explicit != nil {
		target = *explicit
	}

	if err := c.window.SetFullscreen(target); err != nil {
		return c.window.IsFullscreen(), errors.NewInternalError("failed to change fullscreen state", err)
	}

	if err := c.store.Set(configstore.KeyFullscreen, target); err != nil {
		c.logger.Errorf("Fullscreen state not persisted, fullscreen: %t, error: %v", target, err)
		return target, err
	}

	c.logger.Infof("Fullscreen set, fullscreen: %t", target)
	return target, nil
}

func (c *Commands) OpenDevtools() error {
	if err := c.window.OpenDevtools(); err != nil {
		return errors.NewInternalError("failed to open devtools", err)
	}
	return nil
}

// SaveScreenshot writes data into the screenshot directory and returns the absolute file path
func (c *Commands) SaveScreenshot(fileName string, data []byte) (string, error) {
	path, err := c.dirs.ScreenshotPath(fileName)
	if err != nil {
		return "", err
	}

	if err := appdirs.EnsureDirectory(filepath.Dir(path)); err != nil {
		c.logger.Errorf("Screenshot directory is not usable, path: %s, error: %v", filepath.Dir(path), err)
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.NewIOError("failed to write screenshot", err).WithContext("path", path)
	}

	c.logger.Infof("Screenshot saved, path: %s, bytes: %d", path, len(data))
	return path, nil
}
