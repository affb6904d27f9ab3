package shell

import (
	"github.com/core-tools/hsu-shell/pkg/appdirs"
	"github.com/core-tools/hsu-shell/pkg/configstore"
	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
	"github.com/core-tools/hsu-shell/pkg/process"
	"github.com/core-tools/hsu-shell/pkg/supervisor"
)

type AppOptions struct {
	Dirs appdirs.Config

	// ConfigFile is resolved against the base directory when relative
	ConfigFile string

	// Workers defaults to DefaultWorkers when nil
	Workers []process.ProcessSpec

	Debug bool

	// UseAppDataDir hands the per-user data directory to workers when no explicit one is set
	UseAppDataDir bool

	Supervisor supervisor.Options
}

// App is the application context: it owns the supervisor and config store for the shell's lifetime
type App struct {
	options    AppOptions
	dirs       *appdirs.Dirs
	store      *configstore.Store
	supervisor *supervisor.Supervisor
	commands   *Commands
	window     Window
	logger     logging.Logger
}

func NewApp(options AppOptions, window Window, logger logging.Logger) (*App, error) {
	if window == nil {
		return nil, errors.NewValidationError("window cannot be nil", nil)
	}

	dirs, err := appdirs.New(options.Dirs, logging.NewChildLogger("dirs , ", logger))
	if err != nil {
		return nil, err
	}

	if options.ConfigFile == "" {
		options.ConfigFile = configstore.DefaultFileName
	}
	if options.Workers == nil {
		options.Workers = DefaultWorkers()
	}

	store := configstore.Load(dirs.Resolve(options.ConfigFile), logging.NewChildLogger("config , ", logger))

	supervisorOptions := options.Supervisor
	supervisorOptions.BaseDir = dirs.BaseDir()
	sup := supervisor.NewSupervisor(supervisorOptions, logging.NewChildLogger("supervisor , ", logger))

	return &App{
		options:    options,
		dirs:       dirs,
		store:      store,
		supervisor: sup,
		commands:   NewCommands(window, store, dirs, logger),
		window:     window,
		logger:     logger,
	}, nil
}

// Setup restores the persisted window state and launches the workers
func (a *App) Setup() error {
	if fullscreen, ok := a.store.GetBool(configstore.KeyFullscreen); ok {
		if err := a.window.SetFullscreen(fullscreen); err != nil {
			a.logger.Warnf("Failed to restore fullscreen state, fullscreen: %t, error: %v", fullscreen, err)
		}
	}

	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}

	params := supervisor.RuntimeParams{
		DataDir: dataDir,
		Debug:   a.options.Debug,
	}
	if err := a.supervisor.Start(a.options.Workers, params); err != nil {
		// Isolated launch failures leave the rest of the fleet running
		if a.supervisor.State() == supervisor.SupervisorStateRunning {
			a.logger.Warnf("Some workers failed to start: %v", err)
			return nil
		}
		a.logger.Errorf("Failed to start workers: %v", err)
		return err
	}

	return nil
}

func (a *App) dataDir() (string, error) {
	if a.options.Dirs.DataDirectory == "" && !a.options.UseAppDataDir {
		return "", nil
	}
	return a.dirs.EnsureDataDir()
}

// OnClose stops every worker before the host exits
func (a *App) OnClose() {
	a.logger.Infof("Close requested, stopping workers...")
	a.supervisor.Shutdown()
}

// RunningWorkers counts occupied slots whose worker has not exited
func (a *App) RunningWorkers() int {
	running := 0
	for _, slot := range a.supervisor.Slots() {
		if slot.Occupied && !slot.Exited {
			running++
		}
	}
	return running
}

func (a *App) Commands() *Commands {
	return a.commands
}

func (a *App) Supervisor() *supervisor.Supervisor {
	return a.supervisor
}

func (a *App) Store() *configstore.Store {
	return a.store
}

func (a *App) Dirs() *appdirs.Dirs {
	return a.dirs
}
