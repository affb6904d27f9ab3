package shell

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
)

// Run starts the shell headless and treats a signal or the run duration elapsing as the window close
func Run(runDuration int, workersFile string, options AppOptions, logger logging.Logger) error {
	logger.Infof("Shell runner starting...")

	ctx := context.Background()
	if runDuration > 0 {
		duration := time.Duration(runDuration) * time.Second
		logger.Infof("Using RUN DURATION of %v", duration)
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	if workersFile != "" {
		logger.Infof("Using WORKERS FILE: %s", workersFile)

		config, err := LoadWorkersConfig(workersFile)
		if err != nil {
			return errors.NewIOError("failed to load workers file", err).WithContext("workers_file", workersFile)
		}
		if err := ValidateWorkersConfig(config); err != nil {
			return errors.NewValidationError("workers file validation failed", err).WithContext("workers_file", workersFile)
		}
		options.Workers = config.Workers
	} else {
		logger.Infof("Using built-in workers")
	}

	app, err := NewApp(options, NewHeadlessWindow(logging.NewChildLogger("window , ", logger)), logger)
	if err != nil {
		return errors.NewInternalError("failed to create shell", err)
	}

	// Registered before launching so a close during startup is not lost
	sig := make(chan os.Signal, 1)
	if runtime.GOOS == "windows" {
		signal.Notify(sig, os.Interrupt)
	} else {
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	}
	defer signal.Stop(sig)

	if err := app.Setup(); err != nil {
		app.OnClose()
		return err
	}

	logger.Infof("Shell is ready, %d workers running", app.RunningWorkers())

	select {
	case receivedSignal := <-sig:
		logger.Infof("Shell runner received signal: %v", receivedSignal)
	case <-ctx.Done():
		logger.Infof("Shell runner timed out")
	}

	app.OnClose()

	logger.Infof("Shell runner stopped")

	return nil
}
