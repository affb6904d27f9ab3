package main

import (
	"fmt"
	"os"
	"time"

	"github.com/core-tools/hsu-shell/pkg/appdirs"
	"github.com/core-tools/hsu-shell/pkg/logging"
	"github.com/core-tools/hsu-shell/pkg/shell"
	"github.com/core-tools/hsu-shell/pkg/supervisor"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	Debug        bool          `long:"debug" description:"keep worker console windows visible"`
	DataDir      string        `long:"data-dir" description:"data directory handed to workers"`
	AppDataDir   bool          `long:"app-data-dir" description:"hand the per-user application data directory to workers"`
	WorkersFile  string        `long:"workers" description:"path to the YAML workers file (built-in workers if empty)"`
	ConfigFile   string        `long:"config" description:"path to the JSON config file, relative to the executable directory" default:"config.json"`
	LogLevel     string        `long:"log-level" description:"log level: debug, info, warn, error" default:"info"`
	LogFormat    string        `long:"log-format" description:"log format: console, json" default:"console"`
	LogOutput    string        `long:"log-output" description:"log output: stdout, stderr or a file path" default:"stderr"`
	RunDuration  int           `long:"run-duration" description:"Duration in seconds to run the shell (debug feature)"`
	LaunchPolicy string        `long:"launch-policy" description:"on a failed worker launch: abort or isolate" default:"abort"`
	KillWait     time.Duration `long:"kill-wait" description:"how long to wait for each worker to exit after kill" default:"5s"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	policy := supervisor.LaunchPolicy(opts.LaunchPolicy)
	if err := supervisor.ValidateLaunchPolicy(policy); err != nil {
		fmt.Printf("Invalid launch policy: %v\n", err)
		os.Exit(1)
	}

	logger, closeLogger, err := logging.NewZapLogger(logPrefix("hsu-shell"), logging.ZapConfig{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
		Output: opts.LogOutput,
	})
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	logger.Infof("opts: %+v", opts)

	options := shell.AppOptions{
		Dirs: appdirs.Config{
			DataDirectory: opts.DataDir,
		},
		ConfigFile:    opts.ConfigFile,
		Debug:         opts.Debug,
		UseAppDataDir: opts.AppDataDir,
		Supervisor: supervisor.Options{
			LaunchPolicy:    policy,
			KillWaitTimeout: opts.KillWait,
		},
	}

	if err := shell.Run(opts.RunDuration, opts.WorkersFile, options, logger); err != nil {
		logger.Errorf("Shell failed: %v", err)
		closeLogger()
		os.Exit(1)
	}

	closeLogger()
}
