package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
)

// Stand-in for a node server during local runs: it reports what it was launched with on
// stderr, the stream the shell captures into the worker's error log.

type flagOptions struct {
	RunDuration int `long:"run-duration" description:"Duration in seconds to run the worker (debug feature)"`
	ExitCode    int `long:"exit-code" description:"Exit code to return when the run duration elapses (debug feature)"`
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag|flags.IgnoreUnknown)
	rest, err := parser.ParseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	wd, _ := os.Getwd()
	fmt.Fprintf(os.Stderr, "Echoworker started, PID: %d, dir: %s\n", os.Getpid(), wd)
	for i, arg := range rest {
		fmt.Fprintf(os.Stderr, "arg[%d]: %s\n", i, arg)
		if strings.HasPrefix(arg, "app_data_path=") {
			fmt.Fprintf(os.Stderr, "Data directory: %s\n", strings.Trim(strings.TrimPrefix(arg, "app_data_path="), `"`))
		}
	}

	ctx := context.Background()
	if opts.RunDuration > 0 {
		fmt.Fprintf(os.Stderr, "Using RUN DURATION of %d seconds\n", opts.RunDuration)
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.RunDuration)*time.Second)
		defer cancel()
	}

	sig := make(chan os.Signal, 1)
	if runtime.GOOS == "windows" {
		signal.Notify(sig, os.Interrupt)
	} else {
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	}

	select {
	case receivedSignal := <-sig:
		fmt.Fprintf(os.Stderr, "Echoworker received signal: %v\n", receivedSignal)
	case <-ctx.Done():
		fmt.Fprintf(os.Stderr, "Echoworker timed out\n")
		os.Exit(opts.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Echoworker stopped\n")
}
