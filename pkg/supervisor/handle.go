package supervisor

import (
	"os/exec"
	"time"

	"github.com/core-tools/hsu-shell/pkg/logging"
)

// Handle is one launched worker. The reaper records its exit; only shutdown removes it from the registry.
type Handle struct {
	index int
	id    string
	cmd   *exec.Cmd

	done    chan struct{}
	exitErr error
}

func newHandle(index int, id string, cmd *exec.Cmd, logger logging.Logger) *Handle {
	h := &Handle{
		index: index,
		id:    id,
		cmd:   cmd,
		done:  make(chan struct{}),
	}
	go h.reap(logger)
	return h
}

// reap waits for the worker so it never lingers as a zombie. Exits are logged, never acted on.
func (h *Handle) reap(logger logging.Logger) {
	err := h.cmd.Wait()
	h.exitErr = err
	close(h.done)

	if err != nil {
		logger.Warnf("Worker exited, id: %s, PID: %d, error: %v", h.id, h.PID(), err)
	} else {
		logger.Infof("Worker exited, id: %s, PID: %d", h.id, h.PID())
	}
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Index() int {
	return h.index
}

func (h *Handle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Exited reports whether the reaper has observed the worker's exit
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ExitError returns the wait result once the worker has exited
func (h *Handle) ExitError() error {
	if !h.Exited() {
		return nil
	}
	return h.exitErr
}

// waitExit blocks until the worker exits or timeout elapses
func (h *Handle) waitExit(timeout time.Duration) bool {
	if timeout <= 0 {
		return h.Exited()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-h.done:
		return true
	case <-timer.C:
		return false
	}
}
