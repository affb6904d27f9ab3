package supervisor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
	"github.com/core-tools/hsu-shell/pkg/process"
	"github.com/core-tools/hsu-shell/pkg/processstate"
)

// LaunchPolicy decides what Start does when one worker cannot be launched
type LaunchPolicy string

const (
	// LaunchPolicyAbort stops the batch, terminates the workers already launched and reports the failed spec
	LaunchPolicyAbort LaunchPolicy = "abort"

	// LaunchPolicyIsolate leaves the failed slot empty, continues, and reports every failure at the end.
	// A batch in which every launch fails still stops the supervisor.
	LaunchPolicyIsolate LaunchPolicy = "isolate"
)

// SupervisorState represents the lifecycle of the whole worker fleet
type SupervisorState string

const (
	SupervisorStateIdle    SupervisorState = "idle"
	SupervisorStateRunning SupervisorState = "running"
	SupervisorStateStopped SupervisorState = "stopped"
)

// rollbackWait bounds how long an aborted Start waits for each already launched worker to exit
const rollbackWait = 5 * time.Second

type Options struct {
	// BaseDir overrides the executable directory that binaries and logs are resolved against
	BaseDir string

	// Capabilities overrides platform detection
	Capabilities *process.Capabilities

	LaunchPolicy LaunchPolicy

	// KillWaitTimeout bounds the per-worker wait for exit after the kill signal; zero means fire-and-forget
	KillWaitTimeout time.Duration
}

// RuntimeParams are the per-run inputs appended to every worker invocation
type RuntimeParams struct {
	DataDir string
	Debug   bool
}

// SlotStatus is a point-in-time view of one registry slot
type SlotStatus struct {
	Index     int
	ID        string
	PID       int
	Occupied  bool
	Exited    bool
	ExitError error
}

type Supervisor struct {
	options      Options
	capabilities process.Capabilities
	logger       logging.Logger

	// Registry, in launch order. A nil slot was never filled or has been taken by shutdown.
	slots    []*Handle
	ids      []string
	state    SupervisorState
	launchID string

	mutex sync.Mutex
}

func NewSupervisor(options Options, logger logging.Logger) *Supervisor {
	if options.LaunchPolicy == "" {
		options.LaunchPolicy = LaunchPolicyAbort
	}

	capabilities := process.DetectCapabilities()
	if options.Capabilities != nil {
		capabilities = *options.Capabilities
	}

	return &Supervisor{
		options:      options,
		capabilities: capabilities,
		logger:       logger,
		state:        SupervisorStateIdle,
	}
}

// Start launches every spec in order. The registry lock is held for the whole batch so a
// concurrent Shutdown waits for startup to finish instead of seeing a partial registry.
func (s *Supervisor) Start(specs []process.ProcessSpec, params RuntimeParams) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != SupervisorStateIdle {
		return errors.NewConflictError("supervisor already started", nil).WithContext("state", string(s.state))
	}

	if err := ValidateLaunchPolicy(s.options.LaunchPolicy); err != nil {
		return err
	}

	if err := process.ValidateSpecs(specs); err != nil {
		return errors.NewValidationError("invalid worker specs", err)
	}

	baseDir, err := s.resolveBaseDir()
	if err != nil {
		s.logger.Errorf("Cannot resolve executable directory, error: %v", err)
		return err
	}

	s.launchID = uuid.New().String()
	hideConsole := s.capabilities.ShouldHideConsole(params.Debug)

	s.logger.Infof("Starting workers, launch: %s, count: %d, base dir: %s, data dir: '%s', debug: %t, hide console: %t, policy: %s",
		s.launchID, len(specs), baseDir, params.DataDir, params.Debug, hideConsole, s.options.LaunchPolicy)

	slots := make([]*Handle, len(specs))
	ids := make([]string, len(specs))
	failures := errors.NewErrorCollection()

	for i, spec := range specs {
		inv := process.BuildInvocation(spec, i, baseDir, params.DataDir, hideConsole)
		ids[i] = inv.ID

		workerLogger := logging.NewChildLogger(fmt.Sprintf("worker: %s , ", inv.ID), s.logger)

		cmd, err := process.Spawn(inv, workerLogger)
		if err != nil {
			launchErr := &errors.LaunchError{Index: i, ID: inv.ID, Binary: inv.Path, Cause: err}

			if s.options.LaunchPolicy == LaunchPolicyIsolate {
				s.logger.Errorf("Worker launch failed, continuing, launch: %s, error: %v", s.launchID, launchErr)
				failures.Add(launchErr)
				continue
			}

			s.logger.Errorf("Worker launch failed, aborting startup, launch: %s, error: %v", s.launchID, launchErr)
			s.rollback(slots[:i])
			s.ids = ids
			s.slots = make([]*Handle, len(specs))
			s.state = SupervisorStateStopped
			return launchErr
		}

		slots[i] = newHandle(i, inv.ID, cmd, workerLogger)
	}

	s.slots = slots
	s.ids = ids

	if len(specs) > 0 && len(failures.Errors) == len(specs) {
		s.state = SupervisorStateStopped
		s.logger.Errorf("No worker could be started, launch: %s, failed: %d", s.launchID, len(failures.Errors))
		return failures.ToError()
	}

	s.state = SupervisorStateRunning

	if failures.HasErrors() {
		s.logger.Warnf("Workers started with failures, launch: %s, failed: %d of %d", s.launchID, len(failures.Errors), len(specs))
		return failures.ToError()
	}

	s.logger.Infof("All workers started, launch: %s", s.launchID)
	return nil
}

// Shutdown takes every occupied slot and kills its worker. It never panics and is idempotent.
func (s *Supervisor) Shutdown() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Shutdown recovered from panic: %v", r)
		}
	}()

	if err := s.sweep().ToError(); err != nil {
		s.logger.Errorf("Shutdown completed with errors: %v", err)
	}
}

func (s *Supervisor) sweep() *errors.ErrorCollection {
	s.mutex.Lock()
	taken := make([]*Handle, 0, len(s.slots))
	for i, h := range s.slots {
		if h != nil {
			taken = append(taken, h)
			s.slots[i] = nil
		}
	}
	s.state = SupervisorStateStopped
	s.mutex.Unlock()

	failures := errors.NewErrorCollection()
	if len(taken) == 0 {
		return failures
	}

	s.logger.Infof("Shutting down workers, launch: %s, count: %d", s.launchID, len(taken))
	for _, h := range taken {
		failures.Add(s.terminate(h, s.options.KillWaitTimeout))
	}
	s.logger.Infof("Workers shut down, launch: %s", s.launchID)

	return failures
}

// terminate kills one worker; an already exited worker is a successful no-op
func (s *Supervisor) terminate(h *Handle, wait time.Duration) error {
	if h.Exited() {
		s.logger.Debugf("Worker already exited, id: %s, PID: %d", h.ID(), h.PID())
		return nil
	}

	s.logger.Infof("Killing worker, id: %s, PID: %d", h.ID(), h.PID())

	killed, err := process.Kill(h.cmd.Process)
	if err != nil {
		// The worker may have exited between the check and the signal
		if h.waitExit(100*time.Millisecond) || !isRunning(h.PID()) {
			s.logger.Debugf("Worker exited before kill, id: %s, PID: %d", h.ID(), h.PID())
			return nil
		}
		s.logger.Errorf("Failed to kill worker, id: %s, PID: %d, error: %v", h.ID(), h.PID(), err)
		return err
	}
	if !killed {
		s.logger.Debugf("Worker already finished, id: %s, PID: %d", h.ID(), h.PID())
		return nil
	}

	if wait > 0 && !h.waitExit(wait) {
		s.logger.Warnf("Worker did not exit within %v after kill, id: %s, PID: %d", wait, h.ID(), h.PID())
	}
	return nil
}

// isRunning treats an unanswerable probe as running so the kill error is still reported
func isRunning(pid int) bool {
	running, err := processstate.IsProcessRunning(pid)
	return err != nil || running
}

func (s *Supervisor) rollback(started []*Handle) {
	for _, h := range started {
		if h == nil {
			continue
		}
		if err := s.terminate(h, rollbackWait); err != nil {
			s.logger.Errorf("Rollback failed to kill worker, id: %s, error: %v", h.ID(), err)
		}
	}
}

func (s *Supervisor) resolveBaseDir() (string, error) {
	if s.options.BaseDir != "" {
		return s.options.BaseDir, nil
	}
	return process.ExecutableDir()
}

// Slots returns a snapshot of the registry in launch order
func (s *Supervisor) Slots() []SlotStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	statuses := make([]SlotStatus, len(s.slots))
	for i, h := range s.slots {
		status := SlotStatus{Index: i}
		if i < len(s.ids) {
			status.ID = s.ids[i]
		}
		if h != nil {
			status.Occupied = true
			status.PID = h.PID()
			status.Exited = h.Exited()
			status.ExitError = h.ExitError()
		}
		statuses[i] = status
	}
	return statuses
}

func (s *Supervisor) State() SupervisorState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// LaunchID identifies the most recent Start call in logs
func (s *Supervisor) LaunchID() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.launchID
}

func ValidateLaunchPolicy(policy LaunchPolicy) error {
	switch policy {
	case LaunchPolicyAbort, LaunchPolicyIsolate:
		return nil
	default:
		return errors.NewValidationError(
			fmt.Sprintf("unsupported launch policy: %s", policy),
			nil,
		).WithContext("supported_policies", "abort, isolate")
	}
}
