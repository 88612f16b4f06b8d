package control

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/todddeluca/daemoncmd/internal/daemonize"
	"github.com/todddeluca/daemoncmd/internal/launcher"
	"github.com/todddeluca/daemoncmd/internal/pidfile"
	"github.com/todddeluca/daemoncmd/internal/probe"
	"github.com/todddeluca/daemoncmd/internal/sentinel"
)

const (
	// ErrAlreadyRunning is returned by Start when the pid file already
	// names a live process.
	ErrAlreadyRunning = sentinel.Error("daemon already running")

	// ErrNotRunning is returned by Stop when the pid file names no live
	// process.
	ErrNotRunning = sentinel.Error("daemon not running")

	// ErrStopTimeout is returned when the daemon survives both SIGTERM
	// and SIGKILL within the configured budgets.
	ErrStopTimeout = sentinel.Error("timed out waiting for daemon to stop")
)

// termPollInterval is the starting interval for the post-SIGTERM liveness
// poll. The interval grows exponentially up to termPollCap so short-lived
// daemons are noticed quickly without spinning on long-lived ones.
const (
	termPollInterval = 50 * time.Millisecond
	termPollCap      = 1 * time.Second
	killPollInterval = 50 * time.Millisecond
)

// State classifies the pid file slot at the moment it was inspected.
type State int

const (
	// StateAbsent means no pid file exists.
	StateAbsent State = iota

	// StateStale means a pid file exists but names no live process. A
	// corrupt pid file is also stale.
	StateStale

	// StateRunning means the pid file names a live process.
	StateRunning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateStale:
		return "stale"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is a point-in-time view of a pid file slot. Pid is zero unless the
// state is StateRunning or the stale record still parsed. Name is the daemon
// process name when it could be determined, best effort.
type Status struct {
	State State
	Pid   int
	Name  string
}

// Config carries the controller's pid file path and timing knobs. All fields
// must be set; the root package applies defaults before constructing one.
type Config struct {
	PidFilePath        string
	LaunchTimeout      time.Duration
	LaunchPollInterval time.Duration
	StopTimeout        time.Duration
	KillDrainTimeout   time.Duration
}

// Controller serializes start/stop/status operations against a single pid
// file slot. All methods are safe for concurrent use; cross-process exclusion
// comes from an advisory lock next to the pid file.
type Controller struct {
	cfg Config
}

// New returns a controller for the slot at cfg.PidFilePath. The path is made
// absolute immediately so later operations are unaffected by working
// directory changes, in particular the chdir the daemon performs while
// detaching.
func New(cfg Config) (*Controller, error) {
	if cfg.PidFilePath == "" {
		return nil, fmt.Errorf("pid file path must not be empty")
	}

	abs, err := filepath.Abs(cfg.PidFilePath)
	if err != nil {
		return nil, fmt.Errorf("resolving pid file path %q: %w", cfg.PidFilePath, err)
	}
	cfg.PidFilePath = abs

	return &Controller{cfg: cfg}, nil
}

// PidFilePath returns the absolute pid file path the controller operates on.
func (c *Controller) PidFilePath() string {
	return c.cfg.PidFilePath
}

// Start daemonizes the current process and turns the detached copy into cmd,
// recording its pid in the slot. It returns ErrAlreadyRunning when the slot
// already names a live process, and removes a stale record before launching.
//
// Start must be re-entered by the re-executed copies of the process with the
// same command; those copies skip the pre-flight checks and the lock, which
// the original invocation still holds while it waits for the daemon's pid to
// appear.
func (c *Controller) Start(ctx context.Context, cmd launcher.Command) error {
	if daemonize.WasReborn() {
		return c.launch(ctx, cmd)
	}

	lock, err := pidfile.AcquireLock(ctx, c.cfg.PidFilePath)
	if err != nil {
		return err
	}
	defer pidfile.ReleaseLock(Logger(), lock)

	st, err := c.resolve()
	if err != nil {
		return err
	}
	switch st.State {
	case StateRunning:
		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, st.Pid)
	case StateStale:
		Logger().Debug("removing stale pid file", "path", c.cfg.PidFilePath, "pid", st.Pid)
		if err := pidfile.Remove(c.cfg.PidFilePath); err != nil {
			return err
		}
	}

	return c.launch(ctx, cmd)
}

func (c *Controller) launch(ctx context.Context, cmd launcher.Command) error {
	return launcher.Launch(ctx, c.cfg.PidFilePath, cmd, launcher.Config{
		LaunchTimeout: c.cfg.LaunchTimeout,
		PollInterval:  c.cfg.LaunchPollInterval,
	})
}

// Stop terminates the recorded daemon with SIGTERM, escalating to SIGKILL
// when it does not exit within the stop timeout, and removes the pid file
// once the process is gone. A stale record is removed without signalling
// anything. It returns ErrNotRunning when the slot is empty and
// ErrStopTimeout when the daemon survives SIGKILL for the drain budget.
func (c *Controller) Stop(ctx context.Context) error {
	lock, err := pidfile.AcquireLock(ctx, c.cfg.PidFilePath)
	if err != nil {
		return err
	}
	defer pidfile.ReleaseLock(Logger(), lock)

	st, err := c.resolve()
	if err != nil {
		return err
	}
	switch st.State {
	case StateAbsent:
		return ErrNotRunning
	case StateStale:
		Logger().Warn("pid file names no live process, removing it",
			"path", c.cfg.PidFilePath, "pid", st.Pid)
		return pidfile.Remove(c.cfg.PidFilePath)
	}

	if err := c.terminate(ctx, st.Pid); err != nil {
		return err
	}

	return pidfile.Remove(c.cfg.PidFilePath)
}

// terminate runs the SIGTERM-then-SIGKILL shutdown sequence against pid.
func (c *Controller) terminate(ctx context.Context, pid int) error {
	log := Logger()

	log.Debug("sending SIGTERM", "pid", pid)
	if err := probe.SendSignal(pid, unix.SIGTERM); err != nil {
		if errors.Is(err, probe.ErrNoSuchProcess) {
			// Exited between the liveness check and the signal.
			return nil
		}
		return err
	}

	// Give the daemon the stop timeout to exit on its own, polling with
	// an exponential backoff so short-lived daemons are noticed quickly.
	err := wait.ExponentialBackoffWithContext(ctx, backoffFor(c.cfg.StopTimeout),
		func(_ context.Context) (bool, error) {
			return !probe.IsAlive(pid), nil
		})
	if err == nil {
		return nil
	}
	if !wait.Interrupted(err) {
		return err
	}

	// Still alive after the grace period. SIGKILL cannot be caught, so
	// after this only a bounded drain is needed.
	log.Warn("daemon did not exit after SIGTERM, sending SIGKILL",
		"pid", pid, "timeout", c.cfg.StopTimeout)
	if err := probe.SendSignal(pid, unix.SIGKILL); err != nil {
		if errors.Is(err, probe.ErrNoSuchProcess) {
			return nil
		}
		return err
	}

	err = wait.PollUntilContextTimeout(ctx, killPollInterval, c.cfg.KillDrainTimeout, true,
		func(_ context.Context) (bool, error) {
			return !probe.IsAlive(pid), nil
		})
	if err != nil {
		return fmt.Errorf("%w: pid %d survived SIGKILL: %w", ErrStopTimeout, pid, err)
	}

	return nil
}

// Restart stops the recorded daemon, tolerating an empty slot, and starts
// cmd in its place. Like Start it must be re-entered by the re-executed
// copies, which skip the stop phase entirely.
func (c *Controller) Restart(ctx context.Context, cmd launcher.Command) error {
	if daemonize.WasReborn() {
		return c.launch(ctx, cmd)
	}

	if err := c.Stop(ctx); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}

	return c.Start(ctx, cmd)
}

// Status reports the slot's state. A stale record is removed on the way, so
// a Status call repairs a slot left behind by a crashed daemon.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	lock, err := pidfile.AcquireLock(ctx, c.cfg.PidFilePath)
	if err != nil {
		return Status{}, err
	}
	defer pidfile.ReleaseLock(Logger(), lock)

	st, err := c.resolve()
	if err != nil {
		return Status{}, err
	}
	if st.State == StateStale {
		Logger().Debug("removing stale pid file", "path", c.cfg.PidFilePath, "pid", st.Pid)
		if err := pidfile.Remove(c.cfg.PidFilePath); err != nil {
			return Status{}, err
		}
	}

	return st, nil
}

// resolve derives the slot state from the pid file and a liveness probe. The
// state is a snapshot: nothing prevents the process from exiting right after
// the probe, which is why mutating operations hold the slot lock around both
// resolve and the action taken on its result.
func (c *Controller) resolve() (Status, error) {
	pid, err := pidfile.Read(c.cfg.PidFilePath)
	if err != nil {
		if errors.Is(err, pidfile.ErrCorrupt) {
			Logger().Warn("pid file is corrupt, treating as stale",
				"path", c.cfg.PidFilePath, "error", err)
			return Status{State: StateStale}, nil
		}
		return Status{}, err
	}
	if pid == 0 {
		return Status{State: StateAbsent}, nil
	}

	if !probe.IsAlive(pid) {
		return Status{State: StateStale, Pid: pid}, nil
	}

	return Status{State: StateRunning, Pid: pid, Name: probe.Describe(pid)}, nil
}

// backoffFor builds an exponential backoff whose cumulative sleep covers at
// least budget. Steps is derived rather than fixed so short test budgets and
// long production budgets both exhaust close to their deadline.
func backoffFor(budget time.Duration) wait.Backoff {
	b := wait.Backoff{
		Duration: termPollInterval,
		Factor:   2,
		Cap:      termPollCap,
	}

	var (
		total time.Duration
		step  = b.Duration
	)
	for total < budget {
		total += step
		b.Steps++
		step *= 2
		if step > b.Cap {
			step = b.Cap
		}
	}
	if b.Steps == 0 {
		b.Steps = 1
	}

	return b
}
