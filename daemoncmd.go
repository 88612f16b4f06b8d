package daemoncmd

import (
	"context"
	"time"

	"github.com/todddeluca/daemoncmd/internal/control"
	"github.com/todddeluca/daemoncmd/internal/daemonize"
	"github.com/todddeluca/daemoncmd/internal/launcher"
)

// controllerConfig holds the resolved configuration for a Controller.
type controllerConfig struct {
	LaunchTimeout      time.Duration
	LaunchPollInterval time.Duration
	StopTimeout        time.Duration
	KillDrainTimeout   time.Duration
}

func defaultControllerConfig() controllerConfig {
	return controllerConfig{
		LaunchTimeout:      DefaultLaunchTimeout,
		LaunchPollInterval: DefaultLaunchPollInterval,
		StopTimeout:        DefaultStopTimeout,
		KillDrainTimeout:   DefaultKillDrainTimeout,
	}
}

// Redirect describes where one of the daemon's standard streams points once
// it is detached from the terminal. The zero value discards the stream.
type Redirect = daemonize.Redirect

// Discard points a stream at the null device. This is the zero value and the
// default for all three streams.
func Discard() Redirect { return daemonize.Discard() }

// Inherit keeps the stream connected to whatever the invoking process had.
// Useful for debugging; a daemon inheriting a terminal is not fully detached
// from it.
func Inherit() Redirect { return daemonize.Inherit() }

// AppendTo points an output stream at the file at path, creating it if
// needed and appending to it otherwise. For stdin the file is opened
// read-only and must already exist.
func AppendTo(path string) Redirect { return daemonize.AppendTo(path) }

// Command describes the program the daemon turns into. Path is resolved
// against PATH in the invoking process, before any detaching happens, so a
// bad command fails fast. Args does not include the program name.
type Command struct {
	Path   string
	Args   []string
	Stdin  Redirect
	Stdout Redirect
	Stderr Redirect
}

func (c Command) internal() launcher.Command {
	return launcher.Command{
		Path:   c.Path,
		Args:   c.Args,
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	}
}

// State classifies a pid file slot: absent, stale, or running.
type State = control.State

const (
	// StateAbsent means no pid file exists.
	StateAbsent = control.StateAbsent

	// StateStale means a pid file exists but names no live process.
	StateStale = control.StateStale

	// StateRunning means the pid file names a live process.
	StateRunning = control.StateRunning
)

// Status is a point-in-time view of a pid file slot.
type Status = control.Status

// Controller manages one daemon identified by its pid file. All methods are
// safe for concurrent use; invocations from separate processes are serialized
// through an advisory lock next to the pid file.
type Controller struct {
	inner *control.Controller
}

// NewController returns a controller for the daemon whose pid is recorded at
// pidFilePath. A relative path is resolved against the current working
// directory immediately, so the controller is unaffected by later directory
// changes.
func NewController(pidFilePath string, opts ...Option) (*Controller, error) {
	cfg := defaultControllerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	inner, err := control.New(control.Config{
		PidFilePath:        pidFilePath,
		LaunchTimeout:      cfg.LaunchTimeout,
		LaunchPollInterval: cfg.LaunchPollInterval,
		StopTimeout:        cfg.StopTimeout,
		KillDrainTimeout:   cfg.KillDrainTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &Controller{inner: inner}, nil
}

// PidFilePath returns the absolute pid file path the controller operates on.
func (c *Controller) PidFilePath() string {
	return c.inner.PidFilePath()
}

// Start daemonizes the current process and turns the detached copy into cmd,
// recording its pid in the pid file. It returns ErrAlreadyRunning when the
// pid file already names a live process; a stale pid file is removed first.
//
// Start relies on re-execution: the process is re-run twice with the same
// arguments to detach, so the caller's main must reach this Start call
// deterministically for a given command line. The re-executed copies skip
// the pre-flight checks and do not return; only the original invocation
// returns, after the daemon's pid appears, or with ErrLaunchTimeout.
func (c *Controller) Start(ctx context.Context, cmd Command) error {
	return c.inner.Start(ctx, cmd.internal())
}

// Stop terminates the recorded daemon with SIGTERM, escalating to SIGKILL
// when it does not exit within the stop timeout, and removes the pid file.
// It returns ErrNotRunning when there is no pid file, and removes a stale
// pid file without signalling anything.
func (c *Controller) Stop(ctx context.Context) error {
	return c.inner.Stop(ctx)
}

// Restart stops the recorded daemon if there is one and starts cmd in its
// place. A missing or stale pid file does not abort the restart. The
// re-execution caveats of Start apply.
func (c *Controller) Restart(ctx context.Context, cmd Command) error {
	return c.inner.Restart(ctx, cmd.internal())
}

// Status reports whether the pid file names a live process. A stale pid file
// is removed on the way, so Status repairs a slot left behind by a crashed
// daemon.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	return c.inner.Status(ctx)
}
