package daemoncmd

import (
	"github.com/todddeluca/daemoncmd/internal/control"
	"github.com/todddeluca/daemoncmd/internal/daemonize"
	"github.com/todddeluca/daemoncmd/internal/launcher"
	"github.com/todddeluca/daemoncmd/internal/pidfile"
	"github.com/todddeluca/daemoncmd/internal/probe"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrAlreadyRunning is returned by Start when the pid file already
	// names a live process.
	ErrAlreadyRunning = control.ErrAlreadyRunning

	// ErrNotRunning is returned by Stop when there is no pid file.
	ErrNotRunning = control.ErrNotRunning

	// ErrStopTimeout is returned by Stop when the daemon survives both
	// SIGTERM and SIGKILL within the configured budgets.
	ErrStopTimeout = control.ErrStopTimeout

	// ErrLaunchTimeout is returned by Start when the daemon does not
	// record a live pid within the launch timeout.
	ErrLaunchTimeout = launcher.ErrLaunchTimeout

	// ErrExec is returned by Start when the target command cannot be
	// resolved or executed.
	ErrExec = launcher.ErrExec

	// ErrEmptyCommand is returned by Start when no command was given.
	ErrEmptyCommand = launcher.ErrEmptyCommand

	// ErrDaemonize is returned when one of the re-exec hops that detach
	// the daemon fails.
	ErrDaemonize = daemonize.ErrDaemonize

	// ErrCorruptPidFile is wrapped into errors from operations that find
	// unparseable pid file content.
	ErrCorruptPidFile = pidfile.ErrCorrupt

	// ErrPidFileWrite is returned when the daemon's pid cannot be
	// recorded.
	ErrPidFileWrite = pidfile.ErrWrite

	// ErrNoSuchProcess is wrapped into signalling errors when the target
	// process does not exist.
	ErrNoSuchProcess = probe.ErrNoSuchProcess

	// ErrPermissionDenied is wrapped into signalling errors when the
	// caller may not signal the target process.
	ErrPermissionDenied = probe.ErrPermissionDenied
)
