package daemoncmd

import "time"

// Default configuration values for NewController.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them (e.g.,
// 2 * DefaultStopTimeout).
const (
	// DefaultLaunchTimeout is the total time Start waits for the daemon
	// to record a live pid before giving up with ErrLaunchTimeout. It
	// covers the re-exec hops, the pid file write, and the exec of the
	// target command.
	DefaultLaunchTimeout = 5 * time.Second

	// DefaultLaunchPollInterval is how often Start re-reads the pid file
	// while waiting for the daemon to appear.
	DefaultLaunchPollInterval = 100 * time.Millisecond

	// DefaultStopTimeout is how long Stop waits for the daemon to exit
	// after SIGTERM before escalating to SIGKILL.
	DefaultStopTimeout = 10 * time.Second

	// DefaultKillDrainTimeout is the hard upper bound for waiting on the
	// process to disappear after SIGKILL. SIGKILL cannot be caught, so
	// this should never fire; it is a guard against unkillable processes
	// stuck in uninterruptible sleep.
	DefaultKillDrainTimeout = 5 * time.Second
)
