package daemoncmd

import (
	"fmt"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive(name string, v time.Duration) {
	if v <= 0 {
		panic(fmt.Sprintf("daemoncmd: %s must be greater than 0, got %v", name, v))
	}
}

// Option configures a Controller during construction via NewController.
// Each With* function returns an Option that sets a specific field.
//
// The With* functions panic on non-positive durations. These panics are
// intentional: option values are typically compile-time constants, so an
// invalid value indicates a programmer error rather than a runtime condition.
// The pattern mirrors [regexp.MustCompile] - fail fast during initialization
// instead of returning errors that would be universally fatal anyway.
type Option func(*controllerConfig)

// WithLaunchTimeout sets the total time Start waits for the daemon to record
// a live pid.
//
// Default: 5 seconds.
//
// Panics if d <= 0.
func WithLaunchTimeout(d time.Duration) Option {
	requirePositive("launch timeout", d)
	return func(c *controllerConfig) {
		c.LaunchTimeout = d
	}
}

// WithLaunchPollInterval sets how often Start re-reads the pid file while
// waiting for the daemon to appear.
//
// Default: 100 milliseconds.
//
// Panics if d <= 0.
func WithLaunchPollInterval(d time.Duration) Option {
	requirePositive("launch poll interval", d)
	return func(c *controllerConfig) {
		c.LaunchPollInterval = d
	}
}

// WithStopTimeout sets how long Stop waits for the daemon to exit after
// SIGTERM before escalating to SIGKILL.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) Option {
	requirePositive("stop timeout", d)
	return func(c *controllerConfig) {
		c.StopTimeout = d
	}
}

// WithKillDrainTimeout sets the hard upper bound for waiting on the process
// to disappear after SIGKILL.
//
// Default: 5 seconds.
//
// Panics if d <= 0.
func WithKillDrainTimeout(d time.Duration) Option {
	requirePositive("kill drain timeout", d)
	return func(c *controllerConfig) {
		c.KillDrainTimeout = d
	}
}
