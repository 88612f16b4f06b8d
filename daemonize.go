package daemoncmd

import (
	"os"

	"github.com/todddeluca/daemoncmd/internal/daemonize"
)

// DaemonizeOption configures a Daemonize call.
type DaemonizeOption func(*daemonize.Context)

// WithStdin sets where the daemon's stdin points. Default: the null device.
func WithStdin(r Redirect) DaemonizeOption {
	return func(c *daemonize.Context) {
		c.Stdin = r
	}
}

// WithStdout sets where the daemon's stdout points. Default: the null device.
func WithStdout(r Redirect) DaemonizeOption {
	return func(c *daemonize.Context) {
		c.Stdout = r
	}
}

// WithStderr sets where the daemon's stderr points. Default: the null device.
func WithStderr(r Redirect) DaemonizeOption {
	return func(c *daemonize.Context) {
		c.Stderr = r
	}
}

// WithWorkDir sets the directory the daemon changes into once detached.
// Default: the filesystem root, so the daemon does not pin the invoking
// directory's mount.
func WithWorkDir(dir string) DaemonizeOption {
	return func(c *daemonize.Context) {
		c.WorkDir = dir
	}
}

// Daemonize turns the calling process into a daemon: detached from the
// controlling terminal, running in its own session, with the working
// directory, umask, and standard streams reset. The original invocation
// exits with status 0; only the detached copy returns from Daemonize.
//
// Go cannot fork a running program, so the detachment happens by re-
// executing the binary twice with the same arguments. The caller's main
// must therefore reach this Daemonize call deterministically: side effects
// before it run once per copy. Code that must run exactly once belongs
// after Daemonize returns.
func Daemonize(opts ...DaemonizeOption) error {
	ctx := daemonize.Context{}
	for _, opt := range opts {
		opt(&ctx)
	}

	child, err := ctx.Reborn()
	if err != nil {
		return err
	}
	if child != nil {
		// Original invocation. The daemon is on its way; there is
		// nothing left to do here.
		os.Exit(0)
	}

	return nil
}

// WasReborn reports whether the current process is one of the re-executed
// copies created by Daemonize or Controller.Start, rather than the original
// invocation. Callers that do work before daemonizing can use it to keep
// that work out of the copies.
func WasReborn() bool {
	return daemonize.WasReborn()
}
