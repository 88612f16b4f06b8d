package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/todddeluca/daemoncmd/internal/daemonize"
	"github.com/todddeluca/daemoncmd/internal/pidfile"
	"github.com/todddeluca/daemoncmd/internal/probe"
	"github.com/todddeluca/daemoncmd/internal/sentinel"
)

const (
	// ErrLaunchTimeout is returned when the daemon does not record a live
	// pid within the configured launch timeout.
	ErrLaunchTimeout = sentinel.Error("timed out waiting for daemon to start")

	// ErrExec is returned when the target command cannot be resolved or
	// executed.
	ErrExec = sentinel.Error("command execution failed")

	// ErrEmptyCommand is returned when no command was given to launch.
	ErrEmptyCommand = sentinel.Error("empty command")
)

// Command describes the program the daemon turns into, including where its
// standard streams point once it is detached from the terminal.
type Command struct {
	Path   string
	Args   []string
	Stdin  daemonize.Redirect
	Stdout daemonize.Redirect
	Stderr daemonize.Redirect
}

// Config carries the launch timing knobs.
type Config struct {
	LaunchTimeout time.Duration
	PollInterval  time.Duration
}

// Launch daemonizes the current process and replaces the detached copy with
// cmd, recording the daemon's pid in the file at pidPath.
//
// In the original invocation Launch returns after the pid file holds the pid
// of a live daemon, or with ErrLaunchTimeout when that does not happen within
// cfg.LaunchTimeout. In the re-executed copies Launch does not return at all:
// the final copy writes the pid file and execs cmd, so any return from it is
// a failure.
func Launch(ctx context.Context, pidPath string, cmd Command, cfg Config) error {
	if cmd.Path == "" {
		return ErrEmptyCommand
	}

	// Resolve the target before paying for the re-exec hops so a bad
	// command fails in the invoking process, where the caller can see it.
	resolved, err := exec.LookPath(cmd.Path)
	if err != nil {
		return fmt.Errorf("%w: resolving %q: %w", ErrExec, cmd.Path, err)
	}

	// LookPath returns a relative path for relative inputs, and the final
	// copy execs from a different working directory.
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return fmt.Errorf("%w: resolving %q: %w", ErrExec, cmd.Path, err)
	}

	dctx := daemonize.Context{
		Stdin:  cmd.Stdin,
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}

	child, err := dctx.Reborn()
	if err != nil {
		return err
	}

	if child != nil {
		// Original invocation. The detached copy runs concurrently; all
		// that is left here is to wait for proof of life.
		return awaitPidRecord(ctx, pidPath, cfg)
	}

	// Final daemon copy. Record the pid, then become the target.
	if err := pidfile.Write(pidPath, os.Getpid()); err != nil {
		return err
	}

	argv := append([]string{cmd.Path}, cmd.Args...)
	err = unix.Exec(resolved, argv, os.Environ())

	// Exec only returns on failure. Remove the pid record so the slot is
	// not left pointing at this short-lived copy.
	pidfile.Remove(pidPath)
	return fmt.Errorf("%w: exec %q: %w", ErrExec, resolved, err)
}

// awaitPidRecord polls pidPath until it names a live process. Read errors and
// corrupt content keep the poll going, since the daemon may not have written
// the file yet or may be mid-write.
func awaitPidRecord(ctx context.Context, pidPath string, cfg Config) error {
	err := wait.PollUntilContextTimeout(ctx, cfg.PollInterval, cfg.LaunchTimeout, true,
		func(ctx context.Context) (bool, error) {
			pid, err := pidfile.Read(pidPath)
			if err != nil || pid == 0 {
				return false, nil
			}

			return probe.IsAlive(pid), nil
		})
	if err != nil {
		return fmt.Errorf("%w: no live pid recorded in %s: %w", ErrLaunchTimeout, pidPath, err)
	}

	return nil
}
