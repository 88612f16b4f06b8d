package daemonize

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/todddeluca/daemoncmd/internal/sentinel"
)

// ErrDaemonize is returned when any step of the detachment sequence fails.
// The failing process must not proceed past the error; there is no retry.
const ErrDaemonize = sentinel.Error("daemonization failed")

// stageEnv carries the detachment progress between the re-exec'd copies.
// Unset in the operator's original invocation, "1" in the session leader
// copy, "2" in the final daemon copy. The final copy scrubs it so nothing
// downstream inherits the marker.
const stageEnv = "_DAEMONCMD_STAGE"

type stage int

const (
	stageOriginal stage = iota
	stageLeader
	stageDaemon
)

func currentStage() stage {
	switch os.Getenv(stageEnv) {
	case "1":
		return stageLeader
	case "2":
		return stageDaemon
	default:
		return stageOriginal
	}
}

// WasReborn reports whether the current process is one of the re-exec'd
// detachment copies rather than the operator's original invocation. Callers
// use it to skip work that must happen exactly once, such as pre-flight
// state checks and progress output.
func WasReborn() bool {
	return currentStage() != stageOriginal
}

// Context configures one detachment sequence: where the daemon's standard
// streams end up and which directory it settles in.
type Context struct {
	Stdin  Redirect
	Stdout Redirect
	Stderr Redirect

	// WorkDir is the final working directory. Empty means the filesystem
	// root, so the daemon holds no reference to a directory that might
	// later need to be unmounted.
	WorkDir string
}

func (c *Context) workDir() string {
	if c.WorkDir == "" {
		return "/"
	}
	return c.WorkDir
}

// Reborn advances the detachment sequence by one stage.
//
// In the original process it spawns the session leader copy and returns its
// handle; the caller decides whether to exit immediately (the in-process
// daemonize entry point) or to first wait for the daemon's pid record (the
// launcher). In the session leader copy Reborn spawns the final copy and
// exits without returning. In the final copy it settles in place and
// returns (nil, nil): the caller is now the daemon.
//
// The intermediate copies keep the invoking working directory so that
// relative paths in the re-executed argument list keep resolving the same
// way; only the final copy changes directory.
func (c *Context) Reborn() (*os.Process, error) {
	switch currentStage() {
	case stageLeader:
		// Fork two: the surviving copy lives in the new session without
		// leading it, so it can never reacquire a controlling terminal.
		// Reset the file-creation mask first so redirection targets
		// created below get their requested modes.
		unix.Umask(0)
		if _, err := c.spawn(stageDaemon, false); err != nil {
			// Stderr is already bound to the configured target, which is
			// the only channel left to report through.
			fmt.Fprintf(os.Stderr, "daemoncmd: second detachment fork failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
		panic("unreachable")
	case stageDaemon:
		if err := c.settle(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDaemonize, err)
		}
		return nil, nil
	default:
		// Fork one: the copy starts a new session, detaching from the
		// controlling terminal; the original is free to exit, releasing
		// any waiting shell.
		child, err := c.spawn(stageLeader, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDaemonize, err)
		}
		return child, nil
	}
}

// spawn re-executes the current binary with the same arguments, the stage
// marker set to next, and standard streams bound per the Redirects.
func (c *Context) spawn(next stage, newSession bool) (*os.Process, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	stdin, ownIn, err := c.Stdin.open(os.Stdin, true)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	stdout, ownOut, err := c.Stdout.open(os.Stdout, false)
	if err != nil {
		closeOwned(stdin, ownIn)
		return nil, fmt.Errorf("stdout: %w", err)
	}
	stderr, ownErr, err := c.Stderr.open(os.Stderr, false)
	if err != nil {
		closeOwned(stdin, ownIn)
		closeOwned(stdout, ownOut)
		return nil, fmt.Errorf("stderr: %w", err)
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = markStage(os.Environ(), next)
	if newSession {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	}

	err = cmd.Start()

	// The child holds its own copies of the descriptors after Start; the
	// parent's handles are closed either way.
	closeOwned(stdin, ownIn)
	closeOwned(stdout, ownOut)
	closeOwned(stderr, ownErr)

	if err != nil {
		return nil, fmt.Errorf("spawn detached copy: %w", err)
	}
	return cmd.Process, nil
}

// settle finishes detachment inside the final copy: working directory,
// file-creation mask, and marker scrubbing. Stream bindings were already
// established when this copy was spawned.
func (c *Context) settle() error {
	if err := os.Chdir(c.workDir()); err != nil {
		return fmt.Errorf("chdir %s: %w", c.workDir(), err)
	}
	unix.Umask(0)
	if err := os.Unsetenv(stageEnv); err != nil {
		return fmt.Errorf("scrub stage marker: %w", err)
	}
	return nil
}

func closeOwned(f *os.File, owned bool) {
	if owned && f != nil {
		_ = f.Close()
	}
}

// markStage returns env with the stage marker set to next, dropping any
// existing marker entry so the child sees exactly one value.
func markStage(env []string, next stage) []string {
	prefix := stageEnv + "="
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+strconv.Itoa(int(next)))
}
