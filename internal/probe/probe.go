package probe

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"

	"github.com/todddeluca/daemoncmd/internal/sentinel"
)

// ErrNoSuchProcess is returned by SendSignal when no process with the given
// pid exists at send time. For termination signals this usually means the
// goal is already achieved; callers decide whether that is a failure.
const ErrNoSuchProcess = sentinel.Error("no such process")

// ErrPermissionDenied is returned by SendSignal when a process with the
// given pid exists but the caller's privilege level does not permit
// signaling it.
const ErrPermissionDenied = sentinel.Error("not permitted to signal process")

// IsAlive reports whether a process with the given pid currently exists.
//
// A pid that exists but belongs to an unrelated process (OS pid reuse) is
// indistinguishable from the original and reports alive; that bounded risk
// is inherent to pid-only probing. A process the caller cannot signal
// (EPERM) still exists and reports alive.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	alive, err := process.PidExists(int32(pid))
	if err != nil {
		// Fall back to the classic null-signal probe when the process
		// table cannot be consulted.
		return signalError(unix.Kill(pid, 0)) == nil
	}
	return alive
}

// SendSignal delivers sig to the process with the given pid.
func SendSignal(pid int, sig unix.Signal) error {
	if pid <= 0 {
		return fmt.Errorf("pid %d: %w", pid, ErrNoSuchProcess)
	}
	if err := signalError(unix.Kill(pid, sig)); err != nil {
		return fmt.Errorf("signal %s to pid %d: %w", unix.SignalName(sig), pid, err)
	}
	return nil
}

// signalError maps kill(2) errnos onto the probe error taxonomy.
func signalError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ESRCH):
		return ErrNoSuchProcess
	case errors.Is(err, unix.EPERM):
		return ErrPermissionDenied
	default:
		return err
	}
}

// Describe returns the executable name of the process with the given pid,
// for human-readable status lines. Returns "" when the name cannot be
// resolved; liveness decisions must never depend on it.
func Describe(pid int) string {
	if pid <= 0 {
		return ""
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	name, err := proc.Name()
	if err != nil {
		return ""
	}
	return name
}
