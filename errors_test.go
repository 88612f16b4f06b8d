package daemoncmd_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/todddeluca/daemoncmd"
)

// TestPublicErrorConstants verifies that every exported error constant:
//   - implements the error interface (Error() returns a non-empty string)
//   - matches itself via errors.Is
//   - matches itself when wrapped via fmt.Errorf %w
//   - does not match a different error constant
func TestPublicErrorConstants(t *testing.T) {
	t.Parallel()

	// All exported sentinel errors.
	allErrors := map[string]error{
		"ErrAlreadyRunning":   daemoncmd.ErrAlreadyRunning,
		"ErrCorruptPidFile":   daemoncmd.ErrCorruptPidFile,
		"ErrDaemonize":        daemoncmd.ErrDaemonize,
		"ErrEmptyCommand":     daemoncmd.ErrEmptyCommand,
		"ErrExec":             daemoncmd.ErrExec,
		"ErrLaunchTimeout":    daemoncmd.ErrLaunchTimeout,
		"ErrNoSuchProcess":    daemoncmd.ErrNoSuchProcess,
		"ErrNotRunning":       daemoncmd.ErrNotRunning,
		"ErrPermissionDenied": daemoncmd.ErrPermissionDenied,
		"ErrPidFileWrite":     daemoncmd.ErrPidFileWrite,
		"ErrStopTimeout":      daemoncmd.ErrStopTimeout,
	}

	for name, sentinel := range allErrors {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// Must implement error interface with a non-empty message.
			if sentinel == nil {
				t.Fatalf("%s is nil", name)
			}
			if msg := sentinel.Error(); msg == "" {
				t.Errorf("%s.Error() returned empty string", name)
			}

			// Direct errors.Is match.
			if !errors.Is(sentinel, sentinel) {
				t.Errorf("errors.Is(%s, %s) = false, want true (self-match)", name, name)
			}

			// Wrapped errors.Is match.
			wrapped := fmt.Errorf("wrapping: %w", sentinel)
			if !errors.Is(wrapped, sentinel) {
				t.Errorf("errors.Is(wrapped %s) = false, want true", name)
			}

			// Must not match a different error constant.
			differentErr := errors.New("some other error")
			if errors.Is(sentinel, differentErr) {
				t.Errorf("errors.Is(%s, errors.New(...)) = true, want false", name)
			}
		})
	}
}

// TestErrorConstantsDistinct verifies no two sentinels share a message,
// which would make them errors.Is-equal under the const string scheme.
func TestErrorConstantsDistinct(t *testing.T) {
	t.Parallel()

	all := map[string]error{
		"ErrAlreadyRunning":   daemoncmd.ErrAlreadyRunning,
		"ErrCorruptPidFile":   daemoncmd.ErrCorruptPidFile,
		"ErrDaemonize":        daemoncmd.ErrDaemonize,
		"ErrEmptyCommand":     daemoncmd.ErrEmptyCommand,
		"ErrExec":             daemoncmd.ErrExec,
		"ErrLaunchTimeout":    daemoncmd.ErrLaunchTimeout,
		"ErrNoSuchProcess":    daemoncmd.ErrNoSuchProcess,
		"ErrNotRunning":       daemoncmd.ErrNotRunning,
		"ErrPermissionDenied": daemoncmd.ErrPermissionDenied,
		"ErrPidFileWrite":     daemoncmd.ErrPidFileWrite,
		"ErrStopTimeout":      daemoncmd.ErrStopTimeout,
	}

	seen := make(map[string]string, len(all))
	for name, err := range all {
		msg := err.Error()
		if prev, ok := seen[msg]; ok {
			t.Errorf("%s and %s share the message %q", prev, name, msg)
		}
		seen[msg] = name
	}
}
