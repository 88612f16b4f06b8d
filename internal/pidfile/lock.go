package pidfile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// lockSuffix is appended to the pid file path to form the advisory lock
// path. The lock lives next to the pid file so that both land on the same
// filesystem, which flock requires for its guarantees.
const lockSuffix = ".lock"

// lockRetryInterval is the interval between consecutive attempts to acquire
// the advisory lock. 50ms balances responsiveness (low wait after the holder
// releases) against CPU overhead from busy-polling.
const lockRetryInterval = 50 * time.Millisecond

// AcquireLock takes an exclusive advisory lock guarding state transitions on
// the pid file at pidPath. The lock narrows, but cannot fully close, the
// window in which two concurrent start invocations could both observe an
// absent slot; the pid-file protocol itself remains the source of truth.
//
// Acquisition is retried at lockRetryInterval until successful or ctx is
// done. Callers must release the returned lock with ReleaseLock.
func AcquireLock(ctx context.Context, pidPath string) (*flock.Flock, error) {
	lockPath := pidPath + lockSuffix
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", lockPath, err)
	}
	if !locked {
		// TryLockContext should return an error when it fails; handle the
		// case where it returns (false, nil) unexpectedly.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring lock %s: lock not acquired", lockPath)
	}
	return fl, nil
}

// ReleaseLock releases the advisory lock and closes its file descriptor.
// The lock file is intentionally left on disk: removing it could invalidate
// a lock concurrently acquired by another invocation through a fresh
// descriptor on the same path. Close() calls Unlock() internally, so no
// explicit Unlock is needed. Errors are logged at debug level; this is
// best-effort cleanup so they are not returned.
func ReleaseLock(logger *slog.Logger, fl *flock.Flock) {
	if fl != nil {
		if err := fl.Close(); err != nil {
			logger.Debug("failed to release pid file lock", "path", fl.Path(), "err", err)
		}
	}
}
