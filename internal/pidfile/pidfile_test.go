package pidfile

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		wantPid int
		wantErr error
	}{
		"plain pid":            {content: "1234", wantPid: 1234},
		"trailing newline":     {content: "1234\n", wantPid: 1234},
		"surrounding spaces":   {content: "  1234  \n", wantPid: 1234},
		"empty file":           {content: "", wantErr: ErrCorrupt},
		"non-numeric":          {content: "abc", wantErr: ErrCorrupt},
		"negative pid":         {content: "-5", wantErr: ErrCorrupt},
		"zero pid":             {content: "0", wantErr: ErrCorrupt},
		"trailing garbage":     {content: "1234x", wantErr: ErrCorrupt},
		"two pids":             {content: "12 34", wantErr: ErrCorrupt},
		"newline between pids": {content: "12\n34", wantErr: ErrCorrupt},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "test.pid")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			pid, err := Read(path)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Read() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() unexpected error: %v", err)
			}
			if pid != tc.wantPid {
				t.Errorf("Read() = %d, want %d", pid, tc.wantPid)
			}
		})
	}
}

func TestRead_AbsentFile(t *testing.T) {
	t.Parallel()

	pid, err := Read(filepath.Join(t.TempDir(), "never-written.pid"))
	if err != nil {
		t.Fatalf("Read() on absent file: %v", err)
	}
	if pid != 0 {
		t.Errorf("Read() on absent file = %d, want 0", pid)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.pid")
	if err := Write(path, 4321); err != nil {
		t.Fatalf("Write(): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := string(data); got != "4321\n" {
		t.Errorf("file content = %q, want %q", got, "4321\n")
	}

	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	if pid != 4321 {
		t.Errorf("Read() = %d, want 4321", pid)
	}
}

func TestWrite_Overwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.pid")
	if err := Write(path, 100); err != nil {
		t.Fatalf("first Write(): %v", err)
	}
	if err := Write(path, 200); err != nil {
		t.Fatalf("second Write(): %v", err)
	}

	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}
	if pid != 200 {
		t.Errorf("Read() = %d, want 200", pid)
	}
}

func TestWrite_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing parent directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "no", "such", "dir", "test.pid")
		err := Write(path, 1234)
		if !errors.Is(err, ErrWrite) {
			t.Errorf("Write() error = %v, want %v", err, ErrWrite)
		}
	})

	t.Run("non-positive pid", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "test.pid")
		if err := Write(path, 0); !errors.Is(err, ErrWrite) {
			t.Errorf("Write(0) error = %v, want %v", err, ErrWrite)
		}
		if err := Write(path, -1); !errors.Is(err, ErrWrite) {
			t.Errorf("Write(-1) error = %v, want %v", err, ErrWrite)
		}
	})
}

func TestRemove_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.pid")
	if err := Write(path, 1234); err != nil {
		t.Fatalf("Write(): %v", err)
	}

	if err := Remove(path); err != nil {
		t.Fatalf("first Remove(): %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("pid file still present after Remove")
	}

	// Second removal of an absent file succeeds silently.
	if err := Remove(path); err != nil {
		t.Errorf("second Remove(): %v", err)
	}
}

func TestAcquireLock_Exclusion(t *testing.T) {
	t.Parallel()

	pidPath := filepath.Join(t.TempDir(), "test.pid")
	logger := slog.Default()

	first, err := AcquireLock(context.Background(), pidPath)
	if err != nil {
		t.Fatalf("first AcquireLock(): %v", err)
	}

	// A second acquisition on the same path must not succeed while the
	// first is held; the bounded context turns contention into an error.
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if _, err := AcquireLock(ctx, pidPath); err == nil {
		t.Fatal("second AcquireLock() succeeded while lock held")
	}

	ReleaseLock(logger, first)

	// After release the lock is available again.
	second, err := AcquireLock(context.Background(), pidPath)
	if err != nil {
		t.Fatalf("AcquireLock() after release: %v", err)
	}
	ReleaseLock(logger, second)
}

func TestReleaseLock_NilLock(t *testing.T) {
	t.Parallel()

	// Must not panic.
	ReleaseLock(slog.Default(), nil)
}
