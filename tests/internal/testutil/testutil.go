// Package testutil holds shared helpers for the daemoncmd integration tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// BuildBinary compiles the daemoncmd CLI into dir and returns the binary
// path. It is meant to be called once from TestMain; individual tests share
// the result.
func BuildBinary(dir string) (string, error) {
	bin := filepath.Join(dir, "daemoncmd")
	cmd := exec.Command("go", "build", "-o", bin, "github.com/todddeluca/daemoncmd/cmd/daemoncmd")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("build daemoncmd: %w\n%s", err, out)
	}
	return bin, nil
}

// Result captures one CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run invokes the daemoncmd binary with args and returns its output and exit
// code. A non-zero exit is not an error; tests assert on ExitCode.
func Run(t *testing.T, bin string, args ...string) Result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("run %s %v: %v", bin, args, err)
		}
		code = exitErr.ExitCode()
	}

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}
}

// ReadPid returns the pid recorded at path.
func ReadPid(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pid file %s: %v", path, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("pid file %s content %q: %v", path, data, err)
	}
	return pid
}

// ProcessGone polls until the pid no longer exists or the timeout elapses,
// reporting whether it disappeared.
func ProcessGone(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		// Signal 0 probes existence without delivering anything.
		if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}
