package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/todddeluca/daemoncmd/internal/fileutil"
	"github.com/todddeluca/daemoncmd/internal/sentinel"
)

// ErrCorrupt is returned by Read when the pid file exists but its content is
// not a single positive decimal integer. A corrupt pid file is never silently
// ignored; callers must surface it rather than guess at the daemon's state.
const ErrCorrupt = sentinel.Error("pid file does not contain a positive integer")

// ErrWrite is returned by Write when the pid file cannot be created or
// replaced, for example because the parent directory is missing or the
// caller lacks permission. The underlying filesystem error is attached to
// the chain for inspection.
const ErrWrite = sentinel.Error("pid file not writable")

// filePerm is the mode used for newly created pid files. Pid files are
// world-readable by convention so monitoring tools running as other users
// can inspect them.
const filePerm = os.FileMode(0o644)

// Read parses the pid recorded at path.
//
// A missing file means no known daemon for that path and returns (0, nil).
// A file that exists but does not hold a single positive decimal integer
// (including an empty file) returns an error wrapping ErrCorrupt. Whitespace
// around the number is tolerated since writers append a trailing newline.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read pid file %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(text)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s holds %q: %w", path, text, ErrCorrupt)
	}
	return pid, nil
}

// Write records pid at path, creating the file or replacing any previous
// content. The file holds the decimal pid and a trailing newline, nothing
// else. The write goes through a temp file and rename so a concurrent Read
// never observes a half-written pid. Write does not create missing parent
// directories: the pid file path is caller-chosen and silently materializing
// directories would hide typos.
func Write(path string, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("pid %d: %w", pid, ErrWrite)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(strconv.Itoa(pid)+"\n"), filePerm); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Remove deletes the pid file at path. Removing an already-absent file is
// not an error, so Remove is safe to call from any state transition that
// ends with "no known daemon".
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file %s: %w", path, err)
	}
	return nil
}
