package daemonize

import (
	"fmt"
	"os"

	"github.com/todddeluca/daemoncmd/internal/fileutil"
)

// appendPerm is the mode for redirection targets created on first use.
const appendPerm = os.FileMode(0o644)

type redirectMode int

const (
	modeDiscard redirectMode = iota
	modeInherit
	modeAppend
)

// Redirect describes where one of the daemon's standard streams is bound:
// a discard sink, the corresponding stream of the spawning process, or a
// file path opened in append mode. The zero value is a discard sink.
type Redirect struct {
	mode redirectMode
	path string
}

// Discard binds the stream to the null device.
func Discard() Redirect { return Redirect{mode: modeDiscard} }

// Inherit binds the stream to the spawning process's own stream. For the
// second detachment hop that is the target the first hop bound, so Inherit
// chains through to the operator's original stream.
func Inherit() Redirect { return Redirect{mode: modeInherit} }

// AppendTo binds the stream to the file at path, opened in append mode and
// created if absent. For standard input the path is opened read-only
// instead and must already exist.
func AppendTo(path string) Redirect { return Redirect{mode: modeAppend, path: path} }

// Path returns the file path for an AppendTo redirect, or "" for the other
// modes.
func (r Redirect) Path() string { return r.path }

// open returns the file to bind for this redirect and whether the caller
// owns it (must close it after handing it to the child). inherited is the
// spawning process's own stream for the Inherit mode; forInput selects
// read-only semantics for standard input.
func (r Redirect) open(inherited *os.File, forInput bool) (*os.File, bool, error) {
	switch r.mode {
	case modeInherit:
		return inherited, false, nil
	case modeAppend:
		if forInput {
			f, err := os.Open(r.path)
			if err != nil {
				return nil, false, fmt.Errorf("open stdin target: %w", err)
			}
			return f, true, nil
		}
		if err := fileutil.EnsureDirForFile(r.path); err != nil {
			return nil, false, err
		}
		f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, appendPerm)
		if err != nil {
			return nil, false, fmt.Errorf("open redirection target: %w", err)
		}
		return f, true, nil
	default:
		f, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
		if err != nil {
			return nil, false, fmt.Errorf("open %s: %w", os.DevNull, err)
		}
		return f, true, nil
	}
}
