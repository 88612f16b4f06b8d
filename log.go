package daemoncmd

import (
	"log/slog"

	"github.com/todddeluca/daemoncmd/internal/control"
)

// SetLogger replaces the package-level logger used by daemoncmd.
// This allows applications to integrate daemoncmd logging with their own
// logging infrastructure. The provided logger should already have any
// desired attributes; daemoncmd will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other daemoncmd operations.
// The logger is stored as an atomic pointer, so a concurrent operation
// always sees a valid *slog.Logger, though it may briefly use the previous
// one.
func SetLogger(l *slog.Logger) {
	control.SetLogger(l)
}
