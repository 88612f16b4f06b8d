// Package pidfile stores and retrieves a single process id tied to a
// filesystem path.
//
// The pid file is the only state shared between control invocations: plain
// text, one positive decimal integer, no metadata. Absence of the file means
// "no known daemon for this path". No locking primitive guards ordinary
// reads and writes beyond the filesystem's own create/replace atomicity;
// AcquireLock offers an optional advisory flock for callers that want to
// narrow the read-then-act race between concurrent control invocations.
package pidfile
