// Package sentinel provides an immutable error type for sentinel error declarations.
//
// The daemoncmd error taxonomy (corrupt pid file, launch timeout, stop timeout,
// and so on) is declared as constants of the Error type in the packages that
// produce them. Sentinel errors declared with errors.New are mutable variables
// that consumers can reassign; Error is a string-based error type that can be
// declared as a const, making sentinel errors truly immutable while remaining
// compatible with errors.Is for wrapped error chain comparison.
package sentinel
