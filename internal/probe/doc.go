// Package probe answers "is this pid alive" and delivers signals using only
// the pid.
//
// The control invocation and the daemon are different OS processes, so no
// parent-child handle exists; everything here works from the bare pid the
// pid file recorded. The liveness answer is advisory: the OS may reuse a pid
// after the original process exits, and this package makes no attempt at
// identity verification beyond existence.
package probe
