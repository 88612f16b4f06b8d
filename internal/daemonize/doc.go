// Package daemonize converts the current process into a correctly detached
// background daemon.
//
// The Go runtime cannot fork() mid-process, so each fork of the classic
// double-fork sequence is expressed as a re-exec of the current binary with
// a stage marker in the environment. The original process spawns a copy in a
// new session (fork one, setsid); that session leader spawns one more copy
// inside the session but not leading it (fork two) and exits; the final copy
// settles in place: working directory to the filesystem root, file-creation
// mask to zero, stage marker scrubbed. Standard streams are bound at each
// spawn according to the configured Redirects, and because an exec.Cmd child
// inherits only the descriptors explicitly passed, the final copy holds no
// descriptor from the launcher beyond those bindings.
//
// The transformation is one-way. There is no rollback: a failure at any
// stage aborts the process attempting it, since a partially detached process
// is unsafe to run unsupervised.
//
// Programs using this package must call Reborn (directly or through the
// daemoncmd facade) on a deterministic path from main, because the re-exec'd
// copies re-enter main with the same arguments and must reach the same call
// to continue the sequence.
package daemonize
