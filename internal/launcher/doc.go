// Package launcher ties the detach machinery to the pid file: it daemonizes
// the current process, has the detached copy record its pid and exec the
// target command, and makes the original invocation wait until the record
// names a live process.
package launcher
