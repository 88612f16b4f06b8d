// Package control implements the start/stop/restart/status operations over a
// pid file slot. Each operation derives the slot's state (absent, stale,
// running) fresh from the pid file and a liveness probe, holds an advisory
// lock while acting on it, and repairs stale records opportunistically.
package control
