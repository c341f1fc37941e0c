// Package supervisor restarts long-lived tasks with exponential backoff
// and stops them cooperatively on shutdown, so a failed dialer worker or
// autosync client reconnects instead of taking the whole process down.
package supervisor

import (
	"time"

	"tum/internal/flog"
)

const (
	defaultBackoffStart = 200 * time.Millisecond
	defaultBackoffCap   = 5 * time.Second
)

// Task is a long-lived unit of work. It should run until stop is closed
// or an unrecoverable error occurs, and return promptly once stop fires.
// reset is provided so a task that keeps running after establishing
// forward progress (e.g. a reconnect client that then serves an
// indefinite loop) can collapse the backoff back to its start without
// waiting for its own return, which may only ever happen on shutdown.
type Task func(stop <-chan struct{}, reset func()) error

// Run wraps task in a restart loop: on normal return it logs, waits the
// current backoff delay, restarts, and resets the backoff to backoffStart
// (long-lived tasks are not expected to return); on error it logs and
// backs off exponentially starting at backoffStart, capped at backoffCap.
// It returns once stop is closed.
func Run(name string, stop <-chan struct{}, task Task) {
	RunWithBackoff(name, stop, task, defaultBackoffStart, defaultBackoffCap)
}

// RunWithBackoff is Run with explicit backoff bounds, for callers whose
// spec names a different start/cap than the default (e.g. the EU
// AutoSync client's 0.5s/5s reconnect backoff).
func RunWithBackoff(name string, stop <-chan struct{}, task Task, backoffStart, backoffCap time.Duration) {
	backoff := backoffStart
	reset := func() { backoff = backoffStart }

	for {
		select {
		case <-stop:
			return
		default:
		}

		err := task(stop, reset)

		select {
		case <-stop:
			return
		default:
		}

		if err != nil {
			flog.Warnf("%s exited with error, restarting in %v: %v", name, backoff, flog.WErr(err))
		} else {
			flog.Debugf("%s returned normally, restarting", name)
		}

		select {
		case <-stop:
			return
		case <-time.After(backoff):
		}

		if err != nil {
			backoff *= 2
			if backoff > backoffCap {
				backoff = backoffCap
			}
		} else {
			backoff = backoffStart
		}
	}
}
