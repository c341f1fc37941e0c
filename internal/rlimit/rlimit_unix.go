//go:build unix

// Package rlimit raises the process's soft open-file limit at startup so the
// bridge pool and listener controller do not starve under load.
package rlimit

import "golang.org/x/sys/unix"

// Raise attempts to set RLIMIT_NOFILE's soft limit to target, capped by the
// current hard limit. It returns the resulting soft limit and the current
// hard limit. Failure to raise the limit is not fatal: callers fall back to
// whatever soft limit was already in effect.
func Raise(target uint64) (soft, hard uint64, err error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, 0, err
	}
	hard = rl.Max
	want := target
	if want > hard {
		want = hard
	}
	if want <= rl.Cur {
		return rl.Cur, hard, nil
	}
	rl.Cur = want
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		// Some hosts refuse to raise the soft limit even though hard allows
		// it (e.g. inside restrictive containers). Report what's still in
		// effect rather than failing startup.
		var cur unix.Rlimit
		if gerr := unix.Getrlimit(unix.RLIMIT_NOFILE, &cur); gerr == nil {
			return cur.Cur, hard, err
		}
		return rl.Cur, hard, err
	}
	return want, hard, nil
}
