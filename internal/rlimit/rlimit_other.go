//go:build !unix

package rlimit

// Raise is a no-op on non-unix platforms; RLIMIT_NOFILE does not exist there.
func Raise(target uint64) (soft, hard uint64, err error) {
	return target, target, nil
}
