package conf

const (
	fdReserve  = 800  // fds reserved for listeners, stdio, sync connections
	poolSizeLo = 100
	poolSizeHi = 2000

	dialConcurrencyLo = 8
	dialConcurrencyHi = 256
)

// defaultDialConcurrency scales the EU dial semaphore's default size with
// the host's CPU count so a beefier box reconnects a large pool faster
// without needing PAHLAVI_DIAL_CONCURRENCY set by hand. Rounded up to a
// power of 2, same as the teacher's worker-count defaults, and clamped to
// a sane range.
func defaultDialConcurrency() int {
	return clampInt(nextPowerOf2(sysCPUCount()*4), dialConcurrencyLo, dialConcurrencyHi)
}

// PoolSize returns the pool size for role ("ir" or "eu"), honoring an
// explicit PAHLAVI_POOL override or else deriving one from the fd budget
// and total RAM, per the same auto-sizing formula used for the other
// auto-tuned defaults.
func (t *Tunables) PoolSize(role string) int {
	if t.PoolOverride > 0 {
		return clampInt(t.PoolOverride, poolSizeLo, poolSizeHi)
	}

	fdBudget := t.NofileSoft - fdReserve
	if fdBudget < 0 {
		fdBudget = 0
	}

	frac := 0.22
	if role == "eu" {
		frac = 0.30
	}
	byFD := int(float64(fdBudget) * frac)

	byRAM := 500
	if ramMB := sysRAMMB(); ramMB > 0 {
		byRAM = (ramMB / 1024) * 250
	}

	size := byFD
	if byRAM < size {
		size = byRAM
	}
	return clampInt(size, poolSizeLo, poolSizeHi)
}
