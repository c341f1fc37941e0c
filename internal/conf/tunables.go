// Package conf holds the process-wide configuration surface: the frozen
// Tunables singleton, the per-role IR/EU bootstrap configs, and the
// auto-sizing/auto-tuning helpers that derive defaults from the host.
package conf

import (
	"fmt"
	"sync"
	"time"

	"tum/internal/flog"
	"tum/internal/rlimit"
)

// Tunables is read once at process startup from PAHLAVI_* environment
// variables and never mutated again; every long-lived task reads from the
// single frozen instance returned by Load.
type Tunables struct {
	DialTimeout    time.Duration
	PoolWait       time.Duration
	KeepaliveSecs  int
	Sockbuf        int
	CopyChunk      int
	SyncInterval   time.Duration
	BacklogBridge  int
	BacklogPorts   int
	BacklogSync    int
	DrainThreshold int
	MaxSyncPorts   int

	PoolMaxAge          time.Duration
	PoolPingInterval    time.Duration
	PoolRecycleInterval time.Duration

	SessionIdle     time.Duration
	MaxSessions     int
	DialConcurrency int

	IRBind      string
	EULocalHost string

	PoolOverride int // 0 means "auto-size"
	NofileTarget int
	LogLevel     flog.Level

	// NofileSoft is the soft fd limit observed after Raise at startup; it
	// feeds the pool auto-sizing formula.
	NofileSoft int
}

var (
	once   sync.Once
	frozen *Tunables
)

// Load reads Tunables from the environment exactly once per process and
// returns the frozen singleton on every subsequent call.
func Load() *Tunables {
	once.Do(func() {
		frozen = load()
	})
	return frozen
}

func load() *Tunables {
	t := &Tunables{}
	t.setDefaults()

	soft, _, err := rlimit.Raise(uint64(t.NofileTarget))
	if err != nil {
		flog.Warnf("rlimit raise failed, continuing with existing soft limit: %v", err)
	}
	t.NofileSoft = int(soft)

	if errs := t.validate(); len(errs) > 0 {
		for _, e := range errs {
			flog.Warnf("tunable out of range, using default: %v", e)
		}
	}
	return t
}

// setDefaults reads every PAHLAVI_* variable, falling back to a documented
// default whenever the variable is unset or fails to parse.
func (t *Tunables) setDefaults() {
	t.DialTimeout = envSeconds("PAHLAVI_DIAL_TIMEOUT", 5*time.Second)
	t.PoolWait = envSeconds("PAHLAVI_POOL_WAIT", 3*time.Second)
	t.KeepaliveSecs = envInt("PAHLAVI_KEEPALIVE_SECS", 30)
	t.Sockbuf = envInt("PAHLAVI_SOCKBUF", 0)
	t.CopyChunk = envInt("PAHLAVI_COPY_CHUNK", 32*1024)
	t.SyncInterval = envSeconds("PAHLAVI_SYNC_INTERVAL", 5*time.Second)
	t.BacklogBridge = envInt("PAHLAVI_BACKLOG_BRIDGE", 128)
	t.BacklogPorts = envInt("PAHLAVI_BACKLOG_PORTS", 128)
	t.BacklogSync = envInt("PAHLAVI_BACKLOG_SYNC", 16)
	t.DrainThreshold = envInt("PAHLAVI_DRAIN_THRESHOLD", 64*1024)
	t.MaxSyncPorts = envInt("PAHLAVI_MAX_SYNC_PORTS", 64)

	t.PoolMaxAge = envSeconds("PAHLAVI_POOL_MAX_AGE", 300*time.Second)
	t.PoolPingInterval = envSeconds("PAHLAVI_POOL_PING_INTERVAL", 30*time.Second)
	t.PoolRecycleInterval = envSeconds("PAHLAVI_POOL_RECYCLE_INTERVAL", 0)
	if t.PoolRecycleInterval <= 0 {
		// max(5, min(30, pool_max_age/2))
		half := t.PoolMaxAge / 2
		cand := half
		if cand > 30*time.Second {
			cand = 30 * time.Second
		}
		if cand < 5*time.Second {
			cand = 5 * time.Second
		}
		t.PoolRecycleInterval = cand
	}

	t.SessionIdle = envSeconds("PAHLAVI_SESSION_IDLE", 120*time.Second)
	t.MaxSessions = envInt("PAHLAVI_MAX_SESSIONS", 0)
	t.DialConcurrency = envInt("PAHLAVI_DIAL_CONCURRENCY", defaultDialConcurrency())

	t.IRBind = envString("PAHLAVI_IR_BIND", "0.0.0.0")
	t.EULocalHost = envString("PAHLAVI_EU_LOCAL_HOST", "127.0.0.1")

	t.PoolOverride = envInt("PAHLAVI_POOL", 0)
	t.NofileTarget = envInt("PAHLAVI_NOFILE_TARGET", 65535)
	t.LogLevel = flog.LevelFromString(envString("PAHLAVI_LOG_LEVEL", "info"))
}

// validate reports out-of-range values after setDefaults has run; callers
// treat every returned error as "fell back to default", never as fatal.
func (t *Tunables) validate() []error {
	var errs []error
	if t.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("dial_timeout must be > 0"))
		t.DialTimeout = 5 * time.Second
	}
	if t.PoolWait <= 0 {
		errs = append(errs, fmt.Errorf("pool_wait must be > 0"))
		t.PoolWait = 3 * time.Second
	}
	if t.CopyChunk <= 0 {
		errs = append(errs, fmt.Errorf("copy_chunk must be > 0"))
		t.CopyChunk = 32 * 1024
	}
	if t.BacklogBridge <= 0 {
		errs = append(errs, fmt.Errorf("backlog_bridge must be > 0"))
		t.BacklogBridge = 128
	}
	if t.BacklogPorts <= 0 {
		errs = append(errs, fmt.Errorf("backlog_ports must be > 0"))
		t.BacklogPorts = 128
	}
	if t.BacklogSync <= 0 {
		errs = append(errs, fmt.Errorf("backlog_sync must be > 0"))
		t.BacklogSync = 16
	}
	if t.MaxSyncPorts <= 0 {
		errs = append(errs, fmt.Errorf("max_sync_ports must be > 0"))
		t.MaxSyncPorts = 64
	}
	if t.DialConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("dial_concurrency must be > 0"))
		t.DialConcurrency = defaultDialConcurrency()
	}
	if t.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("max_sessions must be >= 0"))
		t.MaxSessions = 0
	}
	if t.NofileTarget <= 0 {
		errs = append(errs, fmt.Errorf("nofile_target must be > 0"))
		t.NofileTarget = 65535
	}
	return errs
}

// resetForTest clears the frozen singleton so tests can reload Tunables
// under different environment variables. Not exported: production code
// must never reload Tunables mid-process.
func resetForTest() {
	once = sync.Once{}
	frozen = nil
}
