package ir

import (
	"encoding/binary"
	"net"
	"time"

	"tum/internal/bridgepool"
	"tum/internal/conf"
	"tum/internal/flog"
	"tum/internal/proxy"
	"tum/internal/sockopt"
)

// Dispatcher draws a pool connection for each inbound user session,
// writes the target port header, and hands off to the bidirectional
// proxy. sessionSem is an optional global concurrency limiter (nil when
// max_sessions is 0, i.e. unbounded).
type Dispatcher struct {
	pool       *bridgepool.Pool
	t          *conf.Tunables
	sessionSem chan struct{}
}

// NewDispatcher builds a Dispatcher drawing from pool under t's tunables.
// maxSessions <= 0 disables the global session cap.
func NewDispatcher(pool *bridgepool.Pool, t *conf.Tunables, maxSessions int) *Dispatcher {
	d := &Dispatcher{pool: pool, t: t}
	if maxSessions > 0 {
		d.sessionSem = make(chan struct{}, maxSessions)
	}
	return d
}

// Handle services one user connection on port p: it is the callback
// wired into ListenerController.onConnect.
func (d *Dispatcher) Handle(p int, userConn net.Conn) {
	sockopt.Tune(userConn, d.t.KeepaliveSecs, d.t.Sockbuf)

	if d.sessionSem != nil {
		select {
		case d.sessionSem <- struct{}{}:
			defer func() { <-d.sessionSem }()
		default:
			flog.Warnf("ir: max_sessions reached, dropping connection on port %d", p)
			userConn.Close()
			return
		}
	}

	tunnel := d.acquireTunnel(p)
	if tunnel == nil {
		userConn.Close()
		return
	}

	proxy.Run(userConn, tunnel, d.t.CopyChunk, d.t.DrainThreshold, d.t.SessionIdle)
}

// acquireTunnel draws pool connections within pool_wait until one is
// found healthy (not past pool_max_age) and accepts the header write,
// or the deadline expires.
func (d *Dispatcher) acquireTunnel(p int) net.Conn {
	deadline := time.Now().Add(d.t.PoolWait)
	header := make([]byte, 2)
	binary.BigEndian.PutUint16(header, uint16(p))

	for time.Now().Before(deadline) {
		remaining := time.Until(deadline)
		pc, ok := d.pool.Get(remaining)
		if !ok {
			return nil
		}
		if pc.Age() >= d.t.PoolMaxAge {
			pc.Close()
			continue
		}
		pc.Conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if _, err := pc.Conn.Write(header); err != nil {
			flog.Debugf("ir: header write failed, drawing again: %v", flog.WErr(err))
			pc.Close()
			continue
		}
		pc.Conn.SetWriteDeadline(time.Time{})
		return pc.Conn
	}
	return nil
}
