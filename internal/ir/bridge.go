// Package ir implements the IR-side roles: the bridge acceptor that
// enqueues EU connections into the pool, the listener controller that
// opens/closes user-facing ports to match DesiredPortSet, the session
// dispatcher, and the AutoSync acceptor.
package ir

import (
	"fmt"
	"net"
	"time"

	"tum/internal/bridgepool"
	"tum/internal/conf"
	"tum/internal/flog"
	"tum/internal/sockopt"
)

// RunBridgeAcceptor accepts TCP connections on bridge_port and enqueues
// each one into pool as a PooledConnection. It returns when the
// listener is closed (stop fired) or on an unrecoverable accept error.
func RunBridgeAcceptor(stop <-chan struct{}, bind string, port int, backlog int, t *conf.Tunables, pool *bridgepool.Pool) error {
	addr := net.JoinHostPort(bind, fmt.Sprintf("%d", port))
	ln, err := sockopt.ListenBacklog(addr, backlog)
	if err != nil {
		return fmt.Errorf("bridge acceptor: listen %s: %w", addr, err)
	}
	flog.Infof("ir: bridge acceptor listening on %s", addr)

	go func() {
		<-stop
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-stop:
				return nil
			default:
				return fmt.Errorf("bridge acceptor: accept: %w", err)
			}
		}
		sockopt.Tune(conn, t.KeepaliveSecs, t.Sockbuf)
		pool.Put(&bridgepool.PooledConnection{Conn: conn, CreatedAt: time.Now()})
	}
}
