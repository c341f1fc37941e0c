package ir

import (
	"fmt"
	"io"
	"net"

	"tum/internal/conf"
	"tum/internal/flog"
	"tum/internal/sockopt"
	"tum/internal/syncproto"
)

// RunAutoSyncAcceptor accepts connections on sync_port and applies every
// successfully parsed message to ctrl via ApplyDesired. Parse errors
// close the offending connection without affecting others.
func RunAutoSyncAcceptor(stop <-chan struct{}, bind string, port int, backlog int, t *conf.Tunables, ctrl *ListenerController) error {
	addr := net.JoinHostPort(bind, fmt.Sprintf("%d", port))
	ln, err := sockopt.ListenBacklog(addr, backlog)
	if err != nil {
		return fmt.Errorf("autosync acceptor: listen %s: %w", addr, err)
	}
	flog.Infof("ir: autosync acceptor listening on %s", addr)

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
				return fmt.Errorf("autosync acceptor: accept: %w", err)
			}
		}
		sockopt.Tune(conn, t.KeepaliveSecs, 0)
		go handleSyncConn(conn, t, ctrl)
	}
}

func handleSyncConn(conn net.Conn, t *conf.Tunables, ctrl *ListenerController) {
	defer conn.Close()
	for {
		ports, err := syncproto.ReadMessage(conn, t.MaxSyncPorts)
		if err != nil {
			if err != io.EOF {
				flog.Debugf("ir: autosync parse error, closing connection: %v", flog.WErr(err))
			}
			return
		}
		ctrl.ApplyDesired(ports)
	}
}
