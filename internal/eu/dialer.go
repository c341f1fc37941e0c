// Package eu implements the EU-side roles: the dialer pool that keeps N
// connections open toward IR's bridge port, the AutoSync client that
// reports locally listening ports, and local dialing on assignment.
package eu

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"tum/internal/conf"
	"tum/internal/flog"
	"tum/internal/proxy"
	"tum/internal/sockopt"
	"tum/internal/supervisor"
)

const (
	dialerBackoffStart = 200 * time.Millisecond
	dialerBackoffCap   = 5 * time.Second
)

// pool-wide stagger slots shared by every worker spawned from a single
// StartDialerPool call; see staggerSource for why a shared, mutex-guarded
// round robin beats a per-worker-id constant.
var poolStagger *staggerSource

// StartDialerPool spawns n dialer workers under supervision, each
// staggering its initial dial and every subsequent reconnect through a
// shared round-robin delay source so a large pool doesn't burst-SYN
// after a shared upstream hiccup.
func StartDialerPool(stop <-chan struct{}, n int, cfg *conf.EUConfig, t *conf.Tunables) {
	poolStagger = newStaggerSource(n)
	dialSem := make(chan struct{}, t.DialConcurrency)
	for i := 0; i < n; i++ {
		go runDialerWorker(stop, i, cfg, t, dialSem)
	}
}

func runDialerWorker(stop <-chan struct{}, workerID int, cfg *conf.EUConfig, t *conf.Tunables, dialSem chan struct{}) {
	supervisor.RunWithBackoff(
		fmt.Sprintf("eu-dialer-%d", workerID),
		stop,
		func(stop <-chan struct{}, reset func()) error {
			select {
			case <-stop:
				return nil
			case <-time.After(poolStagger.next()):
			}
			return runOnce(stop, cfg, t, dialSem)
		},
		dialerBackoffStart, dialerBackoffCap,
	)
}

func runOnce(stop <-chan struct{}, cfg *conf.EUConfig, t *conf.Tunables, dialSem chan struct{}) error {
	select {
	case dialSem <- struct{}{}:
	case <-stop:
		return nil
	}

	addr := net.JoinHostPort(cfg.IranIP, fmt.Sprintf("%d", cfg.BridgePort))
	bridgeConn, err := net.DialTimeout("tcp", addr, t.DialTimeout)
	<-dialSem // the semaphore bounds concurrent dials, not live connections
	if err != nil {
		return fmt.Errorf("dial bridge %s: %w", addr, err)
	}
	sockopt.Tune(bridgeConn, t.KeepaliveSecs, t.Sockbuf)

	header := make([]byte, 2)
	if _, err := readFull(bridgeConn, header); err != nil {
		bridgeConn.Close()
		return fmt.Errorf("read assignment header: %w", err)
	}
	port := binary.BigEndian.Uint16(header)

	for port == 0 {
		// Heartbeat: keep reading without consuming an assignment.
		if _, err := readFull(bridgeConn, header); err != nil {
			bridgeConn.Close()
			return fmt.Errorf("read header after heartbeat: %w", err)
		}
		port = binary.BigEndian.Uint16(header)
	}

	localAddr := net.JoinHostPort(t.EULocalHost, fmt.Sprintf("%d", port))
	localConn, err := net.DialTimeout("tcp", localAddr, t.DialTimeout)
	if err != nil {
		bridgeConn.Close()
		return fmt.Errorf("dial local %s: %w", localAddr, err)
	}
	sockopt.Tune(localConn, t.KeepaliveSecs, t.Sockbuf)

	flog.Debugf("eu: dialed local port %d for assignment", port)
	// proxy.Run always closes both ends on teardown (§4.5's write-half-close
	// then full close contract), so there is nothing left to proactively
	// close here afterward regardless of how long the connection lived.
	proxy.Run(localConn, bridgeConn, t.CopyChunk, t.DrainThreshold, t.SessionIdle)
	return nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
