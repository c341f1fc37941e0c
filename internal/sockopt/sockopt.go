// Package sockopt applies the TCP tuning every proxied and listening
// socket gets: TCP_NODELAY, keepalive idle/interval/count, optional
// SO_RCVBUF/SO_SNDBUF, and SO_REUSEADDR on dynamically opened listeners.
// Every tuning call is best-effort: a failure is logged and otherwise
// ignored, matching spec's "any tuning failure is non-fatal" contract.
package sockopt

import (
	"net"
	"time"

	"tum/internal/flog"
)

// Tune applies NODELAY, keepalive, and optional buffer sizes to an
// established TCP connection. keepaliveSecs configures idle and interval
// (count is fixed at 3, per spec); sockbuf <= 0 leaves the OS default.
func Tune(conn net.Conn, keepaliveSecs, sockbuf int) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tc.SetNoDelay(true); err != nil {
		flog.Debugf("sockopt: SetNoDelay failed: %v", flog.WErr(err))
	}
	if err := setKeepalive(tc, keepaliveSecs); err != nil {
		flog.Debugf("sockopt: keepalive tuning failed: %v", flog.WErr(err))
	}
	if sockbuf > 0 {
		if err := tc.SetReadBuffer(sockbuf); err != nil {
			flog.Debugf("sockopt: SetReadBuffer failed: %v", flog.WErr(err))
		}
		if err := tc.SetWriteBuffer(sockbuf); err != nil {
			flog.Debugf("sockopt: SetWriteBuffer failed: %v", flog.WErr(err))
		}
	}
}

// setKeepalive enables TCP keepalive with idle and interval both set to
// secs and a probe count of 3, using the stdlib's structured config
// first and falling back to a raw syscall path on platforms where that
// path errors (older kernels missing the named sockopts).
func setKeepalive(tc *net.TCPConn, secs int) error {
	if secs <= 0 {
		return tc.SetKeepAlive(false)
	}
	idle := time.Duration(secs) * time.Second
	cfg := net.KeepAliveConfig{
		Enable:   true,
		Idle:     idle,
		Interval: idle,
		Count:    3,
	}
	if err := tc.SetKeepAliveConfig(cfg); err != nil {
		return rawKeepaliveFallback(tc, secs, secs, 3)
	}
	return nil
}

// ListenConfigReuseAddr returns a net.ListenConfig whose Control callback
// sets SO_REUSEADDR before bind, so the listener controller can rebind a
// port immediately after closing it without waiting out TIME_WAIT.
func ListenConfigReuseAddr() net.ListenConfig {
	return net.ListenConfig{Control: reuseAddrControl}
}
