package eu

import (
	"fmt"
	"net"
	"time"

	"tum/internal/conf"
	"tum/internal/flog"
	"tum/internal/sockopt"
	"tum/internal/supervisor"
	"tum/internal/syncproto"
)

const (
	autoSyncBackoffStart = 500 * time.Millisecond
	autoSyncBackoffCap   = 5 * time.Second
	warnRateLimit        = 60 * time.Second
)

// RunAutoSyncClient periodically reports EU's listening TCP ports to
// IR's sync port until stop fires. Reconnects use exponential backoff
// and warnings are rate-limited so a disabled-sync IR peer doesn't flood
// the log.
func RunAutoSyncClient(stop <-chan struct{}, cfg *conf.EUConfig, t *conf.Tunables) {
	var lastWarn time.Time
	warn := func(format string, args ...any) {
		if time.Since(lastWarn) < warnRateLimit {
			return
		}
		lastWarn = time.Now()
		flog.Warnf(format, args...)
	}

	supervisor.RunWithBackoff("eu-autosync", stop, func(stop <-chan struct{}, reset func()) error {
		addr := net.JoinHostPort(cfg.IranIP, fmt.Sprintf("%d", cfg.SyncPort))
		conn, err := net.DialTimeout("tcp", addr, t.DialTimeout)
		if err != nil {
			warn("eu: autosync dial %s failed: %v", addr, err)
			return err
		}
		defer conn.Close()
		sockopt.Tune(conn, t.KeepaliveSecs, 0)
		flog.Infof("eu: autosync connected to %s", addr)
		// A successful dial is forward progress even though this task
		// keeps running past it: collapse the backoff now instead of
		// leaving it wherever a prior transient failure left it, since
		// this loop only returns nil on shutdown.
		reset()

		ticker := time.NewTicker(t.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return nil
			case <-ticker.C:
				ports := filterPorts(listeningPorts(), cfg.BridgePort, cfg.SyncPort)
				msg := syncproto.EncodePT1(ports, t.MaxSyncPorts)
				conn.SetWriteDeadline(time.Now().Add(t.DialTimeout))
				if _, err := conn.Write(msg); err != nil {
					warn("eu: autosync send failed: %v", err)
					return err
				}
			}
		}
	}, autoSyncBackoffStart, autoSyncBackoffCap)
}

func filterPorts(ports []int, exclude ...int) []int {
	skip := make(map[int]struct{}, len(exclude))
	for _, p := range exclude {
		skip[p] = struct{}{}
	}
	out := make([]int, 0, len(ports))
	for _, p := range ports {
		if _, ok := skip[p]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
