package bridgepool

import (
	"encoding/binary"
	"time"

	"tum/internal/flog"
)

// RunPinger drains the queue every interval; entries aged the pool's
// maxAge or older are closed, the rest receive a 2-byte zero heartbeat
// with a 1s drain timeout. Survivors are requeued; failures are closed.
// It only returns when stop fires.
func (p *Pool) RunPinger(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.pingOnce()
		}
	}
}

func (p *Pool) pingOnce() {
	p.drainMu.Lock()
	n := len(p.ch)
	entries := make([]*PooledConnection, 0, n)
	for i := 0; i < n; i++ {
		select {
		case c := <-p.ch:
			entries = append(entries, c)
		default:
			i = n
		}
	}
	p.drainMu.Unlock()

	heartbeat := make([]byte, 2)
	binary.BigEndian.PutUint16(heartbeat, 0)

	for _, c := range entries {
		if c.Age() >= p.maxAge {
			c.Close()
			continue
		}
		c.Conn.SetWriteDeadline(time.Now().Add(1 * time.Second))
		_, err := c.Conn.Write(heartbeat)
		c.Conn.SetWriteDeadline(time.Time{})
		if err != nil {
			flog.Debugf("pool heartbeat failed, dropping connection: %v", flog.WErr(err))
			c.Close()
			continue
		}
		p.Put(c)
	}
}

// RunRecycler calls RecycleStale every interval until stop fires.
func (p *Pool) RunRecycler(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := p.RecycleStale(); n > 0 {
				flog.Debugf("recycler closed %d stale pool connections", n)
			}
		}
	}
}
