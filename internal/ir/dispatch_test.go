package ir

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"tum/internal/bridgepool"
	"tum/internal/bufpool"
	"tum/internal/conf"
)

func init() {
	bufpool.Initialize(4096)
}

func testTunables() *conf.Tunables {
	tn := &conf.Tunables{}
	return tn
}

func dialedPair(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	acceptedCh := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		acceptedCh <- c
	}()
	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	server := <-acceptedCh
	return client, server
}

func TestAcquireTunnelWritesHeaderAndReturnsConn(t *testing.T) {
	tn := testTunables()
	tn.PoolWait = time.Second
	tn.PoolMaxAge = time.Hour

	pool := bridgepool.New(4, time.Hour)
	euSide, irSide := dialedPair(t)
	defer euSide.Close()

	pool.Put(&bridgepool.PooledConnection{Conn: irSide, CreatedAt: time.Now()})

	d := NewDispatcher(pool, tn, 0)
	got := d.acquireTunnel(8080)
	if got == nil {
		t.Fatal("acquireTunnel returned nil")
	}
	defer got.Close()

	header := make([]byte, 2)
	euSide.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := euSide.Read(header); err != nil {
		t.Fatalf("read header: %v", err)
	}
	if binary.BigEndian.Uint16(header) != 8080 {
		t.Errorf("header = %v, want port 8080", header)
	}
}

func TestAcquireTunnelSkipsStaleConnections(t *testing.T) {
	tn := testTunables()
	tn.PoolWait = 200 * time.Millisecond
	tn.PoolMaxAge = 10 * time.Millisecond

	pool := bridgepool.New(4, time.Hour)
	_, stale := dialedPair(t)
	pool.Put(&bridgepool.PooledConnection{Conn: stale, CreatedAt: time.Now().Add(-time.Hour)})

	d := NewDispatcher(pool, tn, 0)
	got := d.acquireTunnel(8080)
	if got != nil {
		t.Error("acquireTunnel should return nil when only a stale connection is available")
		got.Close()
	}
}

func TestAcquireTunnelTimesOutOnEmptyPool(t *testing.T) {
	tn := testTunables()
	tn.PoolWait = 50 * time.Millisecond
	tn.PoolMaxAge = time.Hour

	pool := bridgepool.New(4, time.Hour)
	d := NewDispatcher(pool, tn, 0)

	start := time.Now()
	got := d.acquireTunnel(8080)
	if got != nil {
		t.Error("expected nil on empty pool")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Error("acquireTunnel returned before pool_wait elapsed")
	}
}

func TestHandleEnforcesMaxSessions(t *testing.T) {
	tn := testTunables()
	tn.PoolWait = 10 * time.Millisecond
	tn.PoolMaxAge = time.Hour

	pool := bridgepool.New(4, time.Hour)
	d := NewDispatcher(pool, tn, 1)
	d.sessionSem <- struct{}{} // fill the only slot

	client, server := dialedPair(t)
	defer client.Close()

	d.Handle(8080, server)

	buf := make([]byte, 1)
	client.SetReadDeadline(time.Now().Add(time.Second))
	_, err := client.Read(buf)
	if err == nil {
		t.Error("expected connection to be closed when max_sessions is exhausted")
	}
}
