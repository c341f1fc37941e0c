package bridgepool

import (
	"net"
	"testing"
	"time"
)

func newTestConn(t *testing.T) (net.Conn, net.Conn) {
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

func TestPutGetRoundTrip(t *testing.T) {
	p := New(4, time.Minute)
	client, server := newTestConn(t)
	defer client.Close()

	p.Put(&PooledConnection{Conn: server, CreatedAt: time.Now()})
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}

	got, ok := p.Get(time.Second)
	if !ok {
		t.Fatal("Get() = false, want true")
	}
	got.Close()
}

func TestGetTimesOutWhenEmpty(t *testing.T) {
	p := New(4, time.Minute)
	_, ok := p.Get(10 * time.Millisecond)
	if ok {
		t.Fatal("Get() = true on empty pool, want false")
	}
}

func TestPutClosesOnOverflow(t *testing.T) {
	p := New(1, time.Minute)

	client1, server1 := newTestConn(t)
	defer client1.Close()
	client2, server2 := newTestConn(t)
	defer client2.Close()
	defer server2.Close()

	p.Put(&PooledConnection{Conn: server1, CreatedAt: time.Now()})
	p.Put(&PooledConnection{Conn: server2, CreatedAt: time.Now()}) // overflow, closed

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}

	// server1's peer should still be readable/writable (it's the one kept).
	got, ok := p.Get(time.Second)
	if !ok {
		t.Fatal("expected a connection")
	}
	got.Close()
}

func TestRecycleStaleClosesOldEntries(t *testing.T) {
	p := New(4, 10*time.Millisecond)

	client, server := newTestConn(t)
	defer client.Close()

	pc := &PooledConnection{Conn: server, CreatedAt: time.Now().Add(-time.Hour)}
	p.Put(pc)

	closed := p.RecycleStale()
	if closed != 1 {
		t.Errorf("RecycleStale() closed %d, want 1", closed)
	}
	if p.Len() != 0 {
		t.Errorf("Len() after recycle = %d, want 0", p.Len())
	}
}

func TestRecycleStaleKeepsFreshEntries(t *testing.T) {
	p := New(4, time.Hour)

	client, server := newTestConn(t)
	defer client.Close()

	p.Put(&PooledConnection{Conn: server, CreatedAt: time.Now()})

	closed := p.RecycleStale()
	if closed != 0 {
		t.Errorf("RecycleStale() closed %d, want 0", closed)
	}
	if p.Len() != 1 {
		t.Errorf("Len() after recycle = %d, want 1", p.Len())
	}

	got, ok := p.Get(time.Second)
	if !ok {
		t.Fatal("expected surviving connection")
	}
	got.Close()
}

// An entry aged exactly maxAge is recycled: the boundary is >=, not >.
func TestRecycleStaleBoundaryIsInclusive(t *testing.T) {
	maxAge := 50 * time.Millisecond
	p := New(4, maxAge)

	client, server := newTestConn(t)
	defer client.Close()

	p.Put(&PooledConnection{Conn: server, CreatedAt: time.Now().Add(-maxAge)})

	closed := p.RecycleStale()
	if closed != 1 {
		t.Errorf("RecycleStale() closed %d entries aged exactly maxAge, want 1", closed)
	}
}

func TestPingerSendsHeartbeatAndRequeues(t *testing.T) {
	p := New(4, time.Hour)
	client, server := newTestConn(t)
	defer client.Close()
	defer server.Close()

	p.Put(&PooledConnection{Conn: server, CreatedAt: time.Now()})
	p.pingOnce()

	if p.Len() != 1 {
		t.Fatalf("Len() after ping = %d, want 1 (requeued)", p.Len())
	}

	buf := make([]byte, 2)
	client.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := client.Read(buf); err != nil {
		t.Fatalf("read heartbeat: %v", err)
	}
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("heartbeat bytes = %v, want [0 0]", buf)
	}
}
