package sockopt

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestTuneDoesNotPanicOnTCPConn(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		c, err := ln.Accept()
		if err == nil {
			Tune(c, 30, 0)
			c.Close()
		}
		close(done)
	}()

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	Tune(c, 30, 4096)
	c.Close()
	<-done
}

func TestTuneIgnoresNonTCPConn(t *testing.T) {
	// Tune must not panic for a non-TCPConn (e.g. a test double).
	Tune(nil, 30, 0)
}

func TestListenConfigReuseAddrBinds(t *testing.T) {
	lc := ListenConfigReuseAddr()
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen with reuseaddr control: %v", err)
	}
	ln.Close()
}

func TestListenBacklogAcceptsConnections(t *testing.T) {
	ln, err := ListenBacklog("127.0.0.1:0", 4)
	if err != nil {
		t.Fatalf("ListenBacklog: %v", err)
	}
	defer ln.Close()

	acceptedCh := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		acceptedCh <- c
	}()

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	select {
	case accepted := <-acceptedCh:
		accepted.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("listener never accepted the connection")
	}
}

func TestListenBacklogZeroUsesDefault(t *testing.T) {
	ln, err := ListenBacklog("127.0.0.1:0", 0)
	if err != nil {
		t.Fatalf("ListenBacklog with backlog=0: %v", err)
	}
	ln.Close()
}
