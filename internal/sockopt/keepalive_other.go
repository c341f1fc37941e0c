//go:build !unix

package sockopt

import (
	"net"
	"syscall"
)

func rawKeepaliveFallback(tc *net.TCPConn, idleSecs, intervalSecs, count int) error {
	return nil
}

func reuseAddrControl(network, address string, c syscall.RawConn) error {
	return nil
}
