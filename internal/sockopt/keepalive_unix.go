//go:build unix

package sockopt

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Numeric fallbacks for platforms/kernels where the named TCP_KEEPIDLE/
// TCP_KEEPINTVL/TCP_KEEPCNT constants aren't exposed by golang.org/x/sys:
// these are the stable Linux option numbers (4, 5, 6).
const (
	tcpKeepIdle  = 4
	tcpKeepIntvl = 5
	tcpKeepCnt   = 6
)

func rawKeepaliveFallback(tc *net.TCPConn, idleSecs, intervalSecs, count int) error {
	raw, err := tc.SyscallConn()
	if err != nil {
		return err
	}
	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); e != nil {
			ctrlErr = e
			return
		}
		if e := setsockoptIdle(int(fd), idleSecs); e != nil {
			ctrlErr = e
			return
		}
		if e := setsockoptIntvl(int(fd), intervalSecs); e != nil {
			ctrlErr = e
			return
		}
		if e := setsockoptCnt(int(fd), count); e != nil {
			ctrlErr = e
			return
		}
	})
	if err != nil {
		return err
	}
	return ctrlErr
}

func setsockoptIdle(fd, v int) error {
	if err := unix.SetsockoptInt(fd, syscall.IPPROTO_TCP, unix.TCP_KEEPIDLE, v); err == nil {
		return nil
	}
	return unix.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepIdle, v)
}

func setsockoptIntvl(fd, v int) error {
	if err := unix.SetsockoptInt(fd, syscall.IPPROTO_TCP, unix.TCP_KEEPINTVL, v); err == nil {
		return nil
	}
	return unix.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepIntvl, v)
}

func setsockoptCnt(fd, v int) error {
	if err := unix.SetsockoptInt(fd, syscall.IPPROTO_TCP, unix.TCP_KEEPCNT, v); err == nil {
		return nil
	}
	return unix.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepCnt, v)
}

func reuseAddrControl(network, address string, c syscall.RawConn) error {
	var ctrlErr error
	err := c.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); e != nil {
			ctrlErr = e
		}
	})
	if err != nil {
		return err
	}
	return ctrlErr
}
