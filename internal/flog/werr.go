package flog

import (
	"errors"
	"io"
	"net"
	"strings"
)

// WErr filters transient network errors that are normal teardown on lossy
// links (reset, broken pipe, EOF, use of closed connection) out of the log
// stream: it returns nil for those and the error unchanged otherwise. Callers
// pass an error as a logf argument; logf/Fatalf drop the whole line when
// WErr returns nil for one of the arguments.
func WErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	msg := err.Error()
	for _, sub := range []string{"connection reset", "broken pipe", "use of closed network connection"} {
		if strings.Contains(msg, sub) {
			return nil
		}
	}
	return err
}
