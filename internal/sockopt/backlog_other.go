//go:build !unix

package sockopt

import (
	"context"
	"net"
)

// ListenBacklog falls back to the portable ListenConfig path on
// platforms without the raw socket/bind/listen syscalls this needs;
// backlog is accepted for signature parity but left to the OS default.
func ListenBacklog(address string, backlog int) (net.Listener, error) {
	return ListenConfigReuseAddr().Listen(context.Background(), "tcp", address)
}
