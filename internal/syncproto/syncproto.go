// Package syncproto encodes and decodes the AutoSync wire messages EU
// sends to IR over the sync channel: the preferred PT1 framing and the
// legacy framing still emitted by older EU builds.
package syncproto

import (
	"encoding/binary"
	"errors"
	"io"
)

var magic = [3]byte{'P', 'T', '1'}

// ErrProtocol marks a malformed message; callers close the connection
// without propagating it further.
var ErrProtocol = errors.New("syncproto: protocol violation")

// EncodePT1 frames ports as "PT1" + u16 count + count*u16 port, all
// big-endian. count is truncated to maxPorts before encoding.
func EncodePT1(ports []int, maxPorts int) []byte {
	if maxPorts > 0 && len(ports) > maxPorts {
		ports = ports[:maxPorts]
	}
	buf := make([]byte, 3+2+2*len(ports))
	copy(buf, magic[:])
	binary.BigEndian.PutUint16(buf[3:5], uint16(len(ports)))
	for i, p := range ports {
		binary.BigEndian.PutUint16(buf[5+2*i:7+2*i], uint16(p))
	}
	return buf
}

// ReadMessage reads one message from r, auto-detecting PT1 vs legacy
// framing from a 3-byte peek, and returns the decoded, range-filtered
// port list. Ports outside [1,65535] are silently dropped. count is
// clamped to maxPorts.
//
// Detection: if the 3-byte peek equals "PT1", it is consumed as the
// magic and a u16 count follows. Otherwise the peek's first byte is
// itself the legacy 8-bit count, and the peek's remaining two bytes are
// already the first port header of the legacy message — they must be
// treated as payload, not re-read.
func ReadMessage(r io.Reader, maxPorts int) ([]int, error) {
	var peek [3]byte
	if _, err := io.ReadFull(r, peek[:]); err != nil {
		return nil, err
	}

	if peek == magic {
		return readPT1Body(r, maxPorts)
	}
	return readLegacyBody(r, peek, maxPorts)
}

func readPT1Body(r io.Reader, maxPorts int) ([]int, error) {
	var cb [2]byte
	if _, err := io.ReadFull(r, cb[:]); err != nil {
		return nil, err
	}
	count := int(binary.BigEndian.Uint16(cb[:]))
	if maxPorts > 0 && count > maxPorts {
		count = maxPorts
	}
	return readPorts(r, count)
}

// readLegacyBody handles the exact byte-alignment quirk of the legacy
// framing: peek[0] is the 8-bit count, and peek[1:3] is already the
// first port's two bytes, not a fresh read.
func readLegacyBody(r io.Reader, peek [3]byte, maxPorts int) ([]int, error) {
	count := int(peek[0])
	if maxPorts > 0 && count > maxPorts {
		count = maxPorts
	}
	if count == 0 {
		return []int{}, nil
	}

	ports := make([]int, 0, count)
	first := int(binary.BigEndian.Uint16(peek[1:3]))
	if first >= 1 && first <= 65535 {
		ports = append(ports, first)
	}

	rest, err := readPorts(r, count-1)
	if err != nil {
		return nil, err
	}
	return append(ports, rest...), nil
}

func readPorts(r io.Reader, count int) ([]int, error) {
	if count <= 0 {
		return []int{}, nil
	}
	buf := make([]byte, 2*count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	ports := make([]int, 0, count)
	for i := 0; i < count; i++ {
		p := int(binary.BigEndian.Uint16(buf[2*i : 2*i+2]))
		if p >= 1 && p <= 65535 {
			ports = append(ports, p)
		}
	}
	return ports, nil
}
