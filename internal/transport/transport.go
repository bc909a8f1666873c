// Package transport is the datagram facade between a client and its
// session server.
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// SchemeOSCUDP is the only scheme accepted in a server URL.
const SchemeOSCUDP = "osc.udp"

var (
	ErrInvalidServerURL = errors.New("transport: invalid server url")
	ErrClosed           = errors.New("transport: closed")
)

// Transport sends datagrams to one server and receives datagrams from any
// peer. It is owned by a single client and not safe for concurrent use.
type Transport interface {
	// Send writes one datagram to the server.
	Send(b []byte) error
	// Receive blocks until one datagram arrives, or the receive timeout
	// elapses when one is set.
	Receive(buf []byte) (int, error)
	// TryReceive reads one datagram if one is queued. ok is false when
	// nothing was available; that is not an error.
	TryReceive(buf []byte) (n int, ok bool, err error)
	Close() error
}

// ParseServerURL resolves "osc.udp://host:port/" to a UDP address.
func ParseServerURL(raw string) (*net.UDPAddr, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidServerURL, raw, err)
	}
	if u.Scheme != SchemeOSCUDP {
		return nil, fmt.Errorf("%w: %q: scheme must be %s", ErrInvalidServerURL, raw, SchemeOSCUDP)
	}
	if u.Hostname() == "" || u.Port() == "" {
		return nil, fmt.Errorf("%w: %q: host and port required", ErrInvalidServerURL, raw)
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(u.Hostname(), u.Port()))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidServerURL, raw, err)
	}
	return addr, nil
}

// UDP is a Transport over an unconnected UDP socket bound to an ephemeral
// port.
type UDP struct {
	conn    *net.UDPConn
	server  *net.UDPAddr
	timeout time.Duration
}

// ListenUDP binds a free local port for talking to server.
func ListenUDP(server *net.UDPAddr) (*UDP, error) {
	if server == nil {
		return nil, fmt.Errorf("%w: missing server address", ErrInvalidServerURL)
	}
	network := "udp4"
	if server.IP.To4() == nil {
		network = "udp6"
	}
	conn, err := net.ListenUDP(network, nil)
	if err != nil {
		return nil, err
	}
	return &UDP{conn: conn, server: server}, nil
}

// SetReceiveTimeout bounds blocking receives. Zero blocks indefinitely.
func (u *UDP) SetReceiveTimeout(d time.Duration) {
	u.timeout = d
}

func (u *UDP) LocalAddr() *net.UDPAddr {
	return u.conn.LocalAddr().(*net.UDPAddr)
}

func (u *UDP) ServerAddr() *net.UDPAddr {
	return u.server
}

func (u *UDP) Send(b []byte) error {
	if u.conn == nil {
		return ErrClosed
	}
	_, err := u.conn.WriteToUDP(b, u.server)
	return err
}

func (u *UDP) Receive(buf []byte) (int, error) {
	if u.conn == nil {
		return 0, ErrClosed
	}
	deadline := time.Time{}
	if u.timeout > 0 {
		deadline = time.Now().Add(u.timeout)
	}
	if err := u.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	n, _, err := u.conn.ReadFromUDP(buf)
	return n, err
}

// TryReceive issues a single recvfrom with MSG_DONTWAIT so the runtime
// poller never parks the caller.
func (u *UDP) TryReceive(buf []byte) (int, bool, error) {
	if u.conn == nil {
		return 0, false, ErrClosed
	}
	// An expired deadline from Receive would fail the raw read.
	if err := u.conn.SetReadDeadline(time.Time{}); err != nil {
		return 0, false, err
	}
	raw, err := u.conn.SyscallConn()
	if err != nil {
		return 0, false, err
	}
	var n int
	var recvErr error
	err = raw.Read(func(fd uintptr) bool {
		n, _, recvErr = unix.Recvfrom(int(fd), buf, unix.MSG_DONTWAIT)
		return true
	})
	if err != nil {
		return 0, false, err
	}
	if errors.Is(recvErr, unix.EAGAIN) || errors.Is(recvErr, unix.EWOULDBLOCK) {
		return 0, false, nil
	}
	if recvErr != nil {
		return 0, false, recvErr
	}
	return n, true, nil
}

func (u *UDP) Close() error {
	if u.conn == nil {
		return nil
	}
	err := u.conn.Close()
	u.conn = nil
	return err
}
