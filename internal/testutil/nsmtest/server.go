// Package nsmtest runs an in-process session server over loopback UDP for
// client integration tests.
package nsmtest

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/nsmclient/internal/protocol/nsm"
	"github.com/danmuck/nsmclient/internal/protocol/osc"
)

const DefaultTimeout = 2 * time.Second

var ErrNoClient = errors.New("nsmtest: no client has announced yet")

// Server speaks the server side of the protocol to exactly one client.
type Server struct {
	conn *net.UDPConn

	mu     sync.Mutex
	client *net.UDPAddr
}

// Start listens on an ephemeral loopback port and closes on test cleanup.
func Start(t testing.TB) *Server {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("nsmtest: listen: %v", err)
	}
	s := &Server{conn: conn}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// URL is the value a client expects in $NSM_URL.
func (s *Server) URL() string {
	return fmt.Sprintf("osc.udp://%s/", s.conn.LocalAddr().String())
}

// Next waits for one message from any peer and remembers the peer as the
// client.
func (s *Server) Next(timeout time.Duration) (*osc.Message, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	buf := make([]byte, 4096)
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	n, from, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.client = from
	s.mu.Unlock()
	return osc.Decode(buf[:n])
}

// Send delivers msg to the last client heard from.
func (s *Server) Send(msg *osc.Message) error {
	b, err := osc.Encode(msg)
	if err != nil {
		return err
	}
	return s.SendRaw(b)
}

// SendRaw delivers an arbitrary datagram, malformed ones included.
func (s *Server) SendRaw(b []byte) error {
	s.mu.Lock()
	to := s.client
	s.mu.Unlock()
	if to == nil {
		return ErrNoClient
	}
	_, err := s.conn.WriteToUDP(b, to)
	return err
}

// Accept answers one announce and assigns the client to open. It returns
// the parsed announce.
func (s *Server) Accept(reply nsm.AnnounceReply, open nsm.Open) (nsm.Announce, error) {
	msg, err := s.Next(DefaultTimeout)
	if err != nil {
		return nsm.Announce{}, err
	}
	announce, err := nsm.ParseAnnounce(msg)
	if err != nil {
		return nsm.Announce{}, err
	}
	if err := s.Send(reply.Message()); err != nil {
		return announce, err
	}
	return announce, s.Send(open.Message())
}

func (s *Server) Close() error {
	return s.conn.Close()
}
