package client

import (
	"errors"
	"strings"
	"time"

	"github.com/danmuck/nsmclient/internal/lifecycle"
	"github.com/danmuck/nsmclient/internal/transport"
)

// EnvServerURL names the environment value the session server sets for its
// clients, formatted as osc.udp://host:port/.
const EnvServerURL = "NSM_URL"

var (
	ErrServerNotRunning     = errors.New("client: session server not running ($NSM_URL not set)")
	ErrPrettyNameRequired   = errors.New("client: pretty name required")
	ErrHostRequired         = errors.New("client: host required")
	ErrOpenFailed           = errors.New("client: host open callback failed")
	ErrInvalidBroadcastPath = errors.New("client: broadcast path must begin with '/'")
)

// Config configures one client. The zero value plus PrettyName is usable.
type Config struct {
	// PrettyName is the application name shown by the server.
	PrettyName string
	// SupportsSaveStatus advertises the "dirty" capability.
	SupportsSaveStatus bool
	// ServerURL overrides $NSM_URL.
	ServerURL string
	// ExecutableName overrides the name derived from os.Args[0]. It must
	// still resolve on $PATH.
	ExecutableName string
	// HandshakeTimeout bounds each blocking handshake receive. Zero blocks
	// until the server answers.
	HandshakeTimeout time.Duration
	// ReceiveBufferSize bounds one incoming datagram.
	ReceiveBufferSize int

	// Transport replaces the UDP socket.
	Transport transport.Transport
	// Signals replaces the SIGINT/SIGTERM subscription.
	Signals *lifecycle.Bridge
	// Terminate replaces the hard kill that ends the exit path.
	Terminate lifecycle.Terminator
	// SelfTerminate replaces the local SIGTERM used when the server cannot
	// stop this client.
	SelfTerminate func() error
}

func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:  0,
		ReceiveBufferSize: 4096,
	}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	c.PrettyName = strings.TrimSpace(c.PrettyName)
	c.ServerURL = strings.TrimSpace(c.ServerURL)
	c.ExecutableName = strings.TrimSpace(c.ExecutableName)
	if c.HandshakeTimeout < 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.ReceiveBufferSize <= 0 {
		c.ReceiveBufferSize = def.ReceiveBufferSize
	}
	return c
}
