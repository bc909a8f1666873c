package client

import (
	"fmt"
	"net"
	"os"

	"github.com/danmuck/nsmclient/internal/lifecycle"
	"github.com/danmuck/nsmclient/internal/protocol/nsm"
	"github.com/danmuck/nsmclient/internal/protocol/osc"
	"github.com/danmuck/nsmclient/internal/tools"
	"github.com/danmuck/nsmclient/internal/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Identity is fixed by the handshake and read-only afterwards.
type Identity struct {
	Session
	ServerAddr         *net.UDPAddr
	ServerCapabilities nsm.Capabilities
	ServerName         string
	Welcome            string
	PrettyName         string
	ExecutableName     string
	PID                int
}

// NSMClient is a client attached to a running session server.
type NSMClient struct {
	cfg       Config
	transport transport.Transport
	signals   *lifecycle.Bridge
	host      Host
	gui       GUI
	broadcast BroadcastReceiver
	identity  Identity
	buf       []byte
	log       zerolog.Logger

	clean      bool
	guiVisible bool
}

// New announces the host to the session server and blocks until the server
// has assigned a session and the host's Open callback has returned.
//
// Startup failures are not retried. ErrServerNotRunning is returned before
// any other check so hosts can fall back to NullClient.
func New(cfg Config, host Host) (*NSMClient, error) {
	cfg = cfg.WithDefaults()
	rawURL := cfg.ServerURL
	if rawURL == "" {
		rawURL = os.Getenv(EnvServerURL)
	}
	if rawURL == "" {
		return nil, ErrServerNotRunning
	}
	if cfg.PrettyName == "" {
		return nil, ErrPrettyNameRequired
	}
	if host == nil {
		return nil, ErrHostRequired
	}
	serverAddr, err := transport.ParseServerURL(rawURL)
	if err != nil {
		return nil, err
	}
	exe, err := executableName(cfg.ExecutableName)
	if err != nil {
		return nil, err
	}

	c := &NSMClient{
		cfg:   cfg,
		host:  host,
		buf:   make([]byte, cfg.ReceiveBufferSize),
		clean: true,
		log:   log.With().Str("client", cfg.PrettyName).Logger(),
		identity: Identity{
			ServerAddr:     serverAddr,
			PrettyName:     cfg.PrettyName,
			ExecutableName: exe,
			PID:            os.Getpid(),
		},
	}
	if g, ok := host.(GUI); ok {
		c.gui = g
	}
	if b, ok := host.(BroadcastReceiver); ok {
		c.broadcast = b
	}

	c.transport = cfg.Transport
	if c.transport == nil {
		udp, err := transport.ListenUDP(serverAddr)
		if err != nil {
			return nil, err
		}
		udp.SetReceiveTimeout(cfg.HandshakeTimeout)
		c.transport = udp
	}
	c.signals = cfg.Signals
	if c.signals == nil {
		c.signals = lifecycle.Listen()
	}

	c.log.Info().Str("server", serverAddr.String()).Msg("starting session client")
	if err := c.handshake(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func executableName(override string) (string, error) {
	if override != "" {
		return tools.ExecutableName(override)
	}
	return tools.CurrentExecutableName()
}

// handshake: announce -> /reply -> /nsm/client/open -> host Open -> /reply.
func (c *NSMClient) handshake() error {
	announce := nsm.Announce{
		ApplicationName: c.identity.PrettyName,
		Capabilities:    nsm.ClientCapabilities(c.cfg.SupportsSaveStatus, c.gui != nil),
		ExecutableName:  c.identity.ExecutableName,
		APIMajor:        nsm.APIVersionMajor,
		APIMinor:        nsm.APIVersionMinor,
		PID:             int32(c.identity.PID),
	}
	msg, err := announce.Message()
	if err != nil {
		return err
	}
	if err := c.send(msg); err != nil {
		return fmt.Errorf("client: send announce: %w", err)
	}

	msg, err = c.receiveBlocking()
	if err != nil {
		return fmt.Errorf("client: await announce reply: %w", err)
	}
	reply, err := nsm.ParseAnnounceReply(msg)
	if err != nil {
		return err
	}
	c.identity.Welcome = reply.Welcome
	c.identity.ServerName = reply.ManagerName
	c.identity.ServerCapabilities = nsm.ParseCapabilities(reply.ServerCapabilities)
	c.log.Info().
		Str("server_name", reply.ManagerName).
		Str("welcome", reply.Welcome).
		Strs("server_capabilities", c.identity.ServerCapabilities.Tokens()).
		Msg("announce accepted")

	msg, err = c.receiveBlocking()
	if err != nil {
		return fmt.Errorf("client: await open: %w", err)
	}
	open, err := nsm.ParseOpen(msg)
	if err != nil {
		return err
	}
	c.identity.Session = Session{
		Path:        open.Path,
		Name:        open.SessionName,
		ClientLabel: open.ClientLabel,
		ClientID:    open.ClientID(),
	}
	c.log = log.With().Str("client", open.ClientLabel).Logger()

	c.log.Info().Str("path", open.Path).Str("session", open.SessionName).Msg("telling host to open or create")
	if err := c.host.Open(c.identity.Session); err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	c.log.Info().Str("path", open.Path).Msg("host finished opening")

	if err := c.send(nsm.Reply(nsm.PathClientOpen, c.identity.PrettyName+" is opened or created")); err != nil {
		return fmt.Errorf("client: acknowledge open: %w", err)
	}
	return nil
}

func (c *NSMClient) receiveBlocking() (*osc.Message, error) {
	n, err := c.transport.Receive(c.buf)
	if err != nil {
		return nil, err
	}
	return osc.Decode(c.buf[:n])
}

func (c *NSMClient) Managed() bool {
	return true
}

func (c *NSMClient) Session() Session {
	return c.identity.Session
}

// Identity returns a copy of the handshake results.
func (c *NSMClient) Identity() Identity {
	id := c.identity
	id.ServerCapabilities = nsm.NewCapabilities(c.identity.ServerCapabilities.Tokens()...)
	return id
}

// IsClean reports the last save status announced to the server.
func (c *NSMClient) IsClean() bool {
	return c.clean
}

// GUIVisible reports the last visibility announced to the server.
func (c *NSMClient) GUIVisible() bool {
	return c.guiVisible
}

// Close releases the socket and the signal subscription.
func (c *NSMClient) Close() error {
	c.signals.Stop()
	if c.transport == nil {
		return nil
	}
	return c.transport.Close()
}
