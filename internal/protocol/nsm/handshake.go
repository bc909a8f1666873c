package nsm

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/danmuck/nsmclient/internal/protocol/osc"
)

var (
	ErrInvalidAnnounce = errors.New("nsm: invalid announce")
	ErrUnexpectedReply = errors.New("nsm: unexpected announce reply")
	ErrUnexpectedOpen  = errors.New("nsm: unexpected open instruction")
)

// Announce is the client->server session-start message.
type Announce struct {
	ApplicationName string
	Capabilities    string
	ExecutableName  string
	APIMajor        int32
	APIMinor        int32
	PID             int32
}

func (a Announce) Validate() error {
	if strings.TrimSpace(a.ApplicationName) == "" {
		return fmt.Errorf("%w: missing application name", ErrInvalidAnnounce)
	}
	if strings.TrimSpace(a.ExecutableName) == "" {
		return fmt.Errorf("%w: missing executable name", ErrInvalidAnnounce)
	}
	if strings.Contains(a.ExecutableName, "/") {
		return fmt.Errorf("%w: executable name %q contains a path separator", ErrInvalidAnnounce, a.ExecutableName)
	}
	if a.PID <= 0 {
		return fmt.Errorf("%w: invalid pid %d", ErrInvalidAnnounce, a.PID)
	}
	return nil
}

// Message renders the announce as
// /nsm/server/announce s:name s:capabilities s:executable i:major i:minor i:pid.
func (a Announce) Message() (*osc.Message, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return osc.NewMessage(PathServerAnnounce).
		AddString(a.ApplicationName).
		AddString(a.Capabilities).
		AddString(a.ExecutableName).
		AddInt32(a.APIMajor).
		AddInt32(a.APIMinor).
		AddInt32(a.PID), nil
}

// ParseAnnounce is the server-side view of an announce.
func ParseAnnounce(msg *osc.Message) (Announce, error) {
	if msg.Path != PathServerAnnounce || len(msg.Args) != 6 {
		return Announce{}, fmt.Errorf("%w: path=%q args=%d", ErrInvalidAnnounce, msg.Path, len(msg.Args))
	}
	var a Announce
	var err error
	if a.ApplicationName, err = msg.String(0); err != nil {
		return Announce{}, fmt.Errorf("%w: %v", ErrInvalidAnnounce, err)
	}
	if a.Capabilities, err = msg.String(1); err != nil {
		return Announce{}, fmt.Errorf("%w: %v", ErrInvalidAnnounce, err)
	}
	if a.ExecutableName, err = msg.String(2); err != nil {
		return Announce{}, fmt.Errorf("%w: %v", ErrInvalidAnnounce, err)
	}
	if a.APIMajor, err = msg.Int32(3); err != nil {
		return Announce{}, fmt.Errorf("%w: %v", ErrInvalidAnnounce, err)
	}
	if a.APIMinor, err = msg.Int32(4); err != nil {
		return Announce{}, fmt.Errorf("%w: %v", ErrInvalidAnnounce, err)
	}
	if a.PID, err = msg.Int32(5); err != nil {
		return Announce{}, fmt.Errorf("%w: %v", ErrInvalidAnnounce, err)
	}
	return a, a.Validate()
}

// AnnounceReply is the server->client answer to an announce.
type AnnounceReply struct {
	Welcome            string
	ManagerName        string
	ServerCapabilities string
}

func (r AnnounceReply) Message() *osc.Message {
	return osc.NewMessage(PathReply, PathServerAnnounce, r.Welcome, r.ManagerName, r.ServerCapabilities)
}

// ParseAnnounceReply requires /reply s:/nsm/server/announce s:welcome
// s:manager s:capabilities. Anything else is a protocol violation.
func ParseAnnounceReply(msg *osc.Message) (AnnounceReply, error) {
	if msg.Path != PathReply {
		return AnnounceReply{}, fmt.Errorf("%w: path=%q args=%v", ErrUnexpectedReply, msg.Path, msg.Args)
	}
	args, err := msg.Strings(4)
	if err != nil {
		return AnnounceReply{}, fmt.Errorf("%w: %v", ErrUnexpectedReply, err)
	}
	if args[0] != PathServerAnnounce {
		return AnnounceReply{}, fmt.Errorf("%w: reply to %q", ErrUnexpectedReply, args[0])
	}
	return AnnounceReply{Welcome: args[1], ManagerName: args[2], ServerCapabilities: args[3]}, nil
}

// Open is the server's instruction to open or create client state.
type Open struct {
	Path        string
	SessionName string
	ClientLabel string
}

func (o Open) Validate() error {
	if strings.TrimSpace(o.Path) == "" {
		return fmt.Errorf("%w: missing path", ErrUnexpectedOpen)
	}
	if strings.TrimSpace(o.SessionName) == "" {
		return fmt.Errorf("%w: missing session name", ErrUnexpectedOpen)
	}
	if strings.TrimSpace(o.ClientLabel) == "" {
		return fmt.Errorf("%w: missing client label", ErrUnexpectedOpen)
	}
	return nil
}

// ClientID is the extension suffix of the client label, without the dot.
func (o Open) ClientID() string {
	return ClientIDFromLabel(o.ClientLabel)
}

func (o Open) Message() *osc.Message {
	return osc.NewMessage(PathClientOpen, o.Path, o.SessionName, o.ClientLabel)
}

func ParseOpen(msg *osc.Message) (Open, error) {
	if msg.Path != PathClientOpen {
		return Open{}, fmt.Errorf("%w: path=%q args=%v", ErrUnexpectedOpen, msg.Path, msg.Args)
	}
	args, err := msg.Strings(3)
	if err != nil {
		return Open{}, fmt.Errorf("%w: %v", ErrUnexpectedOpen, err)
	}
	o := Open{Path: args[0], SessionName: args[1], ClientLabel: args[2]}
	return o, o.Validate()
}

// ClientIDFromLabel returns "nABC" for "client.nABC". Leading dots do not
// start an extension.
func ClientIDFromLabel(label string) string {
	name := strings.TrimLeft(path.Base(label), ".")
	return strings.TrimPrefix(path.Ext(name), ".")
}

// Reply builds /reply s:path s:text.
func Reply(to, text string) *osc.Message {
	return osc.NewMessage(PathReply, to, text)
}
