package client

import (
	"context"
	"os"
	"time"
)

// Session is what the server assigned to this client during the handshake.
type Session struct {
	// Path is the client's working path; hosts save under it.
	Path string
	// Name is the session name.
	Name string
	// ClientLabel is the client name under the session, e.g. "notes.nABC".
	ClientLabel string
	// ClientID is the label's extension, e.g. "nABC".
	ClientID string
}

// Host is the callback surface every embedding program provides.
type Host interface {
	// Open loads or creates state for s. It runs inside the handshake; an
	// error aborts client construction.
	Open(s Session) error
	// Save persists state under s.Path. An error is logged; the client
	// still acknowledges the save and marks itself clean.
	Save(s Session) error
	// Exit shuts the host down. The process is killed when it returns.
	Exit(s Session)
}

// GUI is implemented by hosts with an optional GUI. Implementing it
// advertises the "optional-gui" capability.
type GUI interface {
	ShowGUI()
	HideGUI()
}

// BroadcastReceiver is implemented by hosts that want messages the client
// does not recognise, typically broadcasts relayed by the server.
type BroadcastReceiver interface {
	ReceiveBroadcast(s Session, path string, args []any)
}

// Client is the surface shared by NSMClient and NullClient.
type Client interface {
	// Managed reports whether a session server is driving this client.
	Managed() bool
	Session() Session

	PollOnce() error
	Run(ctx context.Context, interval time.Duration) error
	ShutdownRequested() <-chan os.Signal
	Exit()

	AnnounceSaveStatus(isClean bool) error
	AnnounceGUIVisibility(isVisible bool) error
	ChangeLabel(label string) error
	Broadcast(path string, args ...any) error
	ServerSendExitToSelf() error
	ServerSendSaveToSelf() error
	ImportResource(filePath string) (string, error)

	Close() error
}

var (
	_ Client = (*NSMClient)(nil)
	_ Client = (*NullClient)(nil)
)
