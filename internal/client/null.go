package client

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NullClient stands in for NSMClient when no session server is running.
// Every protocol operation is a no-op that succeeds.
type NullClient struct {
	exit func(code int)
	log  zerolog.Logger
}

// NewNullClient returns a client for unmanaged runs. exit defaults to
// os.Exit and backs ServerSendExitToSelf.
func NewNullClient(exit func(code int)) *NullClient {
	if exit == nil {
		exit = os.Exit
	}
	return &NullClient{exit: exit, log: log.With().Str("client", "unmanaged").Logger()}
}

func (n *NullClient) Managed() bool { return false }
func (n *NullClient) Session() Session { return Session{} }
func (n *NullClient) PollOnce() error { return nil }
func (n *NullClient) ShutdownRequested() <-chan os.Signal { return nil }
func (n *NullClient) Exit() {}
func (n *NullClient) AnnounceSaveStatus(bool) error { return nil }
func (n *NullClient) AnnounceGUIVisibility(bool) error { return nil }
func (n *NullClient) ChangeLabel(string) error { return nil }
func (n *NullClient) Broadcast(string, ...any) error { return nil }
func (n *NullClient) ServerSendSaveToSelf() error { return nil }
func (n *NullClient) Close() error { return nil }

// Run blocks until ctx ends.
func (n *NullClient) Run(ctx context.Context, _ time.Duration) error {
	<-ctx.Done()
	return nil
}

// ServerSendExitToSelf exits the process with status 0.
func (n *NullClient) ServerSendExitToSelf() error {
	n.log.Info().Msg("no session server, exiting directly")
	n.exit(0)
	return nil
}

// ImportResource leaves the file where it is and returns its absolute path.
func (n *NullClient) ImportResource(filePath string) (string, error) {
	return filepath.Abs(filePath)
}
