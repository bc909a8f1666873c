package client

import (
	"context"
	"os"
	"time"

	"github.com/danmuck/nsmclient/internal/lifecycle"
	"github.com/danmuck/nsmclient/internal/tools"
)

var terminateSelf = tools.TerminateSelf

// ShutdownRequested yields a value when SIGINT or SIGTERM arrives. The host
// loop should call Exit when it fires.
func (c *NSMClient) ShutdownRequested() <-chan os.Signal {
	return c.signals.Requested()
}

// Exit runs the host Exit callback and then kills the process.
func (c *NSMClient) Exit() {
	lifecycle.Shutdown(c.log, func() { c.host.Exit(c.identity.Session) }, c.cfg.Terminate)
}

// Run polls once per interval until ctx ends, a reaction fails to send, or
// a termination signal arrives. On a signal Run performs Exit.
func (c *NSMClient) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-c.ShutdownRequested():
			c.log.Info().Str("signal", sig.String()).Msg("termination requested")
			c.Exit()
			return nil
		case <-ticker.C:
			if err := c.PollOnce(); err != nil {
				return err
			}
		}
	}
}
