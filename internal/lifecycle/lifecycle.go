// Package lifecycle bridges process termination signals to an orderly host
// shutdown followed by an unconditional hard kill.
//
// Signals are not handled asynchronously. They are queued on a channel that
// the host loop observes, so the exit callback runs on the host's own thread
// of control.
package lifecycle

import (
	"os"
	"os/signal"
	"sync"

	"github.com/danmuck/nsmclient/internal/tools"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Bridge queues SIGINT and SIGTERM for the host loop.
type Bridge struct {
	sigs chan os.Signal
	once sync.Once
	stop func()
}

// Listen starts capturing SIGINT and SIGTERM.
func Listen() *Bridge {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
	return &Bridge{sigs: ch, stop: func() { signal.Stop(ch) }}
}

// FromChannel wraps an existing signal source, typically in tests.
func FromChannel(ch chan os.Signal) *Bridge {
	return &Bridge{sigs: ch, stop: func() {}}
}

// Requested yields one value per received termination signal.
func (b *Bridge) Requested() <-chan os.Signal {
	if b == nil {
		return nil
	}
	return b.sigs
}

// Stop releases the signal subscription.
func (b *Bridge) Stop() {
	if b == nil {
		return
	}
	b.once.Do(b.stop)
}

// Terminator ends the process. The default is SIGKILL to self.
type Terminator func()

func HardKill() {
	_ = tools.KillSelf()
}

// Shutdown runs exit and then terminate, even when exit panics. There is no
// grace period: a hanging exit callback is the host's defect.
func Shutdown(logger zerolog.Logger, exit func(), terminate Terminator) {
	if terminate == nil {
		terminate = HardKill
	}
	defer func() {
		logger.Warn().Msg("client did not quit on its own, sending SIGKILL")
		terminate()
		logger.Error().Msg("SIGKILL did nothing, quit manually")
	}()
	logger.Info().Msg("telling host to quit")
	exit()
}
