package client

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/nsmclient/internal/lifecycle"
	"github.com/danmuck/nsmclient/internal/protocol/nsm"
	"github.com/danmuck/nsmclient/internal/protocol/osc"
)

var errNoDatagram = errors.New("fake: no datagram queued")

type fakeTransport struct {
	inbox   [][]byte
	sent    []*osc.Message
	sendErr error
	recvErr error
	closed  bool
}

func (f *fakeTransport) queue(msgs ...*osc.Message) {
	for _, m := range msgs {
		f.inbox = append(f.inbox, osc.MustEncode(m))
	}
}

func (f *fakeTransport) queueRaw(b []byte) {
	f.inbox = append(f.inbox, b)
}

func (f *fakeTransport) Send(b []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	msg, err := osc.Decode(b)
	if err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeTransport) Receive(buf []byte) (int, error) {
	n, ok, err := f.TryReceive(buf)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errNoDatagram
	}
	return n, nil
}

func (f *fakeTransport) TryReceive(buf []byte) (int, bool, error) {
	if f.recvErr != nil {
		err := f.recvErr
		f.recvErr = nil
		return 0, false, err
	}
	if len(f.inbox) == 0 {
		return 0, false, nil
	}
	next := f.inbox[0]
	f.inbox = f.inbox[1:]
	return copy(buf, next), true, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// sentPaths lists the paths sent after the handshake.
func (f *fakeTransport) sentPaths(skip int) []string {
	var out []string
	for _, m := range f.sent[skip:] {
		out = append(out, m.Path)
	}
	return out
}

type fakeHost struct {
	tr         *fakeTransport
	opened     []Session
	sentAtOpen int
	openErr    error
	saves      int
	saveErr    error
	exits      int
}

func (h *fakeHost) Open(s Session) error {
	h.opened = append(h.opened, s)
	h.sentAtOpen = len(h.tr.sent)
	return h.openErr
}

func (h *fakeHost) Save(Session) error {
	h.saves++
	return h.saveErr
}

func (h *fakeHost) Exit(Session) {
	h.exits++
}

type guiHost struct {
	*fakeHost
	shows int
	hides int
}

func (h *guiHost) ShowGUI() { h.shows++ }
func (h *guiHost) HideGUI() { h.hides++ }

type broadcastHost struct {
	*fakeHost
	got []*osc.Message
}

func (h *broadcastHost) ReceiveBroadcast(_ Session, path string, args []any) {
	h.got = append(h.got, osc.NewMessage(path, args...))
}

// handshakeSent is the number of messages a successful handshake sends.
const handshakeSent = 2

type harness struct {
	tr         *fakeTransport
	host       *fakeHost
	sigs       chan os.Signal
	terminated int
	selfTerms  int
	cfg        Config
}

func newHarness(t *testing.T, serverCaps string) *harness {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nsm-notes"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	t.Setenv("PATH", dir)

	h := &harness{tr: &fakeTransport{}, sigs: make(chan os.Signal, 1)}
	h.host = &fakeHost{tr: h.tr}
	h.tr.queue(
		nsm.AnnounceReply{Welcome: "Howdy", ManagerName: "ServerName", ServerCapabilities: serverCaps}.Message(),
		nsm.Open{Path: "/path/to/session/client.nABC", SessionName: "MySession", ClientLabel: "client.nABC"}.Message(),
	)
	h.cfg = Config{
		PrettyName:         "MyApp",
		SupportsSaveStatus: true,
		ServerURL:          "osc.udp://127.0.0.1:7777/",
		ExecutableName:     "nsm-notes",
		Transport:          h.tr,
		Signals:            lifecycle.FromChannel(h.sigs),
		Terminate:          func() { h.terminated++ },
		SelfTerminate: func() error {
			h.selfTerms++
			return nil
		},
	}
	return h
}

func (h *harness) start(t *testing.T, host Host) *NSMClient {
	t.Helper()
	c, err := New(h.cfg, host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}
