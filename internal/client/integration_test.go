package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/nsmclient/internal/lifecycle"
	"github.com/danmuck/nsmclient/internal/protocol/nsm"
	"github.com/danmuck/nsmclient/internal/protocol/osc"
	"github.com/danmuck/nsmclient/internal/testutil/nsmtest"
	"github.com/danmuck/nsmclient/internal/testutil/testlog"
)

func TestClientOverLoopbackUDP(t *testing.T) {
	testlog.Start(t)
	srv := nsmtest.Start(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nsm-notes"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	t.Setenv("PATH", dir)
	t.Setenv(EnvServerURL, srv.URL())

	type result struct {
		announce nsm.Announce
		err      error
	}
	sessionPath := filepath.Join(t.TempDir(), "notes.nXYZ")
	accepted := make(chan result, 1)
	go func() {
		a, err := srv.Accept(
			nsm.AnnounceReply{Welcome: "Howdy", ManagerName: "nsmtest", ServerCapabilities: ":server-control:"},
			nsm.Open{Path: sessionPath, SessionName: "Loopback", ClientLabel: "notes.nXYZ"},
		)
		accepted <- result{a, err}
	}()

	host := &fakeHost{tr: &fakeTransport{}}
	c, err := New(Config{
		PrettyName:         "Notes",
		SupportsSaveStatus: true,
		ExecutableName:     "nsm-notes",
		HandshakeTimeout:   nsmtest.DefaultTimeout,
		Signals:            lifecycle.FromChannel(make(chan os.Signal, 1)),
		Terminate:          func() {},
	}, host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	res := <-accepted
	if res.err != nil {
		t.Fatalf("Accept: %v", res.err)
	}
	if res.announce.ApplicationName != "Notes" || res.announce.Capabilities != ":dirty:" {
		t.Fatalf("announce=%+v", res.announce)
	}
	ack, err := srv.Next(nsmtest.DefaultTimeout)
	if err != nil {
		t.Fatalf("await open ack: %v", err)
	}
	if ack.Path != nsm.PathReply || !ack.ArgsEqual(nsm.PathClientOpen, "Notes is opened or created") {
		t.Fatalf("ack=%s %v", ack.Path, ack.Args)
	}
	if c.Session().ClientID != "nXYZ" {
		t.Fatalf("client id=%q", c.Session().ClientID)
	}

	if err := srv.SendRaw([]byte("garbage")); err != nil {
		t.Fatalf("SendRaw: %v", err)
	}
	if err := srv.Send(osc.NewMessage(nsm.PathClientSave)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	deadline := time.Now().Add(nsmtest.DefaultTimeout)
	for host.saves == 0 && time.Now().Before(deadline) {
		if err := c.PollOnce(); err != nil {
			t.Fatalf("PollOnce: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if host.saves != 1 {
		t.Fatalf("save never dispatched")
	}
	reply, err := srv.Next(nsmtest.DefaultTimeout)
	if err != nil {
		t.Fatalf("await save reply: %v", err)
	}
	if !reply.ArgsEqual(nsm.PathClientSave, "Notes saved") {
		t.Fatalf("save reply=%v", reply.Args)
	}

	if err := c.ServerSendExitToSelf(); err != nil {
		t.Fatalf("ServerSendExitToSelf: %v", err)
	}
	stop, err := srv.Next(nsmtest.DefaultTimeout)
	if err != nil {
		t.Fatalf("await stop: %v", err)
	}
	if stop.Path != nsm.PathServerStop || !stop.ArgsEqual("nXYZ") {
		t.Fatalf("stop=%s %v", stop.Path, stop.Args)
	}
}
