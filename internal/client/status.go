package client

import (
	"strings"

	"github.com/danmuck/nsmclient/internal/observability"
	"github.com/danmuck/nsmclient/internal/protocol/nsm"
	"github.com/danmuck/nsmclient/internal/protocol/osc"
	"github.com/danmuck/nsmclient/internal/resource"
)

// AnnounceSaveStatus tells the server whether the host has unsaved changes.
// Nothing is sent when the status did not change.
func (c *NSMClient) AnnounceSaveStatus(isClean bool) error {
	if isClean == c.clean {
		return nil
	}
	c.clean = isClean
	path := nsm.PathClientIsDirty
	if isClean {
		path = nsm.PathClientIsClean
	}
	c.log.Info().Str("status", path).Msg("telling server our save state changed")
	return c.send(osc.NewMessage(path))
}

// AnnounceGUIVisibility always sends, even when visibility did not change.
func (c *NSMClient) AnnounceGUIVisibility(isVisible bool) error {
	c.guiVisible = isVisible
	path := nsm.PathClientGUIHidden
	if isVisible {
		path = nsm.PathClientGUIShown
	}
	c.log.Info().Str("status", path).Msg("telling server our gui visibility changed")
	return c.send(osc.NewMessage(path))
}

// ChangeLabel sets the label the server displays next to this client.
func (c *NSMClient) ChangeLabel(label string) error {
	c.log.Info().Str("label", label).Msg("telling server our label changed")
	return c.send(osc.NewMessage(nsm.PathClientLabel, label))
}

// Broadcast asks the server to relay path and args to the other clients of
// the session.
func (c *NSMClient) Broadcast(path string, args ...any) error {
	if !strings.HasPrefix(path, "/") {
		return ErrInvalidBroadcastPath
	}
	msg := osc.NewMessage(nsm.PathServerBroadcast, path)
	for _, arg := range args {
		msg.Add(arg)
	}
	return c.send(msg)
}

// ServerSendExitToSelf asks the server to stop this client. Without the
// server-control capability the client raises SIGTERM against itself, which
// the server reports as an unexpected death.
func (c *NSMClient) ServerSendExitToSelf() error {
	if c.identity.ServerCapabilities.Has(nsm.CapServerControl) {
		c.log.Info().Str("client_id", c.identity.ClientID).Msg("asking server to stop us")
		return c.send(osc.NewMessage(nsm.PathServerStop, c.identity.ClientID))
	}
	c.log.Warn().
		Strs("server_capabilities", c.identity.ServerCapabilities.Tokens()).
		Msg("server does not support server-control, quitting on our own")
	terminate := c.cfg.SelfTerminate
	if terminate == nil {
		terminate = terminateSelf
	}
	return terminate()
}

// ServerSendSaveToSelf asks the server to save the whole session, this
// client included. Without server-control it only logs.
func (c *NSMClient) ServerSendSaveToSelf() error {
	if !c.identity.ServerCapabilities.Has(nsm.CapServerControl) {
		c.log.Warn().
			Strs("server_capabilities", c.identity.ServerCapabilities.Tokens()).
			Msg("server does not support server-control, save request dropped")
		return nil
	}
	c.log.Info().Msg("asking server to save the session")
	return c.send(osc.NewMessage(nsm.PathServerSave))
}

// ImportResource links filePath into the session directory. See
// resource.Import for the naming rules.
func (c *NSMClient) ImportResource(filePath string) (string, error) {
	linked, err := resource.Import(c.identity.Path, filePath)
	observability.RecordImport(c.label(), err)
	if err != nil {
		c.log.Warn().Err(err).Str("source", filePath).Msg("resource import failed")
		return "", err
	}
	return linked, nil
}
