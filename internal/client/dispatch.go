package client

import (
	"fmt"

	"github.com/danmuck/nsmclient/internal/observability"
	"github.com/danmuck/nsmclient/internal/protocol/nsm"
	"github.com/danmuck/nsmclient/internal/protocol/osc"
)

// PollOnce performs at most one non-blocking receive and dispatches the
// datagram, if any. Receive and decode failures are logged and dropped.
// The only errors returned are send failures from a reaction, such as the
// save acknowledgement.
func (c *NSMClient) PollOnce() error {
	n, ok, err := c.transport.TryReceive(c.buf)
	if err != nil {
		observability.RecordReceive(c.label(), observability.OutcomeError)
		c.log.Warn().Err(err).Msg("receive failed, ignoring")
		return nil
	}
	if !ok {
		return nil
	}
	msg, err := osc.Decode(c.buf[:n])
	if err != nil {
		observability.RecordReceive(c.label(), observability.OutcomeMalformed)
		c.log.Warn().Err(err).Int("bytes", n).Msg("found incorrect datagram, ignoring it")
		return nil
	}
	observability.RecordReceive(c.label(), observability.OutcomeDecoded)
	return c.dispatch(msg)
}

func (c *NSMClient) dispatch(msg *osc.Message) error {
	route := nsm.Classify(msg)
	if c.gui == nil && (route == nsm.RouteShowGUI || route == nsm.RouteHideGUI) {
		route = nsm.RouteUnhandled
	}
	observability.RecordDispatch(c.label(), route.String())

	switch route {
	case nsm.RouteSave:
		return c.handleSave()
	case nsm.RouteShowGUI:
		c.log.Info().Msg("telling host to show its gui")
		c.gui.ShowGUI()
	case nsm.RouteHideGUI:
		c.log.Info().Msg("telling host to hide its gui")
		c.gui.HideGUI()
	case nsm.RouteSessionLoaded:
	case nsm.RouteServerLoaded:
		c.log.Info().Msg("got /reply Loaded from server")
	case nsm.RouteServerSaved:
		c.log.Info().Msg("got /reply Saved from server")
	case nsm.RouteError:
		c.log.Warn().Str("path", msg.Path).Interface("args", msg.Args).Msg("got /error from server")
	case nsm.RouteUnknown:
		if c.broadcast != nil {
			c.broadcast.ReceiveBroadcast(c.identity.Session, msg.Path, msg.Args)
			return nil
		}
		c.log.Warn().Str("path", msg.Path).Interface("args", msg.Args).Msg("reaction not implemented")
	default:
		c.log.Warn().Str("path", msg.Path).Interface("args", msg.Args).Msg("reaction not implemented")
	}
	return nil
}

// handleSave assumes the host save succeeded: the reply is sent and the
// client is marked clean even when Save returns an error.
func (c *NSMClient) handleSave() error {
	c.log.Info().Str("path", c.identity.Path).Msg("telling host to save")
	if err := c.host.Save(c.identity.Session); err != nil {
		c.log.Error().Err(err).Str("path", c.identity.Path).Msg("host save callback failed")
	}
	if err := c.send(nsm.Reply(nsm.PathClientSave, c.identity.PrettyName+" saved")); err != nil {
		return fmt.Errorf("client: acknowledge save: %w", err)
	}
	return c.AnnounceSaveStatus(true)
}

func (c *NSMClient) send(msg *osc.Message) error {
	b, err := osc.Encode(msg)
	if err != nil {
		return err
	}
	err = c.transport.Send(b)
	observability.RecordSend(c.label(), msg.Path, err)
	return err
}

func (c *NSMClient) label() string {
	if c.identity.ClientLabel != "" {
		return c.identity.ClientLabel
	}
	return c.identity.PrettyName
}
