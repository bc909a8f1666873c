package nsm

// Handshake paths.
const (
	PathServerAnnounce = "/nsm/server/announce"
	PathReply          = "/reply"
	PathError          = "/error"
	PathClientOpen     = "/nsm/client/open"
)

// Runtime paths sent by the server.
const (
	PathClientSave          = "/nsm/client/save"
	PathShowOptionalGUI     = "/nsm/client/show_optional_gui"
	PathHideOptionalGUI     = "/nsm/client/hide_optional_gui"
	PathClientSessionLoaded = "/nsm/client/session_is_loaded"
	PathServerOpen          = "/nsm/server/open"
)

// Status paths sent by the client.
const (
	PathClientIsClean   = "/nsm/client/is_clean"
	PathClientIsDirty   = "/nsm/client/is_dirty"
	PathClientGUIShown  = "/nsm/client/gui_is_shown"
	PathClientGUIHidden = "/nsm/client/gui_is_hidden"
	PathClientLabel     = "/nsm/client/label"
	PathServerStop      = "/nsm/server/stop"
	PathServerSave      = "/nsm/server/save"
	PathServerBroadcast = "/nsm/server/broadcast"
)

// Reply texts the server uses to acknowledge session-wide operations.
const (
	ReplyServerLoaded = "Loaded."
	ReplyServerSaved  = "Saved."
)

// API version announced by this client.
const (
	APIVersionMajor = 1
	APIVersionMinor = 2
)
