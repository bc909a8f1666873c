package nsm

import "github.com/danmuck/nsmclient/internal/protocol/osc"

// Route is the closed set of incoming runtime messages a client reacts to.
type Route int

const (
	RouteUnknown Route = iota
	RouteSave
	RouteShowGUI
	RouteHideGUI
	RouteSessionLoaded
	RouteServerLoaded
	RouteServerSaved
	RouteUnhandledReply
	RouteError
	// RouteUnhandled is a known protocol path the host registered no
	// reaction for, such as GUI requests to a headless host. Classify never
	// returns it.
	RouteUnhandled
)

var routeNames = [...]string{
	RouteUnknown:        "unknown",
	RouteSave:           "save",
	RouteShowGUI:        "show_gui",
	RouteHideGUI:        "hide_gui",
	RouteSessionLoaded:  "session_loaded",
	RouteServerLoaded:   "server_loaded",
	RouteServerSaved:    "server_saved",
	RouteUnhandledReply: "unhandled_reply",
	RouteError:          "error",
	RouteUnhandled:      "unhandled",
}

func (r Route) String() string {
	if r < 0 || int(r) >= len(routeNames) {
		return "invalid"
	}
	return routeNames[r]
}

// Discarded reports whether messages on this route are dropped without a
// handler and without a log line.
func (r Route) Discarded() bool {
	return r == RouteSessionLoaded
}

// Classify maps msg onto a route by exact path match. The two server
// acknowledgements also require their exact argument values.
func Classify(msg *osc.Message) Route {
	switch msg.Path {
	case PathClientSave:
		return RouteSave
	case PathShowOptionalGUI:
		return RouteShowGUI
	case PathHideOptionalGUI:
		return RouteHideGUI
	case PathClientSessionLoaded:
		return RouteSessionLoaded
	case PathError:
		return RouteError
	case PathReply:
		switch {
		case msg.ArgsEqual(PathServerOpen, ReplyServerLoaded):
			return RouteServerLoaded
		case msg.ArgsEqual(PathServerSave, ReplyServerSaved):
			return RouteServerSaved
		default:
			return RouteUnhandledReply
		}
	default:
		return RouteUnknown
	}
}
