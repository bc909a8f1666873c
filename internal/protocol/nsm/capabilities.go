package nsm

import (
	"sort"
	"strings"
)

// Capability tokens.
const (
	CapDirty         = "dirty"
	CapOptionalGUI   = "optional-gui"
	CapSwitch        = "switch"
	CapProgress      = "progress"
	CapMessage       = "message"
	CapServerControl = "server-control"
	CapBroadcast     = "broadcast"
)

// Capabilities is a set of capability tokens.
type Capabilities map[string]struct{}

// ParseCapabilities splits a colon-delimited token list. Leading, trailing
// and repeated colons are tolerated.
func ParseCapabilities(raw string) Capabilities {
	caps := make(Capabilities)
	for _, tok := range strings.Split(raw, ":") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		caps[tok] = struct{}{}
	}
	return caps
}

// NewCapabilities builds a set from tokens.
func NewCapabilities(tokens ...string) Capabilities {
	caps := make(Capabilities, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			caps[tok] = struct{}{}
		}
	}
	return caps
}

func (c Capabilities) Has(token string) bool {
	_, ok := c[token]
	return ok
}

// Tokens returns the tokens in sorted order.
func (c Capabilities) Tokens() []string {
	out := make([]string, 0, len(c))
	for tok := range c {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// FormatCapabilities renders tokens in order as ":a:b:". No tokens renders as
// the empty string, never "::".
func FormatCapabilities(tokens ...string) string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return ":" + strings.Join(kept, ":") + ":"
}

// ClientCapabilities returns the announce capability string for a client.
func ClientCapabilities(supportsSaveStatus, optionalGUI bool) string {
	var tokens []string
	if supportsSaveStatus {
		tokens = append(tokens, CapDirty)
	}
	if optionalGUI {
		tokens = append(tokens, CapOptionalGUI)
	}
	return FormatCapabilities(tokens...)
}
