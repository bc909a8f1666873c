package config

import (
	"github.com/danmuck/nsmclient/internal/client"
)

// ClientConfig maps the host file onto the library config. Injection hooks
// stay unset.
func (c HostConfig) ClientConfig() client.Config {
	cfg := client.DefaultConfig()
	cfg.PrettyName = c.PrettyName
	cfg.SupportsSaveStatus = c.SupportsSaveStatus
	cfg.HandshakeTimeout = c.HandshakeTimeout
	cfg.ReceiveBufferSize = c.ReceiveBufferSize
	return cfg.WithDefaults()
}
