package config

import (
	"fmt"
	"os"
	"strings"
)

// KindHost is the only template kind.
const KindHost = "host"

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindHost, "nsm-notes":
		return hostTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const hostTemplate = `pretty_name = "NSM Notes"
supports_save_status = true
poll_interval = "100ms"
# 0s waits for the session server indefinitely.
handshake_timeout = "0s"
receive_buffer_size = 4096
log_level = "info"
state_file = "notes.yaml"
# metrics_addr = "127.0.0.1:9464"
`
