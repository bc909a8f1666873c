package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/nsmclient/internal/logging"
)

var ErrInvalidConfig = errors.New("config: invalid host config")

// HostConfig is what a host program reads from its TOML file.
type HostConfig struct {
	PrettyName         string
	SupportsSaveStatus bool
	PollInterval       time.Duration
	HandshakeTimeout   time.Duration
	ReceiveBufferSize  int
	LogLevel           string
	// StateFile is relative to the session path the server assigns.
	StateFile string
	// MetricsAddr enables a /metrics listener when non-empty.
	MetricsAddr string
}

// host config.toml key mapping.
type fileConfig struct {
	PrettyName         string `toml:"pretty_name"`
	SupportsSaveStatus bool   `toml:"supports_save_status"`
	PollInterval       string `toml:"poll_interval"`
	HandshakeTimeout   string `toml:"handshake_timeout"`
	ReceiveBufferSize  int    `toml:"receive_buffer_size"`
	LogLevel           string `toml:"log_level"`
	StateFile          string `toml:"state_file"`
	MetricsAddr        string `toml:"metrics_addr"`
}

func DefaultHostConfig() HostConfig {
	return HostConfig{
		PrettyName:         "NSM Notes",
		SupportsSaveStatus: true,
		PollInterval:       100 * time.Millisecond,
		HandshakeTimeout:   0,
		ReceiveBufferSize:  4096,
		LogLevel:           "info",
		StateFile:          "notes.yaml",
	}
}

// LoadHostConfig overlays the keys present in path onto DefaultHostConfig.
func LoadHostConfig(path string) (HostConfig, error) {
	cfg := DefaultHostConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return HostConfig{}, fmt.Errorf("load host config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return HostConfig{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}

	if meta.IsDefined("pretty_name") {
		cfg.PrettyName = strings.TrimSpace(raw.PrettyName)
	}
	if meta.IsDefined("supports_save_status") {
		cfg.SupportsSaveStatus = raw.SupportsSaveStatus
	}
	if meta.IsDefined("poll_interval") {
		d, err := parseDuration("poll_interval", raw.PollInterval)
		if err != nil {
			return HostConfig{}, err
		}
		cfg.PollInterval = d
	}
	if meta.IsDefined("handshake_timeout") {
		d, err := parseDuration("handshake_timeout", raw.HandshakeTimeout)
		if err != nil {
			return HostConfig{}, err
		}
		cfg.HandshakeTimeout = d
	}
	if meta.IsDefined("receive_buffer_size") {
		cfg.ReceiveBufferSize = raw.ReceiveBufferSize
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("state_file") {
		cfg.StateFile = strings.TrimSpace(raw.StateFile)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if err := ValidateHostConfig(cfg); err != nil {
		return HostConfig{}, err
	}
	return cfg, nil
}

func ValidateHostConfig(cfg HostConfig) error {
	if strings.TrimSpace(cfg.PrettyName) == "" {
		return fmt.Errorf("%w: pretty_name is required", ErrInvalidConfig)
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalidConfig)
	}
	if cfg.HandshakeTimeout < 0 {
		return fmt.Errorf("%w: handshake_timeout must not be negative", ErrInvalidConfig)
	}
	if cfg.ReceiveBufferSize < 64 {
		return fmt.Errorf("%w: receive_buffer_size must be at least 64", ErrInvalidConfig)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, cfg.LogLevel)
	}
	state := strings.TrimSpace(cfg.StateFile)
	if state == "" || filepath.IsAbs(state) || strings.HasPrefix(filepath.Clean(state), "..") {
		return fmt.Errorf("%w: state_file must be a relative path inside the session", ErrInvalidConfig)
	}
	return nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
