package ops

import (
	"fmt"
	"os"
	"time"

	"collabsync/pkg/transport"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the YAML config layout. Durations are milliseconds to
// match the collaboration server's own configuration files.
type FileConfig struct {
	Endpoint                string `yaml:"endpoint"`
	ReconnectIntervalMs     int    `yaml:"reconnectIntervalMs"`
	MaxReconnectAttempts    int    `yaml:"maxReconnectAttempts"`
	HeartbeatIntervalMs     int    `yaml:"heartbeatIntervalMs"`
	MaxReconnectDelayMs     int    `yaml:"maxReconnectDelayMs"`
	EnforceHeartbeatTimeout bool   `yaml:"enforceHeartbeatTimeout"`
	HeartbeatTimeoutMs      int    `yaml:"heartbeatTimeoutMs"`
	StrictOrdering          bool   `yaml:"strictOrdering"`
}

// Load reads a YAML config file and resolves it into a transport.Config.
func Load(path string) (transport.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transport.Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return transport.Config{}, fmt.Errorf("failed to parse config from YAML: %w", err)
	}
	return Resolve(cfg)
}

// Resolve validates a FileConfig and builds the immutable transport config.
// Zero-valued fields fall through to the transport defaults.
func Resolve(cfg FileConfig) (transport.Config, error) {
	if err := validate(cfg); err != nil {
		return transport.Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return transport.Config{
		Endpoint:                cfg.Endpoint,
		ReconnectInterval:       time.Duration(cfg.ReconnectIntervalMs) * time.Millisecond,
		MaxReconnectAttempts:    cfg.MaxReconnectAttempts,
		HeartbeatInterval:       time.Duration(cfg.HeartbeatIntervalMs) * time.Millisecond,
		MaxReconnectDelay:       time.Duration(cfg.MaxReconnectDelayMs) * time.Millisecond,
		EnforceHeartbeatTimeout: cfg.EnforceHeartbeatTimeout,
		HeartbeatTimeout:        time.Duration(cfg.HeartbeatTimeoutMs) * time.Millisecond,
		StrictOrdering:          cfg.StrictOrdering,
	}, nil
}

func validate(cfg FileConfig) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if cfg.ReconnectIntervalMs < 0 {
		return fmt.Errorf("reconnectIntervalMs must be >= 0")
	}
	if cfg.MaxReconnectAttempts < 0 {
		return fmt.Errorf("maxReconnectAttempts must be >= 0")
	}
	if cfg.HeartbeatIntervalMs < 0 {
		return fmt.Errorf("heartbeatIntervalMs must be >= 0")
	}
	if cfg.MaxReconnectDelayMs < 0 {
		return fmt.Errorf("maxReconnectDelayMs must be >= 0")
	}
	if cfg.HeartbeatTimeoutMs < 0 {
		return fmt.Errorf("heartbeatTimeoutMs must be >= 0")
	}
	return nil
}
