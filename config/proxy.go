package config

import (
	"fmt"
	"time"

	"github.com/kbukum/asr-proxy/observability"
	"github.com/kbukum/asr-proxy/server"
	"github.com/kbukum/asr-proxy/validation"
)

const (
	ServiceName = "asr-proxy"

	DefaultWhisperURL = "http://localhost:9000"
	DefaultBackend    = "whisper-asr"
)

// WhisperConfig addresses the whisper-asr-webservice backend.
// Environment: WHISPER_URL, WHISPER_TIMEOUT, WHISPER_BACKEND.
type WhisperConfig struct {
	URL string `yaml:"url" mapstructure:"url" validate:"required,http_url"`
	// Timeout bounds a transcription call in seconds. 0 disables it.
	Timeout int    `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Backend string `yaml:"backend" mapstructure:"backend" validate:"required"`
}

// ProxyConfig is the full configuration of the asr-proxy binary.
type ProxyConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Whisper   WhisperConfig        `yaml:"whisper" mapstructure:"whisper"`
	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills every unset field.
func (c *ProxyConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Whisper.URL == "" {
		c.Whisper.URL = DefaultWhisperURL
	}
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = DefaultBackend
	}
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks the struct tags first, then each section's own rules.
func (c *ProxyConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

// RequestTimeout returns the backend timeout; zero means none.
func (c *ProxyConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Whisper.Timeout) * time.Second
}

// LoadProxy loads, defaults and validates the proxy configuration.
func LoadProxy(opts ...LoaderOption) (*ProxyConfig, error) {
	cfg := &ProxyConfig{}
	if err := Load(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
