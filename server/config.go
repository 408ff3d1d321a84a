package server

import (
	"fmt"
	"time"

	"github.com/kbukum/asr-proxy/util"
)

// DefaultPort is the port the proxy listens on when none is configured.
const DefaultPort = 9001

// Config holds HTTP server configuration. Timeouts are in seconds; a zero
// read or write timeout means none, so long transcriptions are not cut off.
type Config struct {
	Host              string `yaml:"host" mapstructure:"host"`
	Port              int    `yaml:"port" mapstructure:"port"`
	ReadTimeout       int    `yaml:"read_timeout" mapstructure:"read_timeout"`
	ReadHeaderTimeout int    `yaml:"read_header_timeout" mapstructure:"read_header_timeout"`
	WriteTimeout      int    `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout       int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout   int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodySize       string `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "100MB"
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "100MB"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	for name, v := range map[string]int{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if v < 0 {
			return fmt.Errorf("server.%s must be non-negative (got: %d)", name, v)
		}
	}
	if c.MaxBodySize != "" {
		if _, err := util.ParseSizeStrict(c.MaxBodySize); err != nil {
			return fmt.Errorf("server.max_body_size: %w", err)
		}
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
