package bootstrap

import (
	"github.com/kbukum/asr-proxy/config"
)

// Config is the constraint for application configuration types. A struct
// embedding config.ServiceConfig satisfies it through promoted methods and
// may override ApplyDefaults and Validate:
//
//	type ProxyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Whisper WhisperConfig `yaml:"whisper" mapstructure:"whisper"`
//	}
//
//	app, err := bootstrap.NewApp[*ProxyConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
