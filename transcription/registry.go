package transcription

import "github.com/kbukum/asr-proxy/provider"

// NewRegistry creates a registry for transcription backends.
func NewRegistry() *provider.Registry[Backend] {
	return provider.NewRegistry[Backend]()
}
