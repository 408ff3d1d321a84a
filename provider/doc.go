// Package provider implements a small generic framework for swappable
// backends: a Provider interface, factories that build providers from map
// configuration, and a Registry that creates and caches them by name.
//
//	reg := provider.NewRegistry[transcription.Backend]()
//	reg.RegisterFactory("whisper-asr", whisperasr.Factory)
//	backend, err := reg.Create("whisper-asr", map[string]any{"url": url})
package provider
