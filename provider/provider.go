package provider

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from loosely typed configuration.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// DecodeConfig decodes a factory's map configuration into a typed struct
// using its mapstructure tags. Strings are converted to numbers and booleans
// where the target field needs them.
func DecodeConfig[C any](cfg map[string]any) (C, error) {
	var out C
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(cfg); err != nil {
		return out, fmt.Errorf("decode provider config: %w", err)
	}
	return out, nil
}
