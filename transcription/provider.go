package transcription

import (
	"context"
	"errors"

	"github.com/kbukum/asr-proxy/component"
	"github.com/kbukum/asr-proxy/provider"
)

// Transport failures reported by backends. Implementations wrap them with
// detail, so match with errors.Is.
var (
	ErrBackendUnreachable = errors.New("transcription backend unreachable")
	ErrBackendTimeout     = errors.New("transcription backend timed out")
)

// Backend is a speech-to-text service the proxy forwards to.
type Backend interface {
	provider.Provider
	component.Component

	// Transcribe sends one request upstream. Any HTTP status is returned as
	// a BackendResponse; only transport failures are errors.
	Transcribe(ctx context.Context, req BackendRequest) (*BackendResponse, error)

	// CheckHealth reports whether the backend answers its health check.
	CheckHealth(ctx context.Context) bool
}
