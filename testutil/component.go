package testutil

import (
	"context"

	"github.com/kbukum/asr-proxy/component"
)

// TestComponent is a component.Component that can also be reset between
// test cases.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error
}
