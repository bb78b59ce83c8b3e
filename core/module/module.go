// Package module implements the module lifecycle coordinator: ordered
// registration, multi-phase activation (setup -> parse -> start), and
// reverse-order roll-back on failure.
package module

import (
	"context"

	"github.com/coreflux/netcfgd/core/schema"
)

// Hooks are the optional lifecycle callbacks a Module may implement. Any
// of them may be nil, in which case that phase is a no-op for the module.
type Hooks struct {
	// Init runs once, synchronously, inside Register.
	Init func(ctx context.Context) error
	// Setup runs in registration order during StartAll phase 1.
	Setup func(ctx context.Context) error
	// Start runs in registration order during StartAll phase 3.
	Start func(ctx context.Context) error
	// Stop runs in reverse registration order during StopAll pass 1.
	Stop func(ctx context.Context) error
	// Cleanup runs in reverse registration order, after every Stop has
	// returned, during StopAll pass 2 (and during StartAll roll-back).
	Cleanup func(ctx context.Context) error
	// Exit runs once, synchronously, inside Unregister.
	Exit func(ctx context.Context) error
}

// Module is an independent subsystem that owns a schema set and
// lifecycle hooks. The Coordinator borrows a Module; the Module owns its
// Schemas and whatever storage its handlers write into.
type Module struct {
	Name    string
	Hooks   Hooks
	Schemas []*schema.Spec
}
