// Package core is the accelerator's own baseline module: listener port,
// worker thread count, log level, and an optional TLS block. It exists
// both as the CLI's default module and as a worked example of the Int,
// Enum and String stock handlers and the nested-block handler wired
// together; it has no Bool directive.
package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coreflux/netcfgd/core/module"
	"github.com/coreflux/netcfgd/core/schema"
)

// Config is the destination every directive in this module writes into.
type Config struct {
	ListenPort    int32
	WorkerThreads int32
	LogLevel      int

	TLSCert *schema.StringDest
	TLSKey  *schema.StringDest
}

var logLevels = []schema.EnumPair{
	{Name: "debug", Value: 0},
	{Name: "info", Value: 1},
	{Name: "warn", Value: 2},
	{Name: "error", Value: 3},
}

const (
	defaultListenPort    = "8443"
	defaultWorkerThreads = "4"
)

// New builds the core module's Config and its *module.Module, ready to
// register with a coordinator.
func New(logger zerolog.Logger) (*module.Module, *Config) {
	cfg := &Config{
		TLSCert: &schema.StringDest{Buf: make([]byte, 0, 4096)},
		TLSKey:  &schema.StringDest{Buf: make([]byte, 0, 4096)},
	}

	portDefault := defaultListenPort
	threadsDefault := defaultWorkerThreads

	tlsSchema := []*schema.Spec{
		{Name: "cert", Handler: schema.StringHandler, Dest: cfg.TLSCert},
		{Name: "key", Handler: schema.StringHandler, Dest: cfg.TLSKey},
	}

	specs := []*schema.Spec{
		{
			Name:    "listen_port",
			Handler: schema.IntHandler,
			Dest:    &cfg.ListenPort,
			Default: &portDefault,
			Ext:     &schema.IntConstraint{Min: 1, Max: 65535},
		},
		{
			Name:    "worker_threads",
			Handler: schema.IntHandler,
			Dest:    &cfg.WorkerThreads,
			Default: &threadsDefault,
			Ext:     &schema.IntConstraint{Min: 1, Max: 256},
		},
		{
			Name:      "log_level",
			Handler:   schema.EnumHandler,
			Dest:      &cfg.LogLevel,
			Ext:       logLevels,
			AllowNone: true,
		},
		{
			Name:      "tls",
			Handler:   schema.NestedBlockHandler(tlsSchema),
			AllowNone: true,
		},
	}

	mod := &module.Module{
		Name:    "core",
		Schemas: specs,
		Hooks: module.Hooks{
			Setup: func(ctx context.Context) error {
				logger.Debug().Msg("core: setup")
				return nil
			},
			Start: func(ctx context.Context) error {
				logger.Info().
					Int32("listen_port", cfg.ListenPort).
					Int32("worker_threads", cfg.WorkerThreads).
					Msg("core: started")
				return nil
			},
			Stop: func(ctx context.Context) error {
				logger.Debug().Msg("core: stop")
				return nil
			},
			Cleanup: func(ctx context.Context) error {
				logger.Debug().Msg("core: cleanup")
				return nil
			},
		},
	}
	return mod, cfg
}
