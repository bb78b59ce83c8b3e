package module

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/entry"
	"github.com/coreflux/netcfgd/core/metrics"
	"github.com/coreflux/netcfgd/core/schema"
	"github.com/coreflux/netcfgd/core/token"
)

// Coordinator owns the ordered module list and drives the four-phase
// lifecycle. It trusts its caller not to invoke StartAll re-entrantly or
// concurrently with StopAll — the spec's single-threaded-cooperative
// model, not a lock the coordinator enforces itself.
type Coordinator struct {
	modules []*Module
	running bool

	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New creates an empty Coordinator. metrics may be nil.
func New(logger zerolog.Logger, m *metrics.Metrics) *Coordinator {
	return &Coordinator{logger: logger, metrics: m}
}

// Running reports whether the coordinator last completed StartAll
// successfully and has not since completed StopAll.
func (c *Coordinator) Running() bool { return c.running }

// Modules returns the registered modules in registration order. The
// returned slice is owned by the caller.
func (c *Coordinator) Modules() []*Module {
	out := make([]*Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Register runs mod's Init hook, if any, and on success appends mod to
// the list. Forbidden while the coordinator is running.
func (c *Coordinator) Register(ctx context.Context, mod *Module) error {
	if c.running {
		return fmt.Errorf("module %q: cannot register while coordinator is running", mod.Name)
	}
	for _, existing := range c.modules {
		if existing.Name == mod.Name {
			return fmt.Errorf("module %q: already registered", mod.Name)
		}
	}
	if mod.Hooks.Init != nil {
		if err := mod.Hooks.Init(ctx); err != nil {
			return cfgerr.Lifecycle(mod.Name, "init", err)
		}
	}
	c.modules = append(c.modules, mod)
	c.logger.Debug().Str("module", mod.Name).Msg("module registered")
	return nil
}

// Unregister removes the named module (reverse-order relative to
// registration has no bearing on which single module is removed — it
// just drops that one entry) and runs its Exit hook. Permitted while
// running, but logs a warning since it is dangerous: a forced unload of
// a live module.
func (c *Coordinator) Unregister(ctx context.Context, name string) error {
	idx := -1
	for i, m := range c.modules {
		if m.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("module %q: not registered", name)
	}
	mod := c.modules[idx]
	if c.running {
		c.logger.Warn().Str("module", name).Msg("unregistering module while coordinator is running")
	}
	c.modules = append(c.modules[:idx], c.modules[idx+1:]...)
	if mod.Hooks.Exit != nil {
		if err := mod.Hooks.Exit(ctx); err != nil {
			return cfgerr.Lifecycle(name, "exit", err)
		}
	}
	c.logger.Debug().Str("module", name).Msg("module unregistered")
	return nil
}

// flattenSchemas collects every module's Schemas, in registration order,
// into one slice. The dispatcher has no notion of "module" — first match
// wins across this flattened, registration-ordered list, which is
// exactly the source behavior of "scan modules in registration order,
// take the first spec whose name equals the entry's name".
func (c *Coordinator) flattenSchemas() []*schema.Spec {
	var specs []*schema.Spec
	for _, m := range c.modules {
		specs = append(specs, m.Schemas...)
	}
	return specs
}

// Validate runs setup and parse/dispatch against text — the first two of
// StartAll's three phases — then always rolls back via Cleanup, whether
// or not dispatch succeeded. No module's Start hook ever runs and the
// coordinator never transitions to the running state. Every module's
// Setup and Cleanup hooks do run, and handlers write the parsed values
// into their Specs' destinations, just as in StartAll.
func (c *Coordinator) Validate(ctx context.Context, text []byte) error {
	runID := uuid.NewString()
	log := c.logger.With().Str("run_id", runID).Logger()
	log.Info().Int("modules", len(c.modules)).Msg("validate: beginning")

	setupStart := time.Now()
	setupDone := make([]*Module, 0, len(c.modules))
	for _, m := range c.modules {
		if m.Hooks.Setup == nil {
			setupDone = append(setupDone, m)
			continue
		}
		if err := m.Hooks.Setup(ctx); err != nil {
			log.Error().Err(err).Str("module", m.Name).Msg("setup failed")
			c.metrics.IncLifecycleError(m.Name, "setup")
			c.metrics.ObservePhase("setup", time.Since(setupStart))
			c.rollbackCleanupOnly(ctx, &log, setupDone)
			return cfgerr.Lifecycle(m.Name, "setup", err)
		}
		setupDone = append(setupDone, m)
	}
	c.metrics.ObservePhase("setup", time.Since(setupStart))

	dispatchStart := time.Now()
	specs := c.flattenSchemas()
	parser := entry.NewParser(token.New(text))
	dctx := &schema.Context{Parser: parser, RunID: runID, Metrics: c.metrics}
	dispatchErr := schema.Dispatch(dctx, specs)
	c.metrics.ObservePhase("dispatch", time.Since(dispatchStart))
	if dispatchErr != nil {
		log.Error().Err(dispatchErr).Msg("parse/dispatch failed")
		if ce, ok := dispatchErr.(*cfgerr.Error); ok {
			c.metrics.IncDispatchError(string(ce.Kind))
		}
	}

	c.rollbackCleanupOnly(ctx, &log, setupDone)
	log.Info().Msg("validate: complete")
	return dispatchErr
}

// StartAll runs setup on every module, parses and dispatches text against
// every module's schema, then runs start on every module — rolling back
// in reverse order on any failure. On success the coordinator transitions
// to the running state.
func (c *Coordinator) StartAll(ctx context.Context, text []byte) error {
	runID := uuid.NewString()
	log := c.logger.With().Str("run_id", runID).Logger()
	log.Info().Int("modules", len(c.modules)).Msg("start_all: beginning")

	setupStart := time.Now()
	setupDone := make([]*Module, 0, len(c.modules))
	for _, m := range c.modules {
		if m.Hooks.Setup == nil {
			setupDone = append(setupDone, m)
			continue
		}
		if err := m.Hooks.Setup(ctx); err != nil {
			log.Error().Err(err).Str("module", m.Name).Msg("setup failed")
			c.metrics.IncLifecycleError(m.Name, "setup")
			c.metrics.ObservePhase("setup", time.Since(setupStart))
			c.rollbackCleanupOnly(ctx, &log, setupDone)
			return cfgerr.Lifecycle(m.Name, "setup", err)
		}
		setupDone = append(setupDone, m)
	}
	c.metrics.ObservePhase("setup", time.Since(setupStart))

	dispatchStart := time.Now()
	specs := c.flattenSchemas()
	parser := entry.NewParser(token.New(text))
	dctx := &schema.Context{Parser: parser, RunID: runID, Metrics: c.metrics}
	if err := schema.Dispatch(dctx, specs); err != nil {
		log.Error().Err(err).Msg("parse/dispatch failed")
		if ce, ok := err.(*cfgerr.Error); ok {
			c.metrics.IncDispatchError(string(ce.Kind))
		}
		c.metrics.ObservePhase("dispatch", time.Since(dispatchStart))
		c.rollbackCleanupOnly(ctx, &log, setupDone)
		return err
	}
	c.metrics.ObservePhase("dispatch", time.Since(dispatchStart))

	startPhaseStart := time.Now()
	started := make([]*Module, 0, len(c.modules))
	for _, m := range c.modules {
		if m.Hooks.Start == nil {
			started = append(started, m)
			continue
		}
		if err := m.Hooks.Start(ctx); err != nil {
			log.Error().Err(err).Str("module", m.Name).Msg("start failed")
			c.metrics.IncLifecycleError(m.Name, "start")
			c.metrics.ObservePhase("start", time.Since(startPhaseStart))
			c.rollbackStopAndCleanup(ctx, &log, started, setupDone)
			return cfgerr.Lifecycle(m.Name, "start", err)
		}
		started = append(started, m)
	}
	c.metrics.ObservePhase("start", time.Since(startPhaseStart))

	c.running = true
	c.metrics.SetRunning(true)
	log.Info().Msg("start_all: complete")
	return nil
}

// rollbackCleanupOnly runs Cleanup, in reverse order, on every module
// that received Setup. Used when phase 1 or phase 2 failed — no module
// has been Started yet.
func (c *Coordinator) rollbackCleanupOnly(ctx context.Context, log *zerolog.Logger, setupDone []*Module) {
	for i := len(setupDone) - 1; i >= 0; i-- {
		m := setupDone[i]
		if m.Hooks.Cleanup == nil {
			continue
		}
		if err := m.Hooks.Cleanup(ctx); err != nil {
			log.Warn().Err(err).Str("module", m.Name).Msg("cleanup error during roll-back")
		}
	}
}

// rollbackStopAndCleanup runs Stop, in reverse order, on every module
// that received Start, then Cleanup, in reverse order, on every module
// that received Setup — guaranteeing every Stop precedes every Cleanup.
func (c *Coordinator) rollbackStopAndCleanup(ctx context.Context, log *zerolog.Logger, started, setupDone []*Module) {
	for i := len(started) - 1; i >= 0; i-- {
		m := started[i]
		if m.Hooks.Stop == nil {
			continue
		}
		if err := m.Hooks.Stop(ctx); err != nil {
			log.Warn().Err(err).Str("module", m.Name).Msg("stop error during roll-back")
		}
	}
	c.rollbackCleanupOnly(ctx, log, setupDone)
}

// StopAll runs Stop on every module in reverse registration order, waits
// for every Stop to return, then runs Cleanup on every module in reverse
// registration order. Hook errors are logged, not propagated — a
// misbehaving module must not be able to wedge shutdown.
func (c *Coordinator) StopAll(ctx context.Context) {
	log := c.logger.With().Logger()
	log.Info().Msg("stop_all: beginning")

	for i := len(c.modules) - 1; i >= 0; i-- {
		m := c.modules[i]
		if m.Hooks.Stop == nil {
			continue
		}
		if err := m.Hooks.Stop(ctx); err != nil {
			log.Warn().Err(err).Str("module", m.Name).Msg("stop error (ignored)")
		}
	}
	for i := len(c.modules) - 1; i >= 0; i-- {
		m := c.modules[i]
		if m.Hooks.Cleanup == nil {
			continue
		}
		if err := m.Hooks.Cleanup(ctx); err != nil {
			log.Warn().Err(err).Str("module", m.Name).Msg("cleanup error (ignored)")
		}
	}

	c.running = false
	c.metrics.SetRunning(false)
	log.Info().Msg("stop_all: complete")
}
