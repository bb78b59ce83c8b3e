package module

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/schema"
)

func newTestCoordinator() *Coordinator {
	return New(zerolog.Nop(), nil)
}

func recordingHooks(name string, trace *[]string) Hooks {
	return Hooks{
		Setup:   func(ctx context.Context) error { *trace = append(*trace, name+":setup"); return nil },
		Start:   func(ctx context.Context) error { *trace = append(*trace, name+":start"); return nil },
		Stop:    func(ctx context.Context) error { *trace = append(*trace, name+":stop"); return nil },
		Cleanup: func(ctx context.Context) error { *trace = append(*trace, name+":cleanup"); return nil },
	}
}

func TestCoordinator_RegisterAndOrder(t *testing.T) {
	c := newTestCoordinator()
	var trace []string
	for _, n := range []string{"a", "b", "c"} {
		if err := c.Register(context.Background(), &Module{Name: n, Hooks: recordingHooks(n, &trace)}); err != nil {
			t.Fatalf("Register(%s): %v", n, err)
		}
	}

	if err := c.StartAll(context.Background(), nil); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	want := []string{"a:setup", "b:setup", "c:setup", "a:start", "b:start", "c:start"}
	assertTrace(t, trace, want)
	if !c.Running() {
		t.Fatal("expected coordinator to be running after a successful StartAll")
	}

	trace = nil
	c.StopAll(context.Background())
	want = []string{"c:stop", "b:stop", "a:stop", "c:cleanup", "b:cleanup", "a:cleanup"}
	assertTrace(t, trace, want)
	if c.Running() {
		t.Fatal("expected coordinator to be idle after StopAll")
	}
}

func TestCoordinator_RollbackOnStartFailure(t *testing.T) {
	c := newTestCoordinator()
	var trace []string

	a := &Module{Name: "a", Hooks: recordingHooks("a", &trace)}
	b := &Module{Name: "b", Hooks: recordingHooks("b", &trace)}
	b.Hooks.Start = func(ctx context.Context) error {
		trace = append(trace, "b:start-failed")
		return errors.New("boom")
	}
	cc := &Module{Name: "c", Hooks: recordingHooks("c", &trace)}

	for _, m := range []*Module{a, b, cc} {
		if err := c.Register(context.Background(), m); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	err := c.StartAll(context.Background(), nil)
	if !cfgerr.HasKind(err, cfgerr.KindLifecycle) {
		t.Fatalf("got %v, want LifecycleError", err)
	}
	if c.Running() {
		t.Fatal("coordinator must not be running after a failed StartAll")
	}

	// a started (before b failed); c never started (b failed before it).
	// Roll-back: stop a (only module that started), then cleanup a, b, c
	// in reverse registration order (all three received setup).
	want := []string{
		"a:setup", "b:setup", "c:setup",
		"a:start", "b:start-failed",
		"a:stop",
		"c:cleanup", "b:cleanup", "a:cleanup",
	}
	assertTrace(t, trace, want)
}

func TestCoordinator_RollbackOnSetupFailure(t *testing.T) {
	c := newTestCoordinator()
	var trace []string

	a := &Module{Name: "a", Hooks: recordingHooks("a", &trace)}
	b := &Module{Name: "b", Hooks: recordingHooks("b", &trace)}
	b.Hooks.Setup = func(ctx context.Context) error {
		trace = append(trace, "b:setup-failed")
		return errors.New("boom")
	}

	for _, m := range []*Module{a, b} {
		if err := c.Register(context.Background(), m); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	err := c.StartAll(context.Background(), nil)
	if err == nil {
		t.Fatal("expected StartAll to fail")
	}
	// Only a received setup; b's setup failed before a received start.
	want := []string{"a:setup", "b:setup-failed", "a:cleanup"}
	assertTrace(t, trace, want)
}

func TestCoordinator_RollbackOnDispatchFailure(t *testing.T) {
	c := newTestCoordinator()
	var trace []string

	a := &Module{
		Name:  "a",
		Hooks: recordingHooks("a", &trace),
		Schemas: []*schema.Spec{
			{Name: "must", Handler: schema.BoolHandler, Dest: new(bool)},
		},
	}
	if err := c.Register(context.Background(), a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// "must" is required (no default, AllowNone false) and absent from
	// empty input, so dispatch should fail with MissingRequired and the
	// module that already received setup must be cleaned up.
	err := c.StartAll(context.Background(), []byte(""))
	if !cfgerr.HasKind(err, cfgerr.KindMissingRequired) {
		t.Fatalf("got %v, want MissingRequired", err)
	}
	want := []string{"a:setup", "a:cleanup"}
	assertTrace(t, trace, want)
}

func TestCoordinator_RegisterForbiddenWhileRunning(t *testing.T) {
	c := newTestCoordinator()
	if err := c.Register(context.Background(), &Module{Name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.StartAll(context.Background(), nil); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := c.Register(context.Background(), &Module{Name: "b"}); err == nil {
		t.Fatal("expected Register to fail while running")
	}
}

func TestCoordinator_UnregisterWhileRunningWarnsButSucceeds(t *testing.T) {
	c := newTestCoordinator()
	if err := c.Register(context.Background(), &Module{Name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.StartAll(context.Background(), nil); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := c.Unregister(context.Background(), "a"); err != nil {
		t.Fatalf("Unregister while running should be permitted: %v", err)
	}
}

func TestCoordinator_ValidateNeverStartsOrRuns(t *testing.T) {
	c := newTestCoordinator()
	var trace []string
	a := &Module{Name: "a", Hooks: recordingHooks("a", &trace)}
	if err := c.Register(context.Background(), a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := c.Validate(context.Background(), nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []string{"a:setup", "a:cleanup"}
	assertTrace(t, trace, want)
	if c.Running() {
		t.Fatal("Validate must never transition the coordinator to running")
	}
}

func TestCoordinator_ValidateReportsDispatchFailureAndStillCleansUp(t *testing.T) {
	c := newTestCoordinator()
	var trace []string
	a := &Module{
		Name:  "a",
		Hooks: recordingHooks("a", &trace),
		Schemas: []*schema.Spec{
			{Name: "must", Handler: schema.BoolHandler, Dest: new(bool)},
		},
	}
	if err := c.Register(context.Background(), a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := c.Validate(context.Background(), []byte(""))
	if !cfgerr.HasKind(err, cfgerr.KindMissingRequired) {
		t.Fatalf("got %v, want MissingRequired", err)
	}
	want := []string{"a:setup", "a:cleanup"}
	assertTrace(t, trace, want)
}

// TestCoordinator_RepeatedStartAllThroughNestedBlock guards against a
// restart regression: a second StartAll over text containing a nested
// block must not see the child specs' leftover CallCounter from the
// first run and spuriously report a duplicate.
func TestCoordinator_RepeatedStartAllThroughNestedBlock(t *testing.T) {
	c := newTestCoordinator()

	var certDest schema.StringDest
	certDest.Buf = make([]byte, 0, 64)
	child := []*schema.Spec{
		{Name: "cert", Handler: schema.StringHandler, Dest: &certDest},
	}
	mod := &Module{
		Name: "tls",
		Schemas: []*schema.Spec{
			{Name: "tls", Handler: schema.NestedBlockHandler(child), AllowNone: true},
		},
	}
	if err := c.Register(context.Background(), mod); err != nil {
		t.Fatalf("Register: %v", err)
	}

	text := []byte(`tls { cert "/a"; }`)
	if err := c.StartAll(context.Background(), text); err != nil {
		t.Fatalf("first StartAll: %v", err)
	}
	c.StopAll(context.Background())

	if err := c.StartAll(context.Background(), text); err != nil {
		t.Fatalf("second StartAll (restart through nested block): %v", err)
	}
	c.StopAll(context.Background())
}

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace length mismatch\n got:  %v\n want: %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace[%d] = %q, want %q\n full got: %v\n full want: %v", i, got[i], want[i], got, want)
		}
	}
}
