// Package schema implements the schema-driven dispatch layer: matching
// parsed entries to registered Specs, enforcing per-spec cardinality and
// defaults, and invoking handlers — including the stock handlers and the
// nested-block recursion handler.
package schema

import (
	"fmt"

	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/entry"
	"github.com/coreflux/netcfgd/core/metrics"
	"github.com/coreflux/netcfgd/core/token"
)

// Context is threaded through every handler call instead of relying on a
// hidden global parser. The nested-block handler reaches back into it to
// recurse into the same token stream its caller is positioned on.
type Context struct {
	Parser *entry.Parser

	// RunID identifies one StartAll or Validate call. Set by the module
	// coordinator, which tags its own log lines with it as run_id; no
	// metric carries it.
	RunID string

	// Metrics is optional; a nil value disables instrumentation.
	Metrics *metrics.Metrics
}

// HandlerFunc is the polymorphic operation a Spec invokes when its
// directive is matched.
type HandlerFunc func(ctx *Context, spec *Spec, e *entry.Entry) error

// Spec is a declarative record binding one directive name to a handler,
// its constraints, an optional default, and a cardinality policy.
type Spec struct {
	Name    string
	Handler HandlerFunc

	// Dest is the opaque destination the handler writes into.
	Dest any
	// Ext carries per-handler constraints (range, length, enum table...).
	Ext any

	// Default is the literal textual body that would follow "Name" up
	// to the ";", or nil if there is no default.
	Default *string

	// AllowNone means absence is not an error when Default is nil.
	AllowNone bool
	// AllowRepeat means the directive may appear more than once.
	AllowRepeat bool

	// CallCounter is reset at the start of each parse and incremented
	// on every successful handler invocation.
	CallCounter int
}

// Validate checks the invariants a Spec must satisfy. ResetCounters runs
// it at the start of every parse; Coordinator.Register does not call it.
func (s *Spec) Validate() error {
	if !token.IsIdentifier(s.Name) {
		return cfgerr.InvalidIdentifier(fmt.Sprintf("spec name %q is not a valid identifier", s.Name))
	}
	if s.Handler == nil {
		return fmt.Errorf("spec %q: handler must not be nil", s.Name)
	}
	if s.CallCounter < 0 {
		return fmt.Errorf("spec %q: call_counter must not be negative", s.Name)
	}
	if s.Default != nil {
		if err := validateDefaultParses(s); err != nil {
			return fmt.Errorf("spec %q: default does not parse: %w", s.Name, err)
		}
	}
	return nil
}

func validateDefaultParses(s *Spec) error {
	text := s.Name + " " + *s.Default + ";"
	p := entry.NewParser(token.New([]byte(text)))
	e, err := p.ParseEntry()
	if err != nil {
		return err
	}
	if e.Empty() {
		return fmt.Errorf("produced no entry")
	}
	return nil
}

// Lookup scans specs in order and returns the first one matching name.
func Lookup(specs []*Spec, name string) (*Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
