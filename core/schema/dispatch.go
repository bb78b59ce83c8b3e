package schema

import (
	"fmt"
	"time"

	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/entry"
	"github.com/coreflux/netcfgd/core/token"
)

// ResetCounters zeroes every spec's CallCounter and asserts its
// invariants. Dispatch calls it at the start of a top-level parse over the
// flattened registration-order spec list, and NestedBlockHandler calls it
// over the child spec set each time a block body is entered.
func ResetCounters(specs []*Spec) error {
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return err
		}
		s.CallCounter = 0
	}
	return nil
}

// handleEntry enforces cardinality, invokes spec.Handler, and advances
// CallCounter on success. Shared by Dispatch's top-level loop and
// NestedBlockHandler's child loop, so both report entries-dispatched.
func handleEntry(ctx *Context, spec *Spec, e *entry.Entry) error {
	if spec.CallCounter > 0 && !spec.AllowRepeat {
		return cfgerr.Duplicate(spec.Name)
	}
	if err := spec.Handler(ctx, spec, e); err != nil {
		return err
	}
	spec.CallCounter++
	ctx.Metrics.IncEntry(spec.Name)
	return nil
}

// Dispatch drives ctx.Parser over its token stream, matching each parsed
// entry against specs (in the order given — first match wins, exactly
// like the original's "first spec whose name equals") and invoking its
// handler. It stops cleanly at EOF and then runs Finish. specs is
// expected to already be in registration order, flattened across every
// module with a non-empty schema set — the module coordinator builds
// that list; this function has no notion of "module" at all.
func Dispatch(ctx *Context, specs []*Spec) error {
	start := time.Now()
	defer func() { ctx.Metrics.ObserveDispatch(time.Since(start)) }()

	if err := ResetCounters(specs); err != nil {
		return err
	}
	for {
		e, err := ctx.Parser.ParseEntry()
		if err != nil {
			return err
		}
		if e.Empty() {
			break
		}
		spec, ok := Lookup(specs, e.Name)
		if !ok {
			return cfgerr.UnknownDirective(e.Name)
		}
		if err := handleEntry(ctx, spec, e); err != nil {
			return err
		}
	}
	return Finish(ctx, specs)
}

// Finish applies defaults or accepts absence for every spec that was
// never matched, and fails MissingRequired for the rest.
func Finish(ctx *Context, specs []*Spec) error {
	for _, s := range specs {
		if s.CallCounter > 0 {
			continue
		}
		if s.Default != nil {
			if err := ApplyDefault(ctx, s); err != nil {
				return err
			}
			continue
		}
		if s.AllowNone {
			continue
		}
		return cfgerr.MissingRequired(s.Name)
	}
	return nil
}

// ApplyDefault synthesizes "<name> <default>;" into a scratch buffer, runs
// the tokenizer and parser over it, and feeds the resulting entry back
// through handleEntry. A default that fails to parse or to handle is a
// programming error — the spec was registered with a bad default.
func ApplyDefault(ctx *Context, spec *Spec) error {
	if spec.Default == nil {
		return nil
	}
	text := spec.Name + " " + *spec.Default + ";"
	p := entry.NewParser(token.New([]byte(text)))
	e, err := p.ParseEntry()
	if err != nil {
		return fmt.Errorf("programming error: default for %q failed to parse: %w", spec.Name, err)
	}
	if e.Empty() {
		return fmt.Errorf("programming error: default for %q produced no entry", spec.Name)
	}
	return handleEntry(ctx, spec, e)
}

// NestedBlockHandler returns a HandlerFunc a Spec names to accept
// `{ ... }` bodies. The child schema set is captured by the closure
// since it must be known at registration time, not discovered from the
// entry; Dest/Ext on the block's own Spec are unused by this handler.
// It shares ctx.Parser with its caller, so it resumes scanning exactly
// where the caller left the token stream — no buffer duplication.
func NestedBlockHandler(child []*Spec) HandlerFunc {
	return func(ctx *Context, spec *Spec, e *entry.Entry) error {
		if len(e.Values) != 0 || len(e.Attributes) != 0 || !e.HasChildren {
			return cfgerr.BadValue(spec.Name, "expected a `{ ... }` block with no values and no attributes")
		}

		if err := ResetCounters(child); err != nil {
			return err
		}

		ctx.Parser.Advance() // consume '{'

		for {
			cur := ctx.Parser.Cur()
			if cur.Kind == token.RBRACE {
				break
			}
			if cur.Kind == token.END {
				return cfgerr.Syntax(fmt.Sprintf("unexpected end of input inside block %q", spec.Name), "")
			}
			childEntry, err := ctx.Parser.ParseEntry()
			if err != nil {
				return err
			}
			if childEntry.Empty() {
				break
			}
			childSpec, ok := Lookup(child, childEntry.Name)
			if !ok {
				return cfgerr.UnknownDirective(childEntry.Name)
			}
			if err := handleEntry(ctx, childSpec, childEntry); err != nil {
				return err
			}
		}

		ctx.Parser.Advance() // consume '}'

		return Finish(ctx, child)
	}
}
