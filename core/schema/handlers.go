package schema

import (
	"strconv"
	"strings"

	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/entry"
)

// singleValueNoAttrsNoChildren is the shared shape check every stock
// handler but NestedBlockHandler enforces.
func singleValueNoAttrsNoChildren(spec *Spec, e *entry.Entry) (string, error) {
	if e.HasChildren {
		return "", cfgerr.BadValue(spec.Name, "does not accept a { ... } block")
	}
	if len(e.Attributes) != 0 {
		return "", cfgerr.BadValue(spec.Name, "does not accept attributes")
	}
	if len(e.Values) != 1 {
		return "", cfgerr.BadValue(spec.Name, "expects exactly one value")
	}
	return e.Values[0], nil
}

var trueWords = map[string]bool{"1": true, "y": true, "on": true, "yes": true, "true": true, "enable": true}
var falseWords = map[string]bool{"0": true, "n": true, "off": true, "no": true, "false": true, "disable": true}

// BoolHandler is the stock Bool handler: it case-insensitively accepts
// "1 y on yes true enable" as true and "0 n off no false disable" as
// false, writing the result into *bool pointed to by spec.Dest.
func BoolHandler(ctx *Context, spec *Spec, e *entry.Entry) error {
	raw, err := singleValueNoAttrsNoChildren(spec, e)
	if err != nil {
		return err
	}
	v := strings.ToLower(raw)
	dest, ok := spec.Dest.(*bool)
	if !ok {
		return cfgerr.AllocationFailure("bool spec " + spec.Name + " has no *bool destination")
	}
	switch {
	case trueWords[v]:
		*dest = true
	case falseWords[v]:
		*dest = false
	default:
		return cfgerr.BadValue(spec.Name, "not a recognized boolean: "+raw)
	}
	return nil
}

// IntConstraint is the Ext a Spec using IntHandler may set.
type IntConstraint struct {
	// Min/Max define an inclusive range, active only when Min != Max.
	Min, Max int32
	// MultipleOf, when non-zero, requires the value be a multiple of it.
	MultipleOf int32
}

// IntHandler is the stock Int handler. It strips a case-insensitive
// "0x"/"0b" prefix to select base 16/2; otherwise it parses base 10 —
// deliberately NOT treating a leading zero as an octal prefix. Values
// are parsed as 32-bit signed integers and written into *int32 pointed
// to by spec.Dest. spec.Ext may hold an *IntConstraint.
func IntHandler(ctx *Context, spec *Spec, e *entry.Entry) error {
	raw, err := singleValueNoAttrsNoChildren(spec, e)
	if err != nil {
		return err
	}

	base := 10
	body := raw
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, body = 16, raw[2:]
	case strings.HasPrefix(lower, "0b"):
		base, body = 2, raw[2:]
	}

	n, err := strconv.ParseInt(body, base, 32)
	if err != nil {
		return cfgerr.BadValue(spec.Name, "not a valid integer: "+raw)
	}
	v := int32(n)

	if c, ok := spec.Ext.(*IntConstraint); ok && c != nil {
		if c.Min != c.Max && (v < c.Min || v > c.Max) {
			return cfgerr.ValueOutOfRange(spec.Name, "value out of range")
		}
		if c.MultipleOf != 0 && v%c.MultipleOf != 0 {
			return cfgerr.ValueOutOfRange(spec.Name, "value is not a multiple of the required step")
		}
	}

	dest, ok := spec.Dest.(*int32)
	if !ok {
		return cfgerr.AllocationFailure("int spec " + spec.Name + " has no *int32 destination")
	}
	*dest = v
	return nil
}

// StringConstraint is the Ext a Spec using StringHandler may set.
type StringConstraint struct {
	// MinLen/MaxLen bound the value length; zero MaxLen means
	// "unbounded except by the destination buffer's capacity".
	MinLen, MaxLen int
}

// StringDest is the fixed-capacity destination StringHandler copies
// into, echoing the source's "copy into a caller-provided fixed buffer"
// semantics: Buf must be pre-allocated with spare capacity, and a value
// that would overflow it is rejected rather than silently truncated.
type StringDest struct {
	Buf []byte
	Len int
}

// Value returns the currently stored string.
func (d *StringDest) Value() string { return string(d.Buf[:d.Len]) }

// StringHandler is the stock String handler.
func StringHandler(ctx *Context, spec *Spec, e *entry.Entry) error {
	raw, err := singleValueNoAttrsNoChildren(spec, e)
	if err != nil {
		return err
	}

	if c, ok := spec.Ext.(*StringConstraint); ok && c != nil {
		if c.MinLen > 0 && len(raw) < c.MinLen {
			return cfgerr.ValueOutOfRange(spec.Name, "value is shorter than the minimum length")
		}
		if c.MaxLen > 0 && len(raw) > c.MaxLen {
			return cfgerr.ValueOutOfRange(spec.Name, "value is longer than the maximum length")
		}
	}

	dest, ok := spec.Dest.(*StringDest)
	if !ok || dest.Buf == nil {
		return cfgerr.AllocationFailure("string spec " + spec.Name + " has no destination buffer")
	}
	if len(raw) > cap(dest.Buf) {
		return cfgerr.BadValue(spec.Name, "value would overflow the destination buffer")
	}
	dest.Buf = dest.Buf[:len(raw)]
	copy(dest.Buf, raw)
	dest.Len = len(raw)
	return nil
}

// EnumPair is one (name, value) mapping entry for EnumHandler.
type EnumPair struct {
	Name  string
	Value int
}

// EnumHandler is the stock enum-mapping handler: it maps a single
// identifier value, case-insensitively, to the matching EnumPair.Value
// from spec.Ext.([]EnumPair), writing it to *int pointed to by spec.Dest.
func EnumHandler(ctx *Context, spec *Spec, e *entry.Entry) error {
	raw, err := singleValueNoAttrsNoChildren(spec, e)
	if err != nil {
		return err
	}

	pairs, ok := spec.Ext.([]EnumPair)
	if !ok {
		return cfgerr.AllocationFailure("enum spec " + spec.Name + " has no mapping table")
	}

	for _, p := range pairs {
		if strings.EqualFold(p.Name, raw) {
			dest, ok := spec.Dest.(*int)
			if !ok {
				return cfgerr.AllocationFailure("enum spec " + spec.Name + " has no *int destination")
			}
			*dest = p.Value
			return nil
		}
	}
	return cfgerr.BadValue(spec.Name, "not one of the recognized enum values: "+raw)
}
