// Package entry implements the token-driven entry parser (PFSM) and the
// Entry value it produces: one parsed directive (name, values, attributes,
// "has children" flag) per call to Parser.ParseEntry.
package entry

const (
	// MaxVals and MaxAttrs are the per-entry capacity caps. Exceeding
	// either is a CapacityError, never a silent truncation.
	MaxVals  = 16
	MaxAttrs = 16
)

// Attribute is one key=value pair on a directive. Keys are identifiers;
// values are arbitrary literal strings. Duplicate keys are accepted at
// parse time — handlers decide whether to reject them.
type Attribute struct {
	Key   string
	Value string
}

// Entry is one parsed directive. It is populated incrementally by the
// parser, handed to exactly one handler, then reset before the next
// directive. Handlers must copy the Values or Attributes slices (or use
// Clone) to retain them past their return, since the backing arrays are
// reused; the strings themselves are immutable and safe to keep.
type Entry struct {
	Name        string
	Values      []string
	Attributes  []Attribute
	HasChildren bool
}

// Empty reports whether this is the clean-EOF sentinel result: no name
// was ever set.
func (e *Entry) Empty() bool { return e.Name == "" }

// Reset releases the entry's owned strings and slices (by truncating,
// retaining backing storage) so the next ParseEntry call starts clean.
func (e *Entry) Reset() {
	e.Name = ""
	e.Values = e.Values[:0]
	e.Attributes = e.Attributes[:0]
	e.HasChildren = false
}

// Clone returns a deep-enough copy for a caller that wants to retain the
// entry past the next ParseEntry call (strings are immutable in Go, so
// only the slice headers need copying).
func (e *Entry) Clone() *Entry {
	c := &Entry{
		Name:        e.Name,
		HasChildren: e.HasChildren,
	}
	if len(e.Values) > 0 {
		c.Values = append([]string(nil), e.Values...)
	}
	if len(e.Attributes) > 0 {
		c.Attributes = append([]Attribute(nil), e.Attributes...)
	}
	return c
}
