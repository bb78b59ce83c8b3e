package entry

import (
	"testing"

	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/token"
)

func parseAll(t *testing.T, input string) []*Entry {
	t.Helper()
	p := NewParser(token.New([]byte(input)))
	var got []*Entry
	for {
		e, err := p.ParseEntry()
		if err != nil {
			t.Fatalf("ParseEntry: %v", err)
		}
		if e.Empty() {
			break
		}
		got = append(got, e.Clone())
	}
	return got
}

func TestParseEntry_SimpleValue(t *testing.T) {
	entries := parseAll(t, "entry1 42;")
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	e := entries[0]
	if e.Name != "entry1" || len(e.Values) != 1 || e.Values[0] != "42" {
		t.Fatalf("got %+v", e)
	}
	if e.HasChildren {
		t.Fatal("HasChildren should be false")
	}
}

func TestParseEntry_MultipleValuesAndAttrs(t *testing.T) {
	entries := parseAll(t, "entry2 1 2 3 foo=bar;")
	e := entries[0]
	if len(e.Values) != 3 || e.Values[2] != "3" {
		t.Fatalf("got %+v", e)
	}
	if len(e.Attributes) != 1 || e.Attributes[0] != (Attribute{"foo", "bar"}) {
		t.Fatalf("got %+v", e)
	}
}

func TestParseEntry_AttributeOrderPreserved(t *testing.T) {
	entries := parseAll(t, `srv host=a.example p=80;`)
	e := entries[0]
	if len(e.Values) != 0 {
		t.Fatalf("expected no values, got %+v", e.Values)
	}
	want := []Attribute{{"host", "a.example"}, {"p", "80"}}
	if len(e.Attributes) != 2 || e.Attributes[0] != want[0] || e.Attributes[1] != want[1] {
		t.Fatalf("got %+v", e.Attributes)
	}
}

func TestParseEntry_HasChildrenLeavesBraceUnconsumed(t *testing.T) {
	p := NewParser(token.New([]byte(`section { a 1; }`)))
	e, err := p.ParseEntry()
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if !e.HasChildren {
		t.Fatal("expected HasChildren")
	}
	if p.Cur().Kind != token.LBRACE {
		t.Fatalf("expected parser to stop at LBRACE, got %v", p.Cur().Kind)
	}
}

func TestParseEntry_MultipleEntriesInSequence(t *testing.T) {
	entries := parseAll(t, "a 1; b 2; c 3;")
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, name := range []string{"a", "b", "c"} {
		if entries[i].Name != name {
			t.Fatalf("entry %d: got name %q", i, entries[i].Name)
		}
	}
}

func TestParseEntry_InvalidName(t *testing.T) {
	p := NewParser(token.New([]byte(`1bad 1;`)))
	_, err := p.ParseEntry()
	if !cfgerr.HasKind(err, cfgerr.KindInvalidIdentifier) {
		t.Fatalf("got %v, want InvalidIdentifier", err)
	}
}

func TestParseEntry_TooManyValues(t *testing.T) {
	input := "entry"
	for i := 0; i < 17; i++ {
		input += " v"
	}
	input += ";"
	p := NewParser(token.New([]byte(input)))
	_, err := p.ParseEntry()
	if !cfgerr.HasKind(err, cfgerr.KindCapacity) {
		t.Fatalf("got %v, want CapacityError", err)
	}
}

func TestParseEntry_TooManyAttrs(t *testing.T) {
	input := "entry"
	for i := 0; i < 17; i++ {
		input += " k=v"
	}
	input += ";"
	p := NewParser(token.New([]byte(input)))
	_, err := p.ParseEntry()
	if !cfgerr.HasKind(err, cfgerr.KindCapacity) {
		t.Fatalf("got %v, want CapacityError", err)
	}
}

func TestParseEntry_UnclosedQuoteIsSyntaxError(t *testing.T) {
	p := NewParser(token.New([]byte("name \"abc\ndef")))
	_, err := p.ParseEntry()
	if !cfgerr.HasKind(err, cfgerr.KindSyntax) {
		t.Fatalf("got %v, want SyntaxError", err)
	}
}

func TestParseEntry_IdempotentAcrossCalls(t *testing.T) {
	input := "a 1; b 2;"
	fresh := parseAll(t, input)

	p := NewParser(token.New([]byte(input)))
	e1, _ := p.ParseEntry()
	_ = e1.Clone()
	afterOne := parseAll(t, "b 2;")

	if fresh[1].Name != afterOne[0].Name || fresh[1].Values[0] != afterOne[0].Values[0] {
		t.Fatalf("parse result differs depending on prior calls: %+v vs %+v", fresh[1], afterOne[0])
	}
}

func TestParseEntry_EmptyInputIsCleanEOF(t *testing.T) {
	p := NewParser(token.New([]byte("")))
	e, err := p.ParseEntry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Empty() {
		t.Fatalf("expected empty entry, got %+v", e)
	}
}
