package schema

import (
	"testing"

	"github.com/coreflux/netcfgd/core/cfgerr"
)

func TestStringHandler_CopiesIntoBuffer(t *testing.T) {
	dest := &StringDest{Buf: make([]byte, 0, 16)}
	specs := []*Spec{{Name: "name", Handler: StringHandler, Dest: dest}}
	if err := Dispatch(newCtx(`name hello;`), specs); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if dest.Value() != "hello" {
		t.Fatalf("got %q", dest.Value())
	}
}

func TestStringHandler_OverflowRejected(t *testing.T) {
	dest := &StringDest{Buf: make([]byte, 0, 4)}
	specs := []*Spec{{Name: "name", Handler: StringHandler, Dest: dest}}
	err := Dispatch(newCtx(`name toolongforthebuffer;`), specs)
	if !cfgerr.HasKind(err, cfgerr.KindBadValue) {
		t.Fatalf("got %v, want BadValue", err)
	}
}

func TestStringHandler_LengthRangeRejected(t *testing.T) {
	dest := &StringDest{Buf: make([]byte, 0, 64)}
	specs := []*Spec{{
		Name:    "name",
		Handler: StringHandler,
		Dest:    dest,
		Ext:     &StringConstraint{MinLen: 3, MaxLen: 8},
	}}
	err := Dispatch(newCtx(`name ab;`), specs)
	if !cfgerr.HasKind(err, cfgerr.KindValueOutOfRange) {
		t.Fatalf("got %v, want ValueOutOfRange", err)
	}
}

func TestEnumHandler_CaseInsensitiveMapping(t *testing.T) {
	var got int
	pairs := []EnumPair{{Name: "debug", Value: 0}, {Name: "info", Value: 1}, {Name: "error", Value: 2}}
	specs := []*Spec{{Name: "level", Handler: EnumHandler, Dest: &got, Ext: pairs}}
	if err := Dispatch(newCtx(`level ERROR;`), specs); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestEnumHandler_UnknownValue(t *testing.T) {
	var got int
	pairs := []EnumPair{{Name: "debug", Value: 0}}
	specs := []*Spec{{Name: "level", Handler: EnumHandler, Dest: &got, Ext: pairs}}
	err := Dispatch(newCtx(`level nonsense;`), specs)
	if !cfgerr.HasKind(err, cfgerr.KindBadValue) {
		t.Fatalf("got %v, want BadValue", err)
	}
}

func TestIntHandler_RangeAndMultipleOf(t *testing.T) {
	var got int32
	specs := []*Spec{{
		Name:    "port",
		Handler: IntHandler,
		Dest:    &got,
		Ext:     &IntConstraint{Min: 1, Max: 65535},
	}}
	err := Dispatch(newCtx(`port 70000;`), specs)
	if !cfgerr.HasKind(err, cfgerr.KindValueOutOfRange) {
		t.Fatalf("got %v, want ValueOutOfRange", err)
	}

	specs = []*Spec{{
		Name:    "step",
		Handler: IntHandler,
		Dest:    &got,
		Ext:     &IntConstraint{MultipleOf: 4},
	}}
	err = Dispatch(newCtx(`step 6;`), specs)
	if !cfgerr.HasKind(err, cfgerr.KindValueOutOfRange) {
		t.Fatalf("got %v, want ValueOutOfRange", err)
	}
}
