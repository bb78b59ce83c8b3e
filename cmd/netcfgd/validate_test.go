package main

import (
	"testing"

	"github.com/coreflux/netcfgd/core/cfgerr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want cfgerr.Kind
	}{
		{"syntax", cfgerr.Syntax("bad", ""), cfgerr.KindSyntax},
		{"unknown_directive", cfgerr.UnknownDirective("foo"), cfgerr.KindUnknownDirective},
		{"lifecycle wraps bad value", cfgerr.Lifecycle("core", "start", cfgerr.BadValue("x", "nope")), cfgerr.KindLifecycle},
		{"plain error has no kind", errPlain{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.err); got != tc.want {
				t.Fatalf("classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain" }
