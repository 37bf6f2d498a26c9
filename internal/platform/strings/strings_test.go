package strings

import (
	"testing"

	"conflux/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"zh-CN"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "zh-CN" {
		t.Fatalf("nil: %v", got)
	}
	if got := IfEmpty([]string{}, def); len(got) != 1 {
		t.Fatalf("empty: %v", got)
	}
	if got := IfEmpty([]string{"es-ES", "de"}, def); len(got) != 2 || got[0] != "es-ES" {
		t.Fatalf("set: %v", got)
	}
	if got := IfEmpty[int](nil, nil); got != nil {
		t.Fatalf("nil def: %v", got)
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("rewards", "name"); got != "rewards" {
		t.Fatalf("want rewards got %q", got)
	}
	testkit.MustPanic(t, func() { MustString("   ", "name") })
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"/rewards/":   "/rewards",
		" rewards  ":  "/rewards",
		"//rewards//": "/rewards",
		"/meta":       "/meta",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("in %q want %q got %q", in, want, got)
		}
	}
	for _, in := range []string{"/", "", "  /  "} {
		testkit.MustPanic(t, func() { MustPrefix(in) })
	}
}
