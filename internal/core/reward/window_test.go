package reward

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWindow_Contains(t *testing.T) {
	from := ts("2023-12-01T04:00:00Z")
	to := ts("2024-03-01T04:00:00Z")

	cases := []struct {
		name string
		w    Window
		at   time.Time
		want bool
	}{
		{"unbounded", Unbounded, ts("1999-01-01T00:00:00Z"), true},
		{"upper only inside", Until(to), ts("2024-02-29T00:00:00Z"), true},
		{"upper only equal", Until(to), to, false},
		{"upper only after", Until(to), to.Add(time.Nanosecond), false},
		{"upper only far past", Until(to), ts("2001-01-01T00:00:00Z"), true},
		{"both inside", Between(from, to), ts("2024-01-15T12:00:00Z"), true},
		{"both equal lower", Between(from, to), from, false},
		{"both equal upper", Between(from, to), to, false},
		{"both just after lower", Between(from, to), from.Add(time.Nanosecond), true},
		{"both before lower", Between(from, to), from.Add(-time.Hour), false},
		{"lower only equal", Window{From: from}, from, false},
		{"lower only after", Window{From: from}, to.Add(24 * time.Hour), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.w.Contains(tc.at); got != tc.want {
				t.Fatalf("Contains(%s) = %v want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestWindow_ContainsIgnoresZoneOffset(t *testing.T) {
	w := Until(ts("2024-03-01T04:00:00Z"))
	// same instant as the bound expressed at +08:00
	if w.Contains(ts("2024-03-01T12:00:00+08:00")) {
		t.Fatalf("bound instant in another zone must be excluded")
	}
	if !w.Contains(ts("2024-03-01T11:59:59+08:00")) {
		t.Fatalf("instant before bound in another zone must be included")
	}
}

func TestWindow_Valid(t *testing.T) {
	a, b := ts("2024-01-01T00:00:00Z"), ts("2024-02-01T00:00:00Z")
	if !Between(a, b).Valid() {
		t.Fatalf("ordered window should be valid")
	}
	if Between(b, a).Valid() {
		t.Fatalf("reversed window should be invalid")
	}
	if Between(a, a).Valid() {
		t.Fatalf("empty window should be invalid")
	}
	if !Until(a).Valid() || !Unbounded.Valid() {
		t.Fatalf("half open windows are always valid")
	}
}
