package reward

import "time"

// Window is the reporting range
// a zero bound is disabled, both bounds are exclusive
type Window struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// Unbounded is the window that admits every timestamp
var Unbounded = Window{}

// Until returns a window with only an upper bound
func Until(to time.Time) Window { return Window{To: to} }

// Between returns a window with both bounds set
func Between(from, to time.Time) Window { return Window{From: from, To: to} }

// Contains reports whether t lies strictly inside the enabled bounds
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && !t.After(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// Valid reports whether the bounds are ordered when both are set
func (w Window) Valid() bool {
	if w.From.IsZero() || w.To.IsZero() {
		return true
	}
	return w.From.Before(w.To)
}
