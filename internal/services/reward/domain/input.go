package domain

import (
	"time"

	"conflux/internal/core/reward"
	perr "conflux/internal/platform/errors"
)

// Apply returns w with the non nil bounds of in
func (in ReportInput) Apply(w reward.Window) reward.Window {
	if in.From != nil {
		w.From = in.From.UTC()
	}
	if in.To != nil {
		w.To = in.To.UTC()
	}
	return w
}

// Validate checks the bounds once they are applied to the configured window
func (in ReportInput) Validate(base reward.Window) error {
	w := in.Apply(base)
	if !w.Valid() {
		return perr.WithField(perr.InvalidArgf("from %s must be before to %s",
			w.From.Format(time.RFC3339), w.To.Format(time.RFC3339)), "from")
	}
	return nil
}
