package reward

import "github.com/rs/zerolog"

// AggregateStats tallies what Aggregate saw
type AggregateStats struct {
	Approvals        int `json:"approvals"`
	Orphans          int `json:"orphans"`
	OutOfScope       int `json:"out_of_scope"`
	SubmissionsInWin int `json:"submissions_in_window"`
	ApprovalsInWin   int `json:"approvals_in_window"`
}

// Aggregate folds canonical submissions then approvals into per contributor
// counters
//
// Only first ever submissions inside the window count as translated.
// Approvals count for the contributor of the linked submission, never the
// approver. Approvals without a canonical submission are skipped.
// Records outside langs are skipped before either pass looks at them; first
// ever status was already settled by Reconcile over every language
func Aggregate(canon Canonical, approvals []Approval, w Window, chars CharRange, langs Languages, log zerolog.Logger) (Results, AggregateStats) {
	out := make(Results)
	st := AggregateStats{Approvals: len(approvals)}

	for _, s := range canon {
		if !langs.Admits(s.LanguageID) {
			continue
		}
		c := out.entry(s.Contributor)
		if !s.FirstForString || !w.Contains(s.CreatedAt) {
			continue
		}
		st.SubmissionsInWin++
		c.Translated++
		c.TranslatedChars += chars.Count(s.Text)
	}

	for _, a := range approvals {
		if !langs.Admits(a.LanguageID) {
			st.OutOfScope++
			continue
		}
		s, ok := canon.Link(a)
		if !ok {
			st.Orphans++
			log.Warn().
				Stringer("submission_id", a.SubmissionID).
				Stringer("string_id", a.StringID).
				Str("language_id", a.LanguageID).
				Str("approver", a.Approver).
				Time("created_at", a.CreatedAt).
				Msg("reward: no submission for approval")
			continue
		}
		c := out.entry(s.Contributor)
		if !w.Contains(a.CreatedAt) {
			continue
		}
		st.ApprovalsInWin++
		c.Approved++
		c.ApprovedChars += chars.Count(s.Text)
	}

	return out, st
}
