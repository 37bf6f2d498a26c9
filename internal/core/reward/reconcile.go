package reward

import (
	"errors"
	"time"

	perr "conflux/internal/platform/errors"

	"github.com/rs/zerolog"
)

// ErrInvariant marks inconsistent input that must abort the run
var ErrInvariant = errors.New("reward: invariant violated")

// Canonical holds the single retained submission per id
// written once by Reconcile and read only afterwards
type Canonical map[SubmissionID]Submission

// Link resolves an approval to the submission it reviews
func (c Canonical) Link(a Approval) (Submission, bool) {
	s, ok := c[a.SubmissionID]
	return s, ok
}

// ReconcileStats tallies what Reconcile saw
type ReconcileStats struct {
	Raw         int `json:"raw"`
	Canonical   int `json:"canonical"`
	Duplicates  int `json:"duplicates"`
	Overwritten int `json:"overwritten"`
	NotFirst    int `json:"not_first"`
	Strings     int `json:"strings"`
}

type firstRef struct {
	id SubmissionID
	at time.Time
}

// indexFirsts maps each string id to its earliest submission
// on equal timestamps the record encountered first stays
func indexFirsts(raw []Submission) map[StringID]firstRef {
	idx := make(map[StringID]firstRef)
	for _, s := range raw {
		if cur, ok := idx[s.StringID]; ok && !s.CreatedAt.Before(cur.at) {
			continue
		}
		idx[s.StringID] = firstRef{id: s.ID, at: s.CreatedAt}
	}
	return idx
}

// Reconcile dedupes raw submissions by id and flags the first ever
// submission of every string
//
// Records are folded in slice order. An id seen again keeps the existing
// entry unless the incoming record is strictly earlier. First ever status is
// decided against the whole raw slice so the flag does not depend on order
func Reconcile(raw []Submission, log zerolog.Logger) (Canonical, ReconcileStats, error) {
	return reconcile(raw, indexFirsts(raw), log)
}

func reconcile(raw []Submission, firsts map[StringID]firstRef, log zerolog.Logger) (Canonical, ReconcileStats, error) {
	canon := make(Canonical, len(raw))
	st := ReconcileStats{Raw: len(raw), Strings: len(firsts)}

	for _, s := range raw {
		if prev, ok := canon[s.ID]; ok {
			st.Duplicates++
			if !s.CreatedAt.Before(prev.CreatedAt) {
				continue
			}
			st.Overwritten++
			log.Warn().
				Stringer("submission_id", s.ID).
				Time("prev_created_at", prev.CreatedAt).
				Time("next_created_at", s.CreatedAt).
				Msg("reward: duplicate submission overwritten by earlier record")
		}

		first, ok := firsts[s.StringID]
		if !ok {
			return nil, st, errors.Join(ErrInvariant, perr.Internalf(
				"reward: no submissions indexed for string %s", s.StringID))
		}
		s.FirstForString = first.id == s.ID
		if !s.FirstForString {
			log.Debug().
				Stringer("submission_id", s.ID).
				Stringer("string_id", s.StringID).
				Stringer("first_submission_id", first.id).
				Msg("reward: not first submission for string")
		}
		canon[s.ID] = s
	}

	for _, s := range canon {
		if !s.FirstForString {
			st.NotFirst++
		}
	}
	st.Canonical = len(canon)
	return canon, st, nil
}
