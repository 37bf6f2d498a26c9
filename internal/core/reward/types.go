// Package reward reconciles translation submissions with their approvals and
// folds them into per contributor reward counters
package reward

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// SubmissionID identifies a translation submission on the source platform
type SubmissionID int64

// String renders the id in decimal
func (id SubmissionID) String() string { return strconv.FormatInt(int64(id), 10) }

// StringID identifies the source string a submission translates
type StringID int64

// String renders the id in decimal
func (id StringID) String() string { return strconv.FormatInt(int64(id), 10) }

// Submission is one translation event
// FirstForString is derived by Reconcile and ignored on input
type Submission struct {
	ID             SubmissionID
	StringID       StringID
	LanguageID     string
	Text           string
	Contributor    string
	CreatedAt      time.Time
	FirstForString bool
}

// Approval is a review event pointing back at a submission
// StringID is carried for diagnostics only
type Approval struct {
	SubmissionID SubmissionID
	StringID     StringID
	CreatedAt    time.Time
	LanguageID   string
	Approver     string
}

// Languages limits attribution to these target languages
// the empty set admits every language
type Languages []string

// Admits reports whether lang is in scope; tags compare case insensitively
func (l Languages) Admits(lang string) bool {
	if len(l) == 0 {
		return true
	}
	return slices.ContainsFunc(l, func(s string) bool { return strings.EqualFold(s, lang) })
}

// Counters are the per contributor tallies
type Counters struct {
	Translated      int `json:"translated"`
	Approved        int `json:"approved"`
	TranslatedChars int `json:"translated_chars"`
	ApprovedChars   int `json:"approved_chars"`
}

// Add returns the field wise sum of c and o
func (c Counters) Add(o Counters) Counters {
	return Counters{
		Translated:      c.Translated + o.Translated,
		Approved:        c.Approved + o.Approved,
		TranslatedChars: c.TranslatedChars + o.TranslatedChars,
		ApprovedChars:   c.ApprovedChars + o.ApprovedChars,
	}
}

// Results maps contributor identity to counters
type Results map[string]*Counters

// entry returns the counters for who, creating them zeroed on first reference
func (r Results) entry(who string) *Counters {
	c, ok := r[who]
	if !ok {
		c = &Counters{}
		r[who] = c
	}
	return c
}

// Contributors returns the result keys in ascending order
func (r Results) Contributors() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
