package reward

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func mustCanon(t *testing.T, raw ...Submission) Canonical {
	t.Helper()
	c, _, err := Reconcile(raw, zerolog.Nop())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	return c
}

func TestAggregate_OnlyFirstEverCountsAsTranslated(t *testing.T) {
	canon := mustCanon(t,
		sub(1, 10, "a", t0, "你好"),
		sub(2, 10, "b", t0.Add(time.Hour), "你好吗"),
	)
	res, st := Aggregate(canon, nil, Unbounded, DefaultCharRange, nil, zerolog.Nop())

	if got := *res["a"]; got != (Counters{Translated: 1, TranslatedChars: 2}) {
		t.Fatalf("a counters = %+v", got)
	}
	// b is referenced so it exists, but earns nothing
	b, ok := res["b"]
	if !ok {
		t.Fatalf("contributor b must have an entry")
	}
	if *b != (Counters{}) {
		t.Fatalf("b counters = %+v want zero", *b)
	}
	if st.SubmissionsInWin != 1 {
		t.Fatalf("submissions in window = %d want 1", st.SubmissionsInWin)
	}
}

func TestAggregate_WindowFiltersSubmissions(t *testing.T) {
	to := t0.Add(time.Hour)
	canon := mustCanon(t,
		sub(1, 10, "a", t0, "一"),
		sub(2, 11, "a", to, "二"),
		sub(3, 12, "a", to.Add(time.Hour), "三"),
	)
	res, _ := Aggregate(canon, nil, Until(to), DefaultCharRange, nil, zerolog.Nop())
	if got := *res["a"]; got.Translated != 1 || got.TranslatedChars != 1 {
		t.Fatalf("only the submission strictly before the bound counts, got %+v", got)
	}
}

func TestAggregate_ApprovalsCreditTheTranslator(t *testing.T) {
	canon := mustCanon(t, sub(1, 10, "translator", t0, "你好"))
	apps := []Approval{{SubmissionID: 1, StringID: 10, CreatedAt: t0.Add(time.Minute), LanguageID: "zh-CN", Approver: "reviewer"}}

	res, st := Aggregate(canon, apps, Unbounded, DefaultCharRange, nil, zerolog.Nop())
	if _, ok := res["reviewer"]; ok {
		t.Fatalf("approver must not get an entry")
	}
	got := *res["translator"]
	if got.Approved != 1 || got.ApprovedChars != 2 {
		t.Fatalf("translator counters = %+v", got)
	}
	if st.ApprovalsInWin != 1 {
		t.Fatalf("approvals in window = %d want 1", st.ApprovalsInWin)
	}
}

func TestAggregate_ApprovalWindowUsesApprovalTime(t *testing.T) {
	to := t0.Add(time.Hour)
	// submission inside, approval on the bound
	canon := mustCanon(t, sub(1, 10, "a", t0, "好"))
	apps := []Approval{
		{SubmissionID: 1, CreatedAt: to},
		{SubmissionID: 1, CreatedAt: to.Add(-time.Second)},
	}
	res, _ := Aggregate(canon, apps, Until(to), DefaultCharRange, nil, zerolog.Nop())
	if got := *res["a"]; got.Approved != 1 || got.ApprovedChars != 1 {
		t.Fatalf("approval on the bound must be excluded, got %+v", got)
	}
}

func TestAggregate_ApprovalOfNonFirstSubmissionStillCounts(t *testing.T) {
	canon := mustCanon(t,
		sub(1, 10, "a", t0, "一"),
		sub(2, 10, "b", t0.Add(time.Hour), "二二"),
	)
	apps := []Approval{{SubmissionID: 2, CreatedAt: t0.Add(2 * time.Hour)}}
	res, _ := Aggregate(canon, apps, Unbounded, DefaultCharRange, nil, zerolog.Nop())
	if got := *res["b"]; got != (Counters{Approved: 1, ApprovedChars: 2}) {
		t.Fatalf("b counters = %+v", got)
	}
}

func TestAggregate_OrphanApprovalIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	canon := mustCanon(t, sub(1, 10, "a", t0, "你"))
	apps := []Approval{
		{SubmissionID: 404, StringID: 99, CreatedAt: t0, Approver: "r"},
		{SubmissionID: 1, StringID: 10, CreatedAt: t0.Add(time.Second)},
	}

	res, st := Aggregate(canon, apps, Unbounded, DefaultCharRange, nil, zerolog.New(&buf))
	if st.Orphans != 1 {
		t.Fatalf("orphans = %d want 1", st.Orphans)
	}
	if len(res) != 1 {
		t.Fatalf("orphan must not create entries, got %v", res.Contributors())
	}
	if got := *res["a"]; got != (Counters{Translated: 1, TranslatedChars: 1, Approved: 1, ApprovedChars: 1}) {
		t.Fatalf("a counters = %+v", got)
	}
	if !strings.Contains(buf.String(), "no submission for approval") {
		t.Fatalf("missing orphan diagnostic: %s", buf.String())
	}
}

func TestAggregate_ApprovalOutsideWindowStillCreatesEntry(t *testing.T) {
	// submission is not first and the approval is late, the translator still shows up
	canon := mustCanon(t,
		sub(1, 10, "a", t0, ""),
		sub(2, 10, "b", t0.Add(time.Hour), "好"),
	)
	delete(canon, 1)
	apps := []Approval{{SubmissionID: 2, CreatedAt: t0.Add(48 * time.Hour)}}
	res, _ := Aggregate(canon, apps, Until(t0.Add(24*time.Hour)), DefaultCharRange, nil, zerolog.Nop())
	if c, ok := res["b"]; !ok || *c != (Counters{}) {
		t.Fatalf("b should exist with zero counters, got %v", res["b"])
	}
}

func TestAggregate_LanguageScopeKeepsFirstEverAcrossLanguages(t *testing.T) {
	es := sub(1, 7, "es", t0, "hola")
	es.LanguageID = "es-ES"
	zh := sub(2, 7, "zh", t0.Add(time.Hour), "你好")
	zh.LanguageID = "zh-CN"
	canon := mustCanon(t, es, zh)
	apps := []Approval{
		{SubmissionID: 2, CreatedAt: t0.Add(2 * time.Hour), LanguageID: "zh-CN"},
		{SubmissionID: 1, CreatedAt: t0.Add(2 * time.Hour), LanguageID: "es-ES"},
	}

	all, _ := Aggregate(canon, apps, Unbounded, DefaultCharRange, nil, zerolog.Nop())
	scoped, st := Aggregate(canon, apps, Unbounded, DefaultCharRange, Languages{"zh-cn"}, zerolog.Nop())

	// the earlier es-ES record owns the string whether or not the report is scoped
	want := Counters{Approved: 1, ApprovedChars: 2}
	if got := *all["zh"]; got != want {
		t.Fatalf("unscoped zh = %+v want %+v", got, want)
	}
	if got := *scoped["zh"]; got != want {
		t.Fatalf("scoped zh = %+v want %+v", got, want)
	}
	if _, ok := scoped["es"]; ok {
		t.Fatalf("es-ES contributor should be out of scope, got %v", scoped.Contributors())
	}
	if st.OutOfScope != 1 || st.Orphans != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestLanguages_Admits(t *testing.T) {
	if !(Languages(nil)).Admits("fr") {
		t.Fatalf("empty scope admits everything")
	}
	l := Languages{"zh-CN", "es-ES"}
	if !l.Admits("ZH-cn") || l.Admits("fr") || l.Admits("") {
		t.Fatalf("scope %v admits wrong tags", l)
	}
}
