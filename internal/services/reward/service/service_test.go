package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"conflux/internal/core/reward"
	"conflux/internal/modkit/repokit"
	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/store"
	"conflux/internal/platform/testkit"
	"conflux/internal/services/reward/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeTx struct{ txs int }

func (f *fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (f *fakeTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (f *fakeTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	f.txs++
	return fn(f)
}

type fakeSource struct {
	subs    []reward.Submission
	aps     []reward.Approval
	filters []domain.Filter
	err     error
}

func (f *fakeSource) ListSubmissions(context.Context) ([]reward.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs, nil
}

// ListApprovals narrows by language the way the sql IN clause does
func (f *fakeSource) ListApprovals(_ context.Context, flt domain.Filter) ([]reward.Approval, error) {
	f.filters = append(f.filters, flt)
	if len(flt.Languages) == 0 {
		return f.aps, nil
	}
	var out []reward.Approval
	for _, a := range f.aps {
		if slices.Contains(flt.Languages, a.LanguageID) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeArchive struct {
	saved []domain.Report
	err   error
}

func (f *fakeArchive) Save(_ context.Context, rep domain.Report) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rep)
	return nil
}

var (
	d1     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2     = d1.Add(time.Hour)
	fixed  = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	fixdID = uuid.MustParse("6f1f2b4e-8a55-4c1e-9a51-1d1b5a0c0f00")
)

func scenario() *fakeSource {
	return &fakeSource{
		subs: []reward.Submission{
			{ID: 1, StringID: 1, LanguageID: "zh-CN", Text: "你好", Contributor: "A", CreatedAt: d1},
			{ID: 2, StringID: 1, LanguageID: "zh-CN", Text: "你好吗", Contributor: "B", CreatedAt: d2},
		},
		aps: []reward.Approval{{SubmissionID: 1, StringID: 1, CreatedAt: d1.Add(time.Second), LanguageID: "zh-CN"}},
	}
}

func harness(src *fakeSource, arch domain.ArchiveRepo, cfg Config) (*Service, *fakeTx) {
	tx := &fakeTx{}
	s := New(tx, repokit.BindFunc[domain.SourceRepo](func(repokit.Queryer) domain.SourceRepo { return src }), arch, cfg)
	s.now = func() time.Time { return fixed }
	s.newID = func() uuid.UUID { return fixdID }
	return s, tx
}

func defaultCfg() Config {
	c := Config{Engine: reward.DefaultConfig()}
	c.Engine.Window = reward.Between(d1.Add(-time.Second), d2.Add(time.Second))
	return c
}

func TestCompute_EndToEnd(t *testing.T) {
	s, tx := harness(scenario(), nil, defaultCfg())

	rep, err := s.Compute(context.Background(), domain.ReportInput{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if tx.txs != 1 {
		t.Fatalf("reads should share one tx, got %d", tx.txs)
	}
	if rep.RunID != fixdID || !rep.GeneratedAt.Equal(fixed) {
		t.Fatalf("identity = %v %v", rep.RunID, rep.GeneratedAt)
	}
	if len(rep.Rows) != 2 || rep.Rows[0].Contributor != "A" || rep.Rows[1].Contributor != "B" {
		t.Fatalf("rows = %+v", rep.Rows)
	}
	if !rep.Rows[0].Reward.Equal(decimal.RequireFromString("0.18")) {
		t.Fatalf("A reward = %s", rep.Rows[0].Reward)
	}
	if rep.Stats.Submissions != 2 || rep.Stats.Approvals != 1 {
		t.Fatalf("stats = %+v", rep.Stats)
	}
	if rep.Archived {
		t.Fatalf("nothing should be archived")
	}
	if rep.Policy.Currency != "FC" {
		t.Fatalf("currency = %q", rep.Policy.Currency)
	}
}

func TestCompute_InputOverridesWindowAndLanguages(t *testing.T) {
	src := scenario()
	cfg := defaultCfg()
	cfg.Languages = []string{"es-ES"}
	s, _ := harness(src, nil, cfg)

	// upper bound before B's submission and the approval
	to := d1.Add(time.Millisecond)
	rep, err := s.Compute(context.Background(), domain.ReportInput{To: &to, Languages: []string{"zh-CN"}})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !rep.Window.To.Equal(to) || !rep.Window.From.Equal(cfg.Engine.Window.From) {
		t.Fatalf("window = %+v", rep.Window)
	}
	for _, f := range src.filters {
		if !slices.Equal(f.Languages, []string{"zh-CN"}) {
			t.Fatalf("filter = %+v", f)
		}
	}
	a := rep.Rows[0].Counters
	if a.Translated != 1 || a.Approved != 0 {
		t.Fatalf("A counters = %+v", a)
	}
}

func TestCompute_DefaultLanguagesUsed(t *testing.T) {
	src := scenario()
	cfg := defaultCfg()
	cfg.Languages = []string{"zh-CN", "es-ES"}
	s, _ := harness(src, nil, cfg)
	rep, err := s.Compute(context.Background(), domain.ReportInput{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(src.filters) != 1 || !slices.Equal(src.filters[0].Languages, cfg.Languages) {
		t.Fatalf("filters = %+v", src.filters)
	}
	if !slices.Equal(rep.Languages, cfg.Languages) {
		t.Fatalf("languages = %v", rep.Languages)
	}
}

func TestCompute_LanguageFilterKeepsFirstEverAcrossLanguages(t *testing.T) {
	src := &fakeSource{
		subs: []reward.Submission{
			{ID: 1, StringID: 7, LanguageID: "es-ES", Text: "hola", Contributor: "es", CreatedAt: d1},
			{ID: 2, StringID: 7, LanguageID: "zh-CN", Text: "你好", Contributor: "zh", CreatedAt: d2},
		},
	}
	s, _ := harness(src, nil, defaultCfg())

	row := func(rep domain.Report, who string) (reward.Line, bool) {
		for _, l := range rep.Rows {
			if l.Contributor == who {
				return l, true
			}
		}
		return reward.Line{}, false
	}

	all, err := s.Compute(context.Background(), domain.ReportInput{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	zhOnly, err := s.Compute(context.Background(), domain.ReportInput{Languages: []string{"zh-CN"}})
	if err != nil {
		t.Fatalf("compute zh-CN: %v", err)
	}

	a, ok := row(all, "zh")
	if !ok {
		t.Fatalf("unfiltered report lacks zh: %+v", all.Rows)
	}
	b, ok := row(zhOnly, "zh")
	if !ok {
		t.Fatalf("zh-CN report lacks zh: %+v", zhOnly.Rows)
	}
	if a.Counters != (reward.Counters{}) || b.Counters != a.Counters || !b.Reward.Equal(a.Reward) {
		t.Fatalf("zh pay depends on the filter: unfiltered %+v %s, zh-CN %+v %s", a.Counters, a.Reward, b.Counters, b.Reward)
	}
	if _, ok := row(zhOnly, "es"); ok {
		t.Fatalf("es-ES contributor should not be reported under a zh-CN filter")
	}
	if zhOnly.Stats.Submissions != 2 {
		t.Fatalf("submissions must be read whole, got %d", zhOnly.Stats.Submissions)
	}
}

func TestCompute_Validation(t *testing.T) {
	from := d2
	to := d1
	cases := []struct {
		name  string
		in    domain.ReportInput
		field string
	}{
		{"bad language", domain.ReportInput{Languages: []string{"zh-CN", "no such tag"}}, "languages[1]"},
		{"reversed window", domain.ReportInput{From: &from, To: &to}, "from"},
		{"archive off", domain.ReportInput{Archive: true}, "archive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, tx := harness(scenario(), nil, defaultCfg())
			_, err := s.Compute(context.Background(), tc.in)
			if err == nil {
				t.Fatalf("expected error")
			}
			if f := perr.WireFrom(err).Field; f != tc.field {
				t.Fatalf("field = %q want %q (%v)", f, tc.field, err)
			}
			if tx.txs != 0 {
				t.Fatalf("invalid input must not touch the db")
			}
		})
	}
}

func TestCompute_Archive(t *testing.T) {
	t.Run("requested", func(t *testing.T) {
		arch := &fakeArchive{}
		s, _ := harness(scenario(), arch, defaultCfg())
		rep, err := s.Compute(context.Background(), domain.ReportInput{Archive: true})
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if !rep.Archived || len(arch.saved) != 1 || arch.saved[0].RunID != fixdID {
			t.Fatalf("archived=%v saved=%d", rep.Archived, len(arch.saved))
		}
	})
	t.Run("configured", func(t *testing.T) {
		arch := &fakeArchive{}
		cfg := defaultCfg()
		cfg.Archive = true
		s, _ := harness(scenario(), arch, cfg)
		if _, err := s.Compute(context.Background(), domain.ReportInput{}); err != nil {
			t.Fatalf("compute: %v", err)
		}
		if len(arch.saved) != 1 {
			t.Fatalf("saved = %d", len(arch.saved))
		}
	})
	t.Run("not asked", func(t *testing.T) {
		arch := &fakeArchive{}
		s, _ := harness(scenario(), arch, defaultCfg())
		if _, err := s.Compute(context.Background(), domain.ReportInput{}); err != nil {
			t.Fatalf("compute: %v", err)
		}
		if len(arch.saved) != 0 {
			t.Fatalf("saved = %d", len(arch.saved))
		}
	})
	t.Run("failure", func(t *testing.T) {
		boom := perr.Unavailablef("clickhouse down")
		s, _ := harness(scenario(), &fakeArchive{err: boom}, defaultCfg())
		_, err := s.Compute(context.Background(), domain.ReportInput{Archive: true})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestCompute_ReadFailure(t *testing.T) {
	src := scenario()
	src.err = perr.Unavailablef("pg down")
	s, _ := harness(src, nil, defaultCfg())
	if _, err := s.Compute(context.Background(), domain.ReportInput{}); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestCompute_BadPolicyIsInvalidArgument(t *testing.T) {
	cfg := defaultCfg()
	cfg.Engine.Policy.ApprovedRate = decimal.RequireFromString("-0.01")
	s, _ := harness(scenario(), nil, cfg)
	_, err := s.Compute(context.Background(), domain.ReportInput{})
	if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_PanicsOnNilDeps(t *testing.T) {
	b := repokit.BindFunc[domain.SourceRepo](func(repokit.Queryer) domain.SourceRepo { return &fakeSource{} })
	testkit.MustPanic(t, func() { New(nil, b, nil, Config{}) })
	testkit.MustPanic(t, func() { New(&fakeTx{}, nil, nil, Config{}) })
}
