// Package archive writes computed reward reports to clickhouse
package archive

import (
	"context"
	"sync"
	"time"

	"conflux/internal/modkit/repokit"
	perr "conflux/internal/platform/errors"
	str "conflux/internal/platform/strings"
	"conflux/internal/services/reward/domain"
)

// Table is the archive table name
const Table = "reward_reports"

// DDL creates the archive table, one row per contributor per run
const DDL = `
CREATE TABLE IF NOT EXISTS reward_reports (
    run_id           UUID,
    generated_at     DateTime64(3, 'UTC'),
    window_from      Nullable(DateTime64(3, 'UTC')),
    window_to        Nullable(DateTime64(3, 'UTC')),
    currency         LowCardinality(String),
    languages        Array(LowCardinality(String)),
    contributor      String,
    translated       UInt32,
    approved         UInt32,
    translated_chars UInt64,
    approved_chars   UInt64,
    reward           Decimal(18, 4)
)
ENGINE = MergeTree
ORDER BY (generated_at, run_id, contributor)`

// CH archives reports through the clickhouse seam
// the table is created on the first Save
type CH struct {
	ch repokit.Clickhouse

	mu    sync.Mutex
	ready bool
}

// NewCH returns an archive writer; ch must be non nil
func NewCH(ch repokit.Clickhouse) *CH {
	if ch == nil {
		panic("archive.CH requires a clickhouse client")
	}
	return &CH{ch: ch}
}

func (a *CH) ensure(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	if err := a.ch.Exec(ctx, DDL); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "create "+Table)
	}
	a.ready = true
	return nil
}

// Save inserts one row per report line
func (a *CH) Save(ctx context.Context, rep domain.Report) error {
	if err := a.ensure(ctx); err != nil {
		return err
	}
	rows := Rows(rep)
	if len(rows) == 0 {
		return nil
	}
	if err := a.ch.Insert(ctx, Table, rows); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "insert "+Table)
	}
	return nil
}

// Rows maps a report onto positional rows in table column order
func Rows(rep domain.Report) [][]any {
	langs := str.IfEmpty(rep.Languages, []string{})
	out := make([][]any, 0, len(rep.Rows))
	for _, l := range rep.Rows {
		out = append(out, []any{
			rep.RunID,
			rep.GeneratedAt.UTC(),
			bound(rep.Window.From),
			bound(rep.Window.To),
			rep.Policy.Currency,
			langs,
			l.Contributor,
			uint32(l.Counters.Translated),
			uint32(l.Counters.Approved),
			uint64(l.Counters.TranslatedChars),
			uint64(l.Counters.ApprovedChars),
			l.Reward,
		})
	}
	return out
}

// bound maps a disabled window bound to NULL
func bound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
