// Package repo provides postgres access for ingest writes
package repo

import (
	"context"
	"fmt"

	"conflux/internal/modkit/repokit"
	perr "conflux/internal/platform/errors"
	"conflux/internal/services/ingest/domain"

	"github.com/google/uuid"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// tables is the closed set Reset may touch
var tables = map[domain.Collection]string{
	domain.CollectionStrings:      "source_strings",
	domain.CollectionTranslations: "translations",
	domain.CollectionApprovals:    "approvals",
}

// StartRun inserts the running row for runID
func (r *queries) StartRun(ctx context.Context, runID uuid.UUID, projectID int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_runs (run_id, project_id, started_at, status)
		VALUES ($1, $2, now(), 'running')
	`, runID, projectID)
	return perr.FromPostgres(err, "start run")
}

// FinishRun stamps status, counts, and error text on the run row
func (r *queries) FinishRun(ctx context.Context, sum domain.RunSummary) error {
	_, err := r.q.Exec(ctx, `
		UPDATE ingest_runs SET
			finished_at = now(),
			status = $2,
			strings = $3,
			translations = $4,
			approvals = $5,
			deduped = $6,
			error = NULLIF($7, '')
		WHERE run_id = $1
	`,
		sum.RunID, sum.Status,
		sum.Strings.Inserted, sum.Translations.Inserted, sum.Approvals.Inserted,
		sum.Deduped(), sum.Err,
	)
	return perr.FromPostgres(err, "finish run")
}

// Reset truncates one collection and restarts its seq
func (r *queries) Reset(ctx context.Context, c domain.Collection) error {
	table, ok := tables[c]
	if !ok {
		return perr.InvalidArgf("unknown collection %q", c)
	}
	_, err := r.q.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", table))
	return perr.FromPostgres(err, "reset "+table)
}

const insertStringSQL = `
	INSERT INTO source_strings (id, project_id, file_id, identifier, text, type, created_at, raw)
	VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, COALESCE($8::jsonb, '{}'::jsonb))
	ON CONFLICT (id) DO NOTHING
`

// InsertStrings inserts rows in order, skipping ids already stored
func (r *queries) InsertStrings(ctx context.Context, rows []domain.StringRow) (int, int, error) {
	inserted := 0
	for i, s := range rows {
		var created any
		if !s.CreatedAt.IsZero() {
			created = s.CreatedAt
		}
		tag, err := r.q.Exec(ctx, insertStringSQL,
			s.ID, s.ProjectID, s.FileID, s.Identifier, s.Text, s.Type, created, rawArg(s.Raw),
		)
		if err != nil {
			return inserted, i - inserted, perr.FromPostgresf(err, "insert string %d", s.ID)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}
	return inserted, len(rows) - inserted, nil
}

const insertTranslationSQL = `
	INSERT INTO translations (translation_id, string_id, language_id, text, username, user_id, created_at, raw)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, COALESCE($8::jsonb, '{}'::jsonb))
	ON CONFLICT (translation_id, string_id) DO NOTHING
`

// InsertTranslations inserts rows in order, skipping (translation_id, string_id) already stored
func (r *queries) InsertTranslations(ctx context.Context, rows []domain.TranslationRow) (int, int, error) {
	inserted := 0
	for i, t := range rows {
		tag, err := r.q.Exec(ctx, insertTranslationSQL,
			t.TranslationID, t.StringID, t.LanguageID, t.Text, t.Username, t.UserID, t.CreatedAt, rawArg(t.Raw),
		)
		if err != nil {
			return inserted, i - inserted, perr.FromPostgresf(err, "insert translation %d/%d", t.TranslationID, t.StringID)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}
	return inserted, len(rows) - inserted, nil
}

const insertApprovalSQL = `
	INSERT INTO approvals (approval_id, translation_id, string_id, language_id, username, user_id, created_at, raw)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, COALESCE($8::jsonb, '{}'::jsonb))
	ON CONFLICT (translation_id, string_id) DO NOTHING
`

// InsertApprovals inserts rows in order, skipping (translation_id, string_id) already stored
func (r *queries) InsertApprovals(ctx context.Context, rows []domain.ApprovalRow) (int, int, error) {
	inserted := 0
	for i, a := range rows {
		tag, err := r.q.Exec(ctx, insertApprovalSQL,
			a.ApprovalID, a.TranslationID, a.StringID, a.LanguageID, a.Username, a.UserID, a.CreatedAt, rawArg(a.Raw),
		)
		if err != nil {
			return inserted, i - inserted, perr.FromPostgresf(err, "insert approval %d/%d", a.TranslationID, a.StringID)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}
	return inserted, len(rows) - inserted, nil
}

// rawArg sends nil for an empty payload so the column default applies
func rawArg(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
