// Package repo reads the ingested collections for the reward engine
package repo

import (
	"context"
	"time"

	"conflux/internal/core/reward"
	"conflux/internal/modkit/repokit"
	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/store"
	"conflux/internal/services/reward/domain"

	sq "github.com/Masterminds/squirrel"
)

type (
	// PG is a Postgres binder for domain.SourceRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.SourceRepo
func NewPG() repokit.Binder[domain.SourceRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.SourceRepo { return &queries{q: q} }

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SubmissionsQuery selects every translation in ingestion order
// first ever status spans languages, so translations are never filtered here
func SubmissionsQuery() (string, []any, error) {
	return psql.Select("translation_id", "string_id", "language_id", "text", "username", "created_at").
		From("translations").
		OrderBy("seq").
		ToSql()
}

// ApprovalsQuery selects approvals in ingestion order
func ApprovalsQuery(f domain.Filter) (string, []any, error) {
	b := psql.Select("translation_id", "string_id", "created_at", "language_id", "username").
		From("approvals")
	return withLanguages(b, f).OrderBy("seq").ToSql()
}

func withLanguages(b sq.SelectBuilder, f domain.Filter) sq.SelectBuilder {
	if len(f.Languages) == 0 {
		return b
	}
	return b.Where(sq.Eq{"language_id": f.Languages})
}

// ListSubmissions maps translations onto engine submissions; translation_id is the submission id
func (r *queries) ListSubmissions(ctx context.Context) ([]reward.Submission, error) {
	sqlStr, args, err := SubmissionsQuery()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build submissions query")
	}
	out, err := store.Many(ctx, r.q, func(row store.Row) (reward.Submission, error) {
		var (
			s       reward.Submission
			id, sid int64
			at      time.Time
		)
		if err := row.Scan(&id, &sid, &s.LanguageID, &s.Text, &s.Contributor, &at); err != nil {
			return s, err
		}
		s.ID, s.StringID, s.CreatedAt = reward.SubmissionID(id), reward.StringID(sid), at.UTC()
		return s, nil
	}, sqlStr, args...)
	return out, perr.FromPostgres(err, "list submissions")
}

// ListApprovals maps approvals onto engine approvals
func (r *queries) ListApprovals(ctx context.Context, f domain.Filter) ([]reward.Approval, error) {
	sqlStr, args, err := ApprovalsQuery(f)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build approvals query")
	}
	out, err := store.Many(ctx, r.q, func(row store.Row) (reward.Approval, error) {
		var (
			a       reward.Approval
			id, sid int64
			at      time.Time
		)
		if err := row.Scan(&id, &sid, &at, &a.LanguageID, &a.Approver); err != nil {
			return a, err
		}
		a.SubmissionID, a.StringID, a.CreatedAt = reward.SubmissionID(id), reward.StringID(sid), at.UTC()
		return a, nil
	}, sqlStr, args...)
	return out, perr.FromPostgres(err, "list approvals")
}
