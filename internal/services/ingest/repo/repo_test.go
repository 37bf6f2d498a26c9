package repo

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/store"
	"conflux/internal/services/ingest/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
)

func newRepo(t *testing.T) (domain.StorageRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPG().Bind(store.WrapPGX(mock, nil)), mock
}

func met(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertTranslations_CountsDedups(t *testing.T) {
	r, mock := newRepo(t)
	at := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.TranslationRow{
		{TranslationID: 1, StringID: 9, LanguageID: "zh-CN", Text: "你好", Username: "ana", UserID: 5, CreatedAt: at, Raw: json.RawMessage(`{"a":1}`)},
		{TranslationID: 1, StringID: 9, LanguageID: "zh-CN", Text: "你好", Username: "ana", UserID: 5, CreatedAt: at},
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO translations")).
		WithArgs(int64(1), int64(9), "zh-CN", "你好", "ana", int64(5), at, `{"a":1}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (translation_id, string_id) DO NOTHING")).
		WithArgs(int64(1), int64(9), "zh-CN", "你好", "ana", int64(5), at, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	ins, dd, err := r.InsertTranslations(context.Background(), rows)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ins != 1 || dd != 1 {
		t.Fatalf("inserted=%d deduped=%d", ins, dd)
	}
	met(t, mock)
}

func TestInsertStrings_ZeroTimeIsNull(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO source_strings")).
		WithArgs(int64(3), int64(7), int64(0), "hello", "Hello", "text", nil, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ins, dd, err := r.InsertStrings(context.Background(), []domain.StringRow{
		{ID: 3, ProjectID: 7, Identifier: "hello", Text: "Hello", Type: "text"},
	})
	if err != nil || ins != 1 || dd != 0 {
		t.Fatalf("ins=%d dd=%d err=%v", ins, dd, err)
	}
	met(t, mock)
}

func TestInsertApprovals_ErrorStopsAndMaps(t *testing.T) {
	r, mock := newRepo(t)
	at := time.Unix(100, 0).UTC()
	rows := []domain.ApprovalRow{
		{ApprovalID: 1, TranslationID: 10, StringID: 1, LanguageID: "zh-CN", Username: "rev", CreatedAt: at},
		{ApprovalID: 2, TranslationID: 11, StringID: 1, LanguageID: "zh-CN", Username: "rev", CreatedAt: at},
		{ApprovalID: 3, TranslationID: 12, StringID: 1, LanguageID: "zh-CN", Username: "rev", CreatedAt: at},
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO approvals")).
		WithArgs(int64(1), int64(10), int64(1), "zh-CN", "rev", int64(0), at, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO approvals")).
		WithArgs(int64(2), int64(11), int64(1), "zh-CN", "rev", int64(0), at, nil).
		WillReturnError(&pgconn.PgError{Code: "23502", ColumnName: "username"})

	ins, dd, err := r.InsertApprovals(context.Background(), rows)
	if err == nil {
		t.Fatalf("expected error")
	}
	if ins != 1 || dd != 0 {
		t.Fatalf("ins=%d dd=%d", ins, dd)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("pg error not kept in chain: %v", err)
	}
	met(t, mock)
}

func TestRunBookkeeping(t *testing.T) {
	r, mock := newRepo(t)
	id := uuid.MustParse("9b2b7f3c-8f5e-4a4a-9f11-0c8f6c1d2e3f")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ingest_runs")).
		WithArgs(id, int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ingest_runs SET")).
		WithArgs(id, "error", 3, 4, 2, 1, "boom").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ctx := context.Background()
	if err := r.StartRun(ctx, id, 7); err != nil {
		t.Fatalf("start: %v", err)
	}
	sum := domain.RunSummary{
		RunID:        id,
		Status:       "error",
		Strings:      domain.Counts{Inserted: 3},
		Translations: domain.Counts{Inserted: 4, Deduped: 1},
		Approvals:    domain.Counts{Inserted: 2},
		Err:          "boom",
	}
	if err := r.FinishRun(ctx, sum); err != nil {
		t.Fatalf("finish: %v", err)
	}
	met(t, mock)
}

func TestReset(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE TABLE translations RESTART IDENTITY")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	if err := r.Reset(context.Background(), domain.CollectionTranslations); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := r.Reset(context.Background(), domain.Collection("users; DROP TABLE x")); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("unknown collection must be rejected, got %v", err)
	}
	met(t, mock)
}
