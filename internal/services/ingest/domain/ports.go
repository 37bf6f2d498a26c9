package domain

import (
	"context"

	"conflux/internal/adapters/ingest/crowdin"

	"github.com/google/uuid"
)

// RunnerPort is the public port of the ingest module
type RunnerPort interface {
	Run(ctx context.Context) (RunSummary, error)
}

// StorageRepo is the tx bound persistence surface
type StorageRepo interface {
	// StartRun records a running ingest_runs row
	StartRun(ctx context.Context, runID uuid.UUID, projectID int64) error

	// FinishRun stamps the final status and counts on the run row
	FinishRun(ctx context.Context, sum RunSummary) error

	// Reset empties one collection before it is refilled
	Reset(ctx context.Context, c Collection) error

	// InsertStrings, InsertTranslations, and InsertApprovals insert if absent by natural key
	InsertStrings(ctx context.Context, rows []StringRow) (inserted, deduped int, err error)
	InsertTranslations(ctx context.Context, rows []TranslationRow) (inserted, deduped int, err error)
	InsertApprovals(ctx context.Context, rows []ApprovalRow) (inserted, deduped int, err error)
}

// Source is the remote listing surface the crowdin client satisfies
type Source interface {
	GetProject(ctx context.Context, projectID int64) (crowdin.Project, error)
	ListLabels(ctx context.Context, projectID int64, p crowdin.Page) ([]crowdin.Label, error)
	ListProjectStrings(ctx context.Context, projectID int64, p crowdin.Page) ([]crowdin.SourceString, error)
	ListLanguageTranslations(ctx context.Context, projectID int64, languageID string, p crowdin.Page) ([]crowdin.LanguageTranslation, error)
	ListTranslationApprovals(ctx context.Context, projectID int64, f crowdin.ApprovalFilter, p crowdin.Page) ([]crowdin.Approval, error)
}
