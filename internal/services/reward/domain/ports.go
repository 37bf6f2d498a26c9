package domain

import (
	"context"

	"conflux/internal/core/reward"
)

// ReportPort is the public port of the reward module
type ReportPort interface {
	Compute(ctx context.Context, in ReportInput) (Report, error)
}

// SourceRepo loads the ingested collections in ingestion order
// submissions are always complete; only approvals may be narrowed by f
type SourceRepo interface {
	ListSubmissions(ctx context.Context) ([]reward.Submission, error)
	ListApprovals(ctx context.Context, f Filter) ([]reward.Approval, error)
}

// ArchiveRepo stores a computed report for later analysis
type ArchiveRepo interface {
	Save(ctx context.Context, rep Report) error
}
