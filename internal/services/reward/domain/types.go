// Package domain holds the reward report types and ports
package domain

import (
	"time"

	"conflux/internal/core/reward"

	"github.com/google/uuid"
)

// Filter narrows the rows loaded for a report
type Filter struct {
	// Languages limits the approvals read to these target languages; empty loads all
	Languages []string
}

// ReportInput overrides the configured report parameters per call
// nil bounds keep the configured ones
type ReportInput struct {
	From      *time.Time `json:"from,omitempty"      example:"2023-12-01T00:00:00Z"`
	To        *time.Time `json:"to,omitempty"        example:"2024-03-01T04:00:00Z"`
	Languages []string   `json:"languages,omitempty" validate:"omitempty,dive,bcp47" example:"zh-CN"`
	Archive   bool       `json:"archive,omitempty"`
}

// Stats are the engine diagnostics for one report
type Stats struct {
	Submissions int                   `json:"submissions"`
	Approvals   int                   `json:"approvals"`
	Reconcile   reward.ReconcileStats `json:"reconcile"`
	Aggregate   reward.AggregateStats `json:"aggregate"`
}

// Report is one computed payout run
type Report struct {
	RunID       uuid.UUID     `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Window      reward.Window `json:"window"`
	Policy      reward.Policy `json:"policy"`
	Languages   []string      `json:"languages,omitempty"`
	Rows        []reward.Line `json:"rows"`
	Totals      reward.Line   `json:"totals"`
	Stats       Stats         `json:"stats"`
	Archived    bool          `json:"archived"`
}
