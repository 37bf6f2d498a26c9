// Package domain holds the ingest rows, run bookkeeping, and ports
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Collection names one persisted crowdin listing
type Collection string

// Collections in refill order
const (
	CollectionStrings      Collection = "source_strings"
	CollectionTranslations Collection = "translations"
	CollectionApprovals    Collection = "approvals"
)

// Run status values stored in ingest_runs.status
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusError   = "error"
)

// StringRow is one source string, natural key ID
type StringRow struct {
	ID         int64
	ProjectID  int64
	FileID     int64
	Identifier string
	Text       string
	Type       string
	CreatedAt  time.Time
	Raw        json.RawMessage
}

// TranslationRow is one translation, natural key (TranslationID, StringID)
type TranslationRow struct {
	TranslationID int64
	StringID      int64
	LanguageID    string
	Text          string
	Username      string
	UserID        int64
	CreatedAt     time.Time
	Raw           json.RawMessage
}

// ApprovalRow is one approval, natural key (TranslationID, StringID)
type ApprovalRow struct {
	ApprovalID    int64
	TranslationID int64
	StringID      int64
	LanguageID    string
	Username      string
	UserID        int64
	CreatedAt     time.Time
	Raw           json.RawMessage
}

// Counts tallies one collection across all pages of a run
type Counts struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Deduped  int `json:"deduped"`
}

// Add folds one written page into c
func (c *Counts) Add(fetched, inserted, deduped int) {
	c.Fetched += fetched
	c.Inserted += inserted
	c.Deduped += deduped
}

// RunSummary is what one ingest run did
type RunSummary struct {
	RunID        uuid.UUID `json:"run_id"`
	ProjectID    int64     `json:"project_id"`
	Project      string    `json:"project"`
	Languages    []string  `json:"languages"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Status       string    `json:"status"`
	Pages        int       `json:"pages"`
	Strings      Counts    `json:"strings"`
	Translations Counts    `json:"translations"`
	Approvals    Counts    `json:"approvals"`
	Err          string    `json:"error,omitempty"`
}

// Deduped is the total of rows skipped as already present
func (r RunSummary) Deduped() int {
	return r.Strings.Deduped + r.Translations.Deduped + r.Approvals.Deduped
}
