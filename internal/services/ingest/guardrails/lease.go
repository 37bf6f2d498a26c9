// Package guardrails holds the concurrency and time budget helpers for ingest
package guardrails

import (
	"context"
	"errors"
	"time"

	"conflux/internal/modkit/repokit"

	"github.com/google/uuid"
)

// ErrLeaseHeld signals another ingester owns the project already
var ErrLeaseHeld = errors.New("ingest: project lease already held")

// Lease runs do while holding the project lease
type Lease func(ctx context.Context, projectID int64, runID uuid.UUID, do func(context.Context) error) error

// MakeLease returns a Lease backed by the ingest_leases table
// a row older than ttl is considered abandoned and may be taken over; ttl <= 0 never steals
// the row is deleted when do returns, even when ctx is already canceled
func MakeLease(db repokit.TxRunner, ttl time.Duration) Lease {
	return func(ctx context.Context, projectID int64, runID uuid.UUID, do func(context.Context) error) error {
		var claimed bool
		err := db.Tx(ctx, func(q repokit.Queryer) error {
			rows, err := q.Query(ctx, `
				INSERT INTO ingest_leases (project_id, run_id, claimed_at)
				VALUES ($1, $2, now())
				ON CONFLICT (project_id) DO UPDATE
				SET run_id = EXCLUDED.run_id, claimed_at = now()
				WHERE $3::float8 > 0 AND ingest_leases.claimed_at < now() - make_interval(secs => $3::float8)
				RETURNING true
			`, projectID, runID, ttl.Seconds())
			if err != nil {
				return err
			}
			defer rows.Close()
			claimed = rows.Next()
			return rows.Err()
		})
		if err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}
		defer func() {
			rel := context.WithoutCancel(ctx)
			_ = db.Tx(rel, func(q repokit.Queryer) error {
				_, err := q.Exec(rel, `DELETE FROM ingest_leases WHERE project_id = $1 AND run_id = $2`, projectID, runID)
				return err
			})
		}()
		return do(ctx)
	}
}
