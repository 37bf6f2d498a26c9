package crowdin

import (
	"context"
	"time"

	ptime "conflux/internal/platform/time"
)

// Paginate walks an offset listing page by page until a short page
// each runs before the next fetch so callers can persist as they go
func Paginate[T any](ctx context.Context, limit int, delay time.Duration,
	fetch func(context.Context, Page) ([]T, error), each func([]T, Page) error,
) (int, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	total := 0
	for p := (Page{Limit: limit}); ; p.Offset += limit {
		items, err := fetch(ctx, p)
		if err != nil {
			return total, err
		}
		if len(items) > 0 {
			if err := each(items, p); err != nil {
				return total, err
			}
		}
		total += len(items)
		if len(items) < limit {
			return total, nil
		}
		if err := ptime.SleepCtx(ctx, delay); err != nil {
			return total, err
		}
	}
}
