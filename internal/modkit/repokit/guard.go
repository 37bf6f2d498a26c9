package repokit

import (
	"context"
	"fmt"
	"time"
)

// pingTimeout bounds startup checks when the caller set no deadline
const pingTimeout = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

func bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, pingTimeout)
}

// MustPing panics unless dep answers a Ping
func MustPing(ctx context.Context, name string, dep interface{ Ping(context.Context) error }) {
	if dep == nil {
		panic(fmt.Sprintf("%s: nil dependency", name))
	}
	ctx, cancel := bounded(ctx)
	defer cancel()
	if err := dep.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s ping failed: %v", name, err))
	}
}

// MustGuard panics unless every store seam is reachable
// binaries call it right after store.Open so a bad DSN fails before any work
func MustGuard(ctx context.Context, st guarder) {
	ctx, cancel := bounded(ctx)
	defer cancel()
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("store guard failed: %w", err))
	}
}
