// Package migrate applies the embedded postgres schema with goose
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"

	// pgx driver for database/sql
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var embedded embed.FS

// Files returns the migration sources rooted at the sql dir
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Result is one applied or rolled back migration
type Result struct {
	Version   int64
	Path      string
	Direction string
	Duration  time.Duration
}

// Status is the state of one known migration
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator runs goose against a database/sql handle
type Migrator struct {
	db *sql.DB
	p  *goose.Provider
}

// Open connects with the pgx stdlib driver and builds a goose provider
func Open(ctx context.Context, dsn string) (*Migrator, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: ping: %w", err)
	}
	m, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// New wraps an existing handle, the caller keeps ownership of db
func New(db *sql.DB) (*Migrator, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, Files())
	if err != nil {
		return nil, fmt.Errorf("migrate: provider: %w", err)
	}
	return &Migrator{db: db, p: p}, nil
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) ([]Result, error) {
	rs, err := m.p.Up(ctx)
	out := make([]Result, 0, len(rs))
	for _, r := range rs {
		out = append(out, toResult(r))
	}
	if err != nil {
		return out, fmt.Errorf("migrate: up: %w", err)
	}
	return out, nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) (Result, error) {
	r, err := m.p.Down(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("migrate: down: %w", err)
	}
	return toResult(r), nil
}

// Status lists every known migration and whether it is applied
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	ss, err := m.p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: status: %w", err)
	}
	out := make([]Status, 0, len(ss))
	for _, s := range ss {
		out = append(out, Status{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Close closes the underlying handle
func (m *Migrator) Close() error { return m.db.Close() }

func toResult(r *goose.MigrationResult) Result {
	if r == nil || r.Source == nil {
		return Result{}
	}
	return Result{
		Version:   r.Source.Version,
		Path:      r.Source.Path,
		Direction: r.Direction,
		Duration:  r.Duration,
	}
}
