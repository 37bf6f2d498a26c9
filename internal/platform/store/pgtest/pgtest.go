//go:build integration_pg

// Package pgtest starts a throwaway postgres with the schema applied
package pgtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"conflux/internal/platform/store"
	"conflux/internal/platform/store/migrate"
	"conflux/internal/platform/store/pg"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once    sync.Once
	dsn     string
	initErr error
)

// DSN returns a shared migrated database, started once per test binary
func DSN(t *testing.T) string {
	t.Helper()
	once.Do(func() { dsn, initErr = start() })
	if initErr != nil {
		t.Fatalf("pgtest: %v", initErr)
	}
	return dsn
}

// Runner returns a TxRunner on the shared database with every table truncated
func Runner(t *testing.T) store.TxRunner {
	t.Helper()
	ctx := context.Background()

	p, err := pg.Open(ctx, pg.Config{URL: DSN(t), AppName: "conflux-test"}, nil)
	if err != nil {
		t.Fatalf("pgtest: open: %v", err)
	}
	t.Cleanup(p.Close)

	db := store.WrapPGX(p.Pool, nil)
	if _, err := db.Exec(ctx, `TRUNCATE source_strings, translations, approvals, ingest_runs, ingest_leases RESTART IDENTITY`); err != nil {
		t.Fatalf("pgtest: truncate: %v", err)
	}
	return db
}

func start() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "conflux",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}
	url := fmt.Sprintf("postgres://postgres:postgres@%s:%s/conflux?sslmode=disable", host, mapped.Port())

	m, err := migrate.Open(ctx, url)
	if err != nil {
		return "", err
	}
	defer m.Close()
	if _, err := m.Up(ctx); err != nil {
		return "", err
	}
	return url, nil
}
