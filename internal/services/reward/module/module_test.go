package module

import (
	"context"
	"testing"

	"conflux/internal/modkit"
	modpkg "conflux/internal/modkit/module"
	"conflux/internal/platform/logger"
	"conflux/internal/platform/store"
	"conflux/internal/platform/testkit"
	"conflux/internal/services/reward/domain"
	"conflux/internal/services/reward/service"
)

type nopTx struct{}

func (nopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (t nopTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error  { return fn(t) }

type nopCH struct{}

func (nopCH) Exec(context.Context, string, ...any) error                { return nil }
func (nopCH) Insert(context.Context, string, [][]any) error             { return nil }
func (nopCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (nopCH) Close() error                                              { return nil }

func deps(ch store.Clickhouse) modkit.Deps {
	return modkit.Deps{Log: *logger.Named("test"), PG: nopTx{}, CH: ch}
}

func TestNewWith_Ports(t *testing.T) {
	m := NewWith(deps(nil), Options{})
	if m.Name() != "reward" {
		t.Fatalf("name = %q", m.Name())
	}
	rp := modpkg.MustPortsOf[domain.ReportPort](m)
	svc, ok := rp.(*service.Service)
	if !ok {
		t.Fatalf("port is %T", rp)
	}
	if svc.Archive != nil {
		t.Fatalf("archive should be nil without clickhouse")
	}
}

func TestNewWith_ArchivesWithClickhouse(t *testing.T) {
	m := NewWith(deps(nopCH{}), Options{})
	svc := m.Ports().(Ports).Reports.(*service.Service)
	if svc.Archive == nil {
		t.Fatalf("archive should be wired")
	}
}

func TestNewWith_RequiresPostgres(t *testing.T) {
	testkit.MustPanic(t, func() { NewWith(modkit.Deps{}, Options{}) })
}

func TestNew_ConfigError(t *testing.T) {
	t.Setenv("CORE_REWARD_RATE_TRANSLATED", "-1")
	if _, err := New(deps(nil)); err == nil {
		t.Fatalf("expected config error")
	}
}
