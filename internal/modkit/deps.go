// Package modkit provides module wiring and core deps
package modkit

import (
	"conflux/internal/modkit/repokit"
	"conflux/internal/platform/config"
	"conflux/internal/platform/logger"
	"conflux/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
