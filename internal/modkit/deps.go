// Package modkit provides module wiring and core deps
package modkit

import (
	"chromalyzer/internal/modkit/repokit"
	"chromalyzer/internal/platform/config"
	"chromalyzer/internal/platform/logger"
	"chromalyzer/internal/platform/store"
)

// Deps holds core dependencies passed to modules. Database seams are nil
// unless their backend was enabled in store.Open
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	// Lite is the embedded sqlite seam; its sql uses ? placeholders
	Lite repokit.TxRunner
	CH   store.Clickhouse
}
