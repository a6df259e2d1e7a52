package repo

import (
	"context"
	"sync"
	"time"

	"chromalyzer/internal/core/peaks"
	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/store"
)

// LedgerTable receives one row per detected peak
const LedgerTable = "peak_ledger"

const ledgerDDL = `
CREATE TABLE IF NOT EXISTS peak_ledger (
	analysis_id String,
	file_key String,
	peak_index UInt32,
	retention_time Float64,
	height Float64,
	area Float64,
	start_time Float64,
	end_time Float64,
	prominence Float64,
	width Float64,
	recorded_at DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (file_key, recorded_at, peak_index)`

// CHLedger writes peaks to ClickHouse
type CHLedger struct {
	ch store.Clickhouse

	mu    sync.Mutex
	ready bool
}

// NewCHLedger wraps a clickhouse seam
func NewCHLedger(ch store.Clickhouse) *CHLedger { return &CHLedger{ch: ch} }

// Append inserts every peak of one analysis in a single batch
func (l *CHLedger) Append(ctx context.Context, id, key string, pk []peaks.Peak, at time.Time) error {
	if len(pk) == 0 {
		return nil
	}
	if err := l.ensure(ctx); err != nil {
		return err
	}
	rows := LedgerRows(id, key, pk, at)
	if err := l.ch.Insert(ctx, LedgerTable, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "append %d ledger rows", len(rows))
	}
	return nil
}

func (l *CHLedger) ensure(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return nil
	}
	if err := l.ch.Exec(ctx, ledgerDDL); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create peak_ledger")
	}
	l.ready = true
	return nil
}

// LedgerRows lays out peaks in peak_ledger column order
func LedgerRows(id, key string, pk []peaks.Peak, at time.Time) [][]any {
	rows := make([][]any, 0, len(pk))
	for _, p := range pk {
		rows = append(rows, []any{
			id, key, uint32(p.Index),
			p.RetentionTime, p.Height, p.Area,
			p.StartTime, p.EndTime, p.Prominence, p.Width,
			at.UTC(),
		})
	}
	return rows
}
