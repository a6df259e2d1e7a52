package store

import (
	"context"
	"errors"

	"chromalyzer/internal/platform/store/ch"
)

// chClient is the slice of *ch.CH the store uses
type chClient interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

// chAdapter exposes a chClient as Clickhouse. Only Query needs translating,
// the rest is promoted from the client
type chAdapter struct{ chClient }

var _ Clickhouse = (*chAdapter)(nil)

func newCHAdapter(c chClient) *chAdapter { return &chAdapter{chClient: c} }

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := a.chClient.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (a *chAdapter) Ping(ctx context.Context) error {
	if a == nil || a.chClient == nil {
		return errors.New("store: clickhouse not open")
	}
	return a.chClient.Ping(ctx)
}

// chRows drops the error from Close to match Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
