package repo

import (
	"context"
	"time"

	"chromalyzer/internal/core/peaks"
	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/services/analysis/domain"
)

// Nop discards records; used when persistence is switched off
type Nop struct{}

// Save derives the key but stores nothing
func (Nop) Save(_ context.Context, _ string, rec domain.Record) (string, error) {
	return saveKey(rec)
}

// Get always reports not found
func (Nop) Get(_ context.Context, key string) (domain.Record, error) {
	return domain.Record{}, perr.NotFoundf("analysis %s not found", key)
}

// List is always empty
func (Nop) List(context.Context, int) ([]domain.Entry, error) { return []domain.Entry{}, nil }

// Append drops ledger rows
func (Nop) Append(context.Context, string, string, []peaks.Peak, time.Time) error { return nil }
