// Package repo persists analysis records and the per-peak ledger
package repo

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"chromalyzer/internal/core/peaks"
	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/services/analysis/domain"
)

// Store keeps one record per key; saving an existing key replaces it
type Store interface {
	Save(ctx context.Context, id string, rec domain.Record) (key string, err error)
	Get(ctx context.Context, key string) (domain.Record, error)
	List(ctx context.Context, limit int) ([]domain.Entry, error)
}

// Ledger appends peak rows for cross-run trending
type Ledger interface {
	Append(ctx context.Context, id, key string, pk []peaks.Peak, at time.Time) error
}

// DefaultListLimit applies when a listing asks for nothing or too much
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// KeyFor derives the storage key of a trace label: its base name with the
// extension replaced by .json (run-01.cdf -> run-01.json)
func KeyFor(label string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(label), `\`, "/"))
	if base == "." || base == "/" || base == "" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// CheckKey rejects keys that could escape the store
func CheckKey(key string) error {
	if key == "" || key == ".json" || !strings.HasSuffix(key, ".json") ||
		strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return perr.WithField(perr.InvalidArgf("invalid analysis key %q", key), "key")
	}
	return nil
}

func clampLimit(n int) int {
	if n <= 0 || n > MaxListLimit {
		return DefaultListLimit
	}
	return n
}

func saveKey(rec domain.Record) (string, error) {
	key := KeyFor(rec.FileName)
	if err := CheckKey(key); err != nil {
		return "", perr.WithField(perr.InvalidArgf("cannot derive a key from %q", rec.FileName), "file_name")
	}
	return key, nil
}
