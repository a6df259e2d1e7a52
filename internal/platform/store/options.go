package store

import (
	"fmt"

	"chromalyzer/internal/platform/logger"
)

// Record store kinds. Only sqlite and pg need a database opened
const (
	RecordsFile   = "file"
	RecordsSQLite = "sqlite"
	RecordsPG     = "pg"
	RecordsNone   = "none"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithRecordStore switches on the SQL seam that keeps analysis records of
// the given kind, whatever Config says about it. file and none open nothing
func WithRecordStore(kind string) Option {
	return func(s *Store) error {
		switch kind {
		case "", RecordsFile, RecordsNone, RecordsSQLite, RecordsPG:
			s.records = kind
			return nil
		}
		return fmt.Errorf("store: unknown record store %q", kind)
	}
}
