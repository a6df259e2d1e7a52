package domain

import (
	"context"

	"chromalyzer/internal/core/peaks"
)

// ServicePort is the analysis contract other modules and hosts use
type ServicePort interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	AnalyzeFile(ctx context.Context, name string, data []byte, req Request) (Result, error)
	Get(ctx context.Context, key string) (Record, error)
	List(ctx context.Context, limit int) ([]Entry, error)
	Options() peaks.Options
}

// Diagnoser turns a report into advice
type Diagnoser interface {
	Advise(ctx context.Context, report, metadata string) (Advice, error)
}
