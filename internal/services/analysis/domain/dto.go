// Package domain holds analysis records and the service contracts
package domain

import (
	"time"

	"chromalyzer/internal/core/peaks"
	"chromalyzer/internal/core/summary"
)

// Record is the persisted view of one analysed trace
type Record struct {
	FileName  string          `json:"file_name"`
	Summary   summary.Summary `json:"summary"`
	TraceData [][2]float64    `json:"trace_data"`
}

// Request is one analysis invocation
type Request struct {
	// Label names the trace in the report and derives the storage key
	Label     string
	Time      []float64
	Intensity []float64
	// Metadata is free text forwarded to diagnosis
	Metadata  string
	Overrides peaks.Overrides
	Persist   bool
	Diagnose  bool
}

// TraceInput is the JSON body of a direct trace submission
type TraceInput struct {
	Label     string          `json:"label" validate:"required,max=255" example:"run-01.cdf"`
	Time      []float64       `json:"time" validate:"required,min=1"`
	Intensity []float64       `json:"intensity" validate:"required,min=1"`
	Metadata  string          `json:"metadata,omitempty" validate:"max=4000"`
	Options   peaks.Overrides `json:"options,omitempty"`
	Persist   *bool           `json:"persist,omitempty"`
	Diagnose  bool            `json:"diagnose,omitempty"`
}

// UploadForm holds the non-file fields of a multipart upload
type UploadForm struct {
	Metadata             string   `form:"metadata" validate:"max=4000"`
	HeightPercentile     *float64 `form:"height_percentile" validate:"omitempty,min=0,max=100"`
	ProminencePercentile *float64 `form:"prominence_percentile" validate:"omitempty,min=0,max=100"`
	MinDistance          *int     `form:"min_distance" validate:"omitempty,min=1"`
	RelHeight            *float64 `form:"rel_height" validate:"omitempty,min=0"`
	Persist              *bool    `form:"persist"`
	Diagnose             bool     `form:"diagnose"`
}

// Overrides maps the form fields to detector overrides
func (f UploadForm) Overrides() peaks.Overrides {
	return peaks.Overrides{
		HeightPercentile:     f.HeightPercentile,
		ProminencePercentile: f.ProminencePercentile,
		MinDistance:          f.MinDistance,
		RelHeight:            f.RelHeight,
	}
}

// Diagnostics reports how detection reached its peak list
type Diagnostics struct {
	Candidates          int           `json:"candidates"`
	Selected            int           `json:"selected"`
	Dropped             int           `json:"dropped"`
	HeightThreshold     float64       `json:"height_threshold"`
	ProminenceThreshold float64       `json:"prominence_threshold"`
	Options             peaks.Options `json:"options"`
}

// Advice is the diagnosis and troubleshooting text for a report
type Advice struct {
	Diagnosis       string `json:"diagnosis"`
	Troubleshooting string `json:"troubleshooting"`
}

// Result is the outcome of Analyze
type Result struct {
	ID        string           `json:"id"`
	Key       string           `json:"key,omitempty"`
	FileName  string           `json:"file_name"`
	NoPeaks   bool             `json:"no_peaks"`
	Report    string           `json:"report"`
	Summary   *summary.Summary `json:"summary,omitempty"`
	Stats     *summary.Stats   `json:"stats,omitempty"`
	Detection Diagnostics      `json:"detection"`
	Stored    bool             `json:"stored"`
	Advice    *Advice          `json:"advice,omitempty"`
	// AdviceError is set when diagnosis was requested and failed
	AdviceError string `json:"advice_error,omitempty"`
}

// Entry is one line of a stored analysis listing
type Entry struct {
	Key          string    `json:"key"`
	FileName     string    `json:"file_name"`
	TotalPeaks   int       `json:"total_peaks"`
	MaxIntensity float64   `json:"max_intensity"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListInput bounds a listing
type ListInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}
