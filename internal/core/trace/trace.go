// Package trace holds the chromatogram signal model and its input checks
package trace

import (
	"errors"
	"fmt"
	"math"
)

// Trace is a sampled chromatogram: Time[i] pairs with Intensity[i]
// Slices are borrowed, never mutated
type Trace struct {
	Time      []float64
	Intensity []float64
}

// InvalidInputError reports a trace or option value the analyzer refuses
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Invalid builds an InvalidInputError
func Invalid(field, format string, a ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// IsInvalidInput reports whether err (or anything it wraps) is an InvalidInputError
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// New validates the pair of sequences and returns them as a Trace
func New(time, intensity []float64) (Trace, error) {
	t := Trace{Time: time, Intensity: intensity}
	if err := t.Validate(); err != nil {
		return Trace{}, err
	}
	return t, nil
}

// Len is the number of samples
func (t Trace) Len() int { return len(t.Intensity) }

// Validate checks lengths and finiteness. The time axis is taken as given,
// in whatever order the instrument wrote it
func (t Trace) Validate() error {
	if len(t.Time) != len(t.Intensity) {
		return Invalid("time", "length %d does not match intensity length %d", len(t.Time), len(t.Intensity))
	}
	if len(t.Intensity) == 0 {
		return Invalid("intensity", "trace is empty")
	}
	for i := range t.Intensity {
		if !finite(t.Time[i]) {
			return Invalid("time", "non-finite value at index %d", i)
		}
		if !finite(t.Intensity[i]) {
			return Invalid("intensity", "non-finite value at index %d", i)
		}
	}
	return nil
}

// Pairs returns the trace as [time, intensity] rows
func (t Trace) Pairs() [][2]float64 {
	out := make([][2]float64, len(t.Intensity))
	for i := range t.Intensity {
		out[i] = [2]float64{t.Time[i], t.Intensity[i]}
	}
	return out
}

// FromPairs splits [time, intensity] rows back into a Trace (unvalidated)
func FromPairs(rows [][2]float64) Trace {
	t := Trace{Time: make([]float64, len(rows)), Intensity: make([]float64, len(rows))}
	for i, r := range rows {
		t.Time[i], t.Intensity[i] = r[0], r[1]
	}
	return t
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
