package tracesource

import (
	"encoding/json"
	"errors"

	"chromalyzer/internal/core/trace"
)

type jsonTrace struct {
	Time      []float64    `json:"time"`
	Intensity []float64    `json:"intensity"`
	TraceData [][2]float64 `json:"trace_data"`
}

// ReadJSON accepts either parallel arrays or the trace_data pairs of a stored record
func ReadJSON(b []byte) (trace.Trace, error) {
	var doc jsonTrace
	if err := json.Unmarshal(b, &doc); err != nil {
		return trace.Trace{}, err
	}
	switch {
	case len(doc.TraceData) > 0:
		return trace.FromPairs(doc.TraceData), nil
	case doc.Time != nil || doc.Intensity != nil:
		return trace.Trace{Time: doc.Time, Intensity: doc.Intensity}, nil
	}
	return trace.Trace{}, errors.New(`want "time" and "intensity" arrays or "trace_data" pairs`)
}
