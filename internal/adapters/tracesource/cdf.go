package tracesource

import (
	"bytes"
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"chromalyzer/internal/core/trace"
)

// ANDI/AIA chromatography variable names
const (
	VarTime      = "scan_acquisition_time"
	VarIntensity = "total_intensity"
)

// memFile lets the netCDF reader seek over an in-memory upload
type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

// ReadCDF extracts the time and total intensity series from an ANDI file.
// Classic headers are bounds checked against the file size before the
// reader allocates anything. scale_factor and add_offset are applied when
// present
func ReadCDF(b []byte) (tr trace.Trace, err error) {
	if isClassic(b) {
		if err := checkExtents(b); err != nil {
			return trace.Trace{}, err
		}
	}
	defer func() {
		if r := recover(); r != nil {
			tr, err = trace.Trace{}, fmt.Errorf("cdf: malformed file: %v", r)
		}
	}()

	g, err := netcdf.New(memFile{bytes.NewReader(b)})
	if err != nil {
		return trace.Trace{}, fmt.Errorf("cdf: %w", err)
	}
	defer g.Close()

	t, err := series(g, VarTime)
	if err != nil {
		return trace.Trace{}, err
	}
	y, err := series(g, VarIntensity)
	if err != nil {
		return trace.Trace{}, err
	}
	return trace.Trace{Time: t, Intensity: y}, nil
}

// series reads a one-dimensional numeric variable with its packing applied
func series(g api.Group, name string) ([]float64, error) {
	v, err := g.GetVariable(name)
	if err != nil || v == nil {
		return nil, fmt.Errorf("cdf: variable %q not found", name)
	}
	out, ok := numbers(v.Values)
	if !ok {
		return nil, fmt.Errorf("cdf: variable %q is not a numeric series", name)
	}

	scale, offset := 1.0, 0.0
	if v.Attributes != nil {
		if s, ok := attrFloat(v.Attributes, "scale_factor"); ok {
			scale = s
		}
		if o, ok := attrFloat(v.Attributes, "add_offset"); ok {
			offset = o
		}
	}
	if scale != 1 || offset != 0 {
		for i := range out {
			out[i] = out[i]*scale + offset
		}
	}
	return out, nil
}

func attrFloat(m api.AttributeMap, key string) (float64, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	if f, ok := scalar(raw); ok {
		return f, true
	}
	if vals, ok := numbers(raw); ok && len(vals) > 0 {
		return vals[0], true
	}
	return 0, false
}

func scalar(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int8:
		return float64(x), true
	case uint8:
		return float64(x), true
	case int16:
		return float64(x), true
	case uint16:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// numbers widens the slice types the reader returns for numeric variables
func numbers(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return widen(x), true
	case []float32:
		return widen(x), true
	case []int8:
		return widen(x), true
	case []uint8:
		return widen(x), true
	case []int16:
		return widen(x), true
	case []uint16:
		return widen(x), true
	case []int32:
		return widen(x), true
	case []uint32:
		return widen(x), true
	case []int64:
		return widen(x), true
	case []uint64:
		return widen(x), true
	}
	return nil, false
}

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func widen[T number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = float64(x)
	}
	return out
}
