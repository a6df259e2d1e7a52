package peaks

import "chromalyzer/internal/core/trace"

// Options controls peak selection and width measurement
type Options struct {
	// HeightPercentile of the trace intensity used as the minimum apex height (0..100)
	HeightPercentile float64 `json:"height_percentile" yaml:"height_percentile"`
	// ProminencePercentile of the trace intensity used as the minimum prominence (0..100)
	ProminencePercentile float64 `json:"prominence_percentile" yaml:"prominence_percentile"`
	// MinDistance is the minimum spacing in samples between retained apexes (>= 1)
	MinDistance int `json:"min_distance" yaml:"min_distance"`
	// RelHeight is the fraction of prominence below the apex where width is measured
	RelHeight float64 `json:"rel_height" yaml:"rel_height"`
}

// DefaultOptions are the stock detection settings
func DefaultOptions() Options {
	return Options{
		HeightPercentile:     95,
		ProminencePercentile: 90,
		MinDistance:          5,
		RelHeight:            0.5,
	}
}

// Validate rejects settings the detector cannot honour
func (o Options) Validate() error {
	if o.HeightPercentile < 0 || o.HeightPercentile > 100 || o.HeightPercentile != o.HeightPercentile {
		return trace.Invalid("height_percentile", "must be within [0,100], got %v", o.HeightPercentile)
	}
	if o.ProminencePercentile < 0 || o.ProminencePercentile > 100 || o.ProminencePercentile != o.ProminencePercentile {
		return trace.Invalid("prominence_percentile", "must be within [0,100], got %v", o.ProminencePercentile)
	}
	if o.MinDistance < 1 {
		return trace.Invalid("min_distance", "must be >= 1, got %d", o.MinDistance)
	}
	if o.RelHeight < 0 || o.RelHeight != o.RelHeight {
		return trace.Invalid("rel_height", "must be >= 0, got %v", o.RelHeight)
	}
	return nil
}

// Overrides carries optional per-invocation replacements; nil fields keep the base value
type Overrides struct {
	HeightPercentile     *float64 `json:"height_percentile,omitempty" yaml:"height_percentile,omitempty"`
	ProminencePercentile *float64 `json:"prominence_percentile,omitempty" yaml:"prominence_percentile,omitempty"`
	MinDistance          *int     `json:"min_distance,omitempty" yaml:"min_distance,omitempty"`
	RelHeight            *float64 `json:"rel_height,omitempty" yaml:"rel_height,omitempty"`
}

// Empty reports whether no field is set
func (ov Overrides) Empty() bool {
	return ov.HeightPercentile == nil && ov.ProminencePercentile == nil && ov.MinDistance == nil && ov.RelHeight == nil
}

// With returns o with every set override applied
func (o Options) With(ov Overrides) Options {
	if ov.HeightPercentile != nil {
		o.HeightPercentile = *ov.HeightPercentile
	}
	if ov.ProminencePercentile != nil {
		o.ProminencePercentile = *ov.ProminencePercentile
	}
	if ov.MinDistance != nil {
		o.MinDistance = *ov.MinDistance
	}
	if ov.RelHeight != nil {
		o.RelHeight = *ov.RelHeight
	}
	return o
}
