// Package peaks detects and quantifies chromatographic peaks in a sampled trace
package peaks

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/integrate"

	"chromalyzer/internal/core/trace"
)

// Peak is one retained apex with its integration window.
// Height, RetentionTime, Area, StartTime and EndTime are rounded to 2 dp for presentation
type Peak struct {
	Index         int     `json:"peak_index"`
	Height        float64 `json:"height"`
	RetentionTime float64 `json:"retention_time"`
	Area          float64 `json:"area"`
	StartTime     float64 `json:"start_time"`
	EndTime       float64 `json:"end_time"`

	// width stage diagnostics, unrounded
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Prominence float64 `json:"prominence"`
	LeftIPS    float64 `json:"left_ips"`
	RightIPS   float64 `json:"right_ips"`
	Width      float64 `json:"width"`
}

// Detection is the full outcome of one run
type Detection struct {
	Peaks []Peak

	// Candidates counts local maxima before any filter
	Candidates int
	// Selected counts apexes that passed height, distance and prominence
	Selected int
	// Dropped counts selected apexes discarded at the window stage
	Dropped int

	HeightThreshold     float64
	ProminenceThreshold float64
	Options             Options
}

// Detector runs peak detection with a fixed set of options
type Detector struct {
	opts Options
}

// New builds a Detector with DefaultOptions
func New() *Detector { return &Detector{opts: DefaultOptions()} }

// NewWithOptions builds a Detector after validating opts
func NewWithOptions(opts Options) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Detector{opts: opts}, nil
}

// Options returns the detector settings
func (d *Detector) Options() Options { return d.opts }

// Detect returns the peaks of the trace in ascending apex order
func (d *Detector) Detect(time, intensity []float64) ([]Peak, error) {
	det, err := d.Run(time, intensity)
	if err != nil {
		return nil, err
	}
	return det.Peaks, nil
}

// Run performs detection and reports thresholds and drop counts alongside the peaks.
// No peaks is a normal outcome: Peaks is empty and err is nil
func (d *Detector) Run(time, intensity []float64) (Detection, error) {
	tr, err := trace.New(time, intensity)
	if err != nil {
		return Detection{}, err
	}
	if err := d.opts.Validate(); err != nil {
		return Detection{}, err
	}

	x := tr.Intensity
	det := Detection{
		Peaks:               []Peak{},
		HeightThreshold:     trace.Percentile(x, d.opts.HeightPercentile),
		ProminenceThreshold: trace.Percentile(x, d.opts.ProminencePercentile),
		Options:             d.opts,
	}

	cands := localMaxima(x)
	det.Candidates = len(cands)

	cands = byHeight(x, cands, det.HeightThreshold)
	cands = byDistance(x, cands, d.opts.MinDistance)

	for _, p := range cands {
		prom, lb, rb := prominence(x, p)
		if prom < det.ProminenceThreshold {
			continue
		}
		det.Selected++

		pk, ok := d.quantify(tr, p, prom, lb, rb)
		if !ok {
			det.Dropped++
			continue
		}
		det.Peaks = append(det.Peaks, pk)
	}
	return det, nil
}

// quantify measures the window of apex p and integrates it. A window whose
// right edge runs past the last sample, or that collapses, is rejected
func (d *Detector) quantify(tr trace.Trace, p int, prom float64, lb, rb int) (Peak, bool) {
	x, t := tr.Intensity, tr.Time
	last := len(x) - 1

	w := measureWidth(x, p, prom, lb, rb, d.opts.RelHeight)

	start, end, ok := w.window(last)
	if !ok {
		return Peak{}, false
	}

	area := trapezoid(t[start:end+1], x[start:end+1])

	return Peak{
		Index:         p,
		Height:        round2(x[p]),
		RetentionTime: round2(t[p]),
		Area:          round2(area),
		StartTime:     round2(t[start]),
		EndTime:       round2(t[end]),
		StartIndex:    start,
		EndIndex:      end,
		Prominence:    prom,
		LeftIPS:       w.left,
		RightIPS:      w.right,
		Width:         w.samples(),
	}, true
}

var hundred = decimal.NewFromInt(100)

// round2 rounds to two decimals the way numpy does: scale, round half to
// even, unscale. 2.675 is 267.4999... after scaling and becomes 2.67
func round2(v float64) float64 {
	scaled := v * 100
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return v
	}
	return decimal.NewFromFloat(scaled).RoundBank(0).Div(hundred).InexactFloat64()
}

// trapezoid is the signed trapezoid integral of x over t. gonum wants
// ascending abscissae; any other window is summed pairwise
func trapezoid(t, x []float64) float64 {
	if slices.IsSorted(t) {
		return integrate.Trapezoidal(t, x)
	}
	var s float64
	for i := 1; i < len(t); i++ {
		s += (t[i] - t[i-1]) * (x[i] + x[i-1]) / 2
	}
	return s
}
