// Package summary condenses a detection run into a structured record and a text report
package summary

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"chromalyzer/internal/core/peaks"
	"chromalyzer/internal/core/trace"
)

// NoPeaks is the report emitted when detection finds nothing
const NoPeaks = "No peaks found."

// Summary is the structured view of one trace. Peaks keep detection order
type Summary struct {
	TotalPeaks        int          `json:"total_peaks"`
	MaxIntensity      float64      `json:"max_intensity"`
	BaselineIntensity float64      `json:"baseline_intensity"`
	Peaks             []peaks.Peak `json:"peaks"`
}

var printer = message.NewPrinter(language.English)

// Summarize builds the Summary and its report. Baseline is the median intensity
func Summarize(time, intensity []float64, pk []peaks.Peak, label string) (Summary, string, error) {
	tr, err := trace.New(time, intensity)
	if err != nil {
		return Summary{}, "", err
	}
	if pk == nil {
		pk = []peaks.Peak{}
	}
	s := Summary{
		TotalPeaks:        len(pk),
		MaxIntensity:      trace.Max(tr.Intensity),
		BaselineIntensity: trace.Median(tr.Intensity),
		Peaks:             pk,
	}
	return s, Report(label, s), nil
}

// Report renders s as the line-oriented text handed to diagnosis
func Report(label string, s Summary) string {
	var b strings.Builder
	b.WriteString("Chromatogram Summary: " + label + "\n")
	b.WriteString("Total peaks detected: " + strconv.Itoa(s.TotalPeaks) + "\n")
	b.WriteString("Max intensity: " + Grouped(s.MaxIntensity) + "\n")
	b.WriteString("Estimated baseline: " + Grouped(s.BaselineIntensity) + "\n")
	b.WriteString("\n")
	b.WriteString("All the peaks observed in the chromatograph")
	for _, p := range Ranked(s.Peaks) {
		b.WriteString("\n- Peak at " + Num(p.RetentionTime) + "s | Area: " + Num(p.Area) + " | Height: " + Num(p.Height))
	}
	return b.String()
}

// Ranked returns a copy of pk ordered by height, highest first; ties keep input order
func Ranked(pk []peaks.Peak) []peaks.Peak {
	out := make([]peaks.Peak, len(pk))
	copy(out, pk)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Height > out[j].Height })
	return out
}

// Grouped formats v with two decimals and thousands separators (12,345.68)
func Grouped(v float64) string { return printer.Sprintf("%.2f", v) }

// Num formats an already rounded value in its shortest form, keeping one
// decimal for whole numbers (9 -> 9.0)
func Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
