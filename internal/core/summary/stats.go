package summary

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"chromalyzer/internal/core/peaks"
)

// Stats aggregates the presentation values of a peak list
type Stats struct {
	TotalPeaks       int     `json:"total_peaks"`
	MaxHeight        float64 `json:"max_height"`
	MinHeight        float64 `json:"min_height"`
	AvgHeight        float64 `json:"avg_height"`
	MaxArea          float64 `json:"max_area"`
	MinArea          float64 `json:"min_area"`
	AvgArea          float64 `json:"avg_area"`
	MaxRetentionTime float64 `json:"max_retention_time"`
	MinRetentionTime float64 `json:"min_retention_time"`
}

// StatsOf computes Stats; ok is false for an empty list
func StatsOf(pk []peaks.Peak) (Stats, bool) {
	if len(pk) == 0 {
		return Stats{}, false
	}
	h := make([]float64, len(pk))
	a := make([]float64, len(pk))
	rt := make([]float64, len(pk))
	for i, p := range pk {
		h[i], a[i], rt[i] = p.Height, p.Area, p.RetentionTime
	}
	return Stats{
		TotalPeaks:       len(pk),
		MaxHeight:        floats.Max(h),
		MinHeight:        floats.Min(h),
		AvgHeight:        stat.Mean(h, nil),
		MaxArea:          floats.Max(a),
		MinArea:          floats.Min(a),
		AvgArea:          stat.Mean(a, nil),
		MaxRetentionTime: floats.Max(rt),
		MinRetentionTime: floats.Min(rt),
	}, true
}

// TopPeaks lists at most n of the highest peaks, numbered from 1
func TopPeaks(pk []peaks.Peak, n int) string {
	if len(pk) == 0 {
		return "No peaks detected."
	}
	top := Ranked(pk)
	if n >= 0 && n < len(top) {
		top = top[:n]
	}
	var b strings.Builder
	b.WriteString("Top " + strconv.Itoa(len(top)) + " peaks:")
	for i, p := range top {
		b.WriteString("\n" + strconv.Itoa(i+1) + ". RT: " + Num(p.RetentionTime) + "s | Height: " + Num(p.Height) + " | Area: " + Num(p.Area))
	}
	return b.String()
}
