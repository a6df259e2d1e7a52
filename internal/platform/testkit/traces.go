package testkit

import "math"

// Bump is one Gaussian component of a synthetic chromatogram
type Bump struct {
	Center float64 // retention time of the apex
	Height float64 // apex height above baseline
	Sigma  float64 // standard deviation in time units
}

// Axis returns n evenly spaced times starting at t0 with step dt
func Axis(n int, t0, dt float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + float64(i)*dt
	}
	return out
}

// Flat returns n samples at level v
func Flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Gaussian samples baseline plus every bump over the given times
func Gaussian(times []float64, baseline float64, bumps ...Bump) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		v := baseline
		for _, b := range bumps {
			d := (t - b.Center) / b.Sigma
			v += b.Height * math.Exp(-0.5*d*d)
		}
		out[i] = v
	}
	return out
}

// Sum adds equally sized series element-wise
func Sum(series ...[]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series[0]))
	for _, s := range series {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}
