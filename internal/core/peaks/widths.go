package peaks

import "math"

// width describes where a peak crosses its reference height
type width struct {
	height float64 // reference level: apex - prominence*relHeight
	left   float64 // fractional sample index of the left crossing
	right  float64 // fractional sample index of the right crossing
}

func (w width) samples() float64 { return w.right - w.left }

// window converts the crossings to integer bounds [start, end] on a trace whose
// last index is last. ok is false when end runs past last or the window collapses
func (w width) window(last int) (start, end int, ok bool) {
	start = max(0, int(math.Floor(w.left)))
	end = int(math.Ceil(w.right))
	if end > last || start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// measureWidth finds the crossings of the apex at p at relHeight of its
// prominence, searching only inside [leftBase, rightBase]
func measureWidth(x []float64, p int, prom float64, leftBase, rightBase int, relHeight float64) width {
	h := x[p] - prom*relHeight

	i := p
	for leftBase < i && h < x[i] {
		i--
	}
	left, _ := crossing(x, i, i+1, h)

	i = p
	for i < rightBase && h < x[i] {
		i++
	}
	right, _ := crossing(x, i, i-1, h)

	return width{height: h, left: left, right: right}
}

// crossing interpolates between sample i and its inward neighbour toward the
// level h. It returns the fractional index and the interpolated intensity there.
// When x[i] already reaches h the crossing sits on i itself
func crossing(x []float64, i, inward int, h float64) (float64, float64) {
	pos := float64(i)
	if x[i] >= h || x[inward] == x[i] {
		return pos, x[i]
	}
	frac := (h - x[i]) / (x[inward] - x[i])
	if inward > i {
		pos += frac
	} else {
		pos -= frac
	}
	return pos, x[i] + (x[inward]-x[i])*frac
}
