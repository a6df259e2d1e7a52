package peaks

import "sort"

// localMaxima finds strict local maxima. A flat top resolves to the midpoint
// of its run; the first and last samples never qualify
func localMaxima(x []float64) []int {
	n := len(x)
	var out []int
	last := n - 1
	i := 1
	for i < last {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < last && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				left, right := i, ahead-1
				out = append(out, (left+right)/2)
				i = ahead
			}
		}
		i++
	}
	return out
}

// byHeight keeps candidates with x[p] >= floor
func byHeight(x []float64, cands []int, floor float64) []int {
	out := cands[:0:0]
	for _, p := range cands {
		if x[p] >= floor {
			out = append(out, p)
		}
	}
	return out
}

// byDistance walks candidates from highest to lowest and suppresses any
// neighbour closer than distance samples. Equal heights keep the earlier index.
// cands must be ascending
func byDistance(x []float64, cands []int, distance int) []int {
	n := len(cands)
	if n < 2 || distance <= 1 {
		return cands
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[cands[order[a]]] > x[cands[order[b]]] })

	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}
	for _, j := range order {
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && cands[j]-cands[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < n && cands[k]-cands[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := make([]int, 0, n)
	for i, p := range cands {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// prominence of the apex at p along with the indices of its left and right bases.
// Each side is scanned outward while samples stay at or below the apex
func prominence(x []float64, p int) (prom float64, leftBase, rightBase int) {
	apex := x[p]

	leftMin := apex
	leftBase = p
	for i := p; i >= 0 && x[i] <= apex; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			leftBase = i
		}
	}

	rightMin := apex
	rightBase = p
	for i := p; i < len(x) && x[i] <= apex; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			rightBase = i
		}
	}

	return apex - max(leftMin, rightMin), leftBase, rightBase
}
