package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SlopeAreaFit summarizes the slope-area scaling of a routed landscape.
// In the fluvial domain steepest slope follows S = k_s * A^(-theta); the
// fit is a least-squares regression in log10-log10 space.
type SlopeAreaFit struct {
	Concavity float64 // theta, negated regression slope
	Steepness float64 // k_s, channel steepness index
	R2        float64 // coefficient of determination of the log-log fit
	NumNodes  int     // nodes included in the fit
}

// FitSlopeArea regresses log slope against log drainage area over core
// nodes with positive slope and area >= minArea. It requires a routed grid
// (drainage area and steepest slope fields present).
func FitSlopeArea(g *RasterGrid, minArea float64) (SlopeAreaFit, error) {
	area, err := g.Field(FieldDrainageArea)
	if err != nil {
		return SlopeAreaFit{}, fmt.Errorf("slope-area fit: %w", err)
	}
	slope, err := g.Field(FieldSteepestSlope)
	if err != nil {
		return SlopeAreaFit{}, fmt.Errorf("slope-area fit: %w", err)
	}

	var xs, ys []float64
	for _, i := range g.CoreNodes() {
		if slope[i] <= 0 || area[i] < minArea {
			continue
		}
		xs = append(xs, math.Log10(area[i]))
		ys = append(ys, math.Log10(slope[i]))
	}
	if len(xs) < 2 {
		return SlopeAreaFit{}, fmt.Errorf("slope-area fit: only %d usable nodes above area %g", len(xs), minArea)
	}

	intercept, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, beta)
	return SlopeAreaFit{
		Concavity: -beta,
		Steepness: math.Pow(10, intercept),
		R2:        r2,
		NumNodes:  len(xs),
	}, nil
}

// TransitionArea estimates the drainage area at which the landscape shifts
// from hillslope-dominated (slope flat or rising with area) to
// fluvial-dominated (slope decreasing with area) behavior. Nodes are binned
// by log area; the transition is the center of the bin with the highest
// mean slope, past which mean slope declines. Returns an error when the
// landscape shows no fluvial domain.
func TransitionArea(g *RasterGrid, numBins int) (float64, error) {
	if numBins < 2 {
		return 0, fmt.Errorf("transition area: need at least 2 bins, got %d", numBins)
	}
	area, err := g.Field(FieldDrainageArea)
	if err != nil {
		return 0, fmt.Errorf("transition area: %w", err)
	}
	slope, err := g.Field(FieldSteepestSlope)
	if err != nil {
		return 0, fmt.Errorf("transition area: %w", err)
	}

	type pt struct{ la, s float64 }
	var pts []pt
	for _, i := range g.CoreNodes() {
		if slope[i] <= 0 || area[i] <= 0 {
			continue
		}
		pts = append(pts, pt{la: math.Log10(area[i]), s: slope[i]})
	}
	if len(pts) < numBins {
		return 0, fmt.Errorf("transition area: only %d usable nodes for %d bins", len(pts), numBins)
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].la < pts[b].la })

	lo, hi := pts[0].la, pts[len(pts)-1].la
	if hi <= lo {
		return 0, fmt.Errorf("transition area: degenerate drainage-area range")
	}
	width := (hi - lo) / float64(numBins)
	sums := make([]float64, numBins)
	counts := make([]int, numBins)
	for _, p := range pts {
		b := int((p.la - lo) / width)
		if b >= numBins {
			b = numBins - 1
		}
		sums[b] += p.s
		counts[b]++
	}

	best, bestMean := -1, 0.0
	for b := 0; b < numBins; b++ {
		if counts[b] == 0 {
			continue
		}
		mean := sums[b] / float64(counts[b])
		if mean > bestMean {
			bestMean = mean
			best = b
		}
	}
	if best < 0 || best == numBins-1 {
		return 0, fmt.Errorf("transition area: no fluvial rollover detected")
	}
	center := lo + (float64(best)+0.5)*width
	return math.Pow(10, center), nil
}
