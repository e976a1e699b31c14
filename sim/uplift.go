package sim

import "fmt"

// Uplift raises every core node by rate*dt each step. Boundary nodes are
// never modified, which anchors base level at the grid perimeter.
type Uplift struct {
	rate float64 // m/yr
}

// NewUplift constructs an uplift operator with the given rock uplift rate.
func NewUplift(rate float64) (*Uplift, error) {
	if rate < 0 {
		return nil, fmt.Errorf("uplift rate must be >= 0, got %g", rate)
	}
	return &Uplift{rate: rate}, nil
}

// Name identifies the operator in logs and diagnostics.
func (u *Uplift) Name() string { return "uplift" }

// RunOneStep adds rate*dt to the elevation of every core node.
func (u *Uplift) RunOneStep(g *RasterGrid, dt float64) error {
	z, err := g.Field(FieldElevation)
	if err != nil {
		return fmt.Errorf("uplift: %w", err)
	}
	dz := u.rate * dt
	for _, i := range g.CoreNodes() {
		z[i] += dz
	}
	return nil
}
