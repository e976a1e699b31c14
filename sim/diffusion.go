package sim

// LinearDiffuser applies hillslope sediment transport as linear diffusion,
// dz/dt = D * laplacian(z), integrated with an explicit forward-time
// centered-space update over the 4-neighborhood.
//
// Stability is the caller's responsibility: the explicit scheme requires
// D*dt/dx^2 <= 0.25, and the simulator warns (but does not correct) when a
// configuration violates that.

import "fmt"

// LinearDiffuser is the hillslope transport operator.
type LinearDiffuser struct {
	diffusivity float64 // m^2/yr

	// scratch buffer holding the pre-update surface, reused across steps
	prev []float64
}

// NewLinearDiffuser constructs a diffuser with the given hillslope
// diffusivity (transport coefficient).
func NewLinearDiffuser(diffusivity float64) (*LinearDiffuser, error) {
	if diffusivity < 0 {
		return nil, fmt.Errorf("hillslope diffusivity must be >= 0, got %g", diffusivity)
	}
	return &LinearDiffuser{diffusivity: diffusivity}, nil
}

// Name identifies the operator in logs and diagnostics.
func (d *LinearDiffuser) Name() string { return "linear_diffusion" }

// RunOneStep advances the elevation field by one explicit diffusion update.
// Core nodes evolve; fixed boundaries hold their value and act as open
// sinks; closed boundaries exchange no flux (their links are skipped, which
// is the mirror condition for a zero-gradient edge).
func (d *LinearDiffuser) RunOneStep(g *RasterGrid, dt float64) error {
	z, err := g.Field(FieldElevation)
	if err != nil {
		return fmt.Errorf("linear diffusion: %w", err)
	}
	if d.diffusivity == 0 {
		return nil
	}

	if len(d.prev) != len(z) {
		d.prev = make([]float64, len(z))
	}
	copy(d.prev, z)

	alpha := d.diffusivity * dt / (g.Spacing() * g.Spacing())
	for _, i := range g.CoreNodes() {
		var lap float64
		for _, l := range g.orthoNeighbors(i) {
			if g.Status(l.node) == ClosedBoundary {
				continue
			}
			lap += d.prev[l.node] - d.prev[i]
		}
		z[i] = d.prev[i] + alpha*lap
	}
	return nil
}
