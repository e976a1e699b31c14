// Tracks run-wide topographic statistics for final reporting.

package sim

import "fmt"

// Metrics aggregates statistics about the evolving topography
// for final reporting. Useful for judging steady-state convergence
// and debugging behavior over time.
type Metrics struct {
	StepsCompleted int64 // Number of fully completed steps since the last reset

	MaxElevation  float64 // Current maximum elevation over core nodes
	MeanElevation float64 // Current mean elevation over core nodes
	Relief        float64 // Current max - min elevation over core nodes

	TotalErodedVolume   float64 // Integral of fluvial rock volume removed
	TotalUpliftedVolume float64 // Integral of rock volume added by uplift

	ReliefHistory []float64 // Relief sampled after every completed step
}

// NewMetrics returns a zeroed metrics accumulator.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Observe refreshes the instantaneous topographic statistics from the grid
// and appends to the relief history. Read-only over grid state.
func (m *Metrics) Observe(g *RasterGrid) {
	z, err := g.Field(FieldElevation)
	if err != nil {
		return
	}
	core := g.CoreNodes()
	if len(core) == 0 {
		return
	}
	zMax, zMin, sum := z[core[0]], z[core[0]], 0.0
	for _, i := range core {
		v := z[i]
		if v > zMax {
			zMax = v
		}
		if v < zMin {
			zMin = v
		}
		sum += v
	}
	m.MaxElevation = zMax
	m.MeanElevation = sum / float64(len(core))
	m.Relief = zMax - zMin
	m.ReliefHistory = append(m.ReliefHistory, m.Relief)
}

// Print displays aggregated metrics at the end of a run.
func (m *Metrics) Print(elapsed float64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Completed Steps      : %d\n", m.StepsCompleted)
	fmt.Printf("Elapsed Time         : %.0f yr\n", elapsed)
	fmt.Printf("Max Elevation        : %.3f m\n", m.MaxElevation)
	fmt.Printf("Mean Elevation       : %.3f m\n", m.MeanElevation)
	fmt.Printf("Relief               : %.3f m\n", m.Relief)
	fmt.Printf("Eroded Volume        : %.3e m^3\n", m.TotalErodedVolume)
	fmt.Printf("Uplifted Volume      : %.3e m^3\n", m.TotalUpliftedVolume)
}
