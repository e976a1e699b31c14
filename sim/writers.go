package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteNodeCSV writes one row per node with planform coordinates,
// elevation, and the routed drainage fields. The grid must carry all four
// operator fields, i.e. at least one routed step must have completed.
func WriteNodeCSV(g *RasterGrid, path string) error {
	z, err := g.Field(FieldElevation)
	if err != nil {
		return fmt.Errorf("node csv: %w", err)
	}
	area, err := g.Field(FieldDrainageArea)
	if err != nil {
		return fmt.Errorf("node csv: %w", err)
	}
	slope, err := g.Field(FieldSteepestSlope)
	if err != nil {
		return fmt.Errorf("node csv: %w", err)
	}
	rec, err := g.Field(FieldFlowReceiver)
	if err != nil {
		return fmt.Errorf("node csv: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("node csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"node", "x", "y", "elevation", "drainage_area", "steepest_slope", "receiver", "core"}); err != nil {
		return fmt.Errorf("node csv: %w", err)
	}
	for i := 0; i < g.NumNodes(); i++ {
		x, y := g.NodeXY(i)
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(y, 'g', -1, 64),
			strconv.FormatFloat(z[i], 'g', -1, 64),
			strconv.FormatFloat(area[i], 'g', -1, 64),
			strconv.FormatFloat(slope[i], 'g', -1, 64),
			strconv.Itoa(int(rec[i])),
			strconv.FormatBool(g.IsCore(i)),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("node csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteReliefCSV writes the per-step relief history with its time axis.
func WriteReliefCSV(m *Metrics, dt float64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("relief csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time_yr", "relief_m"}); err != nil {
		return fmt.Errorf("relief csv: %w", err)
	}
	for k, r := range m.ReliefHistory {
		row := []string{
			strconv.FormatFloat(float64(k)*dt, 'g', -1, 64),
			strconv.FormatFloat(r, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("relief csv: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
