package sim

import "fmt"

// GridConfig groups mesh geometry parameters.
type GridConfig struct {
	Rows    int     // node rows (must be >= 3)
	Cols    int     // node columns (must be >= 3)
	Spacing float64 // node spacing in meters (must be > 0)
}

// Validate checks if the grid configuration is valid.
func (g *GridConfig) Validate() error {
	if g.Rows < 3 {
		return fmt.Errorf("Rows must be >= 3, got %d", g.Rows)
	}
	if g.Cols < 3 {
		return fmt.Errorf("Cols must be >= 3, got %d", g.Cols)
	}
	if g.Spacing <= 0 {
		return fmt.Errorf("Spacing must be > 0, got %g", g.Spacing)
	}
	return nil
}

// ProcessConfig groups the physical parameters of the three evolving
// operators plus the routing options. Changing any value mid-run requires
// rebuilding the operators (Simulator.ReplaceOperators); the stepping loop
// itself holds no process state.
type ProcessConfig struct {
	UpliftRate     float64 // rock uplift rate, m/yr
	Erodibility    float64 // K_sp
	AreaExponent   float64 // m_sp
	SlopeExponent  float64 // n_sp
	SlopeThreshold float64 // minimum gradient for fluvial incision
	Diffusivity    float64 // K_hs, hillslope transport coefficient, m^2/yr

	// FillDepressions enables priority-flood depression resolution before
	// each routing pass. Off by default: the baseline leaves closed basins
	// unresolved, and enabling this visibly changes results in pits.
	FillDepressions bool
	// FillEpsilon is the gradient imposed across filled surfaces. Only
	// consulted when FillDepressions is set; 0 selects the default.
	FillEpsilon float64
}

// DefaultFillEpsilon is the filled-surface gradient increment used when a
// scenario enables depression filling without choosing one.
const DefaultFillEpsilon = 1e-6

// Validate checks if the process configuration is valid.
func (p *ProcessConfig) Validate() error {
	if p.UpliftRate < 0 {
		return fmt.Errorf("UpliftRate must be >= 0, got %g", p.UpliftRate)
	}
	if p.Erodibility < 0 {
		return fmt.Errorf("Erodibility must be >= 0, got %g", p.Erodibility)
	}
	if p.AreaExponent <= 0 {
		return fmt.Errorf("AreaExponent must be > 0, got %g", p.AreaExponent)
	}
	if p.SlopeExponent <= 0 {
		return fmt.Errorf("SlopeExponent must be > 0, got %g", p.SlopeExponent)
	}
	if p.SlopeThreshold < 0 {
		return fmt.Errorf("SlopeThreshold must be >= 0, got %g", p.SlopeThreshold)
	}
	if p.Diffusivity < 0 {
		return fmt.Errorf("Diffusivity must be >= 0, got %g", p.Diffusivity)
	}
	if p.FillEpsilon < 0 {
		return fmt.Errorf("FillEpsilon must be >= 0, got %g", p.FillEpsilon)
	}
	return nil
}

// RunConfig groups the numerical stepping parameters.
type RunConfig struct {
	Dt             float64 // step size, yr (must be > 0)
	TotalTime      float64 // run duration, yr (must be > 0)
	Seed           int64   // master seed for the initial surface
	NoiseAmplitude float64 // initial noise range, m (must be > 0)
}

// Validate checks if the run configuration is valid.
func (r *RunConfig) Validate() error {
	if r.Dt <= 0 {
		return fmt.Errorf("Dt must be > 0, got %g", r.Dt)
	}
	if r.TotalTime <= 0 {
		return fmt.Errorf("TotalTime must be > 0, got %g", r.TotalTime)
	}
	if r.NoiseAmplitude <= 0 {
		return fmt.Errorf("NoiseAmplitude must be > 0, got %g", r.NoiseAmplitude)
	}
	return nil
}

// Config is the full immutable parameter set for a simulation run.
type Config struct {
	Grid       GridConfig
	Process    ProcessConfig
	Run        RunConfig
	Boundaries BoundaryConfig
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid config: %w", err)
	}
	if err := c.Process.Validate(); err != nil {
		return fmt.Errorf("process config: %w", err)
	}
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("run config: %w", err)
	}
	return nil
}

// DefaultConfig returns the reference configuration: a 150x150 grid at 50 m
// spacing run to 1 Myr in 1 kyr steps, with stream-power and hillslope
// parameters that reach a bounded steady state as erosion balances uplift.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Rows:    150,
			Cols:    150,
			Spacing: 50,
		},
		Process: ProcessConfig{
			UpliftRate:     0.001,
			Erodibility:    1e-5,
			AreaExponent:   0.5,
			SlopeExponent:  1.0,
			SlopeThreshold: 0,
			Diffusivity:    0.05,
		},
		Run: RunConfig{
			Dt:             1000,
			TotalTime:      1e6,
			Seed:           42,
			NoiseAmplitude: 1.0,
		},
		Boundaries: OpenBoundaries(),
	}
}
