// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds the grid, the four physical
// operators, the simulation clock, and run metrics. It is the only writer
// of the elevation field, and advances it with a strict per-step ordering:
//
//	uplift -> diffusion -> flow routing -> erosion -> clock
//
// The loop is re-entrant: Advance continues from whatever topography exists,
// so successive bursts (possibly under different parameters, see
// ReplaceOperators) evolve one continuous surface. Reset is the only
// operation that discards topography.
type Simulator struct {
	Grid    *RasterGrid
	Metrics *Metrics

	uplift   StepOperator
	diffuser StepOperator
	router   InstantOperator
	eroder   *StreamPowerEroder

	rng   *PartitionedRNG
	cfg   Config
	steps int64 // completed steps since the last Reset

	// LogEvery controls info-level progress reporting: a line every N
	// steps, 0 to disable. Reporting reads state only.
	LogEvery int64
}

// NewSimulator validates the configuration, builds the grid and operators,
// and initializes the surface (equivalent to an explicit Reset).
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewRasterGridWithBoundaries(cfg.Grid.Rows, cfg.Grid.Cols, cfg.Grid.Spacing, cfg.Boundaries)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		Grid:     grid,
		Metrics:  NewMetrics(),
		cfg:      cfg,
		LogEvery: 100,
	}
	if err := s.buildOperators(cfg.Process); err != nil {
		return nil, err
	}

	// Explicit diffusion is conditionally stable; surface a bad parameter
	// choice up front rather than mid-run. Not corrected: stability is the
	// user's responsibility.
	cfl := cfg.Process.Diffusivity * cfg.Run.Dt / (cfg.Grid.Spacing * cfg.Grid.Spacing)
	if cfl > 0.25 {
		logrus.Warnf("diffusion stability number D*dt/dx^2 = %.3f exceeds 0.25; expect oscillating elevations", cfl)
	}

	s.Reset()
	return s, nil
}

func (s *Simulator) buildOperators(p ProcessConfig) error {
	uplift, err := NewUplift(p.UpliftRate)
	if err != nil {
		return err
	}
	diffuser, err := NewLinearDiffuser(p.Diffusivity)
	if err != nil {
		return err
	}
	eroder, err := NewStreamPowerEroder(p.Erodibility, p.AreaExponent, p.SlopeExponent, p.SlopeThreshold)
	if err != nil {
		return err
	}

	var router InstantOperator
	if p.FillDepressions {
		eps := p.FillEpsilon
		if eps == 0 {
			eps = DefaultFillEpsilon
		}
		filler, err := NewDepressionFiller(eps)
		if err != nil {
			return err
		}
		router = NewFlowRouterWithFiller(filler)
	} else {
		router = NewFlowRouter()
	}

	s.uplift = uplift
	s.diffuser = diffuser
	s.router = router
	s.eroder = eroder
	return nil
}

// Reset discards any evolved topography: the elevation field is re-seeded
// as a flat baseline plus uniform noise in [0, NoiseAmplitude) from the
// configured seed, the clock returns to zero, and metrics start over.
// Repeated fresh starts from the same seed are bit-for-bit identical.
func (s *Simulator) Reset() {
	s.rng = NewPartitionedRNG(NewSimulationKey(s.cfg.Run.Seed))
	rng := s.rng.ForSubsystem(SubsystemTopography)

	z := s.Grid.AddField(FieldElevation)
	for i := range z {
		z[i] = s.cfg.Run.NoiseAmplitude * rng.Float64()
	}

	s.steps = 0
	s.Metrics = NewMetrics()
	s.Metrics.Observe(s.Grid)
}

// ReplaceOperators rebuilds the physical operators from a new process
// parameter set without touching elevation or the clock. This is the
// parameter-regime change: state-continuing, logically a new regime.
func (s *Simulator) ReplaceOperators(p ProcessConfig) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("process config: %w", err)
	}
	if err := s.buildOperators(p); err != nil {
		return err
	}
	s.cfg.Process = p
	return nil
}

// Now returns the elapsed simulation time. Computed as steps*dt rather than
// accumulated, so after k steps the clock is exactly k*dt.
func (s *Simulator) Now() float64 {
	return float64(s.steps) * s.cfg.Run.Dt
}

// StepCount returns the number of fully completed steps since the last Reset.
func (s *Simulator) StepCount() int64 { return s.steps }

// Config returns the active configuration.
func (s *Simulator) Config() Config { return s.cfg }

// step advances the landscape by exactly one dt. A step is all-or-nothing:
// any operator error aborts before the clock moves, and no retry is made.
func (s *Simulator) step() error {
	dt := s.cfg.Run.Dt

	if err := s.uplift.RunOneStep(s.Grid, dt); err != nil {
		return err
	}
	if err := s.diffuser.RunOneStep(s.Grid, dt); err != nil {
		return err
	}
	if err := s.router.Run(s.Grid); err != nil {
		return err
	}
	if err := s.eroder.RunOneStep(s.Grid, dt); err != nil {
		return err
	}

	s.steps++
	s.Metrics.StepsCompleted = s.steps
	s.Metrics.TotalErodedVolume += s.eroder.ErodedVolume()
	s.Metrics.TotalUpliftedVolume += s.cfg.Process.UpliftRate * dt * s.Grid.CellArea() * float64(len(s.Grid.CoreNodes()))
	s.Metrics.Observe(s.Grid)
	return nil
}

// Advance runs n steps, continuing from the current topography and clock.
// Advance(k1) followed by Advance(k2) is identical to Advance(k1+k2).
func (s *Simulator) Advance(n int64) error {
	if n < 0 {
		return fmt.Errorf("step count must be >= 0, got %d", n)
	}
	for k := int64(0); k < n; k++ {
		if err := s.step(); err != nil {
			return fmt.Errorf("step %d (t=%.0f yr): %w", s.steps+1, s.Now(), err)
		}
		if s.LogEvery > 0 && s.steps%s.LogEvery == 0 {
			logrus.Infof("[t=%10.0f yr] step %d: max=%.3f m relief=%.3f m",
				s.Now(), s.steps, s.Metrics.MaxElevation, s.Metrics.Relief)
		}
	}
	return nil
}

// Run advances by one full configured duration: ceil(TotalTime/Dt) steps
// covering [0, TotalTime) in increments of Dt. Invoking Run again continues
// evolving the existing surface for another full duration; it never resets
// the clock or the field.
func (s *Simulator) Run() error {
	n := int64(math.Ceil(s.cfg.Run.TotalTime / s.cfg.Run.Dt))
	logrus.Infof("running %d steps of %g yr from t=%.0f yr", n, s.cfg.Run.Dt, s.Now())
	return s.Advance(n)
}
