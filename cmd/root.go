package cmd

import (
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/landscape-sim/landscape-sim/sim"
)

var (
	// CLI flags for the stepping loop
	seed           int64   // Seed for the initial surface noise
	dt             float64 // Step size (years)
	totalTime      float64 // Total run duration (years)
	logLevel       string  // Log verbosity level
	logEvery       int64   // Progress line cadence (steps)
	noiseAmplitude float64 // Initial noise range (m)

	// CLI flags for grid geometry
	gridRows    int     // Node rows
	gridCols    int     // Node columns
	gridSpacing float64 // Node spacing (m)

	// CLI flags for process parameters
	upliftRate      float64 // Rock uplift rate (m/yr)
	erodibility     float64 // Stream-power erodibility K_sp
	areaExponent    float64 // Drainage-area exponent m_sp
	slopeExponent   float64 // Slope exponent n_sp
	slopeThreshold  float64 // Minimum gradient for incision
	diffusivity     float64 // Hillslope diffusivity K_hs (m^2/yr)
	fillDepressions bool    // Resolve closed basins before routing

	// CLI flags for outputs
	nodesOut    string // Per-node CSV path
	reliefOut   string // Relief history CSV path
	scenarioFil string // Multi-phase scenario YAML path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "landscape-sim",
	Short: "Landscape evolution simulator coupling stream-power incision and hillslope diffusion",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the landscape evolution simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.Config{
			Grid: sim.GridConfig{
				Rows:    gridRows,
				Cols:    gridCols,
				Spacing: gridSpacing,
			},
			Process: sim.ProcessConfig{
				UpliftRate:      upliftRate,
				Erodibility:     erodibility,
				AreaExponent:    areaExponent,
				SlopeExponent:   slopeExponent,
				SlopeThreshold:  slopeThreshold,
				Diffusivity:     diffusivity,
				FillDepressions: fillDepressions,
			},
			Run: sim.RunConfig{
				Dt:             dt,
				TotalTime:      totalTime,
				Seed:           seed,
				NoiseAmplitude: noiseAmplitude,
			},
			Boundaries: sim.OpenBoundaries(),
		}

		var scenario *ScenarioSpec
		if scenarioFil != "" {
			scenario, err = LoadScenarioSpec(scenarioFil)
			if err != nil {
				logrus.Fatalf("unable to read scenario config; %v", err)
			}
			scenario.ApplyTo(&cfg)
		}

		logrus.Infof("Starting simulation: %dx%d grid, dx=%gm, dt=%gyr, U=%g, K_sp=%g, K_hs=%g",
			cfg.Grid.Rows, cfg.Grid.Cols, cfg.Grid.Spacing, cfg.Run.Dt,
			cfg.Process.UpliftRate, cfg.Process.Erodibility, cfg.Process.Diffusivity)

		startTime := time.Now() // Get current time (start)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}
		s.LogEvery = logEvery

		if scenario != nil && len(scenario.Phases) > 0 {
			if err := runPhases(s, scenario); err != nil {
				logrus.Fatalf("simulation failed: %v", err)
			}
		} else {
			if err := s.Run(); err != nil {
				logrus.Fatalf("simulation failed: %v", err)
			}
		}

		s.Metrics.Print(s.Now())

		if fit, err := sim.FitSlopeArea(s.Grid, 2*s.Grid.CellArea()); err == nil {
			logrus.Infof("slope-area fit: concavity=%.3f steepness=%.4g R2=%.3f over %d nodes",
				fit.Concavity, fit.Steepness, fit.R2, fit.NumNodes)
		} else {
			logrus.Warnf("slope-area fit unavailable: %v", err)
		}
		if at, err := sim.TransitionArea(s.Grid, 20); err == nil {
			logrus.Infof("hillslope-to-fluvial transition near drainage area %.4g m^2", at)
		}

		if nodesOut != "" {
			if err := sim.WriteNodeCSV(s.Grid, nodesOut); err != nil {
				logrus.Fatalf("writing node table: %v", err)
			}
			logrus.Infof("wrote node table to %s", nodesOut)
		}
		if reliefOut != "" {
			if err := sim.WriteReliefCSV(s.Metrics, cfg.Run.Dt, reliefOut); err != nil {
				logrus.Fatalf("writing relief history: %v", err)
			}
			logrus.Infof("wrote relief history to %s", reliefOut)
		}

		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// runPhases advances the simulator through the scenario's phases in order,
// rebuilding operators between phases. Topography and clock carry over.
func runPhases(s *sim.Simulator, spec *ScenarioSpec) error {
	for _, ph := range spec.Phases {
		if err := s.ReplaceOperators(ph.Process()); err != nil {
			return err
		}
		n := int64(math.Ceil(ph.Duration / s.Config().Run.Dt))
		logrus.Infof("phase %q: %d steps from t=%.0f yr", ph.Name, n, s.Now())
		if err := s.Advance(n); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the initial surface noise")
	runCmd.Flags().Float64Var(&dt, "dt", 1000, "Step size in years")
	runCmd.Flags().Float64Var(&totalTime, "total-time", 1e6, "Total run duration in years")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&logEvery, "log-every", 100, "Progress line every N steps (0 disables)")
	runCmd.Flags().Float64Var(&noiseAmplitude, "noise-amplitude", 1.0, "Initial random noise range in meters")

	// grid geometry
	runCmd.Flags().IntVar(&gridRows, "rows", 150, "Number of node rows")
	runCmd.Flags().IntVar(&gridCols, "cols", 150, "Number of node columns")
	runCmd.Flags().Float64Var(&gridSpacing, "spacing", 50, "Node spacing in meters")

	// process parameters
	runCmd.Flags().Float64Var(&upliftRate, "uplift-rate", 0.001, "Rock uplift rate in m/yr")
	runCmd.Flags().Float64Var(&erodibility, "k-sp", 1e-5, "Stream-power erodibility coefficient")
	runCmd.Flags().Float64Var(&areaExponent, "m-sp", 0.5, "Stream-power drainage-area exponent")
	runCmd.Flags().Float64Var(&slopeExponent, "n-sp", 1.0, "Stream-power slope exponent")
	runCmd.Flags().Float64Var(&slopeThreshold, "slope-threshold", 0, "Minimum gradient below which no incision occurs")
	runCmd.Flags().Float64Var(&diffusivity, "k-hs", 0.05, "Hillslope diffusivity in m^2/yr")
	runCmd.Flags().BoolVar(&fillDepressions, "fill-depressions", false, "Resolve closed depressions before routing (changes results in basins)")

	// outputs
	runCmd.Flags().StringVar(&nodesOut, "nodes-out", "", "Write final per-node table to this CSV path")
	runCmd.Flags().StringVar(&reliefOut, "relief-out", "", "Write relief history to this CSV path")
	runCmd.Flags().StringVar(&scenarioFil, "scenario", "", "Multi-phase scenario YAML file")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
