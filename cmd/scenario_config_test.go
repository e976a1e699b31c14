package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/landscape-sim/landscape-sim/sim"
)

const scenarioYAML = `version: "1"
seed: 7
rows: 12
cols: 12
spacing: 50
dt: 1000
noise_amplitude: 1.0
phases:
  - name: uplift-and-carve
    duration: 5000
    uplift_rate: 0.001
    k_sp: 1.0e-5
    m_sp: 0.5
    n_sp: 1.0
    k_hs: 0.05
  - name: decay
    duration: 3000
    uplift_rate: 0
    k_sp: 2.0e-5
    m_sp: 0.5
    n_sp: 1.0
    k_hs: 0.05
    fill_depressions: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenarioSpec_ParsesPhases(t *testing.T) {
	spec, err := LoadScenarioSpec(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, int64(7), spec.Seed)
	assert.Equal(t, 12, spec.Rows)
	require.Len(t, spec.Phases, 2)
	assert.Equal(t, "uplift-and-carve", spec.Phases[0].Name)
	assert.Equal(t, 0.001, spec.Phases[0].UpliftRate)
	assert.False(t, spec.Phases[0].FillDepressions)
	assert.True(t, spec.Phases[1].FillDepressions)
	assert.Equal(t, 2.0e-5, spec.Phases[1].Erodibility)
}

func TestLoadScenarioSpec_MissingFile(t *testing.T) {
	_, err := LoadScenarioSpec(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestScenarioSpec_ValidateRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScenarioSpec)
	}{
		{"unsupported version", func(s *ScenarioSpec) { s.Version = "9" }},
		{"tiny grid", func(s *ScenarioSpec) { s.Rows = 2 }},
		{"zero spacing", func(s *ScenarioSpec) { s.Spacing = 0 }},
		{"zero dt", func(s *ScenarioSpec) { s.Dt = 0 }},
		{"no phases", func(s *ScenarioSpec) { s.Phases = nil }},
		{"zero duration", func(s *ScenarioSpec) { s.Phases[0].Duration = 0 }},
		{"bad exponent", func(s *ScenarioSpec) { s.Phases[0].AreaExponent = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := LoadScenarioSpec(writeScenario(t, scenarioYAML))
			require.NoError(t, err)
			tt.mutate(spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestScenarioSpec_ApplyToOverridesConfig(t *testing.T) {
	spec, err := LoadScenarioSpec(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	cfg := sim.DefaultConfig()
	spec.ApplyTo(&cfg)

	assert.Equal(t, 12, cfg.Grid.Rows)
	assert.Equal(t, int64(7), cfg.Run.Seed)
	assert.Equal(t, 1000.0, cfg.Run.Dt)
	assert.Equal(t, 8000.0, cfg.Run.TotalTime, "total time is the sum of phase durations")
	assert.Equal(t, 0.001, cfg.Process.UpliftRate, "process section seeds from the first phase")
	require.NoError(t, cfg.Validate())
}

func TestRunPhases_AdvancesThroughAllPhases(t *testing.T) {
	spec, err := LoadScenarioSpec(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	cfg := sim.DefaultConfig()
	spec.ApplyTo(&cfg)
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	s.LogEvery = 0

	require.NoError(t, runPhases(s, spec))

	// 5 steps for the first phase, 3 for the second, one continuous clock.
	assert.Equal(t, int64(8), s.StepCount())
	assert.Equal(t, 8000.0, s.Now())
	assert.Equal(t, 0.0, s.Config().Process.UpliftRate, "last phase's parameters remain active")
}
