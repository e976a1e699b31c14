package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamPowerEroder_Validation(t *testing.T) {
	tests := []struct {
		name       string
		k, m, n    float64
		threshold  float64
		expectFail bool
	}{
		{"valid", 1e-5, 0.5, 1.0, 0, false},
		{"zero erodibility allowed", 0, 0.5, 1.0, 0, false},
		{"negative erodibility", -1e-5, 0.5, 1.0, 0, true},
		{"zero area exponent", 1e-5, 0, 1.0, 0, true},
		{"zero slope exponent", 1e-5, 0.5, 0, 0, true},
		{"negative threshold", 1e-5, 0.5, 1.0, -0.01, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStreamPowerEroder(tt.k, tt.m, tt.n, tt.threshold)
			if tt.expectFail {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// routedGrid builds a 3x3 grid whose single core node carries hand-set
// drainage fields, bypassing the router.
func routedGrid(t *testing.T, z0, area, slope float64) (*RasterGrid, int) {
	t.Helper()
	g, err := NewRasterGrid(3, 3, 10)
	require.NoError(t, err)
	core := 4

	zf := g.AddField(FieldElevation)
	zf[core] = z0
	af := g.AddField(FieldDrainageArea)
	af[core] = area
	sf := g.AddField(FieldSteepestSlope)
	sf[core] = slope
	g.AddField(FieldFlowReceiver)
	return g, core
}

func TestStreamPowerEroder_AppliesStreamPowerLaw(t *testing.T) {
	g, core := routedGrid(t, 5.0, 200.0, 0.02)
	e, err := NewStreamPowerEroder(1e-4, 0.5, 1.0, 0)
	require.NoError(t, err)

	dt := 100.0
	require.NoError(t, e.RunOneStep(g, dt))

	z, err := g.Field(FieldElevation)
	require.NoError(t, err)
	want := 5.0 - 1e-4*math.Sqrt(200.0)*0.02*dt
	assert.InDelta(t, want, z[core], 1e-12)
	assert.InDelta(t, (5.0-want)*g.CellArea(), e.ErodedVolume(), 1e-12)
}

func TestStreamPowerEroder_NoIncisionOnFlatOrAdverseSlope(t *testing.T) {
	for _, slope := range []float64{0, -0.05} {
		g, core := routedGrid(t, 5.0, 1e6, slope)
		e, err := NewStreamPowerEroder(1e-2, 0.5, 1.0, 0)
		require.NoError(t, err)
		require.NoError(t, e.RunOneStep(g, 1000))

		z, err := g.Field(FieldElevation)
		require.NoError(t, err)
		assert.Equal(t, 5.0, z[core], "slope %g must not incise", slope)
		assert.Equal(t, 0.0, e.ErodedVolume())
	}
}

func TestStreamPowerEroder_ThresholdFloorsIncision(t *testing.T) {
	g, core := routedGrid(t, 5.0, 1e6, 0.01)
	e, err := NewStreamPowerEroder(1e-2, 0.5, 1.0, 0.02)
	require.NoError(t, err)
	require.NoError(t, e.RunOneStep(g, 1000))

	z, err := g.Field(FieldElevation)
	require.NoError(t, err)
	assert.Equal(t, 5.0, z[core], "slope below threshold must not incise")
}

func TestStreamPowerEroder_FailsFastWithoutRouting(t *testing.T) {
	g, err := NewRasterGrid(3, 3, 10)
	require.NoError(t, err)
	g.AddField(FieldElevation)

	e, err := NewStreamPowerEroder(1e-5, 0.5, 1.0, 0)
	require.NoError(t, err)

	err = e.RunOneStep(g, 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FieldDrainageArea)
}
