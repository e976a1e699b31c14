package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRasterGrid_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		spacing float64
	}{
		{"too few rows", 2, 5, 10},
		{"too few cols", 5, 2, 10},
		{"zero spacing", 5, 5, 0},
		{"negative spacing", 5, 5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRasterGrid(tt.rows, tt.cols, tt.spacing)
			assert.Error(t, err)
		})
	}
}

func TestRasterGrid_CoreAndBoundaryClassification(t *testing.T) {
	g, err := NewRasterGrid(4, 6, 10)
	require.NoError(t, err)

	assert.Equal(t, 24, g.NumNodes())
	assert.Len(t, g.CoreNodes(), (4-2)*(6-2))

	for i := 0; i < g.NumNodes(); i++ {
		r, c := i/6, i%6
		onEdge := r == 0 || r == 3 || c == 0 || c == 5
		assert.Equal(t, !onEdge, g.IsCore(i), "node %d", i)
		if onEdge {
			assert.Equal(t, FixedValueBoundary, g.Status(i))
		}
	}
}

func TestRasterGrid_ClosedEdgeSealsCorners(t *testing.T) {
	bc := OpenBoundaries()
	bc.Left = ClosedBoundary
	g, err := NewRasterGridWithBoundaries(4, 4, 10, bc)
	require.NoError(t, err)

	for r := 0; r < 4; r++ {
		assert.Equal(t, ClosedBoundary, g.Status(r*4), "left edge row %d", r)
	}
	// non-corner top/bottom nodes stay open
	assert.Equal(t, FixedValueBoundary, g.Status(1))
	assert.Equal(t, FixedValueBoundary, g.Status(3*4+2))
}

func TestRasterGrid_FieldAccess(t *testing.T) {
	g, err := NewRasterGrid(3, 3, 1)
	require.NoError(t, err)

	_, err = g.Field(FieldDrainageArea)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FieldDrainageArea)

	f := g.AddField(FieldElevation)
	f[4] = 7
	again := g.AddField(FieldElevation)
	assert.Equal(t, 7.0, again[4], "AddField must not clobber an existing field")

	got, err := g.Field(FieldElevation)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got[4])
	assert.True(t, g.HasField(FieldElevation))
}

func TestRasterGrid_NeighborhoodsAndDistances(t *testing.T) {
	g, err := NewRasterGrid(5, 5, 10)
	require.NoError(t, err)

	center := 2*5 + 2
	assert.Len(t, g.d8Neighbors(center), 8)
	assert.Len(t, g.orthoNeighbors(center), 4)

	corner := 0
	assert.Len(t, g.d8Neighbors(corner), 3)

	edge := 2 // middle of bottom row
	assert.Len(t, g.d8Neighbors(edge), 5)

	for _, l := range g.d8Neighbors(center) {
		dr := l.node/5 - 2
		dc := l.node%5 - 2
		if dr != 0 && dc != 0 {
			assert.InDelta(t, 10*math.Sqrt2, l.dist, 1e-12)
		} else {
			assert.Equal(t, 10.0, l.dist)
		}
	}
}

func TestRasterGrid_NodeXYAndCellArea(t *testing.T) {
	g, err := NewRasterGrid(3, 4, 50)
	require.NoError(t, err)

	x, y := g.NodeXY(0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = g.NodeXY(1*4 + 3)
	assert.Equal(t, 150.0, x)
	assert.Equal(t, 50.0, y)

	assert.Equal(t, 2500.0, g.CellArea())
}
