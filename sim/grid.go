package sim

import (
	"fmt"
	"math"
)

// NodeStatus classifies a grid node for boundary handling.
type NodeStatus uint8

const (
	// CoreNode is an interior node whose elevation evolves.
	CoreNode NodeStatus = iota
	// FixedValueBoundary is a perimeter node that holds its elevation and
	// acts as an open outlet for flow routing.
	FixedValueBoundary
	// ClosedBoundary is a perimeter node that neither evolves nor exchanges
	// flux with its neighbors.
	ClosedBoundary
)

// Names of the per-node fields the operators read and write.
const (
	FieldElevation     = "topographic_elevation"
	FieldDrainageArea  = "drainage_area"
	FieldSteepestSlope = "steepest_slope"
	FieldFlowReceiver  = "flow_receiver"
)

// BoundaryConfig selects the status of each perimeter edge. Corner nodes
// take the status of whichever adjacent edge is closed, so a single closed
// edge seals its full extent.
type BoundaryConfig struct {
	Top    NodeStatus
	Bottom NodeStatus
	Left   NodeStatus
	Right  NodeStatus
}

// OpenBoundaries returns the default configuration: all four edges are
// fixed-value outlets.
func OpenBoundaries() BoundaryConfig {
	return BoundaryConfig{
		Top:    FixedValueBoundary,
		Bottom: FixedValueBoundary,
		Left:   FixedValueBoundary,
		Right:  FixedValueBoundary,
	}
}

// link is one D8 adjacency entry: the neighbor's node id and the
// center-to-center distance.
type link struct {
	node int
	dist float64
}

// RasterGrid is a uniform rectangular mesh of rows x cols nodes with fixed
// spacing. Topology and node status are immutable after construction; state
// lives in named per-node float64 fields.
type RasterGrid struct {
	rows    int
	cols    int
	spacing float64

	status    []NodeStatus
	coreNodes []int

	// D8 adjacency, precomputed. ortho holds the 4-neighborhood used by
	// diffusion; all8 holds the full 8-neighborhood used by flow routing.
	ortho [][]link
	all8  [][]link

	fields map[string][]float64
}

// NewRasterGrid constructs a rows x cols grid with the given node spacing
// and open (fixed-value) boundaries on all edges.
func NewRasterGrid(rows, cols int, spacing float64) (*RasterGrid, error) {
	return NewRasterGridWithBoundaries(rows, cols, spacing, OpenBoundaries())
}

// NewRasterGridWithBoundaries constructs a grid with explicit edge statuses.
func NewRasterGridWithBoundaries(rows, cols int, spacing float64, bc BoundaryConfig) (*RasterGrid, error) {
	if rows < 3 || cols < 3 {
		return nil, fmt.Errorf("grid must be at least 3x3 to have core nodes, got %dx%d", rows, cols)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("node spacing must be > 0, got %g", spacing)
	}
	if bc.Top == CoreNode || bc.Bottom == CoreNode || bc.Left == CoreNode || bc.Right == CoreNode {
		return nil, fmt.Errorf("perimeter edges must be boundary nodes, not core")
	}

	g := &RasterGrid{
		rows:    rows,
		cols:    cols,
		spacing: spacing,
		status:  make([]NodeStatus, rows*cols),
		fields:  make(map[string][]float64),
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			switch {
			case r == 0:
				g.status[i] = bc.Bottom
			case r == rows-1:
				g.status[i] = bc.Top
			case c == 0:
				g.status[i] = bc.Left
			case c == cols-1:
				g.status[i] = bc.Right
			default:
				g.status[i] = CoreNode
				g.coreNodes = append(g.coreNodes, i)
			}
			// A corner adjacent to any closed edge is closed.
			if r == 0 && bc.Bottom == ClosedBoundary ||
				r == rows-1 && bc.Top == ClosedBoundary ||
				c == 0 && bc.Left == ClosedBoundary ||
				c == cols-1 && bc.Right == ClosedBoundary {
				g.status[i] = ClosedBoundary
			}
		}
	}

	g.buildAdjacency()
	return g, nil
}

func (g *RasterGrid) buildAdjacency() {
	n := g.rows * g.cols
	g.ortho = make([][]link, n)
	g.all8 = make([][]link, n)
	diag := g.spacing * math.Sqrt2

	type offset struct {
		dr, dc int
		dist   float64
	}
	offsets := []offset{
		{-1, 0, g.spacing}, {1, 0, g.spacing}, {0, -1, g.spacing}, {0, 1, g.spacing},
		{-1, -1, diag}, {-1, 1, diag}, {1, -1, diag}, {1, 1, diag},
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			i := r*g.cols + c
			for k, o := range offsets {
				nr, nc := r+o.dr, c+o.dc
				if nr < 0 || nr >= g.rows || nc < 0 || nc >= g.cols {
					continue
				}
				l := link{node: nr*g.cols + nc, dist: o.dist}
				g.all8[i] = append(g.all8[i], l)
				if k < 4 {
					g.ortho[i] = append(g.ortho[i], l)
				}
			}
		}
	}
}

// NumNodes returns the total node count, boundaries included.
func (g *RasterGrid) NumNodes() int { return g.rows * g.cols }

// Rows returns the number of node rows.
func (g *RasterGrid) Rows() int { return g.rows }

// Cols returns the number of node columns.
func (g *RasterGrid) Cols() int { return g.cols }

// Spacing returns the center-to-center node spacing.
func (g *RasterGrid) Spacing() float64 { return g.spacing }

// CellArea returns the area associated with one core node.
func (g *RasterGrid) CellArea() float64 { return g.spacing * g.spacing }

// Status returns the boundary classification of node i.
func (g *RasterGrid) Status(i int) NodeStatus { return g.status[i] }

// IsCore reports whether node i is an interior, evolving node.
func (g *RasterGrid) IsCore(i int) bool { return g.status[i] == CoreNode }

// CoreNodes returns the ids of all interior nodes, in row-major order.
// Callers must not mutate the returned slice.
func (g *RasterGrid) CoreNodes() []int { return g.coreNodes }

// NodeXY returns the planform coordinates of node i.
func (g *RasterGrid) NodeXY(i int) (x, y float64) {
	return float64(i%g.cols) * g.spacing, float64(i/g.cols) * g.spacing
}

// AddField creates a zeroed per-node field and returns its storage. Adding
// a field that already exists returns the existing storage unchanged, so
// operators can ensure their outputs exist without clobbering state.
func (g *RasterGrid) AddField(name string) []float64 {
	if f, ok := g.fields[name]; ok {
		return f
	}
	f := make([]float64, g.NumNodes())
	g.fields[name] = f
	return f
}

// Field returns the named per-node field, or an error naming the missing
// prerequisite. Operators rely on this to fail fast when invoked out of
// order (e.g. erosion before flow routing has run).
func (g *RasterGrid) Field(name string) ([]float64, error) {
	f, ok := g.fields[name]
	if !ok {
		return nil, fmt.Errorf("grid has no field %q: the operator that produces it has not run", name)
	}
	return f, nil
}

// HasField reports whether the named field exists.
func (g *RasterGrid) HasField(name string) bool {
	_, ok := g.fields[name]
	return ok
}

// orthoNeighbors returns the 4-neighborhood links of node i.
func (g *RasterGrid) orthoNeighbors(i int) []link { return g.ortho[i] }

// d8Neighbors returns the 8-neighborhood links of node i.
func (g *RasterGrid) d8Neighbors(i int) []link { return g.all8[i] }
