package sim

// StepOperator is a physical process integrated over one time step. It
// reads and mutates grid fields in place; dt is the step size in years.
type StepOperator interface {
	Name() string
	RunOneStep(g *RasterGrid, dt float64) error
}

// InstantOperator is an instantaneous geometric or topological computation
// on the current surface. It takes no time argument: its outputs describe
// the surface as it stands and go stale as soon as elevation changes.
type InstantOperator interface {
	Name() string
	Run(g *RasterGrid) error
}
