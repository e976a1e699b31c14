// Package sim provides the core landscape evolution simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - grid.go: the raster grid, node status (core vs boundary), and named per-node fields
//   - operator.go: the two operator interfaces every physical process implements
//   - simulator.go: the stepping loop that composes uplift, diffusion, routing, and erosion
//
// # Architecture
//
// A Simulator owns one RasterGrid and four operators. Each step applies, in
// strict order: uplift, hillslope diffusion, flow routing (optionally
// preceded by depression filling), and stream-power erosion, then advances
// the clock. All state lives in named grid fields; the elevation field is
// the only state carried across steps, while drainage area, steepest slope,
// and receivers are recomputed from scratch by the router every step.
//
// # Key Interfaces
//
// The extension points are single-method interfaces:
//   - StepOperator: a process integrated over a time step (uplift, diffusion, erosion)
//   - InstantOperator: an instantaneous recomputation on the current surface (flow routing, depression filling)
//
// Alternative process formulations can be substituted without touching the
// stepping loop.
package sim
