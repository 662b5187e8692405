// Package sweep evaluates the cover model over Cartesian parameter grids.
//
// Every cell of a [Surface] is independent, so an [Engine] spreads rows over
// a bounded worker pool and writes each result straight into its slot. Three
// surface shapes are built:
//
//   - cover over (aridity, time) for a fixed initial cover
//   - return-time step count over (aridity, initial cover)
//   - characteristic return time over (die rate, saturation rate)
//
// A [Registry] maps kind names to builders so callers can ask for a surface
// with a single [Request] value.
package sweep
