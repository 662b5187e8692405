// Package sim generates cover trajectories by repeated application of the
// step rule.
//
// A [Simulator] is bound to one aridity and one set of rates. [KSteps] is the
// one-shot form used by sweeps; [Simulator.Iterate] exposes the step loop to
// analyses that need to stop early.
package sim
