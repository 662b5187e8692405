// Package analysis characterises equilibria and return times of the cover map.
//
// Closed-form results:
//
//   - [CharReturnTime]: linearised return time near the forest or savanna state
//
// Simulation-based results:
//
//   - [ReturnTime]: steps needed to reach the forest state, as an [Outcome]
//   - [BifurcationDiagram]: long-run covers across an aridity sweep
//   - [LyapunovExponent]: separation rate of nearby trajectories
//
// # Return-time outcomes
//
// ReturnTime never fails. It reports one of three terminal outcomes:
//
//	switch o := analysis.ReturnTime(c0, a, rates, opts).(type) {
//	case analysis.Converged:
//	    // o.Steps steps to the forest state
//	case analysis.Collapsed:
//	    // crossed into forced decline first
//	case analysis.Exhausted:
//	    // step budget spent
//	}
package analysis
