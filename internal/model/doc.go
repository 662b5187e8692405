// Package model defines the vegetation cover map of a semi-arid ecosystem.
//
// The state is a single scalar, the fraction of tree cover. Each discrete step
// either forces decline (cover at or below the critical threshold for the
// current aridity) or applies logistic growth against a linear die-off:
//
//   - [CCrit]: critical cover threshold as a function of aridity
//   - [NextStep]: one explicit step of the switching rule
//   - [RateParameters]: growth and die-off rates, passed explicitly everywhere
//   - [ForestState]: the nonzero fixed point of the logistic branch
//
// # Example
//
//	rates := model.DefaultRates()
//	c := 0.81
//	for i := 0; i < 50; i++ {
//	    c = model.NextStep(c, 0.6, rates)
//	}
//
// Cover is never clamped to [0,1]; extreme rates can overshoot.
package model
