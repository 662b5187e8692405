package model

// CCrit returns the cover level at or below which decline is forced.
func CCrit(aridity float64) float64 {
	return 0.7*aridity - 0.1
}

// NextStep advances cover by one unit step of the switching rule.
func NextStep(cover, aridity float64, rates RateParameters) float64 {
	var dcdt float64
	if cover <= CCrit(aridity) {
		dcdt = -rates.DieRate * cover
	} else {
		dcdt = rates.SaturationRate*(1-cover)*cover - rates.DieRate*cover
	}
	return cover + dcdt
}

// ForestState is the nonzero fixed point of the logistic branch.
func ForestState(rates RateParameters) float64 {
	return 1 - rates.DieRate/rates.SaturationRate
}

// TippingAridity is the aridity above which the forest state falls inside
// the forced-decline region and can no longer be sustained.
func TippingAridity(rates RateParameters) float64 {
	return (ForestState(rates) + 0.1) / 0.7
}

// InForcedDecline reports whether cover sits in the collapse basin.
func InForcedDecline(cover, aridity float64) bool {
	return cover <= CCrit(aridity)
}
