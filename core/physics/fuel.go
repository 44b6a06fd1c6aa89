package physics

// FuelDensity is the density of gasoline in kg/L.
const FuelDensity = 0.75

// FuelRate returns the fuel mass flow in kg/h for a mechanical power in W
// and a brake-specific fuel consumption in kg/kWh.
func FuelRate(power, bsfc float64) float64 {
	return power / 1000 * bsfc
}

// FuelMass returns the fuel burnt in kg at rate kg/h during dt seconds.
func FuelMass(rate, dt float64) float64 {
	return rate * dt / 3600
}
