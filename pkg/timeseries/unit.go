package timeseries

// Unit tags a series with the physical quantity it measures, e.g.
// "TWh/year" or "t-CO2eq per TWh". Units are compared by exact tag;
// cross-unit arithmetic goes through an Aligner with a declared conversion.
type Unit string

// Dimensionless is the unit of pure ratios such as growth rates.
const Dimensionless Unit = ""

// Compatible reports whether two units may be combined without conversion.
func (u Unit) Compatible(other Unit) bool {
	return u == other
}

// Times returns the unit of a product of two quantities. The result is a
// documentation label, not a checked dimension (per-metric result units are
// declared by the coefficient metadata, not derived).
func (u Unit) Times(other Unit) Unit {
	if u == Dimensionless {
		return other
	}
	if other == Dimensionless {
		return u
	}
	return u + "*" + other
}
