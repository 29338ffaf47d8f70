package domain

import "fmt"

// Solution is the definition of one climate technology or practice: its
// identity, the market it addresses, and the reference scenario that every
// scenario of this solution is compared against. The solution owns the
// market and the reference scenario; scenarios share them read-only.
type Solution struct {
	// Identifier is the short machine name, e.g. "biogas".
	Identifier string `json:"identifier"`
	// Title is the English-language name, e.g. "Large Biodigesters".
	Title string `json:"title"`
	// ImplementationUnits name what is built or deployed, e.g. "MW".
	ImplementationUnits string `json:"implementationUnits"`
	// FunctionalUnits name the value provided, e.g. "TWh".
	FunctionalUnits string `json:"functionalUnits"`

	market    *Market
	reference *ReferenceScenario

	// referenceCoefficients are the default per-metric coefficients for
	// this solution. Scenarios override per metric and only need to carry
	// values that differ from these.
	referenceCoefficients map[string]MetricCoefficients
}

// NewSolution builds a solution definition. The reference scenario must be
// measured against the same market instance the solution owns.
func NewSolution(identifier, title string, market *Market, reference *ReferenceScenario,
	referenceCoefficients map[string]MetricCoefficients) (*Solution, error) {
	if identifier == "" {
		return nil, fmt.Errorf("solution requires an identifier")
	}
	if market == nil {
		return nil, fmt.Errorf("solution %q requires a market", identifier)
	}
	if reference == nil {
		return nil, fmt.Errorf("solution %q requires a reference scenario", identifier)
	}
	if reference.Market() != market {
		return nil, fmt.Errorf("solution %q: reference scenario is measured against a different market", identifier)
	}
	coeffs := make(map[string]MetricCoefficients, len(referenceCoefficients))
	for name, mc := range referenceCoefficients {
		coeffs[name] = mc
	}
	return &Solution{
		Identifier:            identifier,
		Title:                 title,
		market:                market,
		reference:             reference,
		referenceCoefficients: coeffs,
	}, nil
}

// Market returns the total addressable market for this solution.
func (s *Solution) Market() *Market { return s.market }

// Reference returns the solution's reference scenario.
func (s *Solution) Reference() *ReferenceScenario { return s.reference }

// ReferenceCoefficients returns the default coefficients for metric, if
// declared.
func (s *Solution) ReferenceCoefficients(metric string) (MetricCoefficients, bool) {
	mc, ok := s.referenceCoefficients[metric]
	return mc, ok
}
