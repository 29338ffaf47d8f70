package domain

import (
	"fmt"
	"sort"

	"github.com/climpact/climpact/pkg/timeseries"
)

// Scenario pairs a solution's market and reference scenario with one
// projected adoption trajectory and the per-metric coefficients to evaluate
// it with. Scenario coefficient entries overlay the solution's reference
// coefficients, so a scenario only carries values that differ from the
// solution defaults.
//
// A scenario is read-only for the lifetime of an analysis run and is never
// mutated by the engine.
type Scenario struct {
	Name string `json:"name"`
	// Description is freeform text about what this scenario assumes.
	Description string `json:"description,omitempty"`

	solution     *Solution
	projected    *AdoptionTrajectory
	coefficients map[string]MetricCoefficients
}

// NewScenario builds a scenario from already-validated inputs. The
// projected trajectory must carry the PROJECTED role and the market's unit.
// Horizon consistency between market, projection and reference is checked
// by the engine at computation time, not here.
func NewScenario(name string, solution *Solution, projected *AdoptionTrajectory,
	coefficients map[string]MetricCoefficients) (*Scenario, error) {
	if name == "" {
		return nil, fmt.Errorf("scenario requires a name")
	}
	if solution == nil {
		return nil, fmt.Errorf("scenario %q requires a solution", name)
	}
	if projected == nil {
		return nil, fmt.Errorf("scenario %q requires a projected adoption trajectory", name)
	}
	if projected.Role() != RoleProjected {
		return nil, fmt.Errorf("scenario %q requires a %s trajectory, got %s",
			name, RoleProjected, projected.Role())
	}
	if !projected.Series().Unit().Compatible(solution.Market().Unit()) {
		return nil, fmt.Errorf("%w: scenario %q adoption is %q, market is %q",
			timeseries.ErrUnitMismatch, name, projected.Series().Unit(), solution.Market().Unit())
	}
	coeffs := make(map[string]MetricCoefficients, len(coefficients))
	for metric, mc := range coefficients {
		coeffs[metric] = mc
	}
	return &Scenario{
		Name:         name,
		solution:     solution,
		projected:    projected,
		coefficients: coeffs,
	}, nil
}

// Solution returns the solution this scenario belongs to.
func (s *Scenario) Solution() *Solution { return s.solution }

// Market returns the solution's total addressable market. The TAM is a
// property of the solution, shared by the scenario and the reference.
func (s *Scenario) Market() *Market { return s.solution.Market() }

// Reference returns the solution's reference scenario.
func (s *Scenario) Reference() *ReferenceScenario { return s.solution.Reference() }

// Projected returns the scenario's projected adoption trajectory.
func (s *Scenario) Projected() *AdoptionTrajectory { return s.projected }

// CoefficientsFor returns the coefficients for metric: the scenario's own
// entry when present, otherwise the solution's reference entry.
func (s *Scenario) CoefficientsFor(metric string) (MetricCoefficients, bool) {
	if mc, ok := s.coefficients[metric]; ok {
		return mc, true
	}
	return s.solution.ReferenceCoefficients(metric)
}

// MetricNames returns the sorted names of every metric declared for this
// scenario, across both the scenario's own and the solution's reference
// coefficients.
func (s *Scenario) MetricNames() []string {
	seen := make(map[string]struct{}, len(s.coefficients))
	for metric := range s.coefficients {
		seen[metric] = struct{}{}
	}
	for metric := range s.solution.referenceCoefficients {
		seen[metric] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for metric := range seen {
		names = append(names, metric)
	}
	sort.Strings(names)
	return names
}
