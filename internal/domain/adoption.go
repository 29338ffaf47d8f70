package domain

import (
	"fmt"

	"github.com/climpact/climpact/pkg/timeseries"
	"github.com/shopspring/decimal"
)

// AdoptionRole distinguishes the two flavors of adoption trajectory: the
// scenario-specific projection and the shared "no new action" reference.
type AdoptionRole string

const (
	RoleProjected AdoptionRole = "PROJECTED"
	RoleReference AdoptionRole = "REFERENCE"
)

// AdoptionTrajectory is the quantity of the market served by the solution
// over time. Structurally identical for projected and reference adoption;
// only the role tag differs.
type AdoptionTrajectory struct {
	role   AdoptionRole
	series *timeseries.Series
}

// NewAdoptionTrajectory wraps an adoption series with its role.
func NewAdoptionTrajectory(role AdoptionRole, series *timeseries.Series) (*AdoptionTrajectory, error) {
	if role != RoleProjected && role != RoleReference {
		return nil, fmt.Errorf("unknown adoption role %q", role)
	}
	if series == nil {
		return nil, fmt.Errorf("adoption trajectory requires a series")
	}
	return &AdoptionTrajectory{role: role, series: series}, nil
}

// Role returns whether this trajectory is the projection or the reference.
func (a *AdoptionTrajectory) Role() AdoptionRole { return a.role }

// Series returns the underlying adoption series.
func (a *AdoptionTrajectory) Series() *timeseries.Series { return a.series }

// ValueAt returns adoption for year, with series lookup failure semantics.
func (a *AdoptionTrajectory) ValueAt(year int) (decimal.Decimal, error) {
	return a.series.ValueAt(year)
}

// BoundViolation records a year where adoption fell outside the soft bound
// 0 <= adoption <= tam. Magnitude is how far outside: the overshoot above
// TAM, or the absolute value of a negative adoption.
type BoundViolation struct {
	Year      int             `json:"year"`
	Magnitude decimal.Decimal `json:"magnitude"`
}

// ValidateAgainst checks the soft bound 0 <= adoption(year) <= tam(year)
// and returns a (possibly empty) list of violations. Real input data can
// transiently violate the bound, so violations are warnings, not errors;
// the engine proceeds on the raw values and callers decide severity.
// It fails only when the trajectory and market cannot be compared at all
// (unit or year range mismatch).
func (a *AdoptionTrajectory) ValidateAgainst(market *Market) ([]BoundViolation, error) {
	if !a.series.Unit().Compatible(market.Unit()) {
		return nil, fmt.Errorf("%w: adoption %q is %q, market %q is %q",
			timeseries.ErrUnitMismatch, a.series.Name(), a.series.Unit(),
			market.Series().Name(), market.Unit())
	}

	var violations []BoundViolation
	for _, p := range a.series.Points() {
		tam, err := market.DemandAt(p.Year)
		if err != nil {
			return nil, fmt.Errorf("adoption %q: %w", a.series.Name(), err)
		}
		switch {
		case p.Value.IsNegative():
			violations = append(violations, BoundViolation{Year: p.Year, Magnitude: p.Value.Abs()})
		case p.Value.GreaterThan(tam):
			violations = append(violations, BoundViolation{Year: p.Year, Magnitude: p.Value.Sub(tam)})
		}
	}
	return violations, nil
}

// ReferenceScenario is the "no new deliberate action" baseline for a
// solution: exactly one REFERENCE adoption trajectory plus the market it is
// measured against. Owned by the solution definition and referenced, not
// copied, by every scenario of that solution.
type ReferenceScenario struct {
	market   *Market
	adoption *AdoptionTrajectory
}

// NewReferenceScenario pairs a reference adoption trajectory with its
// market. The trajectory must carry the REFERENCE role and the market's
// unit; horizon consistency is enforced later by the engine, since inputs
// may legitimately be assembled before all series are trimmed.
func NewReferenceScenario(market *Market, adoption *AdoptionTrajectory) (*ReferenceScenario, error) {
	if market == nil {
		return nil, fmt.Errorf("reference scenario requires a market")
	}
	if adoption == nil {
		return nil, fmt.Errorf("reference scenario requires an adoption trajectory")
	}
	if adoption.Role() != RoleReference {
		return nil, fmt.Errorf("reference scenario requires a %s trajectory, got %s",
			RoleReference, adoption.Role())
	}
	if !adoption.Series().Unit().Compatible(market.Unit()) {
		return nil, fmt.Errorf("%w: reference adoption is %q, market is %q",
			timeseries.ErrUnitMismatch, adoption.Series().Unit(), market.Unit())
	}
	return &ReferenceScenario{market: market, adoption: adoption}, nil
}

// Market returns the market the reference adoption is measured against.
func (r *ReferenceScenario) Market() *Market { return r.market }

// Adoption returns the reference adoption trajectory.
func (r *ReferenceScenario) Adoption() *AdoptionTrajectory { return r.adoption }
