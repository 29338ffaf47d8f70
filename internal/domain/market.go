// Package domain defines the value types an impact analysis is built from:
// the total addressable market, adoption trajectories, reference scenarios,
// solutions and scenarios. All of them are read-only after construction;
// derived trajectories are recomputed by the calculation engine, never
// cached here.
package domain

import (
	"fmt"

	"github.com/climpact/climpact/pkg/timeseries"
	"github.com/shopspring/decimal"
)

// Market is the total addressable market (TAM): total demand for the good
// or service over the horizon, independent of any solution. Immutable after
// creation and shared read-only by every scenario of a solution.
type Market struct {
	series *timeseries.Series
}

// NewMarket wraps a demand series as a market.
func NewMarket(series *timeseries.Series) (*Market, error) {
	if series == nil {
		return nil, fmt.Errorf("market requires a demand series")
	}
	return &Market{series: series}, nil
}

// DemandAt returns total demand for year, with series lookup failure
// semantics (timeseries.ErrMissingYear when absent).
func (m *Market) DemandAt(year int) (decimal.Decimal, error) {
	return m.series.ValueAt(year)
}

// Series returns the underlying demand series.
func (m *Market) Series() *timeseries.Series { return m.series }

// Years returns the market horizon.
func (m *Market) Years() []int { return m.series.Years() }

// Unit returns the demand unit, e.g. "TWh/year".
func (m *Market) Unit() timeseries.Unit { return m.series.Unit() }

// GrowthViolation flags a year whose demand moved more sharply than a
// caller-supplied tolerance allows, usually a sign of a data preparation
// defect in the TAM inputs.
type GrowthViolation struct {
	Year int             `json:"year"`
	Rate decimal.Decimal `json:"rate"`
}

// CheckGrowthConsistency returns the years whose absolute year-over-year
// demand change exceeds tolerance (a fraction, e.g. 0.5 for 50%). Like
// adoption bound checks, violations are warnings for the caller to judge,
// not errors.
func (m *Market) CheckGrowthConsistency(tolerance decimal.Decimal) []GrowthViolation {
	var violations []GrowthViolation
	for _, p := range m.series.GrowthRates().Points() {
		if p.Value.Abs().GreaterThan(tolerance) {
			violations = append(violations, GrowthViolation{Year: p.Year, Rate: p.Value})
		}
	}
	return violations
}
