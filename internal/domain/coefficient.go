package domain

import (
	"fmt"

	"github.com/climpact/climpact/internal/pma"
	"github.com/climpact/climpact/pkg/timeseries"
	"github.com/shopspring/decimal"
)

// Coefficient is a per-unit factor applied to an adoption or conventional
// quantity: either a constant, or a series for coefficients that themselves
// change over time (e.g. grid emissions intensity declining as it
// decarbonizes).
type Coefficient struct {
	scalar *decimal.Decimal
	series *timeseries.Series
	unit   timeseries.Unit
}

// ScalarCoefficient builds a constant coefficient with the given unit.
func ScalarCoefficient(value decimal.Decimal, unit timeseries.Unit) Coefficient {
	return Coefficient{scalar: &value, unit: unit}
}

// SeriesCoefficient builds a time-varying coefficient from a series. The
// series must cover every adoption year the engine will request; gaps fail
// the computation rather than being interpolated here (any interpolation
// belongs upstream in curve preparation).
func SeriesCoefficient(series *timeseries.Series) Coefficient {
	return Coefficient{series: series, unit: series.Unit()}
}

// CoefficientFromEstimates builds a scalar coefficient by statistically
// aggregating a parameter meta-analysis, e.g. the median of published
// estimates for conventional emissions per functional unit.
func CoefficientFromEstimates(ma *pma.MetaAnalysis, stat pma.Statistic, unit timeseries.Unit) (Coefficient, error) {
	value, ok := ma.Select(stat)
	if !ok {
		return Coefficient{}, fmt.Errorf("meta-analysis %q has no usable estimates", ma.DisplayName())
	}
	return ScalarCoefficient(value, unit), nil
}

// IsZero reports whether the coefficient was left unset.
func (c Coefficient) IsZero() bool { return c.scalar == nil && c.series == nil }

// Unit returns the coefficient's unit tag.
func (c Coefficient) Unit() timeseries.Unit { return c.unit }

// ValueAt returns the coefficient value for year. A constant returns the
// same value for every year; a series coefficient fails with
// timeseries.ErrMissingYear for years it does not cover.
func (c Coefficient) ValueAt(year int) (decimal.Decimal, error) {
	if c.scalar != nil {
		return *c.scalar, nil
	}
	if c.series != nil {
		return c.series.ValueAt(year)
	}
	return decimal.Zero, fmt.Errorf("coefficient is unset")
}

// MetricCoefficients pairs the per-unit coefficients for one impact metric:
// one applied to the solution-served share, one to the conventional share.
type MetricCoefficients struct {
	Solution     Coefficient
	Conventional Coefficient
}

// Unit returns the declared unit of the metric this pair produces, taken
// from the solution coefficient. Result units are documented per metric,
// not derived dimensionally.
func (mc MetricCoefficients) Unit() timeseries.Unit { return mc.Solution.Unit() }
