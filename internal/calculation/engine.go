// Package calculation is the computation core: it derives conventional
// (non-solution) trajectories, computes per-metric trajectories for a
// scenario and its reference, and differences them into impact. Everything
// here is a pure computation over immutable inputs; every derived value is
// a fresh allocation owned by the caller.
package calculation

import (
	"errors"
	"fmt"

	"github.com/climpact/climpact/internal/domain"
	"github.com/climpact/climpact/pkg/timeseries"
	"github.com/shopspring/decimal"
)

// Engine-level error kinds. Series-level kinds (unit and year range
// mismatches, missing years) live in pkg/timeseries.
var (
	// ErrInconsistentHorizon is returned when the market, projected and
	// reference adoption trajectories do not cover the same years. Horizon
	// mismatches are upstream data-preparation defects; the engine never
	// silently truncates.
	ErrInconsistentHorizon = errors.New("inconsistent horizon")

	// ErrMissingCoefficientYear is returned when a time-varying coefficient
	// has gaps relative to the adoption years. The engine never interpolates
	// coefficient data; interpolation belongs upstream in curve preparation.
	ErrMissingCoefficientYear = errors.New("missing coefficient year")

	// ErrUnknownMetric is returned when a metric is declared neither on the
	// scenario nor on its solution.
	ErrUnknownMetric = errors.New("unknown metric")
)

// FloorEpsilon is the tolerance for the TAM-minus-adoption floor: a
// conventional share within this distance of zero is treated as exactly
// zero, so floating-point noise in prepared inputs cannot leave residual
// near-zero conventional demand.
var FloorEpsilon = decimal.New(1, -9) // 1e-9

// ImpactEngine computes scenario impact: the difference between a
// scenario's projected metric trajectory and its reference trajectory, per
// metric. The engine holds no state beyond its logger and is safe for
// concurrent use across scenarios and metrics.
type ImpactEngine struct {
	Logger Logger
}

// NewImpactEngine creates an engine with the default logger.
func NewImpactEngine() *ImpactEngine {
	return &ImpactEngine{Logger: defaultLogger()}
}

// NewImpactEngineWithLogger creates an engine with a custom logger.
func NewImpactEngineWithLogger(logger Logger) *ImpactEngine {
	return &ImpactEngine{Logger: logger}
}

// Impact is the result of comparing one scenario against its reference for
// one metric: impact(year) = metric_scenario(year) - metric_reference(year).
type Impact struct {
	ScenarioName string `json:"scenarioName"`
	MetricName   string `json:"metricName"`

	// Projected and Reference are the metric trajectories the impact was
	// differenced from, kept for rendering by reporting collaborators.
	Projected *timeseries.Series `json:"projected"`
	Reference *timeseries.Series `json:"reference"`

	// Series is the impact trajectory, in the metric's unit.
	Series *timeseries.Series `json:"series"`
}

// DeriveConventional computes the conventional (non-solution) trajectory:
// conventional(year) = tam(year) - adoption(year), floored at zero with
// FloorEpsilon tolerance. Pure and always recomputed from its inputs, so it
// can never drift out of sync with them. Requires the market and adoption
// to be aligned; propagates the underlying subtraction's unit and year
// range errors.
func DeriveConventional(market *domain.Market, adoption *domain.AdoptionTrajectory) (*timeseries.Series, error) {
	diff, err := market.Series().Subtract(adoption.Series())
	if err != nil {
		return nil, fmt.Errorf("deriving conventional share for %q: %w", adoption.Series().Name(), err)
	}

	points := diff.Points()
	for i, p := range points {
		if p.Value.LessThanOrEqual(FloorEpsilon) {
			points[i].Value = decimal.Zero
		}
	}
	name := adoption.Series().Name() + " conventional"
	return timeseries.New(name, market.Unit(), points)
}

// ComputeMetric combines solution and conventional shares with their
// per-unit coefficients:
//
//	metric(year) = soln_coeff(year)*adoption(year) + conv_coeff(year)*conventional(year)
//
// The result unit is the declared coefficient unit times the adoption unit;
// the engine trusts declared units rather than checking dimensions. Gaps in
// a time-varying coefficient fail with ErrMissingCoefficientYear.
func ComputeMetric(adoption, conventional *timeseries.Series, coeffs domain.MetricCoefficients) (*timeseries.Series, error) {
	if !adoption.AlignedWith(conventional) {
		return nil, fmt.Errorf("%w: adoption %q and conventional %q are not aligned",
			timeseries.ErrYearRangeMismatch, adoption.Name(), conventional.Name())
	}

	years := adoption.Years()
	points := make([]timeseries.Point, len(years))
	for i, year := range years {
		sc, err := coeffs.Solution.ValueAt(year)
		if err != nil {
			return nil, coefficientErr("solution", year, err)
		}
		cc, err := coeffs.Conventional.ValueAt(year)
		if err != nil {
			return nil, coefficientErr("conventional", year, err)
		}
		av, err := adoption.ValueAt(year)
		if err != nil {
			return nil, err
		}
		cv, err := conventional.ValueAt(year)
		if err != nil {
			return nil, err
		}
		points[i] = timeseries.Point{Year: year, Value: sc.Mul(av).Add(cc.Mul(cv))}
	}

	unit := coeffs.Unit().Times(adoption.Unit())
	return timeseries.New(adoption.Name()+" metric", unit, points)
}

func coefficientErr(side string, year int, err error) error {
	if errors.Is(err, timeseries.ErrMissingYear) {
		return fmt.Errorf("%w: %s coefficient has no year %d", ErrMissingCoefficientYear, side, year)
	}
	return fmt.Errorf("%s coefficient at year %d: %w", side, year, err)
}

// ComputeImpact computes the impact of scenario for one metric. The market,
// projected adoption and reference adoption must share the same horizon;
// anything else fails with ErrInconsistentHorizon.
func (e *ImpactEngine) ComputeImpact(scenario *domain.Scenario, metricName string) (*Impact, error) {
	coeffs, ok := scenario.CoefficientsFor(metricName)
	if !ok {
		return nil, fmt.Errorf("%w: metric %q is not declared for scenario %q",
			ErrUnknownMetric, metricName, scenario.Name)
	}

	market := scenario.Market()
	projected := scenario.Projected()
	reference := scenario.Reference().Adoption()

	if err := e.checkHorizon(scenario.Name, market, projected, reference); err != nil {
		return nil, err
	}
	e.reportBoundViolations(scenario.Name, market, projected, reference)

	// Scenario and reference are both measured against the same TAM; only
	// the adoption trajectory differs between the two legs.
	projMetric, err := e.metricLeg(market, projected, coeffs)
	if err != nil {
		return nil, fmt.Errorf("scenario %q metric %q: %w", scenario.Name, metricName, err)
	}
	refMetric, err := e.metricLeg(market, reference, coeffs)
	if err != nil {
		return nil, fmt.Errorf("scenario %q metric %q reference: %w", scenario.Name, metricName, err)
	}

	if !projMetric.AlignedWith(refMetric) {
		// Both legs derive from the same market horizon, so a mismatch here
		// signals a configuration defect, not a recoverable condition.
		return nil, fmt.Errorf("%w: scenario %q metric %q trajectories diverged",
			ErrInconsistentHorizon, scenario.Name, metricName)
	}

	impact, err := projMetric.Subtract(refMetric)
	if err != nil {
		return nil, fmt.Errorf("scenario %q metric %q: %w", scenario.Name, metricName, err)
	}

	return &Impact{
		ScenarioName: scenario.Name,
		MetricName:   metricName,
		Projected:    projMetric.Rename(fmt.Sprintf("%s %s", scenario.Name, metricName)),
		Reference:    refMetric.Rename(fmt.Sprintf("%s %s reference", scenario.Name, metricName)),
		Series:       impact.Rename(fmt.Sprintf("%s %s impact", scenario.Name, metricName)),
	}, nil
}

// metricLeg derives the conventional share for one adoption trajectory and
// computes its metric trajectory.
func (e *ImpactEngine) metricLeg(market *domain.Market, adoption *domain.AdoptionTrajectory, coeffs domain.MetricCoefficients) (*timeseries.Series, error) {
	conventional, err := DeriveConventional(market, adoption)
	if err != nil {
		return nil, err
	}
	return ComputeMetric(adoption.Series(), conventional, coeffs)
}

// checkHorizon requires the market, projection and reference to cover
// exactly the same years.
func (e *ImpactEngine) checkHorizon(scenarioName string, market *domain.Market, projected, reference *domain.AdoptionTrajectory) error {
	marketYears := market.Years()
	if !equalYears(marketYears, projected.Series().Years()) {
		return fmt.Errorf("%w: scenario %q projected adoption covers %d..%d but market covers %d..%d",
			ErrInconsistentHorizon, scenarioName,
			projected.Series().FirstYear(), projected.Series().LastYear(),
			market.Series().FirstYear(), market.Series().LastYear())
	}
	if !equalYears(marketYears, reference.Series().Years()) {
		return fmt.Errorf("%w: scenario %q reference adoption covers %d..%d but market covers %d..%d",
			ErrInconsistentHorizon, scenarioName,
			reference.Series().FirstYear(), reference.Series().LastYear(),
			market.Series().FirstYear(), market.Series().LastYear())
	}
	return nil
}

// reportBoundViolations logs soft-bound violations; they never block the
// computation.
func (e *ImpactEngine) reportBoundViolations(scenarioName string, market *domain.Market, trajectories ...*domain.AdoptionTrajectory) {
	for _, traj := range trajectories {
		violations, err := traj.ValidateAgainst(market)
		if err != nil {
			// checkHorizon already guarantees comparability; log and move on.
			e.Logger.Debugf("scenario %s: bound validation skipped: %v", scenarioName, err)
			continue
		}
		for _, v := range violations {
			e.Logger.Warnf("scenario %s: %s adoption outside [0, TAM] in %d by %s",
				scenarioName, traj.Role(), v.Year, v.Magnitude.String())
		}
	}
}

func equalYears(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
