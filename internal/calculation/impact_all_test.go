package calculation

import (
	"testing"

	"github.com/climpact/climpact/internal/domain"
	"github.com/climpact/climpact/pkg/timeseries"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeImpactAllPartialFailure(t *testing.T) {
	projected := mustAdoption(t, domain.RoleProjected, 2020, 20, 30)

	// "emissions" is well configured; "cost" has a coefficient gap at 2021.
	partial, err := timeseries.FromFloats("cost coeff", "USD/TWh", 2020, 3)
	require.NoError(t, err)
	coeffs := map[string]domain.MetricCoefficients{
		"emissions": {
			Solution:     domain.ScalarCoefficient(decimal.NewFromInt(1), emitPerF),
			Conventional: domain.ScalarCoefficient(decimal.NewFromInt(5), emitPerF),
		},
		"cost": {
			Solution:     domain.SeriesCoefficient(partial),
			Conventional: domain.ScalarCoefficient(decimal.NewFromInt(2), "USD/TWh"),
		},
	}
	scenario := buildScenario(t, projected, coeffs)

	engine := NewImpactEngineWithLogger(NopLogger{})
	set := engine.ComputeImpactAll(scenario)

	assert.Equal(t, "pds1", set.ScenarioName)
	require.Len(t, set.Impacts, 1, "the valid metric must still compute")
	require.Len(t, set.Errors, 1, "the failed metric must be recorded, not aborted")

	assertValues(t, set.Impacts["emissions"].Series, map[int]int64{2020: 0, 2021: -40})
	assert.ErrorIs(t, set.Errors["cost"], ErrMissingCoefficientYear)
	assert.Equal(t, []string{"cost", "emissions"}, set.Metrics())
}

func TestComputeImpactAllIncludesSolutionDefaults(t *testing.T) {
	market := mustMarket(t, 2020, 100, 110)
	reference := mustAdoption(t, domain.RoleReference, 2020, 20, 20)
	rs, err := domain.NewReferenceScenario(market, reference)
	require.NoError(t, err)

	// "emissions" declared on the solution, "cost" on the scenario.
	refCoeffs := map[string]domain.MetricCoefficients{
		"emissions": {
			Solution:     domain.ScalarCoefficient(decimal.NewFromInt(1), emitPerF),
			Conventional: domain.ScalarCoefficient(decimal.NewFromInt(5), emitPerF),
		},
	}
	solution, err := domain.NewSolution("biogas", "Large Biodigesters", market, rs, refCoeffs)
	require.NoError(t, err)

	projected := mustAdoption(t, domain.RoleProjected, 2020, 20, 30)
	scenario, err := domain.NewScenario("pds1", solution, projected, map[string]domain.MetricCoefficients{
		"cost": {
			Solution:     domain.ScalarCoefficient(decimal.NewFromInt(3), "USD/TWh"),
			Conventional: domain.ScalarCoefficient(decimal.NewFromInt(2), "USD/TWh"),
		},
	})
	require.NoError(t, err)

	engine := NewImpactEngineWithLogger(NopLogger{})
	set := engine.ComputeImpactAll(scenario)

	assert.Empty(t, set.Errors)
	require.Len(t, set.Impacts, 2, "metrics from both layers must compute")
	assertValues(t, set.Impacts["emissions"].Series, map[int]int64{2020: 0, 2021: -40})
	// cost projected: 20*3+80*2=220, 30*3+80*2=250; reference: 220, 20*3+90*2=240
	assertValues(t, set.Impacts["cost"].Series, map[int]int64{2020: 0, 2021: 10})
}
