package pma

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleAnalysis() *MetaAnalysis {
	return &MetaAnalysis{
		ParameterName: "conv_emissions_per_funit",
		Units:         "t-CO2eq/TWh",
		Estimates: []Estimate{
			{Index: 1, Value: dec("400"), Citation: "IEA 2023"},
			{Index: 2, Value: dec("600"), Citation: "IPCC AR6 WG3"},
			{Index: 3, Value: dec("500"), Citation: "Ember 2024"},
			{Index: 4, Value: nil, Citation: "retracted", Notes: "value withdrawn by authors"},
		},
	}
}

func TestQuantiles(t *testing.T) {
	q, ok := sampleAnalysis().Quantiles()
	require.True(t, ok)

	assert.True(t, q.Min.Equal(decimal.NewFromInt(400)))
	assert.True(t, q.P25.Equal(decimal.NewFromInt(450)), "got %s", q.P25)
	assert.True(t, q.Median.Equal(decimal.NewFromInt(500)))
	assert.True(t, q.P75.Equal(decimal.NewFromInt(550)), "got %s", q.P75)
	assert.True(t, q.Max.Equal(decimal.NewFromInt(600)))

	empty := &MetaAnalysis{Title: "nothing usable", Estimates: []Estimate{{Index: 1}}}
	_, ok = empty.Quantiles()
	assert.False(t, ok, "missing values alone cannot produce quantiles")
}

func TestLowMeanHigh(t *testing.T) {
	lmh, ok := sampleAnalysis().LowMeanHigh(false)
	require.True(t, ok)

	// mean 500, sample stdev 100
	assert.True(t, lmh.Mean.Equal(decimal.NewFromInt(500)), "got %s", lmh.Mean)
	assert.True(t, lmh.Low.Equal(decimal.NewFromInt(400)), "got %s", lmh.Low)
	assert.True(t, lmh.High.Equal(decimal.NewFromInt(600)), "got %s", lmh.High)

	// Wide spread pushes mean-stdev negative; physical parameters clamp.
	spread := &MetaAnalysis{
		Title: "wide",
		Estimates: []Estimate{
			{Index: 1, Value: dec("10")},
			{Index: 2, Value: dec("1000")},
		},
	}
	lmh, ok = spread.LowMeanHigh(true)
	require.True(t, ok)
	assert.True(t, lmh.Low.Equal(decimal.Zero), "floored low, got %s", lmh.Low)

	single := &MetaAnalysis{Estimates: []Estimate{{Index: 1, Value: dec("5")}}}
	_, ok = single.LowMeanHigh(false)
	assert.False(t, ok, "deviation is undefined for a single estimate")
}

func TestPercentileRank(t *testing.T) {
	ma := sampleAnalysis()

	rank, ok := ma.PercentileRank(decimal.NewFromInt(450))
	require.True(t, ok)
	assert.True(t, rank.Equal(decimal.NewFromFloat(0.25)), "got %s", rank)

	rank, _ = ma.PercentileRank(decimal.NewFromInt(400))
	assert.True(t, rank.Equal(decimal.Zero))

	rank, _ = ma.PercentileRank(decimal.NewFromInt(600))
	assert.True(t, rank.Equal(decimal.NewFromInt(1)))

	// Extended rank: values outside published experience extend linearly
	// beyond [0, 1].
	rank, _ = ma.PercentileRank(decimal.NewFromInt(700))
	assert.True(t, rank.Equal(decimal.NewFromFloat(1.5)), "got %s", rank)

	rank, _ = ma.PercentileRank(decimal.NewFromInt(300))
	assert.True(t, rank.Equal(decimal.NewFromFloat(-0.5)), "got %s", rank)

	_, ok = (&MetaAnalysis{}).PercentileRank(decimal.NewFromInt(1))
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	ma := sampleAnalysis()

	v, ok := ma.Select(StatMedian)
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(500)))

	v, ok = ma.Select(StatLow)
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(400)))

	v, ok = ma.Select(StatHigh)
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(600)))

	_, ok = ma.Select("p99")
	assert.False(t, ok, "unknown statistics are rejected")
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	doc := []byte(`parameter_name: conv_emissions_per_funit
units: t-CO2eq/TWh
notes: grid intensity of displaced generation
estimates:
  - index: 1
    value: "412.5"
    citation: IEA 2023
    link: https://example.org/iea-2023
  - index: 2
    value: "387"
    citation: Ember 2024
    raw_value: "0.387"
    raw_units: kt-CO2eq/GWh
  - index: 3
    citation: retracted
    notes: value withdrawn by authors
`)

	ma, err := Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, "conv_emissions_per_funit", ma.ParameterName)
	assert.Equal(t, "t-CO2eq/TWh", ma.Units)
	require.Len(t, ma.Estimates, 3)
	require.NotNil(t, ma.Estimates[0].Value)
	assert.True(t, ma.Estimates[0].Value.Equal(decimal.RequireFromString("412.5")))
	assert.Equal(t, "kt-CO2eq/GWh", ma.Estimates[1].RawUnits)
	assert.Nil(t, ma.Estimates[2].Value, "entries without a value stay usable as citations")

	encoded, err := ma.Encode()
	require.NoError(t, err)
	again, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, ma.ParameterName, again.ParameterName)
	require.Len(t, again.Estimates, 3)
	assert.True(t, again.Estimates[0].Value.Equal(*ma.Estimates[0].Value))

	_, err = Decode([]byte("estimates: {not: [valid"))
	assert.Error(t, err)
}
