// Package pma implements parameter meta-analysis: choosing the value of a
// scalar parameter from a statistical aggregation of published estimates,
// rather than from a single source. A meta-analysis is backing data for one
// parameter (e.g. conventional emissions per functional unit); its summary
// statistics feed coefficient selection in the domain layer.
package pma

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Estimate is one published value for the parameter under analysis. Its
// YAML form is defined in yaml.go.
type Estimate struct {
	// Index identifies the entry and may correspond to references in the
	// meta-analysis notes.
	Index int
	// Value is the estimate in the meta-analysis units. Nil marks an entry
	// whose value is missing; missing values are skipped by all statistics.
	Value *decimal.Decimal
	// Citation and Link identify the source of the estimate.
	Citation string
	Link     string
	// RawValue and RawUnits preserve the originally published figure when
	// it required conversion into the meta-analysis units.
	RawValue string
	RawUnits string
	Notes    string
	// SubDomain optionally partitions estimates by region or other
	// attribute, as a comma-separated list of identifiers.
	SubDomain string
}

// MetaAnalysis aggregates estimates for one parameter.
type MetaAnalysis struct {
	// ParameterName names the standard parameter this analysis backs, e.g.
	// "conv_emissions_per_funit". Empty for non-standard parameters.
	ParameterName string `yaml:"parameter_name,omitempty"`
	// Title is an English-language title for non-standard parameters.
	Title string `yaml:"title,omitempty"`
	Notes string `yaml:"notes,omitempty"`
	// Units is the standardized unit all estimate values were converted to.
	Units     string     `yaml:"units,omitempty"`
	Estimates []Estimate `yaml:"estimates"`
}

// Decode parses a YAML meta-analysis document. The bytes come from a
// data-loading collaborator; this package never touches storage itself.
func Decode(data []byte) (*MetaAnalysis, error) {
	var ma MetaAnalysis
	if err := yaml.Unmarshal(data, &ma); err != nil {
		return nil, fmt.Errorf("failed to parse meta-analysis: %w", err)
	}
	return &ma, nil
}

// Encode renders the meta-analysis as a YAML document.
func (ma *MetaAnalysis) Encode() ([]byte, error) {
	data, err := yaml.Marshal(ma)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meta-analysis %q: %w", ma.DisplayName(), err)
	}
	return data, nil
}

// DisplayName returns the parameter name, or the title for non-standard
// parameters.
func (ma *MetaAnalysis) DisplayName() string {
	if ma.ParameterName != "" {
		return ma.ParameterName
	}
	return ma.Title
}

// values returns the usable estimate values, sorted ascending.
func (ma *MetaAnalysis) values() []decimal.Decimal {
	vs := make([]decimal.Decimal, 0, len(ma.Estimates))
	for _, e := range ma.Estimates {
		if e.Value != nil {
			vs = append(vs, *e.Value)
		}
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].LessThan(vs[j]) })
	return vs
}

// Quantiles is the five-number summary of a set of estimates.
type Quantiles struct {
	Min    decimal.Decimal `json:"min"`
	P25    decimal.Decimal `json:"p25"`
	Median decimal.Decimal `json:"median"`
	P75    decimal.Decimal `json:"p75"`
	Max    decimal.Decimal `json:"max"`
}

// Quantiles returns the five-number summary over the usable estimates.
// ok is false when there are no usable estimates.
func (ma *MetaAnalysis) Quantiles() (Quantiles, bool) {
	vs := ma.values()
	if len(vs) == 0 {
		return Quantiles{}, false
	}
	return Quantiles{
		Min:    vs[0],
		P25:    quantile(vs, 0.25),
		Median: quantile(vs, 0.5),
		P75:    quantile(vs, 0.75),
		Max:    vs[len(vs)-1],
	}, true
}

// LowMeanHigh is the mean-minus-stdev / mean / mean-plus-stdev band over a
// set of estimates.
type LowMeanHigh struct {
	Low  decimal.Decimal `json:"low"`
	Mean decimal.Decimal `json:"mean"`
	High decimal.Decimal `json:"high"`
}

// LowMeanHigh returns mean-stdev, mean and mean+stdev over the usable
// estimates. When floorAtZero is set, Low is clamped to zero (physical
// parameters like costs cannot go negative). ok is false when fewer than
// two usable estimates exist, since the deviation is undefined.
func (ma *MetaAnalysis) LowMeanHigh(floorAtZero bool) (LowMeanHigh, bool) {
	vs := ma.values()
	if len(vs) < 2 {
		return LowMeanHigh{}, false
	}
	m := mean(vs)
	sd := stdev(vs, m)
	low := m.Sub(sd)
	if floorAtZero && low.IsNegative() {
		low = decimal.Zero
	}
	return LowMeanHigh{Low: low, Mean: m, High: m.Add(sd)}, true
}

// PercentileRank compares v to the set of estimates, returning its linearly
// interpolated position as a fraction of the set. Values outside the range
// of estimates extend linearly beyond [0, 1] so that callers can tell how
// far outside published experience a candidate value sits. ok is false when
// no usable estimates exist.
func (ma *MetaAnalysis) PercentileRank(v decimal.Decimal) (decimal.Decimal, bool) {
	vs := ma.values()
	if len(vs) == 0 {
		return decimal.Zero, false
	}
	min, max := vs[0], vs[len(vs)-1]
	if len(vs) == 1 || min.Equal(max) {
		switch {
		case v.LessThan(min):
			return decimal.Zero, true
		case v.GreaterThan(max):
			return decimal.NewFromInt(1), true
		default:
			return decimal.NewFromFloat(0.5), true
		}
	}

	span := max.Sub(min)
	if v.LessThanOrEqual(min) {
		return v.Sub(min).Div(span), true
	}
	if v.GreaterThanOrEqual(max) {
		return decimal.NewFromInt(1).Add(v.Sub(max).Div(span)), true
	}

	// v falls between two estimates: interpolate between their ranks.
	n := decimal.NewFromInt(int64(len(vs) - 1))
	for i := 1; i < len(vs); i++ {
		if vs[i].GreaterThanOrEqual(v) {
			lo, hi := vs[i-1], vs[i]
			rankLo := decimal.NewFromInt(int64(i - 1)).Div(n)
			rankHi := decimal.NewFromInt(int64(i)).Div(n)
			frac := v.Sub(lo).Div(hi.Sub(lo))
			return rankLo.Add(rankHi.Sub(rankLo).Mul(frac)), true
		}
	}
	return decimal.NewFromInt(1), true
}

// Statistic selects which aggregation of the estimates to use as a
// parameter value.
type Statistic string

const (
	StatMedian Statistic = "median"
	StatMean   Statistic = "mean"
	// StatLow and StatHigh are mean-stdev and mean+stdev, used for
	// conservative and ambitious scenario variants.
	StatLow  Statistic = "low"
	StatHigh Statistic = "high"
)

// Select returns the chosen aggregate over the usable estimates. ok is
// false when the estimates cannot support the statistic.
func (ma *MetaAnalysis) Select(stat Statistic) (decimal.Decimal, bool) {
	switch stat {
	case StatMedian:
		q, ok := ma.Quantiles()
		return q.Median, ok
	case StatMean:
		vs := ma.values()
		if len(vs) == 0 {
			return decimal.Zero, false
		}
		return mean(vs), true
	case StatLow:
		lmh, ok := ma.LowMeanHigh(false)
		return lmh.Low, ok
	case StatHigh:
		lmh, ok := ma.LowMeanHigh(false)
		return lmh.High, ok
	}
	return decimal.Zero, false
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func quantile(sorted []decimal.Decimal, q float64) decimal.Decimal {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := decimal.NewFromFloat(pos - float64(lo))
	return sorted[lo].Add(sorted[hi].Sub(sorted[lo]).Mul(frac))
}

func mean(vs []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(v)
	}
	return total.Div(decimal.NewFromInt(int64(len(vs))))
}

// stdev is the sample standard deviation. The square root goes through
// float64; estimate data never carries precision that survives a root
// anyway.
func stdev(vs []decimal.Decimal, m decimal.Decimal) decimal.Decimal {
	sumSq := decimal.Zero
	for _, v := range vs {
		d := v.Sub(m)
		sumSq = sumSq.Add(d.Mul(d))
	}
	variance := sumSq.Div(decimal.NewFromInt(int64(len(vs) - 1)))
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}
