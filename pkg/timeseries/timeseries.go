// Package timeseries provides the year-indexed numeric sequence that all
// market, adoption and impact computations operate on. Series are immutable:
// every transformation returns a new Series, and binary arithmetic refuses
// mismatched units or year ranges rather than guessing.
package timeseries

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Point is a single (year, value) observation.
type Point struct {
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}

// InterpolationPolicy controls how ValueAt treats years that fall between
// observations. The default is strict: absent years are an error.
type InterpolationPolicy int

const (
	// InterpolateNone fails lookups for absent years with ErrMissingYear.
	InterpolateNone InterpolationPolicy = iota
	// InterpolateLinear fills absent years inside the series range by
	// linear interpolation between the neighboring observations. Years
	// outside the range still fail; a series never extrapolates.
	InterpolateLinear
)

// Series is an ordered, year-indexed sequence of decimal values with unit
// metadata. Years are unique and strictly ascending. A Series is read-only
// after construction.
type Series struct {
	name   string
	unit   Unit
	years  []int
	values []decimal.Decimal
	interp InterpolationPolicy
}

// New constructs a Series from points, which must have strictly increasing
// years (no duplicates).
func New(name string, unit Unit, points []Point) (*Series, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("series %q must have at least one point", name)
	}
	s := &Series{
		name:   name,
		unit:   unit,
		years:  make([]int, len(points)),
		values: make([]decimal.Decimal, len(points)),
	}
	for i, p := range points {
		if i > 0 && p.Year <= points[i-1].Year {
			return nil, fmt.Errorf("series %q: years must be strictly increasing, got %d after %d",
				name, p.Year, points[i-1].Year)
		}
		s.years[i] = p.Year
		s.values[i] = p.Value
	}
	return s, nil
}

// FromFloats constructs a Series over consecutive years starting at
// startYear, one value per year. Convenience for tests and fixtures.
func FromFloats(name string, unit Unit, startYear int, values ...float64) (*Series, error) {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Year: startYear + i, Value: decimal.NewFromFloat(v)}
	}
	return New(name, unit, points)
}

// Name returns the human-readable series name.
func (s *Series) Name() string { return s.name }

// Unit returns the series unit tag.
func (s *Series) Unit() Unit { return s.unit }

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.years) }

// Years returns the ordered years of the series. The returned slice is a
// copy; mutating it does not affect the series.
func (s *Series) Years() []int {
	years := make([]int, len(s.years))
	copy(years, s.years)
	return years
}

// Points returns a copy of all observations in year order.
func (s *Series) Points() []Point {
	points := make([]Point, len(s.years))
	for i := range s.years {
		points[i] = Point{Year: s.years[i], Value: s.values[i]}
	}
	return points
}

// FirstYear returns the earliest year in the series.
func (s *Series) FirstYear() int { return s.years[0] }

// LastYear returns the latest year in the series.
func (s *Series) LastYear() int { return s.years[len(s.years)-1] }

// ValueAt returns the value for year. Absent years fail with ErrMissingYear
// unless the series carries a linear interpolation policy and the year falls
// inside the series range.
func (s *Series) ValueAt(year int) (decimal.Decimal, error) {
	i := sort.SearchInts(s.years, year)
	if i < len(s.years) && s.years[i] == year {
		return s.values[i], nil
	}
	if s.interp == InterpolateLinear && i > 0 && i < len(s.years) {
		// year falls strictly between years[i-1] and years[i]
		y0, y1 := s.years[i-1], s.years[i]
		v0, v1 := s.values[i-1], s.values[i]
		span := decimal.NewFromInt(int64(y1 - y0))
		offset := decimal.NewFromInt(int64(year - y0))
		return v0.Add(v1.Sub(v0).Mul(offset).Div(span)), nil
	}
	return decimal.Zero, fmt.Errorf("%w: series %q has no year %d", ErrMissingYear, s.name, year)
}

// WithInterpolation returns a copy of the series carrying the given lookup
// interpolation policy. The observations themselves are unchanged.
func (s *Series) WithInterpolation(policy InterpolationPolicy) *Series {
	out := s.copyShape(s.name, s.unit)
	copy(out.values, s.values)
	out.interp = policy
	return out
}

// Rename returns a copy of the series with a new name.
func (s *Series) Rename(name string) *Series {
	out := s.copyShape(name, s.unit)
	copy(out.values, s.values)
	out.interp = s.interp
	return out
}

// AlignedWith reports whether two series have the same year set and a
// compatible unit, the precondition for binary arithmetic.
func (s *Series) AlignedWith(other *Series) bool {
	return s.unit.Compatible(other.unit) && sameYears(s.years, other.years)
}

// Add returns the element-wise sum of two aligned series.
func (s *Series) Add(other *Series) (*Series, error) {
	return s.binaryOp(other, "+", decimal.Decimal.Add)
}

// Subtract returns the element-wise difference s - other of two aligned
// series.
func (s *Series) Subtract(other *Series) (*Series, error) {
	return s.binaryOp(other, "-", decimal.Decimal.Sub)
}

// Scale returns a copy of the series with every value multiplied by factor.
func (s *Series) Scale(factor decimal.Decimal) *Series {
	out := s.copyShape(s.name, s.unit)
	for i, v := range s.values {
		out.values[i] = v.Mul(factor)
	}
	return out
}

// ClampMin returns a copy of the series with every value floored at min.
func (s *Series) ClampMin(min decimal.Decimal) *Series {
	out := s.copyShape(s.name, s.unit)
	for i, v := range s.values {
		if v.LessThan(min) {
			out.values[i] = min
		} else {
			out.values[i] = v
		}
	}
	return out
}

// GrowthRates returns the year-over-year fractional change of the series as
// a dimensionless series indexed by the later year of each pair. Years whose
// previous value is zero are skipped (the rate is undefined there).
func (s *Series) GrowthRates() *Series {
	points := make([]Point, 0, len(s.years)-1)
	for i := 1; i < len(s.years); i++ {
		prev := s.values[i-1]
		if prev.IsZero() {
			continue
		}
		rate := s.values[i].Sub(prev).Div(prev)
		points = append(points, Point{Year: s.years[i], Value: rate})
	}
	out := &Series{
		name:   s.name + " growth",
		unit:   Dimensionless,
		years:  make([]int, len(points)),
		values: make([]decimal.Decimal, len(points)),
	}
	for i, p := range points {
		out.years[i] = p.Year
		out.values[i] = p.Value
	}
	return out
}

func (s *Series) binaryOp(other *Series, op string, apply func(decimal.Decimal, decimal.Decimal) decimal.Decimal) (*Series, error) {
	if !s.unit.Compatible(other.unit) {
		return nil, fmt.Errorf("%w: %q is %q, %q is %q",
			ErrUnitMismatch, s.name, s.unit, other.name, other.unit)
	}
	if !sameYears(s.years, other.years) {
		return nil, fmt.Errorf("%w: %q covers %d..%d (%d years), %q covers %d..%d (%d years)",
			ErrYearRangeMismatch,
			s.name, s.FirstYear(), s.LastYear(), s.Len(),
			other.name, other.FirstYear(), other.LastYear(), other.Len())
	}
	out := s.copyShape(s.name+op+other.name, s.unit)
	for i := range s.values {
		out.values[i] = apply(s.values[i], other.values[i])
	}
	return out, nil
}

// MarshalJSON renders the series as name, unit and points, for reporting
// collaborators that serialize derived trajectories.
func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string  `json:"name"`
		Unit   Unit    `json:"unit"`
		Points []Point `json:"points"`
	}{Name: s.name, Unit: s.unit, Points: s.Points()})
}

// copyShape allocates a series with the same years and an uninitialized
// value slice.
func (s *Series) copyShape(name string, unit Unit) *Series {
	out := &Series{
		name:   name,
		unit:   unit,
		years:  make([]int, len(s.years)),
		values: make([]decimal.Decimal, len(s.years)),
	}
	copy(out.years, s.years)
	return out
}

func sameYears(a, b []int) bool {
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
