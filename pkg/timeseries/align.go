package timeseries

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AlignPolicy selects the canonical common year range the aligner produces.
type AlignPolicy int

const (
	// AlignIntersect restricts both series to the years they share.
	AlignIntersect AlignPolicy = iota
	// AlignUnion extends both series to the union of their years, filling
	// edges and gaps per the FillPolicy. Union alignment is a data
	// preparation convenience; engine arithmetic always uses intersection.
	AlignUnion
)

// FillPolicy controls how AlignUnion fills years a series does not cover.
type FillPolicy int

const (
	// FillForward carries the last observed value forward; years before the
	// first observation take the first value.
	FillForward FillPolicy = iota
	// FillZero fills absent years with zero.
	FillZero
)

// Aligner validates and aligns year ranges and units across series before
// arithmetic. Every binary operation in the engine goes through an aligner
// (or the equivalent strict checks in Series arithmetic), which is what
// keeps unit and index bugs from propagating silently through long
// computation chains.
//
// Conversions are explicit per-aligner declarations, never global state.
type Aligner struct {
	Policy AlignPolicy
	Fill   FillPolicy

	conversions map[Unit]map[Unit]decimal.Decimal
}

// NewAligner creates an aligner with the default intersection policy.
func NewAligner() *Aligner {
	return &Aligner{Policy: AlignIntersect}
}

// NewAlignerWithPolicy creates an aligner with an explicit range policy and
// fill behavior.
func NewAlignerWithPolicy(policy AlignPolicy, fill FillPolicy) *Aligner {
	return &Aligner{Policy: policy, Fill: fill}
}

// DeclareConversion registers a multiplicative conversion from one unit to
// another (and its inverse). Align converts the second series into the
// first series' unit when their units differ and a conversion exists.
func (a *Aligner) DeclareConversion(from, to Unit, factor decimal.Decimal) {
	if a.conversions == nil {
		a.conversions = make(map[Unit]map[Unit]decimal.Decimal)
	}
	if a.conversions[from] == nil {
		a.conversions[from] = make(map[Unit]decimal.Decimal)
	}
	if a.conversions[to] == nil {
		a.conversions[to] = make(map[Unit]decimal.Decimal)
	}
	a.conversions[from][to] = factor
	a.conversions[to][from] = decimal.NewFromInt(1).Div(factor)
}

// Align returns both series restricted (or extended, under AlignUnion) to a
// canonical common year range, with y converted into x's unit if needed.
// Fails with ErrIncompatibleUnits when units differ and no conversion is
// declared, and with ErrEmptyIntersection when the series share no years.
func (a *Aligner) Align(x, y *Series) (*Series, *Series, error) {
	if !x.Unit().Compatible(y.Unit()) {
		factor, ok := a.conversion(y.Unit(), x.Unit())
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q is %q, %q is %q and no conversion is declared",
				ErrIncompatibleUnits, x.Name(), x.Unit(), y.Name(), y.Unit())
		}
		converted := y.Scale(factor)
		y = &Series{
			name:   converted.name,
			unit:   x.Unit(),
			years:  converted.years,
			values: converted.values,
			interp: converted.interp,
		}
	}

	var years []int
	switch a.Policy {
	case AlignUnion:
		years = unionYears(x.years, y.years)
	default:
		years = intersectYears(x.years, y.years)
	}
	if len(years) == 0 {
		return nil, nil, fmt.Errorf("%w: %q covers %d..%d, %q covers %d..%d",
			ErrEmptyIntersection,
			x.Name(), x.FirstYear(), x.LastYear(),
			y.Name(), y.FirstYear(), y.LastYear())
	}

	alignedX, err := a.reindex(x, years)
	if err != nil {
		return nil, nil, err
	}
	alignedY, err := a.reindex(y, years)
	if err != nil {
		return nil, nil, err
	}
	return alignedX, alignedY, nil
}

// reindex builds a copy of s over exactly the given years, filling per the
// aligner's FillPolicy under AlignUnion.
func (a *Aligner) reindex(s *Series, years []int) (*Series, error) {
	points := make([]Point, len(years))
	for i, year := range years {
		v, err := s.ValueAt(year)
		if err != nil {
			if a.Policy != AlignUnion {
				return nil, err
			}
			v = a.fillValue(s, year)
		}
		points[i] = Point{Year: year, Value: v}
	}
	out, err := New(s.Name(), s.Unit(), points)
	if err != nil {
		return nil, err
	}
	out.interp = s.interp
	return out, nil
}

func (a *Aligner) fillValue(s *Series, year int) decimal.Decimal {
	if a.Fill == FillZero {
		return decimal.Zero
	}
	// FillForward: latest observation at or before year, else the first.
	last := s.values[0]
	for i, y := range s.years {
		if y > year {
			break
		}
		last = s.values[i]
	}
	return last
}

func (a *Aligner) conversion(from, to Unit) (decimal.Decimal, bool) {
	if a.conversions == nil {
		return decimal.Zero, false
	}
	factor, ok := a.conversions[from][to]
	return factor, ok
}

func intersectYears(a, b []int) []int {
	set := make(map[int]struct{}, len(b))
	for _, y := range b {
		set[y] = struct{}{}
	}
	out := make([]int, 0, len(a))
	for _, y := range a {
		if _, ok := set[y]; ok {
			out = append(out, y)
		}
	}
	return out
}

func unionYears(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
