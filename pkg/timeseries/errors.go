package timeseries

import "errors"

// Error kinds reported by series lookups and arithmetic. All are wrapped
// with context via fmt.Errorf("%w", ...) and matched with errors.Is.
var (
	// ErrMissingYear is returned by lookups for a year the series does not
	// contain (and no interpolation policy covers).
	ErrMissingYear = errors.New("missing year")

	// ErrUnitMismatch is returned by binary arithmetic between series whose
	// units differ.
	ErrUnitMismatch = errors.New("unit mismatch")

	// ErrYearRangeMismatch is returned by binary arithmetic between series
	// whose year sets differ.
	ErrYearRangeMismatch = errors.New("year range mismatch")

	// ErrIncompatibleUnits is returned by the aligner when units differ and
	// no conversion has been declared between them.
	ErrIncompatibleUnits = errors.New("incompatible units")

	// ErrEmptyIntersection is returned by the aligner when two series share
	// no years.
	ErrEmptyIntersection = errors.New("empty year intersection")
)
