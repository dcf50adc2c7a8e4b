// Package indicator holds the pure indicator functions. Inputs are never
// modified; every call returns a new Series aligned by index to its input.
package indicator

import (
	"errors"
	"math"
)

// ErrInvalidPeriod is returned for a lookback period below one.
var ErrInvalidPeriod = errors.New("indicator period must be >= 1")

// Series is an indicator output. Entries that are not yet available are NaN.
type Series []float64

// Defined reports whether v carries a value.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return math.NaN(), false
	}
	return s[i], Defined(s[i])
}

// Last returns the final value and whether it is defined.
func (s Series) Last() (float64, bool) {
	return s.At(len(s) - 1)
}

func undefined(n int) Series {
	out := make(Series, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
