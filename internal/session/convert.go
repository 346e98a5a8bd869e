package session

import (
	"github.com/pkg/errors"
)

// lengths are the length units in meters.
var lengths = map[string]float64{
	"m":  1,
	"cm": 0.01,
	"mm": 0.001,
	"km": 1000,
	"in": 0.0254,
	"ft": 0.3048,
	"yd": 0.9144,
	"mi": 1609.344,
}

// temperatures convert each temperature unit to and from Celsius.
var temperatures = map[string]struct{ to, from func(float64) float64 }{
	"C": {
		to:   func(x float64) float64 { return x },
		from: func(x float64) float64 { return x },
	},
	"F": {
		to:   func(x float64) float64 { return (x - 32) * 5 / 9 },
		from: func(x float64) float64 { return x*9/5 + 32 },
	},
	"K": {
		to:   func(x float64) float64 { return x - 273.15 },
		from: func(x float64) float64 { return x + 273.15 },
	},
}

// ErrUnsupportedConversion is returned by Convert for units it does not know
// or units of different dimensions.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// Convert converts amount between length units or between temperature units.
func Convert(amount float64, from, to string) (float64, error) {
	if f, ok := lengths[from]; ok {
		if t, ok := lengths[to]; ok {
			return amount * f / t, nil
		}
	}
	if f, ok := temperatures[from]; ok {
		if t, ok := temperatures[to]; ok {
			return t.from(f.to(amount)), nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedConversion, "%s to %s", from, to)
}
