// Package reference adapts third-party solar position models to the
// compass conventions used by this module.
package reference

import (
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/thurmanmarka/sunposition/internal/sun"
	"github.com/thurmanmarka/sunposition/internal/timeutil"
)

// SunCalc returns the suncalc position of the Sun for an observer at lat,
// lon (degrees) at instant t.
//
// suncalc reports radians with azimuth measured from south towards west;
// the result here is degrees with azimuth clockwise from north in [0, 360).
func SunCalc(t time.Time, lat, lon float64) sun.Horizontal {
	pos := suncalc.GetPosition(t, lat, lon)
	return sun.Horizontal{
		Altitude: timeutil.Rad2Deg(pos.Altitude),
		Azimuth:  timeutil.Normalize360(timeutil.Rad2Deg(pos.Azimuth) + 180),
	}
}

// Model is a named reference the profiler can compare against.
type Model func(t time.Time, lat, lon float64) sun.Horizontal

// Ephemeris wraps the internal Meeus-style model in the Model signature.
func Ephemeris(t time.Time, lat, lon float64) sun.Horizontal {
	return sun.EphemerisHorizontal(lat, lon, t)
}

// ByName resolves a model name ("suncalc" or "ephemeris").
func ByName(name string) (Model, bool) {
	switch name {
	case "suncalc":
		return SunCalc, true
	case "ephemeris":
		return Ephemeris, true
	default:
		return nil, false
	}
}
