package timeutil

import (
	"math"
	"time"
)

// -----------------------------
// Time relative to J2000
// -----------------------------

// j2000 is the J2000.0 epoch: 2000-01-01 12:00:00 UTC.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// DaysSinceJ2000 returns the number of (UTC) days since the J2000.0 epoch.
//
// Good enough for the low-precision models in this module; no TT/UT
// distinction is made.
func DaysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(j2000).Hours() / 24.0
}

// -----------------------------
// Angle helpers.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// NormalizePi wraps an angle in radians into (-π, π].
func NormalizePi(r float64) float64 {
	for r > math.Pi {
		r -= 2 * math.Pi
	}
	for r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// AngularDiff returns the signed difference a-b in degrees, wrapped into
// (-180, 180]. Useful for comparing azimuths across the 0/360 seam.
func AngularDiff(a, b float64) float64 {
	d := Normalize360(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}
