// Package sun holds the solar position models: the closed-form KNX
// formula used by the public calculator and a Meeus-style ephemeris
// model used as an independent reference.
package sun

import "math"

// k converts degrees to radians.
const k = math.Pi / 180

const (
	// maxDeclination is the amplitude of the sinusoidal declination model.
	maxDeclination = 23.45

	// azimuthClamp bounds the acos argument of the azimuth step.
	azimuthClamp = 0.9999
)

// Horizontal is a position in the observer's horizontal frame, in degrees.
type Horizontal struct {
	Altitude float64 // above the horizon, negative below
	Azimuth  float64 // clockwise from geographic north
}

// Declination approximates the solar declination (degrees) for a 1-based
// day of the year as a cosine over a 365 day year.
func Declination(dayOfYear int) float64 {
	return -maxDeclination * math.Cos(k*360*float64(dayOfYear+10)/365)
}

// TimeDiff returns the offset in hours from local mean solar noon for a
// wall-clock hour and minute at longitude lon (degrees, east positive).
// The wall clock is expected to be UTC for the result to be physical.
func TimeDiff(hour, minute int, lon float64) float64 {
	return float64(hour) + float64(minute)/60 - (15-lon)/15 - 11
}

// KNX evaluates the KNX "Logikbaustein 19820" approximation for an
// observer at lat, lon (degrees) on the given day of year and clock time.
//
// No input is validated. At lat = ±90 or with the sun exactly at zenith or
// nadir the azimuth division has a zero denominator and the result may be
// non-finite; that is passed through unchanged.
func KNX(lat, lon float64, dayOfYear, hour, minute int) Horizontal {
	td := TimeDiff(hour, minute, lon)
	decl := Declination(dayOfYear)

	sinLat, cosLat := math.Sin(k*lat), math.Cos(k*lat)
	sinDecl, cosDecl := math.Sin(k*decl), math.Cos(k*decl)

	x := sinLat*sinDecl + cosLat*cosDecl*math.Cos(k*15*td)
	altitude := math.Asin(x) / k

	y := -1 * (sinLat*x - sinDecl) / (cosLat * math.Sin(math.Acos(x)))
	if y > azimuthClamp {
		y = azimuthClamp
	} else if y < -azimuthClamp {
		y = -azimuthClamp
	}

	return Horizontal{
		Altitude: altitude,
		Azimuth:  azimuthFor(td, y),
	}
}

// azimuthFor maps acos(y) onto the compass by the sign and range of the
// time offset. Branches one and three, and two and four, share a formula;
// the table is kept as the reference formula states it.
func azimuthFor(td, y float64) float64 {
	a := math.Acos(y) / k
	switch {
	case td <= -12:
		return 360 - a
	case td > -12 && td <= 0:
		return a
	case td > 0 && td <= 12:
		return 360 - a
	case td > 12:
		return a
	}
	// Only reachable for a NaN offset.
	return 0
}
