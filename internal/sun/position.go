package sun

import (
	"math"
	"time"

	"github.com/thurmanmarka/sunposition/internal/timeutil"
)

// Equatorial represents equatorial coordinates (right ascension and declination)
// in degrees. RA is in degrees (0–360).
type Equatorial struct {
	RA  float64 // right ascension, degrees
	Dec float64 // declination, degrees
}

// GeocentricEquatorialApprox returns an approximate geocentric RA/Dec for the Sun
// at the given time t.
//
// This is a standard low/medium-precision solar position model, good to
// arcminute-level accuracy in RA/Dec for many applications.
//
// Based on a simplified NOAA / Meeus-style algorithm:
//
//	g  = mean anomaly of the Sun
//	q  = mean longitude of the Sun
//	L  = ecliptic longitude of the Sun
//	eps = obliquity of the ecliptic
func GeocentricEquatorialApprox(t time.Time) Equatorial {
	d := timeutil.DaysSinceJ2000(t)

	// Mean anomaly of the Sun (deg)
	g := timeutil.Deg2Rad(357.529 + 0.98560028*d)

	// Mean longitude of the Sun (deg)
	q := timeutil.Deg2Rad(280.459 + 0.98564736*d)

	// Ecliptic longitude with equation of center
	L := q +
		timeutil.Deg2Rad(1.915)*math.Sin(g) +
		timeutil.Deg2Rad(0.020)*math.Sin(2*g)

	// Obliquity of the ecliptic (deg)
	eps := timeutil.Deg2Rad(23.439 - 0.00000036*d)

	x := math.Cos(L)
	y := math.Cos(eps) * math.Sin(L)
	z := math.Sin(eps) * math.Sin(L)

	ra := math.Atan2(y, x)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	dec := math.Asin(z)

	return Equatorial{
		RA:  timeutil.Rad2Deg(ra),
		Dec: timeutil.Rad2Deg(dec),
	}
}

// EphemerisHorizontal returns the Sun's geometric altitude and compass
// azimuth (degrees) for an observer at lat, lon at instant t. Unlike
// KNX it works from the absolute instant, so t's location does not
// matter. No refraction is applied.
func EphemerisHorizontal(lat, lon float64, t time.Time) Horizontal {
	eq := GeocentricEquatorialApprox(t)

	raRad := timeutil.Deg2Rad(eq.RA)
	decRad := timeutil.Deg2Rad(eq.Dec)
	latRad := timeutil.Deg2Rad(lat)

	// Local sidereal time
	d := timeutil.DaysSinceJ2000(t)
	gmst := 280.46061837 + 360.98564736629*d
	lstRad := timeutil.Deg2Rad(timeutil.Normalize360(gmst + lon))

	// Hour angle, positive west of the meridian.
	H := timeutil.NormalizePi(lstRad - raRad)

	sinAlt := math.Sin(latRad)*math.Sin(decRad) + math.Cos(latRad)*math.Cos(decRad)*math.Cos(H)
	alt := math.Asin(sinAlt)

	// Azimuth measured from south towards west, then rotated to north.
	az := math.Atan2(math.Sin(H), math.Cos(H)*math.Sin(latRad)-math.Tan(decRad)*math.Cos(latRad))

	return Horizontal{
		Altitude: timeutil.Rad2Deg(alt),
		Azimuth:  timeutil.Normalize360(timeutil.Rad2Deg(az) + 180),
	}
}
