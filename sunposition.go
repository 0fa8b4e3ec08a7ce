// Package sunposition computes the apparent position of the Sun (altitude
// and azimuth) for a fixed location and a timestamp.
//
// The model is the closed-form KNX "Logikbaustein 19820" approximation:
// a sinusoidal declination plus a longitude-corrected hour angle. It is
// cheap and good to roughly a degree at mid latitudes, with no refraction
// correction and no time zone handling beyond reading the timestamp's own
// calendar fields.
//
// A Calculator is an immutable value and is safe for concurrent use.
package sunposition

import (
	"errors"
	"fmt"
	"time"

	"github.com/thurmanmarka/sunposition/internal/sun"
)

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat float64 `json:"latitude"`  // degrees, north positive
	Lon float64 `json:"longitude"` // degrees, east positive (west negative, e.g. -105 for 105°W)
}

// Position is the Sun's position as seen from a location at one instant.
type Position struct {
	Altitude float64   `json:"altitude"` // degrees above the horizon, negative below
	Azimuth  float64   `json:"azimuth"`  // degrees clockwise from north, 0–360
	Time     time.Time `json:"time"`     // the timestamp the position was computed for
}

func (p Position) String() string {
	return fmt.Sprintf("Sun{altitude=%v, azimuth=%v, time=%s}", p.Altitude, p.Azimuth, p.Time.Format(time.RFC3339))
}

var (
	// ErrInvalidLatitude is returned by Validate for latitudes outside [-90, 90].
	ErrInvalidLatitude = errors.New("latitude out of range [-90, 90]")

	// ErrInvalidLongitude is returned by Validate for longitudes outside [-180, 180].
	ErrInvalidLongitude = errors.New("longitude out of range [-180, 180]")

	// ErrInvalidStep is returned by Track for a non-positive sampling step.
	ErrInvalidStep = errors.New("step must be positive")

	// ErrInvalidRange is returned by Track when end is before start.
	ErrInvalidRange = errors.New("end is before start")

	// ErrTooManySamples is returned by Track when the range would yield more
	// than MaxTrackSamples positions.
	ErrTooManySamples = errors.New("too many samples")
)

// MaxTrackSamples bounds the number of positions a single Track call returns.
const MaxTrackSamples = 1 << 20

// Validate reports whether c lies within the usual geographic ranges.
// The calculator itself never validates; this is for callers that want to.
func (c Coordinates) Validate() error {
	if !(c.Lat >= -90 && c.Lat <= 90) {
		return fmt.Errorf("%w: %v", ErrInvalidLatitude, c.Lat)
	}
	if !(c.Lon >= -180 && c.Lon <= 180) {
		return fmt.Errorf("%w: %v", ErrInvalidLongitude, c.Lon)
	}
	return nil
}

// now is swapped out in tests.
var now = time.Now

// Calculator computes Sun positions for a location fixed at construction.
type Calculator struct {
	coords Coordinates
}

// New returns a Calculator for latitude and longitude in degrees
// (e.g. 49.4499314, 8.6712089). The values are not validated.
func New(lat, lon float64) Calculator {
	return Calculator{coords: Coordinates{Lat: lat, Lon: lon}}
}

// NewAt is New for an existing Coordinates value.
func NewAt(c Coordinates) Calculator {
	return Calculator{coords: c}
}

// Coordinates returns the calculator's location.
func (c Calculator) Coordinates() Coordinates {
	return c.coords
}

// Compute returns the Sun's position at t.
//
// Day of year, hour and minute are read in t's own location, and the
// formula assumes that clock is UTC: pass t.UTC() unless you deliberately
// want local-clock behavior. Seconds are ignored.
//
// At the poles, or with the Sun exactly at zenith or nadir, the azimuth
// may come back NaN or Inf-derived; it is not corrected.
func (c Calculator) Compute(t time.Time) Position {
	h := sun.KNX(c.coords.Lat, c.coords.Lon, t.YearDay(), t.Hour(), t.Minute())
	return Position{
		Altitude: h.Altitude,
		Azimuth:  h.Azimuth,
		Time:     t,
	}
}

// ComputeNowUTC returns the Sun's position for the current instant in UTC.
func (c Calculator) ComputeNowUTC() Position {
	return c.Compute(now().UTC())
}

// Track samples Compute from start to end inclusive every step. The
// samples keep start's location.
func (c Calculator) Track(start, end time.Time, step time.Duration) ([]Position, error) {
	if step <= 0 {
		return nil, fmt.Errorf("track: %w (got %s)", ErrInvalidStep, step)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("track: %w", ErrInvalidRange)
	}

	steps := end.Sub(start) / step
	if steps >= MaxTrackSamples {
		return nil, fmt.Errorf("track: %w (%d steps of %s, max %d)", ErrTooManySamples, int64(steps)+1, step, MaxTrackSamples)
	}

	n := int(steps) + 1
	out := make([]Position, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.Compute(start.Add(time.Duration(i)*step)))
	}
	return out, nil
}
