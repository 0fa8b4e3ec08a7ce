package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/thurmanmarka/sunposition"
	"github.com/thurmanmarka/sunposition/internal/config"
	"github.com/thurmanmarka/sunposition/internal/logging"
)

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Logging)
	if cfg.FromDotEnv {
		logger.Debug(context.Background(), "loaded .env")
	}

	// No args or a leading flag: single position. Otherwise a subcommand.
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		runPosition(os.Args[1:], cfg, logger)
		return
	}

	switch os.Args[1] {
	case "track":
		runTrack(os.Args[2:], cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `sunposition – where is the Sun

Usage:
  sunposition [flags]          # Sun altitude/azimuth at one instant
  sunposition track [flags]    # positions across a day

Default mode flags:
  -lat float
        latitude in degrees (north positive, default $SUNPOSITION_LAT)
  -lon float
        longitude in degrees (east positive, default $SUNPOSITION_LON)
  -time string
        RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now in UTC)
  -tz string
        IANA time zone used to read -time (default $SUNPOSITION_TZ or UTC)
  -json
        output result as JSON

For track mode:
  sunposition track -h
`)
}

// ---------------------
// Single position (default) mode
// ---------------------

func runPosition(args []string, cfg config.Config, logger logging.Logger) {
	fs := flag.NewFlagSet("sunposition", flag.ExitOnError)

	lat := fs.Float64("lat", cfg.Lat, "latitude in degrees (north positive)")
	lon := fs.Float64("lon", cfg.Lon, "longitude in degrees (east positive, west negative)")
	timeStr := fs.String("time", "", "time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now in UTC)")
	tzName := fs.String("tz", cfg.Timezone, "IANA time zone name used to interpret -time (e.g. Europe/Berlin)")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sunposition [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	calc := newCalculator(*lat, *lon, logger)

	var pos sunposition.Position
	if *timeStr == "" {
		pos = calc.ComputeNowUTC()
	} else {
		loc, err := config.Config{Timezone: *tzName}.Location()
		if err != nil {
			log.Fatalf("%v", err)
		}
		t, err := parseTime(*timeStr, loc)
		if err != nil {
			log.Fatalf("could not parse -time %q: %v", *timeStr, err)
		}
		if t.Location() != time.UTC {
			logger.Warn(context.Background(), "formula reads the wall clock as UTC",
				logging.String("tz", t.Location().String()))
		}
		pos = calc.Compute(t)
	}

	if *jsonOut {
		writeJSON(os.Stdout, calc.Coordinates(), []sunposition.Position{pos})
		return
	}
	printHuman(os.Stdout, calc.Coordinates(), pos)
}

// ---------------------
// Track subcommand
// ---------------------

func runTrack(args []string, cfg config.Config, logger logging.Logger) {
	fs := flag.NewFlagSet("track", flag.ExitOnError)

	lat := fs.Float64("lat", cfg.Lat, "latitude in degrees (north positive)")
	lon := fs.Float64("lon", cfg.Lon, "longitude in degrees (east positive, west negative)")
	dateS := fs.String("date", "", "date in YYYY-MM-DD (optional, defaults to today in -tz)")
	tzName := fs.String("tz", cfg.Timezone, "IANA time zone name for the day boundaries")
	step := fs.Duration("step", time.Hour, "sampling interval")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sunposition track [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	loc, err := config.Config{Timezone: *tzName}.Location()
	if err != nil {
		log.Fatalf("%v", err)
	}

	var date time.Time
	if *dateS == "" {
		n := time.Now().In(loc)
		date = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	} else {
		date, err = time.ParseInLocation("2006-01-02", *dateS, loc)
		if err != nil {
			log.Fatalf("invalid -date %q: %v", *dateS, err)
		}
	}

	calc := newCalculator(*lat, *lon, logger)

	start, end := dayWindow(date)
	track, err := calc.Track(start, end, *step)
	if err != nil {
		log.Fatalf("error computing track: %v", err)
	}

	if *jsonOut {
		writeJSON(os.Stdout, calc.Coordinates(), track)
		return
	}
	printTrack(os.Stdout, calc.Coordinates(), track)
}

// ---------------------
// Shared helpers
// ---------------------

func newCalculator(lat, lon float64, logger logging.Logger) sunposition.Calculator {
	coords := sunposition.Coordinates{Lat: lat, Lon: lon}
	if err := coords.Validate(); err != nil {
		log.Fatalf("invalid location: %v", err)
	}
	if lat == 0 && lon == 0 {
		logger.Warn(context.Background(), "lat=0 lon=0 (Gulf of Guinea). Use -lat and -lon to set a real location.")
	}
	return sunposition.NewAt(coords)
}

// dayWindow returns local midnight of date's calendar day and the last
// instant before the next local midnight. DST days are 23 or 25 hours long.
func dayWindow(date time.Time) (start, end time.Time) {
	loc := date.Location()
	y, m, d := date.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end = time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return start, end
}

// timeLayouts are tried in order by parseTime.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	var parseErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, parseErr
}

func printHuman(w io.Writer, coords sunposition.Coordinates, pos sunposition.Position) {
	fmt.Fprintf(w, "Sun position for lat=%.6f lon=%.6f\n", coords.Lat, coords.Lon)
	fmt.Fprintf(w, "Time: %s (%s)\n\n", pos.Time.Format(time.RFC3339), pos.Time.Location())
	fmt.Fprintf(w, "Altitude: %8.3f°\n", pos.Altitude)
	fmt.Fprintf(w, "Azimuth:  %8.3f°\n", pos.Azimuth)
}

func printTrack(w io.Writer, coords sunposition.Coordinates, track []sunposition.Position) {
	fmt.Fprintf(w, "Sun track for lat=%.6f lon=%.6f\n", coords.Lat, coords.Lon)
	if len(track) > 0 {
		fmt.Fprintf(w, "Date: %s (%s)\n", track[0].Time.Format("2006-01-02"), track[0].Time.Location())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "time    altitude   azimuth")
	for _, p := range track {
		fmt.Fprintf(w, "%s  %8.3f  %8.3f\n", p.Time.Format("15:04"), p.Altitude, p.Azimuth)
	}
}

type jsonOutput struct {
	Latitude  float64                `json:"latitude"`
	Longitude float64                `json:"longitude"`
	Positions []sunposition.Position `json:"positions"`
}

func writeJSON(w io.Writer, coords sunposition.Coordinates, positions []sunposition.Position) {
	out := jsonOutput{
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
		Positions: positions,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("failed to encode JSON: %v", err)
	}
}
