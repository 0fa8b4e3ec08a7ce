package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thurmanmarka/sunposition"
	"github.com/thurmanmarka/sunposition/internal/config"
	"github.com/thurmanmarka/sunposition/internal/logging"
	"github.com/thurmanmarka/sunposition/internal/reference"
	"github.com/thurmanmarka/sunposition/internal/sun"
	"github.com/thurmanmarka/sunposition/internal/timeutil"
)

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.count++
}

func (s *stats) avg() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

// sample is one reference observation.
type sample struct {
	t   time.Time
	ref sun.Horizontal
}

// row is the comparison of one sample against the formula.
type row struct {
	sample
	got       sunposition.Position
	altSigned float64 // ours - ref, degrees
	azSigned  float64 // ours - ref, degrees, wrapped to (-180, 180]
}

type summary struct {
	altAbs, azAbs       stats
	altSigned, azSigned stats
	rows                int
	skipped             int
}

func (s *summary) add(r row) {
	s.rows++
	s.altAbs.add(math.Abs(r.altSigned))
	s.azAbs.add(math.Abs(r.azSigned))
	s.altSigned.add(r.altSigned)
	s.azSigned.add(r.azSigned)
}

// compare evaluates the formula at the sample instant. The formula reads
// the wall clock as UTC, so the instant is converted first.
func compare(calc sunposition.Calculator, s sample) row {
	got := calc.Compute(s.t.UTC())
	return row{
		sample:    s,
		got:       got,
		altSigned: got.Altitude - s.ref.Altitude,
		azSigned:  timeutil.AngularDiff(got.Azimuth, s.ref.Azimuth),
	}
}

// generate samples a reference model from..to (inclusive) every step.
func generate(model reference.Model, lat, lon float64, from, to time.Time, step time.Duration) ([]sample, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %s", step)
	}
	if to.Before(from) {
		return nil, errors.New("-to is before -from")
	}
	var out []sample
	for t := from; !t.After(to); t = t.Add(step) {
		out = append(out, sample{t: t, ref: model(t, lat, lon)})
	}
	return out, nil
}

// CSV format:
//
// time,altitude,azimuth
// 2025-06-21T11:25,63.98,178.94
// 2025-06-21T12:00,63.51,194.10
//
//   - time is RFC3339 or YYYY-MM-DDTHH:MM; times without an offset are
//     read in the -tz location
//   - altitude and azimuth are degrees, azimuth clockwise from north
func readCSV(r io.Reader, loc *time.Location, logger logging.Logger) (samples []sample, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // allow variable, we validate

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, errors.New("empty CSV file")
	}

	// If first row looks like a header, skip it.
	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "time") {
		startIdx = 1
	}

	ctx := context.Background()
	for i := startIdx; i < len(records); i++ {
		rec := records[i]
		rowLog := logger.With(logging.Int("row", i+1))

		if len(rec) < 3 {
			rowLog.Warn(ctx, "expected 3 columns (time,altitude,azimuth), skipping", logging.Int("got", len(rec)))
			skipped++
			continue
		}

		t, err := parseRefTime(strings.TrimSpace(rec[0]), loc)
		if err != nil {
			rowLog.Warn(ctx, "invalid time, skipping", logging.String("value", rec[0]), logging.Err(err))
			skipped++
			continue
		}
		alt, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			rowLog.Warn(ctx, "invalid altitude, skipping", logging.String("value", rec[1]), logging.Err(err))
			skipped++
			continue
		}
		az, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			rowLog.Warn(ctx, "invalid azimuth, skipping", logging.String("value", rec[2]), logging.Err(err))
			skipped++
			continue
		}

		samples = append(samples, sample{t: t, ref: sun.Horizontal{Altitude: alt, Azimuth: az}})
	}
	return samples, skipped, nil
}

func parseRefTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", s, loc)
}

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Logging).With(logging.String("tool", "sunposition-profiler"))

	var (
		lat      = flag.Float64("lat", cfg.Lat, "latitude in degrees (north positive)")
		lon      = flag.Float64("lon", cfg.Lon, "longitude in degrees (east positive, west negative)")
		tzName   = flag.String("tz", cfg.Timezone, "IANA time zone name for -from/-to and zone-less CSV times")
		refName  = flag.String("ref", "suncalc", "reference model when no -refcsv is given: suncalc or ephemeris")
		fromS    = flag.String("from", "", "first date YYYY-MM-DD (default: Jan 1 of the current year)")
		toS      = flag.String("to", "", "last date YYYY-MM-DD, inclusive (default: Dec 31 of -from's year)")
		step     = flag.Duration("step", time.Hour, "sampling interval for model references")
		refCSV   = flag.String("refcsv", "", "path to reference CSV file (time,altitude,azimuth)")
		daylight = flag.Bool("daylight", false, "only count samples where the reference altitude is above 0")
		verbose  = flag.Bool("verbose", false, "print per-sample errors instead of only summary")
		outCSV   = flag.String("outcsv", "", "optional path to write per-row error CSV")
	)
	flag.Parse()

	coords := sunposition.Coordinates{Lat: *lat, Lon: *lon}
	if err := coords.Validate(); err != nil {
		log.Fatalf("invalid location: %v", err)
	}
	if *lat == 0 && *lon == 0 {
		logger.Warn(context.Background(), "lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	loc, err := config.Config{Timezone: *tzName}.Location()
	if err != nil {
		log.Fatalf("%v", err)
	}

	var (
		samples  []sample
		skipped  int
		modeDesc string
	)

	if *refCSV != "" {
		f, err := os.Open(*refCSV)
		if err != nil {
			log.Fatalf("failed to open refcsv %q: %v", *refCSV, err)
		}
		samples, skipped, err = readCSV(f, loc, logger)
		f.Close()
		if err != nil {
			log.Fatalf("%v", err)
		}
		modeDesc = "CSV " + *refCSV
	} else {
		model, ok := reference.ByName(strings.ToLower(*refName))
		if !ok {
			log.Fatalf("unknown -ref %q (use suncalc or ephemeris)", *refName)
		}
		from, to, err := dateRange(*fromS, *toS, loc)
		if err != nil {
			log.Fatalf("%v", err)
		}
		samples, err = generate(model, *lat, *lon, from, to, *step)
		if err != nil {
			log.Fatalf("%v", err)
		}
		modeDesc = strings.ToUpper(*refName)
	}

	calc := sunposition.NewAt(coords)
	sum := summary{skipped: skipped}
	var rows []row

	for _, s := range samples {
		if *daylight && s.ref.Altitude <= 0 {
			continue
		}
		r := compare(calc, s)
		sum.add(r)

		if *verbose {
			fmt.Printf("%s alt err=%+.3f° (got=%.3f ref=%.3f), az err=%+.3f° (got=%.3f ref=%.3f)\n",
				s.t.In(loc).Format("2006-01-02 15:04"),
				r.altSigned, r.got.Altitude, s.ref.Altitude,
				r.azSigned, r.got.Azimuth, s.ref.Azimuth)
		}

		if *outCSV != "" {
			rows = append(rows, r)
		}
	}

	if *outCSV != "" {
		if err := saveCSV(*outCSV, rows); err != nil {
			log.Fatalf("%v", err)
		}
	}

	printSummary(os.Stdout, modeDesc, coords, loc, &sum)
}

// outHeader is the first record of the -outcsv file.
var outHeader = []string{
	"time",
	"ref_altitude",
	"ref_azimuth",
	"altitude",
	"azimuth",
	"altitude_err",
	"azimuth_err",
}

// saveCSV writes rows to path, reporting any write, flush or close error.
func saveCSV(path string, rows []row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create outcsv %q: %w", path, err)
	}
	if err := writeCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write outcsv %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close outcsv %q: %w", path, err)
	}
	return nil
}

// writeCSV writes the header and one record per row, then flushes.
func writeCSV(w io.Writer, rows []row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r row) record() []string {
	return []string{
		r.t.Format(time.RFC3339),
		fmt.Sprintf("%.6f", r.ref.Altitude),
		fmt.Sprintf("%.6f", r.ref.Azimuth),
		fmt.Sprintf("%.6f", r.got.Altitude),
		fmt.Sprintf("%.6f", r.got.Azimuth),
		fmt.Sprintf("%.6f", r.altSigned),
		fmt.Sprintf("%.6f", r.azSigned),
	}
}

// dateRange resolves -from/-to into local midnights; to is the last
// instant sampled, 23:59:59 on the -to date.
func dateRange(fromS, toS string, loc *time.Location) (from, to time.Time, err error) {
	if fromS == "" {
		from = time.Date(time.Now().In(loc).Year(), time.January, 1, 0, 0, 0, 0, loc)
	} else if from, err = time.ParseInLocation("2006-01-02", fromS, loc); err != nil {
		return from, to, fmt.Errorf("invalid -from %q: %w", fromS, err)
	}

	var last time.Time
	if toS == "" {
		last = time.Date(from.Year(), time.December, 31, 0, 0, 0, 0, loc)
	} else if last, err = time.ParseInLocation("2006-01-02", toS, loc); err != nil {
		return from, to, fmt.Errorf("invalid -to %q: %w", toS, err)
	}
	return from, last.Add(24*time.Hour - time.Second), nil
}

func printSummary(w io.Writer, modeDesc string, coords sunposition.Coordinates, loc *time.Location, s *summary) {
	fmt.Fprintln(w, "=== sunposition profiler summary ===")
	fmt.Fprintf(w, "Reference: %s\n", modeDesc)
	fmt.Fprintf(w, "Lat/Lon:   %.4f / %.4f\n", coords.Lat, coords.Lon)
	fmt.Fprintf(w, "TZ:        %s\n", loc.String())
	fmt.Fprintf(w, "Rows:      %d (processed), %d skipped\n", s.rows, s.skipped)

	if s.altAbs.count == 0 {
		fmt.Fprintln(w, "No valid rows to compute stats.")
		return
	}

	printStats(w, "Altitude error (degrees)", "avg", s.altAbs.count, s.altAbs.min, s.altAbs.max, s.altAbs.avg())
	printStats(w, "Azimuth error (degrees)", "avg", s.azAbs.count, s.azAbs.min, s.azAbs.max, s.azAbs.avg())
	printStats(w, "Altitude signed error (degrees, ours - ref)", "mean", s.altSigned.count, s.altSigned.min, s.altSigned.max, s.altSigned.avg())
	printStats(w, "Azimuth signed error (degrees, ours - ref)", "mean", s.azSigned.count, s.azSigned.min, s.azSigned.max, s.azSigned.avg())
}

func printStats(w io.Writer, title, avgLabel string, count int, lo, hi, avg float64) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "  count: %d\n", count)
	fmt.Fprintf(w, "  min:   %.3f\n", lo)
	fmt.Fprintf(w, "  max:   %.3f\n", hi)
	fmt.Fprintf(w, "  %-5s  %.3f\n", avgLabel+":", avg)
}
