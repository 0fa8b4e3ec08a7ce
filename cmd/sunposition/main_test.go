package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/sunposition"
)

func TestParseTime(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	tests := []struct {
		in   string
		loc  *time.Location
		want time.Time
	}{
		{"2015-06-21T11:25:00Z", time.UTC, time.Date(2015, time.June, 21, 11, 25, 0, 0, time.UTC)},
		{"2015-06-21T11:25", time.UTC, time.Date(2015, time.June, 21, 11, 25, 0, 0, time.UTC)},
		{" 2015-06-21 11:25 ", berlin, time.Date(2015, time.June, 21, 11, 25, 0, 0, berlin)},
		{"2015-06-21", time.UTC, time.Date(2015, time.June, 21, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in, tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, err := parseTime("yesterday", time.UTC)
	assert.Error(t, err)
}

func TestDayWindow_DST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("Europe/Berlin not available: %v", err)
	}
	calc := sunposition.New(52.52, 13.405)

	tests := []struct {
		name      string
		date      time.Time
		wantHours time.Duration
		wantCount int
		wantLast  string
	}{
		{"regular day", time.Date(2025, time.June, 21, 0, 0, 0, 0, berlin), 24 * time.Hour, 24, "2025-06-21T23:00:00+02:00"},
		{"spring forward", time.Date(2025, time.March, 30, 0, 0, 0, 0, berlin), 23 * time.Hour, 23, "2025-03-30T23:00:00+02:00"},
		{"fall back", time.Date(2025, time.October, 26, 0, 0, 0, 0, berlin), 25 * time.Hour, 25, "2025-10-26T23:00:00+01:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := dayWindow(tt.date.Add(15 * time.Hour))
			assert.True(t, start.Equal(tt.date))
			assert.Equal(t, tt.wantHours, end.Add(time.Nanosecond).Sub(start))

			track, err := calc.Track(start, end, time.Hour)
			require.NoError(t, err)
			require.Len(t, track, tt.wantCount)
			assert.Equal(t, tt.wantLast, track[len(track)-1].Time.Format(time.RFC3339))
			for _, p := range track {
				assert.Equal(t, tt.date.Day(), p.Time.Day(), "sample %s left the day", p.Time)
			}
		})
	}
}

func TestPrintHuman(t *testing.T) {
	calc := sunposition.New(49.4499314, 8.6712089)
	pos := calc.Compute(time.Date(2015, time.June, 21, 11, 25, 0, 0, time.UTC))

	var buf bytes.Buffer
	printHuman(&buf, calc.Coordinates(), pos)

	out := buf.String()
	assert.Contains(t, out, "lat=49.449931 lon=8.671209")
	assert.Contains(t, out, "Time: 2015-06-21T11:25:00Z (UTC)")
	assert.Contains(t, out, "Altitude:   63.999°")
	assert.Contains(t, out, "Azimuth:   179.190°")
}

func TestPrintTrack(t *testing.T) {
	calc := sunposition.New(49.4499314, 8.6712089)
	start := time.Date(2015, time.June, 21, 0, 0, 0, 0, time.UTC)
	from, to := dayWindow(start)
	track, err := calc.Track(from, to, 6*time.Hour)
	require.NoError(t, err)
	require.Len(t, track, 4)

	var buf bytes.Buffer
	printTrack(&buf, calc.Coordinates(), track)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Date: 2015-06-21 (UTC)", lines[1])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "18:00"))
}

func TestWriteJSON(t *testing.T) {
	calc := sunposition.New(49.4499314, 8.6712089)
	pos := calc.Compute(time.Date(2015, time.June, 21, 11, 25, 0, 0, time.UTC))

	var buf bytes.Buffer
	writeJSON(&buf, calc.Coordinates(), []sunposition.Position{pos})

	var out jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.InDelta(t, 49.4499314, out.Latitude, 1e-12)
	require.Len(t, out.Positions, 1)
	assert.InDelta(t, pos.Azimuth, out.Positions[0].Azimuth, 1e-9)
	assert.True(t, pos.Time.Equal(out.Positions[0].Time))
}
