package retro

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return v
}

func TestNextDate(t *testing.T) {
	tests := []struct {
		name     string
		last     string
		weekday  time.Weekday
		cadence  int
		now      string
		expected string
	}{
		{
			name:     "bi-weekly",
			last:     "2020-09-13T12:00:00Z",
			weekday:  time.Wednesday,
			cadence:  2,
			now:      "2020-09-15T08:00:00Z",
			expected: "2020-09-30T12:00:00Z",
		},
		{
			name:     "weekly",
			last:     "2020-09-13T12:00:00Z",
			weekday:  time.Thursday,
			cadence:  1,
			now:      "2020-09-15T08:00:00Z",
			expected: "2020-09-24T12:00:00Z",
		},
		{
			name:     "same weekday needs no shift",
			last:     "2020-09-16T14:00:00Z",
			weekday:  time.Wednesday,
			cadence:  1,
			now:      "2020-09-16T08:00:00Z",
			expected: "2020-09-23T14:00:00Z",
		},
		{
			name:     "last retro far in the past re-anchors on now",
			last:     "2020-09-13T12:00:00Z",
			weekday:  time.Wednesday,
			cadence:  2,
			now:      "2020-10-15T08:00:00Z",
			expected: "2020-10-28T08:00:00Z",
		},
		{
			name:     "weekly re-anchor stays in current week",
			last:     "2020-01-01T12:00:00Z",
			weekday:  time.Friday,
			cadence:  1,
			now:      "2020-10-13T09:30:00Z",
			expected: "2020-10-16T09:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDate(mustTime(t, tt.last), tt.weekday, tt.cadence, mustTime(t, tt.now))
			want := mustTime(t, tt.expected)
			if !got.Equal(want) {
				t.Errorf("NextDate = %s, want %s", got.Format(time.RFC3339), want.Format(time.RFC3339))
			}
			if got.Weekday() != tt.weekday {
				t.Errorf("weekday = %s, want %s", got.Weekday(), tt.weekday)
			}
		})
	}
}

func TestNextDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	// 2020-09-17T02:00Z is still Wednesday the 16th at UTC-8.
	last := mustTime(t, "2020-09-17T02:00:00Z").In(loc)
	now := mustTime(t, "2020-09-17T03:00:00Z").In(loc)

	got := NextDate(last, time.Wednesday, 1, now)
	if got.Weekday() != time.Wednesday {
		t.Errorf("weekday in location = %s, want Wednesday", got.Weekday())
	}
	if want := mustTime(t, "2020-09-24T02:00:00Z"); !got.Equal(want) {
		t.Errorf("NextDate = %s, want %s", got.UTC().Format(time.RFC3339), want.Format(time.RFC3339))
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(mustTime(t, "2020-09-15T17:45:12Z"))
	if want := mustTime(t, "2020-09-15T00:00:00Z"); !got.Equal(want) {
		t.Errorf("StartOfDay = %s, want %s", got, want)
	}
}

func TestReadableDate(t *testing.T) {
	if got := ReadableDate(mustTime(t, "2020-09-05T12:00:00Z")); got != "09/05/2020" {
		t.Errorf("ReadableDate = %q, want %q", got, "09/05/2020")
	}
}
