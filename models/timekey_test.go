package models

import (
	"testing"
	"time"
)

func TestDayKey_SameLocalDaySameKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	morning := time.Date(2025, 8, 17, 0, 30, 0, 0, loc)
	night := time.Date(2025, 8, 17, 23, 59, 59, 0, loc)

	if DayKey(morning) != "2025-08-17" || DayKey(night) != "2025-08-17" {
		t.Fatalf("expected both keys to be 2025-08-17, got %s / %s", DayKey(morning), DayKey(night))
	}
}

func TestDayKey_StableAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// UK clocks go forward 2025-03-30 01:00.
	before := time.Date(2025, 3, 30, 0, 30, 0, 0, loc)
	after := time.Date(2025, 3, 30, 3, 30, 0, 0, loc)

	if DayKey(before) != DayKey(after) {
		t.Fatalf("keys differ across DST: %s vs %s", DayKey(before), DayKey(after))
	}
	if DayKey(before) != "2025-03-30" {
		t.Fatalf("unexpected key %s", DayKey(before))
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	ts := time.Date(2025, 8, 17, 13, 45, 12, 0, loc)

	start := StartOfDay(ts)
	end := EndOfDay(ts)

	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("start of day not midnight: %v", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end of day wrong: %v", end)
	}
	if start.Location() != loc || end.Location() != loc {
		t.Fatalf("location not preserved")
	}
	if DayKey(start) != DayKey(ts) || DayKey(end) != DayKey(ts) {
		t.Fatalf("bounds left the day")
	}
}

func TestMonthBucket(t *testing.T) {
	if got := MonthBucket("2025-08-17"); got != "2025-08" {
		t.Fatalf("expected 2025-08, got %s", got)
	}
	if got := MonthBucket("bad"); got != "" {
		t.Fatalf("expected empty bucket for malformed key, got %q", got)
	}
}

func TestQuarterBucket(t *testing.T) {
	cases := map[string]string{
		"2025-01-01": "2025-Q1",
		"2025-03-31": "2025-Q1",
		"2025-04-01": "2025-Q2",
		"2025-08-17": "2025-Q3",
		"2025-12-31": "2025-Q4",
	}
	for key, want := range cases {
		if got := QuarterBucket(key); got != want {
			t.Fatalf("QuarterBucket(%s) = %s, want %s", key, got, want)
		}
	}
	if got := QuarterBucket("2025-xx-17"); got != "" {
		t.Fatalf("expected empty bucket for malformed month, got %q", got)
	}
}
