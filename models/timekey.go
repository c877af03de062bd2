package models

import (
	"fmt"
	"strconv"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey returns the canonical YYYY-MM-DD key for the calendar day the
// timestamp falls in, using the timestamp's own wall clock. Two timestamps
// in the same local day always map to the same key, including across a
// daylight-saving transition.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of the day containing t.
// Used for inclusive range bounds.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// MonthBucket reduces a day key to its YYYY-MM archive bucket.
// Malformed keys yield "".
func MonthBucket(dayKey string) string {
	if len(dayKey) < 7 {
		return ""
	}
	return dayKey[:7]
}

// QuarterBucket reduces a day key to its YYYY-Qn archive bucket.
// Malformed keys yield "".
func QuarterBucket(dayKey string) string {
	if len(dayKey) < 7 {
		return ""
	}
	month, err := strconv.Atoi(dayKey[5:7])
	if err != nil || month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%s-Q%d", dayKey[:4], (month-1)/3+1)
}
