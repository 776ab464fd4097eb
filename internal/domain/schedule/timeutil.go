package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf drops the time of day from t, keeping its location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// SameDay reports whether a and b fall on the same calendar date.
// A nil argument is never the same day as anything.
func SameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return dayKey(*a) == dayKey(*b)
}

func IsBefore(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return dayKey(*a) < dayKey(*b)
}

func IsAfter(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return dayKey(*a) > dayKey(*b)
}

// AddDays moves date n calendar days, working on the date components so a
// DST transition in between never shifts the result onto a different day.
func AddDays(date *time.Time, n int) *time.Time {
	if date == nil {
		return nil
	}
	y, m, d := date.Date()
	out := time.Date(y, m, d+n, 0, 0, 0, 0, date.Location())
	return &out
}

// IsValidFutureDate is true for today and any later date.
func IsValidFutureDate(date *time.Time, today time.Time) bool {
	if date == nil {
		return false
	}
	return !IsBefore(date, &today)
}

func parseClock(s string) (h, m int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	if len(parts) > 1 {
		m, err = strconv.Atoi(parts[1])
		if err != nil || m < 0 || m > 59 {
			return 0, 0, false
		}
	}
	// seconds are accepted but dropped
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}

// NormalizeClock turns "9", "9:5" or "09:00:00" into zero-padded "HH:MM".
// Unparseable input is returned trimmed but otherwise untouched.
func NormalizeClock(s string) string {
	h, m, ok := parseClock(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// CompareTimeStrings orders two 24-hour clock strings, returning -1, 0 or 1.
func CompareTimeStrings(t1, t2 string) int {
	return strings.Compare(NormalizeClock(t1), NormalizeClock(t2))
}

func IsTimeAfterOrEqual(t1, t2 string) bool {
	return CompareTimeStrings(t1, t2) >= 0
}

// Calendar pins "today" for a scheduling session so every rule in the
// session agrees on it, even across midnight.
type Calendar struct {
	today time.Time
}

func NewCalendar(now time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{today: DateOf(now.In(loc))}
}

func (c Calendar) Today() time.Time { return c.today }

func (c Calendar) Location() *time.Location { return c.today.Location() }

// ParseDate reads a YYYY-MM-DD date in the calendar's location.
func (c Calendar) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
