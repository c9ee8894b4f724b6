package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted calendar date form.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the given calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Any other format is an error.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("date must be YYYY-MM-DD: %q", s)
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// Equal compares calendar days regardless of location.
func (d Date) Equal(o Date) bool {
	return d.Format(DateLayout) == o.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

const day = 24 * time.Hour

// Duration is a promotion's time span. Its canonical text form is
// "N day(s), HH:MM:SS", e.g. "5 days, 01:30:00" or "1 day, 00:00:00".
// That exact rendering is the documented contract for query filters; no
// alternate formats are guessed, except a bare HH:MM:SS clock which means
// zero days.
type Duration time.Duration

// NewDuration combines a day count with a wall-clock remainder.
func NewDuration(days int, clock time.Duration) Duration {
	return Duration(time.Duration(days)*day + clock)
}

// Days returns the whole-day component.
func (d Duration) Days() int { return int(time.Duration(d) / day) }

// Clock returns the sub-day component.
func (d Duration) Clock() time.Duration { return time.Duration(d) % day }

func (d Duration) String() string {
	days := d.Days()
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	clock := d.Clock()
	h := int(clock / time.Hour)
	m := int(clock % time.Hour / time.Minute)
	s := int(clock % time.Minute / time.Second)
	return fmt.Sprintf("%d %s, %02d:%02d:%02d", days, unit, h, m, s)
}

// ParseSpan parses the canonical duration rendering. The day count is the
// leading integer before the first space; the part after ", " is an
// HH:MM:SS clock. A value without ", " is read as a bare clock.
func ParseSpan(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	days := 0
	clockPart := s
	if head, rest, found := strings.Cut(s, ", "); found {
		numStr, _, ok := strings.Cut(head, " ")
		if !ok {
			return 0, spanError(s)
		}
		n, err := strconv.Atoi(numStr)
		if err != nil || n < 0 {
			return 0, spanError(s)
		}
		days = n
		clockPart = rest
	}
	clock, err := parseClock(clockPart)
	if err != nil {
		return 0, spanError(s)
	}
	return NewDuration(days, clock), nil
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock must be HH:MM:SS")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("bad hours %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minutes %q", parts[1])
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("bad seconds %q", parts[2])
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

func spanError(s string) error {
	return fmt.Errorf("duration must be like \"5 days, 01:30:00\": %q", s)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSpan(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
