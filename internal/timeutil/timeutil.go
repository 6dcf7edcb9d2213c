// Package timeutil provides the time-of-day arithmetic used to lay out a
// day's intervals.
package timeutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ayoisaiah/dayplan/internal/apperr"
)

const minutesInAnHour = 60

const (
	HoursInADay = 24
	// SlotMinutes is the granularity of every boundary.
	SlotMinutes = 5
	// MinutesInADay caps the total duration of a ledger.
	MinutesInADay = 1440
	// MinDuration is the floor applied to computed durations.
	MinDuration = SlotMinutes
)

const (
	Midnight Clock = 0
	// LastSlot is the last representable start of a 5-minute slot.
	LastSlot Clock = MinutesInADay - SlotMinutes
	// EndOfDay is the 24:00 sentinel. It is only valid as an end time.
	EndOfDay Clock = MinutesInADay
)

// DateFormat is the layout of ledger dates.
const DateFormat = "2006-01-02"

var (
	errInvalidClock = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "invalid time %q: expected HH:MM",
	}

	errClockRange = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "time %q is outside 00:00-24:00",
	}

	errClockAlignment = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "time %q is not aligned to a %d-minute boundary",
	}

	errInvalidStart = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "start time %s must be between 00:00 and 23:55",
	}

	errInvalidEnd = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "end time %s must be between 00:05 and 24:00",
	}
)

// Clock is a wall-clock time of day expressed in minutes since midnight.
type Clock int

// NewClock returns the clock value for hour:minute without validation.
func NewClock(hour, minute int) Clock {
	return Clock(hour*minutesInAnHour + minute)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// ParseClock parses an "HH:MM" string. The value must be aligned to
// SlotMinutes and fall within 00:00-24:00.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)

	h, m, ok := strings.Cut(s, ":")
	if !ok || len(m) != 2 || h == "" || len(h) > 2 || !isDigits(h) || !isDigits(m) {
		return 0, errInvalidClock.Fmt(s)
	}

	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, errInvalidClock.Fmt(s)
	}

	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, errInvalidClock.Fmt(s)
	}

	if hour < 0 || minute < 0 || minute >= minutesInAnHour {
		return 0, errClockRange.Fmt(s)
	}

	c := NewClock(hour, minute)
	if c > EndOfDay {
		return 0, errClockRange.Fmt(s)
	}

	if minute%SlotMinutes != 0 {
		return 0, errClockAlignment.Fmt(s, SlotMinutes)
	}

	return c, nil
}

// MustParseClock is like ParseClock but panics on error.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}

	return c
}

func (c Clock) Hour() int {
	return int(c) / minutesInAnHour
}

func (c Clock) Minute() int {
	return int(c) % minutesInAnHour
}

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) aligned() bool {
	return int(c)%SlotMinutes == 0
}

// ValidateStart checks that c can start an interval.
func (c Clock) ValidateStart() error {
	if c < Midnight || c > LastSlot || !c.aligned() {
		return errInvalidStart.Fmt(c)
	}

	return nil
}

// ValidateEnd checks that c can end an interval.
func (c Clock) ValidateEnd() error {
	if c <= Midnight || c > EndOfDay || !c.aligned() {
		return errInvalidEnd.Fmt(c)
	}

	return nil
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	v, err := ParseClock(s)
	if err != nil {
		return err
	}

	*c = v

	return nil
}

// Duration returns end-start in minutes. Negative or short results are
// clamped to MinDuration; intervals never wrap past midnight.
func Duration(start, end Clock) int {
	d := int(end - start)
	if d < MinDuration {
		return MinDuration
	}

	return d
}

// Compare returns -1, 0 or 1 depending on whether a is before, equal to, or
// after b.
func Compare(a, b Clock) int {
	switch {
	case a.Hour() < b.Hour():
		return -1
	case a.Hour() > b.Hour():
		return 1
	case a.Minute() < b.Minute():
		return -1
	case a.Minute() > b.Minute():
		return 1
	default:
		return 0
	}
}

// NextSlot returns the boundary SlotMinutes after c, clamped to LastSlot.
func NextSlot(c Clock) Clock {
	hour, minute := c.Hour(), c.Minute()+SlotMinutes

	if minute >= minutesInAnHour {
		hour++
		minute -= minutesInAnHour
	}

	next := NewClock(hour, minute)
	if next >= EndOfDay {
		return LastSlot
	}

	return next
}

// DateKey formats t as a ledger date.
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}
