package devices

import (
	"errors"
	"fmt"
	"time"
)

// TimeOfDay represents a clock time without a date, e.g. "21:30:00".
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses a "15:04:05" string.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04:05", value)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("devices: parse time of day %q: %w", value, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute(), Second: parsed.Second()}, nil
}

// TimeOfDayOf extracts the clock time from an instant.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Validate checks the value is a well-formed clock time.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return errors.New("devices: time of day out of range")
	}
	return nil
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Seconds() < other.Seconds()
}

// Equal reports whether t and other are the same clock time.
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Seconds() == other.Seconds()
}

// Hours returns the clock time as fractional hours since midnight.
func (t TimeOfDay) Hours() float64 {
	return float64(t.Seconds()) / 3600
}

// String renders the time as "15:04:05".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
