package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrMalformedDuration is returned when a duration string does not match the
// HH:MM:SS or D.HH:MM:SS grammar. Aggregations fail fast on it instead of
// treating bad data as zero.
var ErrMalformedDuration = errors.New("malformed duration")

const minutesPerDay = 24 * 60

// ParseDurationMinutes converts an elapsed-time string into total minutes.
// Two forms are accepted: "HH:MM:SS" (hours may exceed 23) and "D.HH:MM:SS"
// with an explicit day count. Seconds contribute a fractional minute. An
// empty string parses to zero.
func ParseDurationMinutes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	segments := strings.Split(s, ":")
	if len(segments) != 3 {
		return 0, pkgerrors.Wrapf(ErrMalformedDuration, "expected HH:MM:SS or D.HH:MM:SS, got %q", s)
	}

	var days int64
	hourSegment := segments[0]
	if dot := strings.Index(hourSegment, "."); dot >= 0 {
		parsedDays, err := strconv.ParseInt(hourSegment[:dot], 10, 64)
		if err != nil || parsedDays < 0 {
			return 0, pkgerrors.Wrapf(ErrMalformedDuration, "bad day count in %q", s)
		}
		days = parsedDays
		hourSegment = hourSegment[dot+1:]
	}

	hours, err := strconv.ParseInt(hourSegment, 10, 64)
	if err != nil || hours < 0 {
		return 0, pkgerrors.Wrapf(ErrMalformedDuration, "bad hours in %q", s)
	}
	minutes, err := strconv.ParseInt(segments[1], 10, 64)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, pkgerrors.Wrapf(ErrMalformedDuration, "bad minutes in %q", s)
	}
	seconds, err := strconv.ParseFloat(segments[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, pkgerrors.Wrapf(ErrMalformedDuration, "bad seconds in %q", s)
	}

	total := float64(days)*minutesPerDay + float64(hours)*60 + float64(minutes) + seconds/60
	return total, nil
}

// FormatDurationClock renders a minute count back into the persisted clock
// form: "HH:MM:SS", or "D.HH:MM:SS" once the value spans a full day.
// Negative input is clamped to zero.
func FormatDurationClock(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	totalSeconds := int64(math.Round(minutes * 60))

	days := totalSeconds / (minutesPerDay * 60)
	totalSeconds -= days * minutesPerDay * 60
	hours := totalSeconds / 3600
	totalSeconds -= hours * 3600
	mins := totalSeconds / 60
	secs := totalSeconds - mins*60

	if days > 0 {
		return fmt.Sprintf("%d.%02d:%02d:%02d", days, hours, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

// FormatDurationHuman renders a minute count as a compact display string such
// as "2d 4h 30m", "4h 30m" or "45m". The value is rounded to whole minutes
// for display only.
func FormatDurationHuman(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	total := int64(math.Round(minutes))

	days := total / minutesPerDay
	total -= days * minutesPerDay
	hours := total / 60
	mins := total - hours*60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
