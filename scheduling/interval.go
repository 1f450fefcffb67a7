package scheduling

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval     = errors.New("invalid time interval")
	ErrNonPositiveDuration = errors.New("duration must be positive")
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// GapOK reports whether the pause between prevEnd and nextStart is at least
// minBreak.
func GapOK(prevEnd, nextStart time.Time, minBreak time.Duration) bool {
	return nextStart.Sub(prevEnd) >= minBreak
}

// OverlapSpan returns the intersection of two intervals. Only meaningful when
// Overlaps is true for the same arguments.
func OverlapSpan(aStart, aEnd, bStart, bEnd time.Time) (time.Time, time.Time) {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return start, end
}

// ValidateInterval rejects zero instants and empty or inverted ranges.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: zero instant", ErrInvalidInterval)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidInterval, end, start)
	}
	return nil
}
