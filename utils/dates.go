package utils

import (
	"math"
	"strconv"
	"time"

	"github.com/jinzhu/now"
)

// wallClock re-expresses t in UTC keeping its wall-clock reading, so that
// day arithmetic is not skewed by DST transitions.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// NightsBetween counts stay nights, rounding partial days up. Inverted ranges yield 0.
func NightsBetween(checkIn, checkOut time.Time) int {
	hours := wallClock(checkOut).Sub(wallClock(checkIn)).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

// StayBounds widens a stay to whole days for date-range comparisons.
func StayBounds(checkIn, checkOut time.Time) (time.Time, time.Time) {
	return now.With(checkIn).BeginningOfDay(), now.With(checkOut).EndOfDay()
}

// InvoiceNumber builds INV-{bookingId}-{YYYYMMDD} from the generation date.
func InvoiceNumber(bookingID uint, generated time.Time) string {
	return "INV-" + strconv.FormatUint(uint64(bookingID), 10) + "-" + generated.Format("20060102")
}

// ParseID parses a positive numeric route parameter.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
