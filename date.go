package fatrecov

import (
	"time"
)

// ParseDate decodes a FAT date stamp:
//  Bits 0–4: day of month (1-31)
//  Bits 5–8: month of year (1-12)
//  Bits 9–15: years since 1980 (0-127)
// The result is midnight UTC. Day or month 0 is invalid and yields time.Time{},
// so IsZero can be used to detect it.
func ParseDate(input uint16) time.Time {
	day := input & 0x1F
	month := input & 0x1E0 >> 5
	year := input & 0xFE00 >> 9

	if day == 0 || month == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
}

// ParseTime decodes a FAT time stamp with a granularity of 2 seconds:
//  Bits 0–4: 2 second count (0-29)
//  Bits 5–10: minutes (0-59)
//  Bits 11–15: hours (0-23)
// The date part of the result is always January 1, year 1.
// Out of range values are capped at 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)
	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return result
}

// ModTime returns the last write time of a short entry or time.Time{} if the
// stored date is invalid. Deleted entries often carry garbage here.
func (h *EntryHeader) ModTime() time.Time {
	date := ParseDate(h.WriteDate)
	if date.IsZero() {
		return time.Time{}
	}
	clock := ParseTime(h.WriteTime)

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}
