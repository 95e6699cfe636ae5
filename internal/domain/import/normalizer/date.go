package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODateLayout is the canonical output layout for transaction dates.
const ISODateLayout = "2006-01-02"

// twoDigitYearPivot: two-digit years below the pivot are 20xx, the rest 19xx.
const twoDigitYearPivot = 51

var (
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})$`)
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[T ][0-9:.Z+\-]*)?$`)
)

// ParseDate parses MM/DD/YYYY, M/D/YYYY, MM/DD/YY and ISO YYYY-MM-DD dates.
// Everything else, including out-of-range months or days, is ErrInvalidDate.
// The result is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year = expandTwoDigitYear(year)
		}
		return civilDate(raw, year, month, day)
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return civilDate(raw, year, month, day)
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// FormatISO renders a date as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISODateLayout)
}

func expandTwoDigitYear(yy int) int {
	if yy < twoDigitYearPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

func civilDate(raw string, year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}
