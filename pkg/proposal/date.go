package proposal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Year bounds for normalized proposals. Years outside this window are
// treated as data errors (usually a serial/year confusion in the source)
// and the row is rejected rather than silently kept.
const (
	MinYear = 1900
	MaxYear = 2100
)

// serialEpoch is day zero of the spreadsheet serial date system. Serial 1
// is 1899-12-31; the off-by-two relative to 1900-01-01 compensates for the
// historical lotus leap-year quirk that spreadsheet tools still emulate.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial bounds accepted serial values. Anything larger cannot fall
// inside the supported year window and would risk duration overflow.
const maxSerial = 200000

var (
	reISODate = regexp.MustCompile(`^\s*(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	reUSDate  = regexp.MustCompile(`^\s*(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
	reYearTok = regexp.MustCompile(`\b(19|20)\d\d\b`)
)

// dateFormats is the fixed parse ladder for free-form date strings that the
// anchored ISO and US patterns did not claim.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// resolveDate resolves a submission year (and, when recoverable, a precise
// date) from a raw cell. Steps are tried in a fixed order and the first
// success wins:
//
//  1. native date cell
//  2. numeric cell interpreted as a spreadsheet day serial
//  3. ISO-style string (YYYY-MM-DD, dashes or slashes)
//  4. US-style string (MM-DD-YYYY, dashes or slashes)
//  5. the dateFormats parse ladder
//  6. first 4-digit token starting with 19 or 20 anywhere in the string
//
// Steps 4 and 6 recover a year only. Step 3 recovers a precise date when
// the month and day form a real calendar date, and degrades to year-only
// otherwise. ok is false when no step produced a year; the returned year is
// not range-checked here.
func resolveDate(c Cell) (year int, date time.Time, hasDate bool, ok bool) {
	switch c.Kind {
	case CellDate:
		return c.Date.Year(), c.Date, true, true

	case CellNumber:
		if math.IsNaN(c.Num) || math.Abs(c.Num) > maxSerial {
			return 0, time.Time{}, false, false
		}
		d := fromSerial(c.Num)
		return d.Year(), d, true, true

	case CellString:
		return resolveDateString(c.Str)

	default:
		return 0, time.Time{}, false, false
	}
}

func resolveDateString(s string) (year int, date time.Time, hasDate bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, time.Time{}, false, false
	}

	if m := reISODate.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if t, valid := calendarDate(y, mo, d); valid {
			return y, t, true, true
		}
		return y, time.Time{}, false, true
	}

	if m := reUSDate.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[3])
		return y, time.Time{}, false, true
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), t, true, true
		}
	}

	if tok := reYearTok.FindString(s); tok != "" {
		y, _ := strconv.Atoi(tok)
		return y, time.Time{}, false, true
	}

	return 0, time.Time{}, false, false
}

// fromSerial converts a spreadsheet day serial to a date. Fractional serials
// carry a time-of-day component.
func fromSerial(n float64) time.Time {
	return serialEpoch.Add(time.Duration(n * float64(24*time.Hour)))
}

// calendarDate builds a date and verifies the components were not rolled
// over (time.Date normalizes e.g. Feb 30 to Mar 2, which we must not accept
// as a precise date).
func calendarDate(y, mo, d int) (time.Time, bool) {
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
