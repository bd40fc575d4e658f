// internal/dates/dates.go
// Package dates normalizes the three date shapes the system meets:
// sheet display strings (dd/mm/yyyy), canonical storage (yyyy-mm-dd)
// and Excel cell values (serial numbers or local-midnight times).
// All conversions go through UTC components only; reading the
// platform-local calendar shifts dates near midnight by one day.
package dates

import (
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const canonicalLayout = "2006-01-02"

var (
	dayFirstRe  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// excelEpoch is the base of Excel's serial date numbering.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// fallbackLayouts are tried, in order, for strings that are neither
// day-first nor canonical.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	time.RFC1123,
}

// ToCanonical converts any supported date value to yyyy-mm-dd.
// Accepted inputs: day-first strings (dd/mm/yyyy or dd-mm-yyyy),
// canonical strings, common timestamp strings, time.Time values
// (treated as local-midnight calendar dates) and Excel serial numbers
// (float64/int). Unparseable input yields "" with a logged warning;
// the function never panics.
func ToCanonical(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case time.Time:
		return FromLocalMidnight(v)
	case float64:
		return serialToCanonical(v)
	case int:
		return serialToCanonical(float64(v))
	case string:
		return stringToCanonical(v)
	default:
		log.Warn().Interface("value", input).Msg("unsupported date value")
		return ""
	}
}

func stringToCanonical(s string) string {
	if s == "" {
		return ""
	}
	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// Reject overflowed values such as 32/13/2024.
		if t.Day() != day || int(t.Month()) != month || t.Year() != year {
			log.Warn().Str("value", s).Msg("unparseable day-first date")
			return ""
		}
		return t.Format(canonicalLayout)
	}
	if canonicalRe.MatchString(s) {
		if _, err := time.Parse(canonicalLayout, s); err != nil {
			log.Warn().Str("value", s).Msg("invalid canonical date")
			return ""
		}
		return s
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(canonicalLayout)
		}
	}
	log.Warn().Str("value", s).Msg("unparseable date value")
	return ""
}

func serialToCanonical(serial float64) string {
	if serial <= 0 {
		return ""
	}
	days := int(serial)
	frac := serial - float64(days)
	t := excelEpoch.AddDate(0, 0, days).
		Add(time.Duration(frac * 24 * float64(time.Hour)))
	return t.UTC().Format(canonicalLayout)
}

// FromLocalMidnight corrects a cell value that was constructed as
// midnight in the local timezone but means a plain calendar date.
// Subtracting the local offset re-anchors it at UTC midnight before
// the UTC components are read.
func FromLocalMidnight(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	_, offset := t.Zone()
	return t.Add(time.Duration(offset) * time.Second).UTC().Format(canonicalLayout)
}

// ToDisplay renders a canonical date as dd/mm/yyyy. Anything that is
// not exactly yyyy-mm-dd yields "".
func ToDisplay(canonical string) string {
	if !canonicalRe.MatchString(canonical) {
		return ""
	}
	return canonical[8:10] + "/" + canonical[5:7] + "/" + canonical[0:4]
}

// ParseCanonical returns the UTC time for a canonical date string.
// ok is false for anything else, which callers treat as the oldest
// possible date when ordering.
func ParseCanonical(canonical string) (time.Time, bool) {
	if !canonicalRe.MatchString(canonical) {
		return time.Time{}, false
	}
	t, err := time.Parse(canonicalLayout, canonical)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
