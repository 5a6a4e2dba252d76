// Package parseutil normalizes the messy text values found in county auction
// exports: currency with symbols and thousands separators, percentages,
// loosely formatted dates, decorated parcel numbers.
package parseutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeLabel lower-cases a header or county label, trims it and collapses
// inner whitespace runs to single spaces.
func NormalizeLabel(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, " ")
}

var currencyJunkRegex = regexp.MustCompile(`[$,\s]`)

// ParseCurrency parses a currency-decorated amount.
//
//	"$1,234.56"  -> 1234.56
//	"($500.00)"  -> -500  (accounting negative)
//
// The second return is false when the value holds no parseable number.
func ParseCurrency(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	negative := strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")")
	if negative {
		value = value[1 : len(value)-1]
	}

	cleaned := currencyJunkRegex.ReplaceAllString(value, "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	if cleaned == "" {
		return 0, false
	}

	result, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		result = -result
	}
	return result, true
}

// ParsePercent parses a percentage value. A value strictly between 0 and 1 is
// assumed to be a decimal fraction and scaled to a percentage, matching how
// county exports mix "18%" with "0.18".
func ParsePercent(value string) (float64, bool) {
	cleaned := strings.NewReplacer("%", "", " ", "", "\t", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0, false
	}
	result, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if result > 0 && result < 1 {
		result *= 100
	}
	return result, true
}

// CleanParcelID trims and upper-cases a parcel identifier, stripping any
// surrounding quotes. Separator style (hyphens, dots, prefixes) is preserved
// verbatim since it varies by jurisdiction.
func CleanParcelID(parcel string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(parcel))
	return strings.Trim(cleaned, `"'`)
}

// Date layouts split by year width: two-digit years need pivot adjustment so
// "46" reads as 1946 rather than 2046.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// twoDigitYearPivot: parsed years more than this many years in the future are
// pushed back a century.
const twoDigitYearPivot = 20

// ParseDate parses an auction date in any of the common county export
// formats. The result is truncated to the calendar day in UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Truncate(24 * time.Hour), true
		}
	}
	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if t.Year() > time.Now().Year()+twoDigitYearPivot {
			t = t.AddDate(-100, 0, 0)
		}
		return t.UTC().Truncate(24 * time.Hour), true
	}
	return time.Time{}, false
}
