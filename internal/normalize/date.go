package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical calendar date layout used throughout the engine.
const ISODate = "2006-01-02"

var (
	cjkDateRe    = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日$`)
	dmyDateRe    = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	serialRe     = regexp.MustCompile(`^\d{4,6}(\.0+)?$`)
	textMonthRe  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	serialEpoch  = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	serialOldest = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	serialNewest = time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Indonesian month names as they appear in office exports, full and
// abbreviated. Keys are lower case.
var monthNames = map[string]time.Month{
	"januari": time.January, "jan": time.January,
	"februari": time.February, "feb": time.February, "peb": time.February,
	"maret": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"agustus": time.August, "agu": time.August, "agt": time.August, "ags": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November, "nop": time.November,
	"desember": time.December, "des": time.December,
}

// Date normalizes a raw cell value into an ISO date string. Representations
// are tried in a fixed order: CJK (2024年1月29日), day-first numeric
// (29/01/2024), spreadsheet serial numbers, Indonesian month-name text
// (29 Januari 2024), and ISO pass-through. No match yields the empty string;
// an absent date is never coerced to a default.
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := cjkDateRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}

	if m := dmyDateRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}

	if serialRe.MatchString(s) {
		if iso := fromSerial(s); iso != "" {
			return iso
		}
	}

	if m := textMonthRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			return buildDate(m[3], strconv.Itoa(int(month)), m[1])
		}
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}

	return ""
}

// fromSerial interprets a numeric cell as an Excel serial date. The value is
// bounds-checked to a plausible range so that plain numbers which happen to
// be 4-6 digits long are not misread as dates.
func fromSerial(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ""
	}
	t := serialEpoch.AddDate(0, 0, n)
	if t.Before(serialOldest) || t.After(serialNewest) {
		return ""
	}
	return t.Format(ISODate)
}

func buildDate(year, month, day string) string {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return ""
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return ""
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject roll-over like 31 February.
	if t.Day() != d || t.Month() != time.Month(m) {
		return ""
	}
	return t.Format(ISODate)
}

// englishMonths accepts English month spellings next to the Indonesian ones
// when parsing "Month Year" labels out of sheet names.
var englishMonths = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var monthYearRe = regexp.MustCompile(`(?i)\b([A-Za-z]+)\s+(\d{4})\b`)

// MonthYear parses a "Month Year" phrase out of free text such as a sheet
// name ("Januari 2024 - HL").
func MonthYear(s string) (time.Month, int, bool) {
	m := monthYearRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	name := strings.ToLower(m[1])
	month, ok := monthNames[name]
	if !ok {
		month, ok = englishMonths[name]
	}
	if !ok {
		return 0, 0, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

// FormatPeriod renders the canonical "Month Year[-Category]" bucket label.
func FormatPeriod(month time.Month, year int, category string) string {
	label := fmt.Sprintf("%s %d", month.String(), year)
	if category != "" {
		label += "-" + category
	}
	return label
}

// PeriodLabel derives the "Month Year" grouping bucket from an ISO date,
// with an optional category suffix. An explicit non-"auto" override wins.
func PeriodLabel(isoDate, override, category string) string {
	if override != "" && !strings.EqualFold(override, "auto") {
		return override
	}
	if isoDate == "" {
		return ""
	}
	t, err := time.Parse(ISODate, isoDate)
	if err != nil {
		return ""
	}
	return FormatPeriod(t.Month(), t.Year(), category)
}
