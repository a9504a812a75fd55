package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrHeaderNotFound  = errors.New("header row not found")
	ErrSectionNotFound = errors.New("section not found")
)

const (
	// headerWindow bounds the scan for the column-header row.
	headerWindow = 30
	// labelLengthThreshold marks the end of a data region: a long
	// non-numeric first cell is a trailing label, not data.
	labelLengthThreshold = 20
)

// subtotalAnchors terminate a data region when hit in the first cell.
var subtotalAnchors = []string{"TOTAL", "SUB TOTAL", "SUBTOTAL", "JUMLAH", "GRAND TOTAL"}

// monthHeaderNames maps month spellings found in column headers to months.
// Both Indonesian and English appear in office exports.
var monthHeaderNames = map[string]time.Month{
	"JANUARI": time.January, "JANUARY": time.January, "JAN": time.January,
	"FEBRUARI": time.February, "FEBRUARY": time.February, "FEB": time.February,
	"MARET": time.March, "MARCH": time.March, "MAR": time.March,
	"APRIL": time.April, "APR": time.April,
	"MEI": time.May, "MAY": time.May,
	"JUNI": time.June, "JUNE": time.June, "JUN": time.June,
	"JULI": time.July, "JULY": time.July, "JUL": time.July,
	"AGUSTUS": time.August, "AUGUST": time.August, "AGU": time.August, "AUG": time.August,
	"SEPTEMBER": time.September, "SEP": time.September,
	"OKTOBER": time.October, "OCTOBER": time.October, "OKT": time.October, "OCT": time.October,
	"NOVEMBER": time.November, "NOV": time.November,
	"DESEMBER": time.December, "DECEMBER": time.December, "DES": time.December, "DEC": time.December,
}

// MonthGroup is one dynamically discovered value+date column pair.
type MonthGroup struct {
	Month    time.Month
	ValueCol int
	DateCol  int
}

// Section is a named block inside a sectioned sheet.
type Section struct {
	Title    string
	StartRow int // row index of the section anchor
	EndRow   int // exclusive end of the data region
}

// FindHeaderRow scans a bounded window for the row whose cells contain the
// anchor token, case-insensitive.
func FindHeaderRow(rows [][]string, anchor string) (int, error) {
	needle := strings.ToUpper(anchor)
	limit := len(rows)
	if limit > headerWindow {
		limit = headerWindow
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(strings.ToUpper(cell), needle) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: anchor %q", ErrHeaderNotFound, anchor)
}

// FindSection locates a named block by its title anchor and walks forward to
// the end of its data region.
func FindSection(rows [][]string, title string) (Section, error) {
	needle := strings.ToUpper(title)
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToUpper(cell), needle) {
				return Section{
					Title:    title,
					StartRow: i,
					EndRow:   DataEnd(rows, i+1),
				}, nil
			}
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, title)
}

// MonthColumns discovers the repeating month column groups on a header row:
// every recognized month name claims its own column as the value column and
// the adjacent column (+1) as the date column.
func MonthColumns(headerRow []string) []MonthGroup {
	var groups []MonthGroup
	for col, cell := range headerRow {
		token := strings.ToUpper(strings.TrimSpace(cell))
		if token == "" {
			continue
		}
		// Headers may carry a year suffix ("JANUARI 2024").
		token = strings.Fields(token)[0]
		month, ok := monthHeaderNames[token]
		if !ok {
			continue
		}
		groups = append(groups, MonthGroup{Month: month, ValueCol: col, DateCol: col + 1})
	}
	return groups
}

// DataEnd walks forward from start and returns the exclusive end of the data
// region: the first row whose leading cell is a subtotal anchor or a long
// non-numeric label. Runs of blank rows are tolerated.
func DataEnd(rows [][]string, start int) int {
	for i := start; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		first := strings.TrimSpace(rows[i][0])
		if first == "" {
			continue
		}
		upper := strings.ToUpper(first)
		for _, anchor := range subtotalAnchors {
			if strings.HasPrefix(upper, anchor) {
				return i
			}
		}
		if !isNumericCell(first) && len(first) > labelLengthThreshold {
			return i
		}
	}
	return len(rows)
}

func isNumericCell(s string) bool {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
