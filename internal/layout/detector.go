package layout

import (
	"errors"
	"strings"

	"github.com/danuarta/opex-ingest/internal/record"
)

// Layout classifies a workbook into one of the known export shapes.
type Layout string

const (
	LayoutRaw          Layout = "raw"          // vendor export, headers at arbitrary offsets
	LayoutPreprocessed Layout = "preprocessed" // already in the canonical column list
	LayoutSectioned    Layout = "sectioned"    // named sections with repeating month groups
	LayoutUnknown      Layout = "unknown"
)

// ErrUnknownLayout aborts the whole import before anything touches storage.
// No partial fallback guessing: an unrecognized workbook is a hard failure.
var ErrUnknownLayout = errors.New("workbook matches no known layout")

// detectWindow bounds how many leading rows are inspected per sheet.
const detectWindow = 30

// RowSource is the minimal workbook view the detector needs.
type RowSource interface {
	SheetNames() []string
	RowsWindow(sheet string, n int) ([][]string, error)
}

// Detect classifies a workbook for one domain by signature. Order:
// canonical-header preprocessed exports first (they are exact), then
// sheet-name suffix signatures, then in-sheet tokens for raw or sectioned
// vendor exports.
func Detect(src RowSource, profile *Profile, canonicalHeader []string) (Layout, error) {
	sheets := src.SheetNames()
	if len(sheets) == 0 {
		return LayoutUnknown, ErrUnknownLayout
	}

	if matchesCanonicalHeader(src, sheets, canonicalHeader) {
		return LayoutPreprocessed, nil
	}

	if len(profile.SheetSuffixes) > 0 && allSheetsSuffixed(sheets, profile.SheetSuffixes) {
		return LayoutRaw, nil
	}

	if profile.SectionTitle != "" && anySheetHasToken(src, sheets, profile.SectionTitle) {
		return LayoutSectioned, nil
	}

	for _, token := range profile.RawTokens {
		if anySheetHasToken(src, sheets, token) {
			return LayoutRaw, nil
		}
	}

	return LayoutUnknown, ErrUnknownLayout
}

func matchesCanonicalHeader(src RowSource, sheets []string, header []string) bool {
	if len(header) == 0 {
		return false
	}
	for _, sheet := range sheets {
		rows, err := src.RowsWindow(sheet, 1)
		if err != nil || len(rows) == 0 {
			continue
		}
		if headerEquals(rows[0], header) {
			return true
		}
	}
	return false
}

func headerEquals(row, header []string) bool {
	if len(row) < len(header) {
		return false
	}
	for i, want := range header {
		if !strings.EqualFold(strings.TrimSpace(row[i]), want) {
			return false
		}
	}
	return true
}

func allSheetsSuffixed(sheets, suffixes []string) bool {
	for _, sheet := range sheets {
		ok := false
		for _, suffix := range suffixes {
			if strings.HasSuffix(strings.ToUpper(sheet), strings.ToUpper(suffix)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func anySheetHasToken(src RowSource, sheets []string, token string) bool {
	needle := strings.ToUpper(token)
	for _, sheet := range sheets {
		rows, err := src.RowsWindow(sheet, detectWindow)
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, cell := range row {
				if strings.Contains(strings.ToUpper(cell), needle) {
					return true
				}
			}
		}
	}
	return false
}

// SheetCategory derives the service-fee booking category from the sheet-name
// suffix: " - HL" sheets hold lodging bookings, " - FL" sheets transport.
func SheetCategory(sheet string) (record.Category, bool) {
	upper := strings.ToUpper(sheet)
	switch {
	case strings.HasSuffix(upper, " - HL"):
		return record.CategoryLodging, true
	case strings.HasSuffix(upper, " - FL"):
		return record.CategoryTransport, true
	default:
		return "", false
	}
}
