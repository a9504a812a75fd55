// Package normalize handles regional money and date parsing.
// Office exports mix Indonesian-style separators (3.734.355), western-style
// separators (3,734,355) and plain numerics in the same column, so every
// value goes through the same decision cascade before storage.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	dotThousandsRe   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	commaThousandsRe = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	commaDecimalRe   = regexp.MustCompile(`^\d{1,3}(,\d{3})*\.\d{2}$`)
	nonDigitRe       = regexp.MustCompile(`[^\d]`)
)

// Amount converts a raw cell value into a non-negative integer amount in
// whole currency units. The cascade order matters: already-numeric values are
// cast directly, then dot-thousands, comma-thousands, and comma-thousands
// with a two-digit decimal tail are tried, then plain floats, and finally
// everything that is not a digit is stripped. Separator patterns must win
// over the float parse or a single-group value like "500.000" reads as 500
// instead of 500000. Empty or unparseable input yields zero.
func Amount(raw any) int64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		return abs64(int64(v))
	case int64:
		return abs64(v)
	case float64:
		return abs64(int64(math.Round(v)))
	case string:
		return amountFromString(v)
	default:
		return 0
	}
}

func amountFromString(raw string) int64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Plain integer, as excelize renders whole numeric cells.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return abs64(n)
	}

	switch {
	case dotThousandsRe.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case commaThousandsRe.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case commaDecimalRe.MatchString(s):
		// Two-decimal tail carries no whole units, drop it before the commas.
		s = s[:strings.LastIndex(s, ".")]
		s = strings.ReplaceAll(s, ",", "")
	default:
		// Float only after the separator patterns have had their chance,
		// otherwise "500.000" reads as five hundred.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return abs64(int64(math.Round(f)))
		}
		s = nonDigitRe.ReplaceAllString(s, "")
	}

	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return abs64(n)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
