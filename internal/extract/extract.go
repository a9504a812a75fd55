// Package extract turns located worksheet regions into canonical records.
// Each domain gets its own extractor; all of them share the same contract:
// structural problems (no header, missing required columns) are sheet-fatal,
// while bad individual rows are skipped or reported without stopping the run.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/record"
)

// Options tune one extraction run. The rates feed the derived fee and tax
// fields on every record.
type Options struct {
	// PeriodOverride forces the grouping bucket. Empty or "auto" derives
	// it from sheet names or transaction dates instead.
	PeriodOverride string
	// SkipSummaryRows drops settlement and refund summary blocks entirely
	// instead of turning them into records.
	SkipSummaryRows bool
	FeeRate         decimal.Decimal
	TaxRate         decimal.Decimal
}

// Sheet is one worksheet already read out of a workbook.
type Sheet struct {
	Name string
	Rows [][]string
}

// RowError reports a row that was rejected without stopping the run. Row is
// 1-based, the way a spreadsheet user counts.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Extractor converts one sheet into canonical records. A returned error is
// sheet-fatal; the caller decides whether that aborts the whole run.
type Extractor interface {
	Domain() record.Domain
	Extract(sheet Sheet, profile *layout.Profile, opts Options) ([]*record.Record, []RowError, error)
}

// For returns the extractor implementing a domain.
func For(domain record.Domain) (Extractor, error) {
	switch domain {
	case record.DomainInstallment:
		return installmentExtractor{}, nil
	case record.DomainCard:
		return cardExtractor{}, nil
	case record.DomainServiceFee:
		return serviceFeeExtractor{}, nil
	case record.DomainAllowance:
		return allowanceExtractor{}, nil
	}
	return nil, fmt.Errorf("no extractor for domain %q", domain)
}

// statusWords maps explicit status cell values to the canonical vocabulary.
// Anything unrecognized is left empty and defaulted later by validation.
var statusWords = map[string]record.Status{
	"PAID":         record.StatusPaid,
	"LUNAS":        record.StatusPaid,
	"TERBAYAR":     record.StatusPaid,
	"BERHASIL":     record.StatusPaid,
	"SUCCESS":      record.StatusPaid,
	"UNPAID":       record.StatusUnpaid,
	"BELUM LUNAS":  record.StatusUnpaid,
	"BELUM BAYAR":  record.StatusUnpaid,
	"PENDING":      record.StatusUnpaid,
	"REFUND":       record.StatusRefunded,
	"REFUNDED":     record.StatusRefunded,
	"DIKEMBALIKAN": record.StatusRefunded,
}

func parseStatus(cell string) record.Status {
	return statusWords[strings.ToUpper(strings.TrimSpace(cell))]
}

var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

// yearIn pulls the first plausible calendar year out of the given texts.
func yearIn(texts ...string) int {
	for _, t := range texts {
		if m := yearRe.FindStringSubmatch(t); m != nil {
			y, _ := strconv.Atoi(m[1])
			return y
		}
	}
	return 0
}

// cellAt is a bounds-safe trimmed cell read for dynamically discovered
// columns that ColumnMap does not cover.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// overridden reports whether the period override is a real value rather than
// the auto sentinel.
func overridden(opts Options) bool {
	return opts.PeriodOverride != "" && !strings.EqualFold(opts.PeriodOverride, "auto")
}
