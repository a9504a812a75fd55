package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/normalize"
	"github.com/danuarta/opex-ingest/internal/record"
)

// installmentExtractor handles sectioned salary-deduction sheets: an ANGSURAN
// block with one value+date column pair per month, fanned out to one record
// per subject per positive month, plus an optional PELUNASAN settlement block.
type installmentExtractor struct{}

func (installmentExtractor) Domain() record.Domain { return record.DomainInstallment }

func (installmentExtractor) Extract(sheet Sheet, profile *layout.Profile, opts Options) ([]*record.Record, []RowError, error) {
	sec, err := layout.FindSection(sheet.Rows, profile.SectionTitle)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	headerIdx, err := layout.FindHeaderRow(sheet.Rows[sec.StartRow:], profile.HeaderAnchor)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}
	headerIdx += sec.StartRow

	cols, err := layout.MapColumns(sheet.Rows[headerIdx], profile.Fields)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	// Month groups usually sit on their own row under the header, but some
	// exports fold them into the header row itself.
	months := layout.MonthColumns(sheet.Rows[headerIdx])
	dataStart := headerIdx + 1
	if len(months) == 0 && headerIdx+1 < len(sheet.Rows) {
		if months = layout.MonthColumns(sheet.Rows[headerIdx+1]); len(months) > 0 {
			dataStart = headerIdx + 2
		}
	}
	if len(months) == 0 {
		return nil, nil, fmt.Errorf("sheet %q: no month columns near header row %d", sheet.Name, headerIdx+1)
	}

	year := monthRowYear(sheet, headerIdx)
	if year == 0 {
		return nil, nil, fmt.Errorf("sheet %q: cannot determine calendar year", sheet.Name)
	}

	var recs []*record.Record
	end := layout.DataEnd(sheet.Rows, dataStart)
	if end > sec.EndRow {
		end = sec.EndRow
	}
	for i := dataStart; i < end; i++ {
		row := sheet.Rows[i]
		id := cols.Cell(row, layout.FieldSubjectID)
		if !record.KeyStartsWithDigit(id) {
			continue
		}
		name := cols.Cell(row, layout.FieldSubjectName)

		for _, g := range months {
			amount := normalize.Amount(cellAt(row, g.ValueCol))
			if amount <= 0 {
				continue
			}
			payDate := normalize.Date(cellAt(row, g.DateCol))
			period := normalize.FormatPeriod(g.Month, year, "")

			rec := &record.Record{
				Domain:      record.DomainInstallment,
				Key:         record.SubjectKey(id, period),
				Period:      period,
				SubjectID:   id,
				SubjectName: name,
				PaymentDate: payDate,
				Status:      record.StatusUnpaid,
			}
			if payDate != "" {
				rec.Status = record.StatusPaid
			}
			rec.SetAmount(amount, opts.FeeRate, opts.TaxRate)
			recs = append(recs, rec)
		}
	}

	var rowErrs []RowError
	if !opts.SkipSummaryRows {
		more, errs := extractSettlements(sheet, profile, opts)
		recs = append(recs, more...)
		rowErrs = append(rowErrs, errs...)
	}
	return recs, rowErrs, nil
}

// monthRowYear looks for the calendar year on the month header rows first,
// then falls back to the sheet name.
func monthRowYear(sheet Sheet, headerIdx int) int {
	texts := []string{strings.Join(sheet.Rows[headerIdx], " ")}
	if headerIdx+1 < len(sheet.Rows) {
		texts = append(texts, strings.Join(sheet.Rows[headerIdx+1], " "))
	}
	texts = append(texts, sheet.Name)
	return yearIn(texts...)
}

// extractSettlements reads the PELUNASAN block. Early settlements are paid
// records keyed like the monthly fan-out, so a settlement supersedes that
// month's installment on reconciliation. A missing block is not an error.
func extractSettlements(sheet Sheet, profile *layout.Profile, opts Options) ([]*record.Record, []RowError) {
	sec, err := layout.FindSection(sheet.Rows, profile.SummaryTitle)
	if err != nil {
		return nil, nil
	}

	window := sheet.Rows[sec.StartRow:]
	headerIdx, err := layout.FindHeaderRow(window, profile.HeaderAnchor)
	if err != nil {
		return nil, []RowError{{Sheet: sheet.Name, Row: sec.StartRow + 1, Err: fmt.Errorf("settlement block: %w", err)}}
	}
	headerIdx += sec.StartRow

	cols, err := layout.MapColumns(sheet.Rows[headerIdx], profile.Fields)
	if err != nil {
		return nil, []RowError{{Sheet: sheet.Name, Row: headerIdx + 1, Err: fmt.Errorf("settlement block: %w", err)}}
	}

	var (
		recs    []*record.Record
		rowErrs []RowError
	)
	end := layout.DataEnd(sheet.Rows, headerIdx+1)
	for i := headerIdx + 1; i < end; i++ {
		row := sheet.Rows[i]
		id := cols.Cell(row, layout.FieldSubjectID)
		if !record.KeyStartsWithDigit(id) {
			continue
		}
		amount := normalize.Amount(cols.Cell(row, layout.FieldAmount))
		if amount <= 0 {
			continue
		}
		payDate := normalize.Date(cols.Cell(row, layout.FieldPaymentDate))
		period := normalize.PeriodLabel(payDate, "", "")
		if period == "" {
			rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: i + 1, Err: errors.New("settlement row has no parseable date")})
			continue
		}

		rec := &record.Record{
			Domain:      record.DomainInstallment,
			Key:         record.SubjectKey(id, period),
			Period:      period,
			SubjectID:   id,
			SubjectName: cols.Cell(row, layout.FieldSubjectName),
			PaymentDate: payDate,
			Status:      record.StatusPaid,
		}
		rec.SetAmount(amount, opts.FeeRate, opts.TaxRate)
		recs = append(recs, rec)
	}
	return recs, rowErrs
}
