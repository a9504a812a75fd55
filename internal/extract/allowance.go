package extract

import (
	"errors"
	"fmt"

	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/normalize"
	"github.com/danuarta/opex-ingest/internal/record"
)

// allowanceExtractor handles trip allowance (uang saku) sheets: one row per
// employee trip, keyed by employee and period.
type allowanceExtractor struct{}

func (allowanceExtractor) Domain() record.Domain { return record.DomainAllowance }

func (allowanceExtractor) Extract(sheet Sheet, profile *layout.Profile, opts Options) ([]*record.Record, []RowError, error) {
	headerIdx, err := layout.FindHeaderRow(sheet.Rows, profile.HeaderAnchor)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}
	cols, err := layout.MapColumns(sheet.Rows[headerIdx], profile.Fields)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
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

		departDate := normalize.Date(cols.Cell(row, layout.FieldDate))
		period := normalize.PeriodLabel(departDate, opts.PeriodOverride, "")
		if period == "" {
			rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: i + 1, Err: errors.New("no period: departure date unparseable and no override")})
			continue
		}

		rec := &record.Record{
			Domain:          record.DomainAllowance,
			Key:             record.SubjectKey(id, period),
			Period:          period,
			SubjectID:       id,
			SubjectName:     cols.Cell(row, layout.FieldSubjectName),
			Destination:     cols.Cell(row, layout.FieldDestination),
			Description:     cols.Cell(row, layout.FieldCategory),
			TransactionDate: departDate,
			Status:          parseStatus(cols.Cell(row, layout.FieldStatus)),
		}
		rec.SetAmount(amount, opts.FeeRate, opts.TaxRate)
		recs = append(recs, rec)
	}
	return recs, rowErrs, nil
}
