package extract

import (
	"errors"
	"fmt"

	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/normalize"
	"github.com/danuarta/opex-ingest/internal/record"
)

// cardExtractor handles corporate card billing statements: one transaction
// per row under a TANGGAL TRANSAKSI header. The natural key is the cardholder
// and period plus the issuer reference when the statement carries one, or the
// transaction date when it does not.
type cardExtractor struct{}

func (cardExtractor) Domain() record.Domain { return record.DomainCard }

func (cardExtractor) Extract(sheet Sheet, profile *layout.Profile, opts Options) ([]*record.Record, []RowError, error) {
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
		if id == "" {
			continue
		}
		amount := normalize.Amount(cols.Cell(row, layout.FieldAmount))
		if amount <= 0 {
			continue
		}

		txnDate := normalize.Date(cols.Cell(row, layout.FieldDate))
		period := normalize.PeriodLabel(txnDate, opts.PeriodOverride, "")
		if period == "" {
			rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: i + 1, Err: errors.New("no period: transaction date unparseable and no override")})
			continue
		}

		ref := cols.Cell(row, layout.FieldReference)
		key := record.SubjectKey(id, period)
		if ref != "" {
			key += "/" + ref
		} else if txnDate != "" {
			key += "/" + txnDate
		}

		rec := &record.Record{
			Domain:          record.DomainCard,
			Key:             key,
			Period:          period,
			SubjectID:       id,
			SubjectName:     cols.Cell(row, layout.FieldSubjectName),
			Bank:            cols.Cell(row, layout.FieldBank),
			Reference:       ref,
			Description:     cols.Cell(row, layout.FieldDescription),
			TransactionDate: txnDate,
			Status:          parseStatus(cols.Cell(row, layout.FieldStatus)),
		}
		rec.SetAmount(amount, opts.FeeRate, opts.TaxRate)
		recs = append(recs, rec)
	}
	return recs, rowErrs, nil
}
