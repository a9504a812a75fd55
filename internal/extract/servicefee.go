package extract

import (
	"errors"
	"fmt"

	"github.com/danuarta/opex-ingest/internal/freetext"
	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/normalize"
	"github.com/danuarta/opex-ingest/internal/record"
)

// serviceFeeExtractor handles travel-agent booking exports. The sheet name
// suffix decides the category (lodging or transport), booking IDs are the
// natural keys, and the packed description cell is decomposed through the
// freetext cascades. An optional REFUND block yields refunded records.
type serviceFeeExtractor struct{}

func (serviceFeeExtractor) Domain() record.Domain { return record.DomainServiceFee }

func (serviceFeeExtractor) Extract(sheet Sheet, profile *layout.Profile, opts Options) ([]*record.Record, []RowError, error) {
	category, ok := layout.SheetCategory(sheet.Name)
	if !ok {
		return nil, nil, fmt.Errorf("sheet %q: no category suffix", sheet.Name)
	}

	headerIdx, err := layout.FindHeaderRow(sheet.Rows, profile.HeaderAnchor)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}
	cols, err := layout.MapColumns(sheet.Rows[headerIdx], profile.Fields)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	// The sheet name usually carries the billing period ("Januari 2024 - HL").
	var sheetPeriod string
	if m, y, ok := normalize.MonthYear(sheet.Name); ok {
		sheetPeriod = normalize.FormatPeriod(m, y, string(category))
	}

	end := layout.DataEnd(sheet.Rows, headerIdx+1)
	refundStart := len(sheet.Rows)
	if sec, err := layout.FindSection(sheet.Rows, profile.SummaryTitle); err == nil && sec.StartRow > headerIdx {
		refundStart = sec.StartRow
		if end > refundStart {
			end = refundStart
		}
	}

	var (
		recs    []*record.Record
		rowErrs []RowError
	)
	extractRows := func(from, to int, refund bool) {
		for i := from; i < to; i++ {
			row := sheet.Rows[i]
			bookingID := cols.Cell(row, layout.FieldBookingID)
			if bookingID == "" {
				continue
			}
			if !record.KeyStartsWithDigit(bookingID) {
				// Header repeats and stray labels land here; real booking
				// IDs always lead with a digit.
				continue
			}

			txnDate := normalize.Date(cols.Cell(row, layout.FieldDate))
			period := sheetPeriod
			if overridden(opts) {
				period = opts.PeriodOverride
			} else if period == "" {
				period = normalize.PeriodLabel(txnDate, "", string(category))
			}
			if period == "" {
				rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: i + 1, Err: errors.New("no period: sheet name, dates and override all empty")})
				continue
			}

			rec := &record.Record{
				Domain:          record.DomainServiceFee,
				Key:             bookingID,
				Period:          period,
				BookingID:       bookingID,
				Category:        category,
				TransactionDate: txnDate,
				Refund:          refund,
				Status:          parseStatus(cols.Cell(row, layout.FieldStatus)),
			}
			if refund {
				rec.Status = record.StatusRefunded
			}

			desc := cols.Cell(row, layout.FieldDescription)
			rec.Description = desc
			switch category {
			case record.CategoryLodging:
				info := freetext.Lodging(desc, "")
				rec.Venue = info.Venue
				rec.Detail = info.RoomClass
				rec.SubjectName = info.Person
			case record.CategoryTransport:
				info := freetext.Transport(desc)
				rec.Venue = info.Carrier
				rec.SubjectName = info.Person
				rec.Passengers = info.Passengers
				rec.Destination = info.Destination
				if info.Origin != "" && info.Destination != "" {
					rec.Detail = info.Origin + "-" + info.Destination
					if info.TripType != "" {
						rec.Detail += " " + info.TripType
					}
				}
			}

			rec.SetAmount(normalize.Amount(cols.Cell(row, layout.FieldAmount)), opts.FeeRate, opts.TaxRate)
			if err := rec.Validate(); err != nil {
				rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: i + 1, Err: err})
				continue
			}
			recs = append(recs, rec)
		}
	}

	extractRows(headerIdx+1, end, false)
	if !opts.SkipSummaryRows && refundStart < len(sheet.Rows) {
		refundEnd := layout.DataEnd(sheet.Rows, refundStart+1)
		extractRows(refundStart+1, refundEnd, true)
	}
	return recs, rowErrs, nil
}
