package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danuarta/opex-ingest/internal/emit"
	"github.com/danuarta/opex-ingest/internal/record"
)

// Canonical reads a sheet whose first row is the canonical column set, i.e. a
// file this tool previously emitted. Derived fee and tax columns are ignored
// and recomputed; stored derivations are never trusted on re-import.
func Canonical(sheet Sheet, domain record.Domain, opts Options) ([]*record.Record, []RowError, error) {
	header := emit.Header(domain)
	if len(sheet.Rows) == 0 || !headerMatches(sheet.Rows[0], header) {
		return nil, nil, fmt.Errorf("sheet %q: first row is not the canonical %s header", sheet.Name, domain)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	get := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		recs    []*record.Record
		rowErrs []RowError
	)
	for n, row := range sheet.Rows[1:] {
		rowNum := n + 2
		amount, err := strconv.ParseInt(get(row, "Amount"), 10, 64)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: rowNum, Err: fmt.Errorf("bad amount: %w", err)})
			continue
		}

		rec := &record.Record{
			Domain: domain,
			Period: get(row, "PeriodLabel"),
			Status: record.Status(strings.ToLower(get(row, "Status"))),
		}

		switch domain {
		case record.DomainInstallment:
			rec.SubjectID = get(row, "EmployeeId")
			rec.SubjectName = get(row, "EmployeeName")
			rec.PaymentDate = get(row, "PaymentDate")
			rec.Key = record.SubjectKey(rec.SubjectID, rec.Period)
		case record.DomainCard:
			rec.SubjectID = get(row, "CardholderId")
			rec.SubjectName = get(row, "CardholderName")
			rec.TransactionDate = get(row, "TransactionDate")
			rec.Bank = get(row, "Bank")
			rec.Reference = get(row, "Reference")
			rec.Description = get(row, "Description")
			// Same key shape the raw extractor builds, so a re-imported
			// file matches the rows already stored from the raw one.
			rec.Key = record.SubjectKey(rec.SubjectID, rec.Period)
			if rec.Reference != "" {
				rec.Key += "/" + rec.Reference
			} else if rec.TransactionDate != "" {
				rec.Key += "/" + rec.TransactionDate
			}
		case record.DomainServiceFee:
			rec.Key = get(row, "ExternalId")
			rec.BookingID = rec.Key
			rec.TransactionDate = get(row, "TransactionTime")
			rec.Venue = get(row, "VenueName")
			rec.Detail = get(row, "RoomOrRouteInfo")
			rec.SubjectName = get(row, "PersonName")
			rec.Refund = rec.Status == record.StatusRefunded
			if strings.HasSuffix(rec.Period, "-lodging") {
				rec.Category = record.CategoryLodging
			} else if strings.HasSuffix(rec.Period, "-transport") {
				rec.Category = record.CategoryTransport
			}
		case record.DomainAllowance:
			rec.SubjectID = get(row, "EmployeeId")
			rec.SubjectName = get(row, "EmployeeName")
			rec.Destination = get(row, "Destination")
			rec.TransactionDate = get(row, "DepartureDate")
			rec.Key = record.SubjectKey(rec.SubjectID, rec.Period)
		}

		if rec.Key == "" || rec.Key == "/" || strings.HasPrefix(rec.Key, "/") {
			continue
		}
		rec.SetAmount(amount, opts.FeeRate, opts.TaxRate)
		recs = append(recs, rec)
	}
	return recs, rowErrs, nil
}

func headerMatches(row, header []string) bool {
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
