// Package emit renders reconciled records as canonical CSV. The column set is
// fixed per domain and doubles as the signature by which an already
// normalized file is recognized on re-import.
package emit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/danuarta/opex-ingest/internal/record"
)

var headers = map[record.Domain][]string{
	record.DomainInstallment: {
		"EmployeeId", "EmployeeName", "PeriodLabel", "Amount", "Fee", "Tax", "PaymentDate", "Status",
	},
	record.DomainCard: {
		"CardholderId", "CardholderName", "TransactionDate", "Bank", "Reference", "Description", "Amount", "Fee", "Tax", "PeriodLabel", "Status",
	},
	record.DomainServiceFee: {
		"TransactionTime", "ExternalId", "Status", "VenueName", "RoomOrRouteInfo", "PersonName", "Amount", "Fee", "Tax", "PeriodLabel",
	},
	record.DomainAllowance: {
		"EmployeeId", "EmployeeName", "Destination", "DepartureDate", "Amount", "Fee", "Tax", "PeriodLabel", "Status",
	},
}

// Header returns the canonical column set for a domain.
func Header(domain record.Domain) []string {
	return headers[domain]
}

func row(rec *record.Record) []string {
	amount := strconv.FormatInt(rec.Amount, 10)
	fee := strconv.FormatInt(rec.Fee, 10)
	tax := strconv.FormatInt(rec.Tax, 10)

	switch rec.Domain {
	case record.DomainInstallment:
		return []string{rec.SubjectID, rec.SubjectName, rec.Period, amount, fee, tax, rec.PaymentDate, string(rec.Status)}
	case record.DomainCard:
		return []string{rec.SubjectID, rec.SubjectName, rec.TransactionDate, rec.Bank, rec.Reference, rec.Description, amount, fee, tax, rec.Period, string(rec.Status)}
	case record.DomainServiceFee:
		return []string{rec.TransactionDate, rec.Key, string(rec.Status), rec.Venue, rec.Detail, rec.SubjectName, amount, fee, tax, rec.Period}
	case record.DomainAllowance:
		return []string{rec.SubjectID, rec.SubjectName, rec.Destination, rec.TransactionDate, amount, fee, tax, rec.Period, string(rec.Status)}
	}
	return nil
}

// Write renders records for one domain, header first.
func Write(w io.Writer, domain record.Domain, recs []*record.Record) error {
	header := Header(domain)
	if header == nil {
		return fmt.Errorf("no canonical columns for domain %q", domain)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.Domain != domain {
			return fmt.Errorf("record %s belongs to domain %s, not %s", rec.Key, rec.Domain, domain)
		}
		if err := cw.Write(row(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile renders records to a file, creating or truncating it.
func WriteFile(path string, domain record.Domain, recs []*record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, domain, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
