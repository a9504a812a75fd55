package extract

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/danuarta/opex-ingest/internal/emit"
	"github.com/danuarta/opex-ingest/internal/record"
)

func TestCanonicalReimport(t *testing.T) {
	sheet := Sheet{
		Name: "normalized.csv",
		Rows: [][]string{
			emit.Header(record.DomainServiceFee),
			{"2024-01-29", "12345678", "paid", "Amaris Hotel", "Smart Queen", "ANDI FADLI", "1500000", "999", "999", "January 2024-lodging"},
		},
	}

	recs, rowErrs, err := Canonical(sheet, record.DomainServiceFee, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(rowErrs) != 0 || len(recs) != 1 {
		t.Fatalf("recs=%d rowErrs=%v", len(recs), rowErrs)
	}

	rec := recs[0]
	if rec.Key != "12345678" || rec.Category != record.CategoryLodging || rec.Venue != "Amaris Hotel" {
		t.Errorf("rec = %+v", rec)
	}
	// Stored derivations are never trusted; fee and tax come back recomputed.
	if rec.Fee != 15000 || rec.Tax != 1650 {
		t.Errorf("fee/tax = %d/%d, want recomputed 15000/1650", rec.Fee, rec.Tax)
	}
}

func TestCanonicalKeepsCardReferenceKey(t *testing.T) {
	raw := &record.Record{
		Domain:          record.DomainCard,
		Key:             "2001/January 2024/REF001",
		Period:          "January 2024",
		SubjectID:       "2001",
		SubjectName:     "DEWI LESTARI",
		Bank:            "BCA",
		Reference:       "REF001",
		TransactionDate: "2024-01-15",
		Status:          record.StatusPaid,
	}
	raw.SetAmount(250000, testOptions().FeeRate, testOptions().TaxRate)

	var buf bytes.Buffer
	if err := emit.Write(&buf, record.DomainCard, []*record.Record{raw}); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	recs, rowErrs, err := Canonical(Sheet{Name: "normalized.csv", Rows: rows}, record.DomainCard, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(rowErrs) != 0 || len(recs) != 1 {
		t.Fatalf("recs=%d rowErrs=%v", len(recs), rowErrs)
	}
	// The re-imported row must land on the same key as the raw import or a
	// second run would duplicate it under a date-based key.
	if recs[0].Key != raw.Key {
		t.Errorf("key = %q, want %q", recs[0].Key, raw.Key)
	}
	if recs[0].Reference != "REF001" {
		t.Errorf("reference = %q, want REF001", recs[0].Reference)
	}
}

func TestCanonicalRejectsWrongHeader(t *testing.T) {
	sheet := Sheet{Name: "x.csv", Rows: [][]string{{"foo", "bar"}}}
	if _, _, err := Canonical(sheet, record.DomainCard, testOptions()); err == nil {
		t.Fatal("expected an error for a non-canonical header")
	}
}

func TestCanonicalBadAmountIsRowLocal(t *testing.T) {
	sheet := Sheet{
		Name: "normalized.csv",
		Rows: [][]string{
			emit.Header(record.DomainAllowance),
			{"3001", "Joko Susilo", "Surabaya", "2024-02-12", "abc", "0", "0", "February 2024", "paid"},
			{"3002", "Sari Dewi", "Medan", "2024-02-14", "450000", "0", "0", "February 2024", "paid"},
		},
	}

	recs, rowErrs, err := Canonical(sheet, record.DomainAllowance, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || len(rowErrs) != 1 {
		t.Fatalf("recs=%d rowErrs=%d, want 1 and 1", len(recs), len(rowErrs))
	}
	if rowErrs[0].Row != 2 {
		t.Errorf("bad row reported as %d, want 2", rowErrs[0].Row)
	}
}
