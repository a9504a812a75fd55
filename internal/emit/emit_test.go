package emit

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/danuarta/opex-ingest/internal/record"
)

func TestWriteServiceFee(t *testing.T) {
	recs := []*record.Record{
		{
			Domain:          record.DomainServiceFee,
			Key:             "12345678",
			Period:          "January 2024-lodging",
			Venue:           "Amaris Hotel",
			Detail:          "Smart Queen",
			SubjectName:     "ANDI FADLI",
			TransactionDate: "2024-01-29",
			Amount:          1500000,
			Fee:             15000,
			Tax:             1650,
			Status:          record.StatusPaid,
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, record.DomainServiceFee, recs); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one record", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "TransactionTime,ExternalId,Status,VenueName,RoomOrRouteInfo,PersonName,Amount,Fee,Tax,PeriodLabel" {
		t.Errorf("header = %s", got)
	}
	want := []string{"2024-01-29", "12345678", "paid", "Amaris Hotel", "Smart Queen", "ANDI FADLI", "1500000", "15000", "1650", "January 2024-lodging"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("column %d = %q, want %q", i, rows[1][i], cell)
		}
	}
}

func TestWriteRejectsForeignDomainRecords(t *testing.T) {
	recs := []*record.Record{{Domain: record.DomainCard, Key: "x"}}
	var buf bytes.Buffer
	if err := Write(&buf, record.DomainAllowance, recs); err == nil {
		t.Fatal("expected an error for a record from another domain")
	}
}

func TestHeaderCoversEveryDomain(t *testing.T) {
	for _, d := range record.Domains {
		if len(Header(d)) == 0 {
			t.Errorf("domain %s has no canonical columns", d)
		}
	}
}
