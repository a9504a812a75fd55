package workbook

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestOpenReader_CSV(t *testing.T) {
	data := "BOOKING ID,AMOUNT\n1023,500000\n1024,750000\n"

	wb, err := OpenReader(strings.NewReader(data), "bookings.csv")
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	sheets := wb.SheetNames()
	if len(sheets) != 1 || sheets[0] != "bookings" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := wb.Rows("bookings")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][0] != "1023" || rows[1][1] != "500000" {
		t.Errorf("unexpected data row: %v", rows[1])
	}
}

func TestOpenReader_CSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("A,B\n1,2\n")...)

	wb, err := OpenReader(bytes.NewReader(data), "b.csv")
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.Rows("b")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0][0] != "A" {
		t.Errorf("BOM not stripped: %q", rows[0][0])
	}
}

func TestOpenReader_LegacyEncoding(t *testing.T) {
	enc := charmap.Windows1252.NewEncoder()
	raw, err := enc.String("KETERANGAN,NAMA\nperjalanan,José\n")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	wb, err := OpenReader(strings.NewReader(raw), "legacy.csv")
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.Rows("legacy")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[1][1] != "José" {
		t.Errorf("legacy encoding not decoded: %q", rows[1][1])
	}
}

func TestOpenReader_RowsWindow(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("H\n")
	for i := 0; i < 50; i++ {
		sb.WriteString("x\n")
	}

	wb, err := OpenReader(strings.NewReader(sb.String()), "w.csv")
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer wb.Close()

	rows, err := wb.RowsWindow("w", 30)
	if err != nil {
		t.Fatalf("RowsWindow failed: %v", err)
	}
	if len(rows) != 30 {
		t.Errorf("expected 30 rows, got %d", len(rows))
	}
}

func TestOpenReader_Unsupported(t *testing.T) {
	if _, err := OpenReader(strings.NewReader(""), "file.pdf"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
