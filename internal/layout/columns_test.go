package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danuarta/opex-ingest/internal/record"
)

func TestMapColumns(t *testing.T) {
	fields := []Field{
		{Name: FieldBookingID, Synonyms: []string{"ORDER ID", "BOOKING ID"}, Required: true},
		{Name: FieldAmount, Synonyms: []string{"NOMINAL", "AMOUNT"}, Required: true},
		{Name: FieldStatus, Synonyms: []string{"STATUS"}},
	}

	header := []string{"No", "Order ID", "Keterangan", "Nominal (Rp)"}
	m, err := MapColumns(header, fields)
	if err != nil {
		t.Fatalf("MapColumns failed: %v", err)
	}
	if m.Col(FieldBookingID) != 1 {
		t.Errorf("booking id column = %d, want 1", m.Col(FieldBookingID))
	}
	// "Nominal (Rp)" resolves by substring containment.
	if m.Col(FieldAmount) != 3 {
		t.Errorf("amount column = %d, want 3", m.Col(FieldAmount))
	}
	// Optional field absent: unresolved, not an error.
	if m.Col(FieldStatus) != -1 {
		t.Errorf("status column = %d, want -1", m.Col(FieldStatus))
	}
}

func TestMapColumns_ExactBeatsContainment(t *testing.T) {
	fields := []Field{
		{Name: FieldAmount, Synonyms: []string{"NOMINAL"}, Required: true},
	}
	header := []string{"Nominal Refund", "Nominal"}
	m, err := MapColumns(header, fields)
	if err != nil {
		t.Fatalf("MapColumns failed: %v", err)
	}
	if m.Col(FieldAmount) != 1 {
		t.Errorf("exact match must win over containment, got column %d", m.Col(FieldAmount))
	}
}

func TestMapColumns_MissingRequired(t *testing.T) {
	fields := []Field{
		{Name: FieldBookingID, Synonyms: []string{"ORDER ID"}, Required: true},
	}
	_, err := MapColumns([]string{"No", "Keterangan"}, fields)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestColumnMap_Cell(t *testing.T) {
	m := ColumnMap{FieldAmount: 2}
	if got := m.Cell([]string{"a", "b", " 500 "}, FieldAmount); got != "500" {
		t.Errorf("Cell = %q, want trimmed value", got)
	}
	if got := m.Cell([]string{"a"}, FieldAmount); got != "" {
		t.Errorf("short row should yield empty, got %q", got)
	}
	if got := m.Cell([]string{"a", "b", "c"}, FieldStatus); got != "" {
		t.Errorf("unresolved field should yield empty, got %q", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	content := "servicefee:\n  amount: [\"GRAND TOTAL BAYAR\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	profiles := DefaultProfiles()
	if err := profiles.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}

	profile, _ := profiles.Get(record.DomainServiceFee)
	m, err := MapColumns([]string{"Order ID", "Tanggal Transaksi", "Grand Total Bayar", "Keterangan"}, profile.Fields)
	if err != nil {
		t.Fatalf("MapColumns with override failed: %v", err)
	}
	if m.Col(FieldAmount) != 2 {
		t.Errorf("override synonym not applied, amount column = %d", m.Col(FieldAmount))
	}
}

func TestLoadOverrides_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("card:\n  nonsense: [\"X\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := DefaultProfiles().LoadOverrides(path); err == nil {
		t.Error("expected error for unknown field")
	}
}
