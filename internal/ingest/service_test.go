package ingest

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/record"
	"github.com/danuarta/opex-ingest/internal/repository"
)

// fakeStorage backs a run with in-memory maps and transaction snapshots.
type fakeStorage struct {
	recs map[string]*record.Record
	fees map[string][2]int64
	runs []*repository.ImportRun
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		recs: make(map[string]*record.Record),
		fees: make(map[string][2]int64),
	}
}

func (f *fakeStorage) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	prevRecs := maps.Clone(f.recs)
	prevFees := maps.Clone(f.fees)
	if err := fn(&fakeTx{s: f}); err != nil {
		f.recs = prevRecs
		f.fees = prevFees
		return err
	}
	return nil
}

func (f *fakeStorage) CreateRun(_ context.Context, run *repository.ImportRun) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeStorage) FinishRun(_ context.Context, _ *repository.ImportRun) error {
	return nil
}

type fakeTx struct {
	s *fakeStorage
}

func (t *fakeTx) FindByKey(_ context.Context, domain record.Domain, key string) (*record.Record, error) {
	rec, ok := t.s.recs[string(domain)+"/"+key]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (t *fakeTx) Create(_ context.Context, rec *record.Record) error {
	clone := *rec
	t.s.recs[string(rec.Domain)+"/"+rec.Key] = &clone
	return nil
}

func (t *fakeTx) Update(_ context.Context, rec *record.Record) error {
	return t.Create(context.Background(), rec)
}

func (t *fakeTx) UpsertPeriodFee(_ context.Context, domain record.Domain, period string, feeTotal, taxTotal int64) error {
	t.s.fees[string(domain)+"/"+period] = [2]int64{feeTotal, taxTotal}
	return nil
}

func testService(store Storage) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, layout.DefaultProfiles(), logger)
}

func writeLodgingCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Januari 2024 - HL.csv")
	content := "ORDER ID,TANGGAL TRANSAKSI,DETAIL PESANAN,NOMINAL\n" +
		"12345678,29/01/2024,Amaris Hotel Smart Queen 2 ANDI FADLI,1.500.000\n" +
		"87654321,30/01/2024,Hotel Mulia Senayan Deluxe 1 King Bed BUDI SANTOSO,3.000.000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRequest(path string) RunRequest {
	return RunRequest{
		Domain:  record.DomainServiceFee,
		Path:    path,
		FeeRate: decimal.NewFromFloat(0.01),
		TaxRate: decimal.NewFromFloat(0.11),
	}
}

func TestRunLodgingEndToEnd(t *testing.T) {
	store := newFakeStorage()
	svc := testService(store)
	path := writeLodgingCSV(t)

	req := testRequest(path)
	req.EmitPath = filepath.Join(filepath.Dir(path), "out.csv")

	res, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Layout != layout.LayoutRaw {
		t.Errorf("layout = %s, want raw", res.Layout)
	}
	if res.Outcome.Created != 2 || len(res.RowErrors) != 0 {
		t.Fatalf("outcome = %s, row errors = %v", res.Outcome.Summary(), res.RowErrors)
	}

	stored := store.recs["servicefee/12345678"]
	if stored == nil || stored.Venue != "Amaris Hotel" || stored.Fee != 15000 {
		t.Fatalf("stored = %+v", stored)
	}

	fees, ok := store.fees["servicefee/January 2024-lodging"]
	if !ok || fees[0] != 45000 || fees[1] != 4950 {
		t.Fatalf("period fees = %v, want [45000 4950]", fees)
	}

	if len(store.runs) != 1 {
		t.Fatalf("runs = %d, want 1 audit row", len(store.runs))
	}

	out, err := os.ReadFile(req.EmitPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("emitted CSV is empty")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := newFakeStorage()
	svc := testService(store)
	path := writeLodgingCSV(t)

	if _, err := svc.Run(context.Background(), testRequest(path)); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Run(context.Background(), testRequest(path))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Created != 0 || res.Outcome.Skipped != 2 {
		t.Fatalf("second run = %s, want everything skipped", res.Outcome.Summary())
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	store := newFakeStorage()
	svc := testService(store)
	path := writeLodgingCSV(t)

	req := testRequest(path)
	req.DryRun = true
	res, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Created != 2 {
		t.Fatalf("dry run outcome = %s, want the would-be creations counted", res.Outcome.Summary())
	}
	if len(store.recs) != 0 || len(store.fees) != 0 || len(store.runs) != 0 {
		t.Fatalf("dry run left writes behind: %d recs, %d fees, %d runs",
			len(store.recs), len(store.fees), len(store.runs))
	}
}

func TestRunUnknownLayoutFails(t *testing.T) {
	store := newFakeStorage()
	svc := testService(store)

	path := filepath.Join(t.TempDir(), "mystery.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := testRequest(path)
	req.Domain = record.DomainCard
	if _, err := svc.Run(context.Background(), req); err == nil {
		t.Fatal("expected unknown layout to fail the run")
	}
	if len(store.recs) != 0 {
		t.Fatal("nothing must be stored for an unrecognized workbook")
	}
}

func TestInspectReportsColumns(t *testing.T) {
	svc := testService(newFakeStorage())
	path := writeLodgingCSV(t)

	insp, err := svc.Inspect(context.Background(), record.DomainServiceFee, path)
	if err != nil {
		t.Fatal(err)
	}
	if insp.Layout != layout.LayoutRaw || len(insp.Sheets) != 1 {
		t.Fatalf("inspection = %+v", insp)
	}
	sheet := insp.Sheets[0]
	if sheet.HeaderRow != 1 || sheet.Columns[layout.FieldBookingID] != 0 {
		t.Fatalf("sheet = %+v", sheet)
	}
}
