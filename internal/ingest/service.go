// Package ingest orchestrates one full ingestion run: open the workbook,
// classify its layout, extract canonical records, reconcile them against
// storage inside a single transaction, and emit the normalized CSV.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danuarta/opex-ingest/internal/emit"
	"github.com/danuarta/opex-ingest/internal/extract"
	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/internal/reconcile"
	"github.com/danuarta/opex-ingest/internal/record"
	"github.com/danuarta/opex-ingest/internal/repository"
	"github.com/danuarta/opex-ingest/internal/workbook"
	"github.com/danuarta/opex-ingest/pkg/observability"
)

// Storage is the persistence surface a run needs: a transactional record
// store plus the run audit trail.
type Storage interface {
	WithinTx(ctx context.Context, fn func(repository.Store) error) error
	repository.Runs
}

// Service runs ingestions.
type Service struct {
	store    Storage
	profiles *layout.Profiles
	logger   *slog.Logger
}

// NewService wires an ingestion service.
func NewService(store Storage, profiles *layout.Profiles, logger *slog.Logger) *Service {
	return &Service{store: store, profiles: profiles, logger: logger}
}

// RunRequest describes one ingestion.
type RunRequest struct {
	Domain          record.Domain
	Path            string
	PeriodOverride  string
	UpdateExisting  bool
	SkipSummaryRows bool
	// DryRun reconciles inside a transaction that is always rolled back,
	// reporting what a real run would do without writing anything.
	DryRun   bool
	EmitPath string // "" disables CSV output
	FeeRate  decimal.Decimal
	TaxRate  decimal.Decimal
}

// RunResult is what one run did.
type RunResult struct {
	Layout    layout.Layout
	Records   int
	Outcome   reconcile.Result
	RowErrors []error
}

// errDryRun forces the transaction to roll back after a dry run counted its
// would-be writes.
var errDryRun = errors.New("dry run, rolling back")

// Run executes one ingestion end to end. Fatal errors (unknown layout, no
// usable sheet, storage failure) return an error and leave the record store
// untouched; row-level trouble lands in the result instead.
func (s *Service) Run(ctx context.Context, req RunRequest) (result *RunResult, err error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "ingest.run", string(req.Domain), req.Path)
	defer func() { observability.EndSpan(span, err) }()

	profile, err := s.profiles.Get(req.Domain)
	if err != nil {
		return nil, err
	}

	wb, err := workbook.Open(req.Path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	lay, err := layout.Detect(wb, profile, emit.Header(req.Domain))
	if err != nil {
		return nil, err
	}
	s.logger.Info("layout detected",
		"domain", req.Domain, "file", filepath.Base(req.Path), "layout", lay)

	recs, rowErrs, err := s.extractAll(wb, lay, profile, req)
	if err != nil {
		return nil, err
	}
	observability.RowsExtracted.WithLabelValues(string(req.Domain)).Add(float64(len(recs)))

	run := &repository.ImportRun{
		Domain:   req.Domain,
		FileName: filepath.Base(req.Path),
		Status:   repository.RunRunning,
	}
	if !req.DryRun {
		if err = s.store.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	var outcome reconcile.Result
	err = s.store.WithinTx(ctx, func(st repository.Store) error {
		var rerr error
		outcome, rerr = reconcile.Reconcile(ctx, st, recs, reconcile.Options{UpdateExisting: req.UpdateExisting})
		if rerr != nil {
			return rerr
		}
		for period, t := range feeTotals(recs) {
			if uerr := st.UpsertPeriodFee(ctx, req.Domain, period, t.fee, t.tax); uerr != nil {
				return uerr
			}
		}
		if req.DryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		err = nil
	}
	if err != nil {
		s.finishRun(ctx, req, run, repository.RunFailed, outcome, rowErrs, err)
		observability.ObserveRun(string(req.Domain), repository.RunFailed, started)
		return nil, err
	}

	if req.EmitPath != "" {
		if err = emit.WriteFile(req.EmitPath, req.Domain, recs); err != nil {
			s.finishRun(ctx, req, run, repository.RunFailed, outcome, rowErrs, err)
			observability.ObserveRun(string(req.Domain), repository.RunFailed, started)
			return nil, err
		}
	}

	for outcomeName, n := range map[string]int{
		"created": outcome.Created,
		"updated": outcome.Updated,
		"skipped": outcome.Skipped,
		"error":   len(outcome.Errors) + len(rowErrs),
	} {
		observability.RecordsReconciled.WithLabelValues(string(req.Domain), outcomeName).Add(float64(n))
	}

	s.finishRun(ctx, req, run, repository.RunSucceeded, outcome, rowErrs, nil)
	observability.ObserveRun(string(req.Domain), repository.RunSucceeded, started)

	s.logger.Info("ingestion finished",
		"domain", req.Domain, "file", run.FileName, "records", len(recs),
		"summary", outcome.Summary(), "row_errors", len(rowErrs), "dry_run", req.DryRun)

	return &RunResult{
		Layout:    lay,
		Records:   len(recs),
		Outcome:   outcome,
		RowErrors: rowErrs,
	}, nil
}

// extractAll runs extraction over every sheet. A sheet-fatal error skips that
// sheet as long as at least one other sheet produced records; a workbook with
// nothing extractable fails the run.
func (s *Service) extractAll(wb *workbook.Workbook, lay layout.Layout, profile *layout.Profile, req RunRequest) ([]*record.Record, []error, error) {
	opts := extract.Options{
		PeriodOverride:  req.PeriodOverride,
		SkipSummaryRows: req.SkipSummaryRows,
		FeeRate:         req.FeeRate,
		TaxRate:         req.TaxRate,
	}

	var (
		all       []*record.Record
		rowErrs   []error
		sheetErrs []error
	)
	for _, name := range wb.SheetNames() {
		rows, err := wb.Rows(name)
		if err != nil {
			sheetErrs = append(sheetErrs, err)
			continue
		}
		sheet := extract.Sheet{Name: name, Rows: rows}

		var (
			recs []*record.Record
			errs []extract.RowError
		)
		if lay == layout.LayoutPreprocessed {
			recs, errs, err = extract.Canonical(sheet, req.Domain, opts)
		} else {
			var ex extract.Extractor
			ex, err = extract.For(req.Domain)
			if err != nil {
				return nil, nil, err
			}
			recs, errs, err = ex.Extract(sheet, profile, opts)
		}
		if err != nil {
			s.logger.Warn("sheet skipped", "sheet", name, "error", err)
			sheetErrs = append(sheetErrs, err)
			continue
		}

		all = append(all, recs...)
		for _, e := range errs {
			rowErrs = append(rowErrs, e)
		}
	}

	if len(all) == 0 && len(sheetErrs) > 0 {
		return nil, nil, fmt.Errorf("no sheet could be extracted: %w", sheetErrs[0])
	}
	rowErrs = append(rowErrs, sheetErrs...)
	return all, rowErrs, nil
}

func (s *Service) finishRun(ctx context.Context, req RunRequest, run *repository.ImportRun, status string, outcome reconcile.Result, rowErrs []error, cause error) {
	if req.DryRun {
		return
	}

	run.Status = status
	run.Created = outcome.Created
	run.Updated = outcome.Updated
	run.Skipped = outcome.Skipped
	run.Failed = len(outcome.Errors) + len(rowErrs)
	if cause != nil {
		msg := cause.Error()
		run.ErrorMessage = &msg
	}
	if err := s.store.FinishRun(ctx, run); err != nil {
		s.logger.Error("failed to record run outcome", "run_id", run.ID, "error", err)
	}
}

type totals struct {
	fee int64
	tax int64
}

// feeTotals sums the derived fees and taxes per period bucket.
func feeTotals(recs []*record.Record) map[string]totals {
	out := make(map[string]totals)
	for _, rec := range recs {
		t := out[rec.Period]
		t.fee += rec.Fee
		t.tax += rec.Tax
		out[rec.Period] = t
	}
	return out
}
