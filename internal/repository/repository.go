// Package repository persists canonical records, per-period fee rollups and
// import run audit rows in PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danuarta/opex-ingest/internal/record"
)

// Run statuses as stored in import_runs.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// ImportRun is the audit row written around every ingestion.
type ImportRun struct {
	ID           uuid.UUID
	Domain       record.Domain
	FileName     string
	Status       string
	Created      int
	Updated      int
	Skipped      int
	Failed       int
	ErrorMessage *string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Store is the persistence surface one ingestion run works against. Lookups
// return (nil, nil) when nothing matches.
type Store interface {
	FindByKey(ctx context.Context, domain record.Domain, key string) (*record.Record, error)
	Create(ctx context.Context, rec *record.Record) error
	Update(ctx context.Context, rec *record.Record) error
	UpsertPeriodFee(ctx context.Context, domain record.Domain, period string, feeTotal, taxTotal int64) error
}

// Runs records the audit trail. It lives outside the record transaction so a
// rolled-back run still leaves its failure row behind.
type Runs interface {
	CreateRun(ctx context.Context, run *ImportRun) error
	FinishRun(ctx context.Context, run *ImportRun) error
}
