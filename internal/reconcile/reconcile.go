// Package reconcile applies extracted records against previously stored ones.
// Re-running an import over the same workbook must not duplicate anything:
// each record is matched by its natural key and then created, updated, or
// skipped. Row-level validation failures are collected and reported; storage
// failures abort the run so the caller's transaction can roll everything back.
package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danuarta/opex-ingest/internal/record"
)

// Store is the persistence surface the reconciler needs. FindByKey returns
// (nil, nil) when no record with that key exists for the domain.
type Store interface {
	FindByKey(ctx context.Context, domain record.Domain, key string) (*record.Record, error)
	Create(ctx context.Context, rec *record.Record) error
	Update(ctx context.Context, rec *record.Record) error
}

// Options tune one reconciliation pass.
type Options struct {
	// UpdateExisting overwrites every stored record matched by key, even
	// when nothing changed. When false, anything already stored is skipped.
	UpdateExisting bool
}

// Result counts what happened to each incoming record. Errors holds the
// row-local rejections that did not stop the run.
type Result struct {
	Created int
	Updated int
	Skipped int
	Errors  []error
}

// Summary renders the counts the way run logs and CLI output report them,
// followed by up to the first five row-level errors.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "created %d, updated %d, skipped %d, errors %d",
		r.Created, r.Updated, r.Skipped, len(r.Errors))
	for i, err := range r.Errors {
		if i == 5 {
			fmt.Fprintf(&b, "\n  ... and %d more", len(r.Errors)-i)
			break
		}
		fmt.Fprintf(&b, "\n  %s", err)
	}
	return b.String()
}

// Reconcile applies records in order. Validation failures are row-local and
// accumulate in the result; any store error is fatal and returns immediately
// so the surrounding transaction can roll back the partial run.
func Reconcile(ctx context.Context, store Store, recs []*record.Record, opts Options) (Result, error) {
	var res Result
	seen := make(map[string]int, len(recs))

	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("record %s/%s: %w", rec.Domain, rec.Key, err))
			continue
		}

		// A refund legitimately reuses its booking's key within the same
		// run; disambiguate it instead of colliding.
		base := rec.Key
		n := seen[base]
		seen[base] = n + 1
		if n > 0 && rec.Refund {
			rec.Key = base + "-" + strconv.Itoa(n)
		}

		existing, err := store.FindByKey(ctx, rec.Domain, rec.Key)
		if err != nil {
			return res, fmt.Errorf("find %s/%s: %w", rec.Domain, rec.Key, err)
		}

		switch {
		case existing == nil:
			if err := store.Create(ctx, rec); err != nil {
				return res, fmt.Errorf("create %s/%s: %w", rec.Domain, rec.Key, err)
			}
			res.Created++
		case opts.UpdateExisting:
			if err := store.Update(ctx, rec); err != nil {
				return res, fmt.Errorf("update %s/%s: %w", rec.Domain, rec.Key, err)
			}
			res.Updated++
		default:
			res.Skipped++
		}
	}
	return res, nil
}
