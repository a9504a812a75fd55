package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danuarta/opex-ingest/internal/ingest"
	"github.com/danuarta/opex-ingest/internal/record"
	"github.com/danuarta/opex-ingest/internal/repository"
	"github.com/danuarta/opex-ingest/pkg/config"
	"github.com/danuarta/opex-ingest/pkg/db"
	"github.com/danuarta/opex-ingest/pkg/observability"
)

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		domainName  string
		file        string
		period      string
		dryRun      bool
		update      bool
		skipSummary bool
		emitPath    string
		noEmit      bool
		overrides   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest one spreadsheet into the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			domain, err := record.ParseDomain(domainName)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			profiles, err := loadProfiles(cfg, overrides)
			if err != nil {
				return err
			}

			if cfg.Database.Migrate {
				if err := db.Migrate(cfg.Database); err != nil {
					return err
				}
			}
			pool, err := db.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if cfg.Telemetry.MetricsAddr != "" {
				go observability.ServeMetrics(cfg.Telemetry.MetricsAddr, logger)
			}

			svc := ingest.NewService(repository.NewPostgres(pool), profiles, logger)

			req := ingest.RunRequest{
				Domain:          domain,
				Path:            file,
				PeriodOverride:  period,
				UpdateExisting:  update || cfg.Import.UpdateExisting,
				SkipSummaryRows: skipSummary,
				DryRun:          dryRun,
				FeeRate:         cfg.Import.FeeRate(),
				TaxRate:         cfg.Import.TaxRate(),
			}
			if !noEmit {
				req.EmitPath = emitPath
				if req.EmitPath == "" {
					stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
					req.EmitPath = filepath.Join(cfg.Import.OutputDir, stem+"-normalized.csv")
				}
			}

			res, err := svc.Run(ctx, req)
			if err != nil {
				return err
			}

			fmt.Printf("layout: %s\nrecords: %d\n%s\n", res.Layout, res.Records, res.Outcome.Summary())
			for _, rowErr := range res.RowErrors {
				fmt.Printf("row error: %v\n", rowErr)
			}
			if dryRun {
				fmt.Println("dry run: nothing was written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&domainName, "domain", "", "ingestion domain: installment, card, servicefee or allowance")
	cmd.Flags().StringVar(&file, "file", "", "path to the .xlsx, .xlsm or .csv export")
	cmd.Flags().StringVar(&period, "period", "", `period bucket override, e.g. "January 2024" (empty or "auto" derives it)`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile and report without writing anything")
	cmd.Flags().BoolVar(&update, "update", false, "update stored records whose fields changed")
	cmd.Flags().BoolVar(&skipSummary, "skip-summary", false, "ignore settlement and refund summary blocks")
	cmd.Flags().StringVar(&emitPath, "emit", "", "canonical CSV output path (default: alongside the input)")
	cmd.Flags().BoolVar(&noEmit, "no-emit", false, "skip writing the canonical CSV")
	cmd.Flags().StringVar(&overrides, "overrides", "", "YAML file with extra header synonyms")
	cobra.CheckErr(cmd.MarkFlagRequired("domain"))
	cobra.CheckErr(cmd.MarkFlagRequired("file"))

	return cmd
}
