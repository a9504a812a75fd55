package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/danuarta/opex-ingest/internal/ingest"
	"github.com/danuarta/opex-ingest/internal/record"
	"github.com/danuarta/opex-ingest/pkg/config"
)

func newInspectCmd(logger *slog.Logger) *cobra.Command {
	var (
		domainName string
		file       string
		overrides  string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how a spreadsheet would be read, without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := record.ParseDomain(domainName)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				// Inspection has no database, so a missing DATABASE_URL
				// must not block it.
				cfg = &config.Config{}
			}

			profiles, err := loadProfiles(cfg, overrides)
			if err != nil {
				return err
			}

			svc := ingest.NewService(nil, profiles, logger)
			insp, err := svc.Inspect(cmd.Context(), domain, file)
			if err != nil {
				return err
			}

			fmt.Printf("layout: %s\n", insp.Layout)
			for _, sheet := range insp.Sheets {
				if sheet.Problem != "" {
					fmt.Printf("sheet %q: %s\n", sheet.Name, sheet.Problem)
					continue
				}
				fmt.Printf("sheet %q: header at row %d\n", sheet.Name, sheet.HeaderRow)

				fields := make([]string, 0, len(sheet.Columns))
				for field := range sheet.Columns {
					fields = append(fields, field)
				}
				sort.Strings(fields)
				for _, field := range fields {
					col := sheet.Columns[field]
					if col < 0 {
						fmt.Printf("  %-14s (not found)\n", field)
						continue
					}
					fmt.Printf("  %-14s column %d\n", field, col+1)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&domainName, "domain", "", "ingestion domain: installment, card, servicefee or allowance")
	cmd.Flags().StringVar(&file, "file", "", "path to the .xlsx, .xlsm or .csv export")
	cmd.Flags().StringVar(&overrides, "overrides", "", "YAML file with extra header synonyms")
	cobra.CheckErr(cmd.MarkFlagRequired("domain"))
	cobra.CheckErr(cmd.MarkFlagRequired("file"))

	return cmd
}
