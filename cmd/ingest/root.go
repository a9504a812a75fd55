package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danuarta/opex-ingest/internal/layout"
	"github.com/danuarta/opex-ingest/pkg/config"
)

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "opex-ingest",
		Short: "Normalize and ingest office expense spreadsheets",
		Long: `opex-ingest reads heterogeneous office spreadsheet exports (salary
installments, corporate card statements, travel service fees, trip
allowances), normalizes them into canonical records, and reconciles them
idempotently against PostgreSQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newInspectCmd(logger))
	return root
}

// loadProfiles builds the layout profiles, merging the YAML synonym overrides
// from the flag or the environment when present.
func loadProfiles(cfg *config.Config, overridesFlag string) (*layout.Profiles, error) {
	profiles := layout.DefaultProfiles()

	path := overridesFlag
	if path == "" {
		path = cfg.Import.OverridesPath
	}
	if path != "" {
		if err := profiles.LoadOverrides(path); err != nil {
			return nil, fmt.Errorf("load profile overrides: %w", err)
		}
	}
	return profiles, nil
}
