// Package cli provides the phapdien command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
	"github.com/custodia-labs/phapdien/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Services wired by main. Commands report "not configured" when nil.
var (
	ingestService   driving.IngestService
	unitService     driving.UnitService
	settingsService driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "phapdien",
	Short: "Ingest Vietnamese legal documents into a searchable unit store",
	Long: `phapdien reads legal PDFs, splits them into articles ("Điều N."),
normalises the text and reconciles each article against what is already
stored: new articles are inserted, changed ones updated, unchanged ones skipped.

Scanned PDFs are rendered and run through Tesseract OCR.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs and step timings")
}

// SetIngestService sets the ingestion service.
func SetIngestService(s driving.IngestService) {
	ingestService = s
}

// SetUnitService sets the unit lookup service.
func SetUnitService(s driving.UnitService) {
	unitService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx stops long-running commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
