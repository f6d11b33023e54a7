package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

// ingestOptions holds the flags shared by ingest and watch.
type ingestOptions struct {
	startPage  int
	endPage    int
	minWord    int
	mode       string
	collection string
}

var (
	ingestOpts   ingestOptions
	ingestJSON   bool
	ingestDryRun bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Ingest a legal PDF",
	Long: `Extracts the text of a PDF, splits it into articles, drops articles
shorter than --min-word words and reconciles the rest with the unit store.

Text-layer PDFs are read directly; scanned PDFs are rendered and OCR'd.
Use --mode to force either path. --start-page and --end-page restrict the
page range; both must be set, otherwise the whole document is read.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	addIngestFlags(ingestCmd, &ingestOpts)
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "plan decisions without writing to the store")
	rootCmd.AddCommand(ingestCmd)
}

func addIngestFlags(cmd *cobra.Command, opts *ingestOptions) {
	cmd.Flags().IntVar(&opts.startPage, "start-page", 0, "first page to read (1-indexed)")
	cmd.Flags().IntVar(&opts.endPage, "end-page", 0, "last page to read (inclusive)")
	cmd.Flags().IntVar(&opts.minWord, "min-word", 0, "minimum words per article (0 uses the configured value)")
	cmd.Flags().StringVar(&opts.mode, "mode", "auto", "acquisition mode: auto, digital or scanned")
	cmd.Flags().StringVarP(&opts.collection, "collection", "c", "", "target collection (default from settings)")
}

// request builds an ingestion request for the PDF at path.
func (o ingestOptions) request(path string) (driving.IngestRequest, error) {
	mode, err := domain.ParseAcquisitionMode(o.mode)
	if err != nil {
		return driving.IngestRequest{}, err
	}
	if o.minWord < 0 {
		return driving.IngestRequest{}, fmt.Errorf("%w: --min-word must not be negative", domain.ErrInvalidInput)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return driving.IngestRequest{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return driving.IngestRequest{
		Document: domain.SourceDocument{
			Name:    filepath.Base(path),
			Content: content,
			Window:  domain.PageWindowFromBounds(o.startPage, o.endPage),
			Hint:    mode,
		},
		Collection: o.collection,
		MinWord:    o.minWord,
	}, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	req, err := ingestOpts.request(args[0])
	if err != nil {
		return err
	}

	var report *domain.IngestReport
	if ingestDryRun {
		report, err = ingestService.Plan(cmd.Context(), req)
	} else {
		report, err = ingestService.Ingest(cmd.Context(), req)
	}

	if report != nil {
		if ingestJSON {
			if jsonErr := outputReportJSON(cmd, report); jsonErr != nil {
				return errors.Join(err, jsonErr)
			}
		} else {
			outputReport(cmd, report, ingestDryRun)
		}
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

// reportJSON adds error text, which UnitResult does not marshal.
type reportJSON struct {
	*domain.IngestReport
	Errors map[int]string `json:"errors,omitempty"`
}

func outputReportJSON(cmd *cobra.Command, report *domain.IngestReport) error {
	out := reportJSON{IngestReport: report}
	for _, r := range report.Results {
		if r.Err != nil {
			if out.Errors == nil {
				out.Errors = make(map[int]string)
			}
			out.Errors[r.LawNumber] = r.Err.Error()
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReport(cmd *cobra.Command, report *domain.IngestReport, dryRun bool) {
	cmd.Printf("Document:   %s (%s)\n", report.Document, report.Mode)
	cmd.Printf("Collection: %s\n", report.Collection)
	if report.JobID != "" {
		cmd.Printf("Job:        %s\n", report.JobID)
	}
	cmd.Printf("Articles:   %d kept\n", len(report.Units))

	if len(report.Decisions) == 0 {
		cmd.Println("No articles to reconcile.")
		return
	}

	cmd.Printf("Decisions:  %d insert, %d update, %d skip\n",
		report.Count(domain.ActionInsert), report.Count(domain.ActionUpdate), report.Count(domain.ActionSkip))
	cmd.Println()

	status := make(map[int]domain.UnitResult, len(report.Results))
	for _, r := range report.Results {
		status[r.LawNumber] = r
	}
	for _, d := range report.Decisions {
		line := fmt.Sprintf("  Điều %-4d %-7s", d.LawNumber, d.Action)
		if d.Action != domain.ActionInsert {
			line += fmt.Sprintf(" %.3f", d.Similarity)
		} else {
			line += "      "
		}
		if r, ok := status[d.LawNumber]; ok {
			line += "  " + string(r.Status)
			if r.Err != nil {
				line += ": " + r.Err.Error()
			}
		}
		cmd.Println(line)
	}

	if dryRun {
		cmd.Println()
		cmd.Println("Dry run: nothing was written.")
	} else if failed := report.Failed(); len(failed) > 0 {
		cmd.Println()
		cmd.Printf("%d article(s) not applied; re-run to retry them.\n", len(failed))
	}
}
