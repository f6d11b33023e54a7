package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	jobsLimit int
	jobsJSON  bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Show recent ingestion runs",
	Args:  cobra.NoArgs,
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 20, "maximum number of runs (0 for all)")
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	jobs, err := ingestService.History(cmd.Context(), jobsLimit)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if jobsJSON {
		return printJSON(cmd, jobs)
	}
	if len(jobs) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}

	for _, j := range jobs {
		state := "ok"
		if !j.Succeeded() {
			state = "FAILED"
		}
		cmd.Printf("%s  %-6s %s -> %s (%s)\n", j.StartedAt.Local().Format(time.DateTime), state,
			j.Document, j.Collection, j.Mode)
		cmd.Printf("    %d articles: %d insert, %d update, %d skip, %d failed in %s\n",
			j.Units, j.Inserted, j.Updated, j.Skipped, j.Failed, j.Duration().Round(time.Millisecond))
		if j.Error != "" {
			cmd.Printf("    error: %s\n", j.Error)
		}
	}
	return nil
}
