package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/logger"
)

var (
	watchOpts     ingestOptions
	watchSettle   time.Duration
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest PDFs as they appear in a directory",
	Long: `Watches a directory and ingests every PDF written to it once the file
has stopped changing for --settle. Failures are reported and the watch
continues; they are listed again when the watch stops.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addIngestFlags(watchCmd, &watchOpts)
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 2*time.Second, "quiet period before a new file is ingested")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "ingest PDFs already in the directory first")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	w := &pdfWatcher{
		settle: watchSettle,
		handle: func(ctx context.Context, path string) error {
			req, err := watchOpts.request(path)
			if err != nil {
				return err
			}
			report, err := ingestService.Ingest(ctx, req)
			if report != nil {
				cmd.Printf("%s: %d insert, %d update, %d skip\n", report.Document,
					report.Count(domain.ActionInsert), report.Count(domain.ActionUpdate), report.Count(domain.ActionSkip))
			}
			return err
		},
	}

	if watchExisting {
		existing, err := listPDFs(dir)
		if err != nil {
			return err
		}
		for _, path := range existing {
			w.process(cmd.Context(), path)
		}
	}

	cmd.Printf("Watching %s for PDFs (Ctrl-C to stop)\n", dir)
	return w.Run(cmd.Context(), dir)
}

// pdfWatcher ingests PDFs once they have been quiet for settle.
type pdfWatcher struct {
	settle time.Duration
	handle func(ctx context.Context, path string) error

	failures []error
}

// Run blocks until ctx is cancelled. It returns the joined per-file
// failures, or nil when every file was ingested.
func (w *pdfWatcher) Run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	tick := w.settle / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return errors.Join(w.failures...)

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.Join(w.failures...)
			}
			if !isPDF(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.Join(w.failures...)
			}
			logger.Warn("watcher: %v", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.settle) {
				delete(pending, path)
				w.process(ctx, path)
			}
		}
	}
}

func (w *pdfWatcher) process(ctx context.Context, path string) {
	logger.Info("ingesting %s", path)
	if err := w.handle(ctx, path); err != nil {
		logger.Error("%s: %v", filepath.Base(path), err)
		w.failures = append(w.failures, fmt.Errorf("%s: %w", filepath.Base(path), err))
	}
}

// settled returns the pending paths quiet for at least settle, sorted.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isPDF(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
