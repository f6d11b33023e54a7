package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

// previewRunes bounds article text shown in tables.
const previewRunes = 80

var (
	unitsCollection string
	unitsJSON       bool
	nearestLimit    int
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Inspect stored articles",
}

var unitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored articles",
	Args:  cobra.NoArgs,
	RunE:  runUnitsList,
}

var unitsNearestCmd = &cobra.Command{
	Use:   "nearest [query]",
	Short: "Find the stored articles closest to a query",
	Long: `Embeds the query text and returns the stored articles whose vectors
are nearest to it, closest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnitsNearest,
}

var unitsDeleteCmd = &cobra.Command{
	Use:   "delete [law-number]",
	Short: "Delete a stored article",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnitsDelete,
}

func init() {
	unitsCmd.PersistentFlags().StringVarP(&unitsCollection, "collection", "c", "", "collection (default from settings)")
	unitsListCmd.Flags().BoolVar(&unitsJSON, "json", false, "output as JSON")
	unitsNearestCmd.Flags().BoolVar(&unitsJSON, "json", false, "output as JSON")
	unitsNearestCmd.Flags().IntVarP(&nearestLimit, "limit", "n", 5, "maximum number of results")

	unitsCmd.AddCommand(unitsListCmd)
	unitsCmd.AddCommand(unitsNearestCmd)
	unitsCmd.AddCommand(unitsDeleteCmd)
	rootCmd.AddCommand(unitsCmd)
}

// collectionOrDefault resolves the --collection flag against settings.
func collectionOrDefault(flag string) string {
	if flag != "" {
		return flag
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.Store.Collection != "" {
			return s.Store.Collection
		}
	}
	return domain.DefaultCollection
}

func runUnitsList(cmd *cobra.Command, _ []string) error {
	if unitService == nil {
		return errors.New("unit service not configured")
	}

	snap, err := unitService.List(cmd.Context(), collectionOrDefault(unitsCollection))
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if unitsJSON {
		return printJSON(cmd, snap)
	}
	if len(snap) == 0 {
		cmd.Println("No articles stored.")
		return nil
	}
	for _, n := range snap.Keys() {
		cmd.Printf("  Điều %-4d %s\n", n, preview(snap[n]))
	}
	cmd.Printf("\n%d article(s)\n", len(snap))
	return nil
}

func runUnitsNearest(cmd *cobra.Command, args []string) error {
	if unitService == nil {
		return errors.New("unit service not configured")
	}

	hits, err := unitService.Nearest(cmd.Context(), collectionOrDefault(unitsCollection), args[0], nearestLimit)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if unitsJSON {
		return printJSON(cmd, hits)
	}
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, h := range hits {
		cmd.Printf("  [%d] Điều %d (%.3f)\n", i+1, h.LawNumber, h.Score)
		cmd.Printf("      %s\n", preview(h.Text))
	}
	return nil
}

func runUnitsDelete(cmd *cobra.Command, args []string) error {
	if unitService == nil {
		return errors.New("unit service not configured")
	}

	lawNumber, err := strconv.Atoi(args[0])
	if err != nil || lawNumber <= 0 {
		return fmt.Errorf("%w: law number %q", domain.ErrInvalidInput, args[0])
	}

	collection := collectionOrDefault(unitsCollection)
	if err := unitService.Delete(cmd.Context(), collection, lawNumber); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Printf("Deleted Điều %d from %s.\n", lawNumber, collection)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// preview flattens text onto one line and truncates it.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= previewRunes {
		return flat
	}
	return string([]rune(flat)[:previewRunes]) + "..."
}
