package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, unit store and ingestion options.

Settings live in ~/.phapdien/config.toml. Any key can also be set through
the environment, e.g. PHAPDIEN_EMBEDDING_API_KEY for embedding.api_key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set one setting by key. Run 'phapdien settings keys' for the list.

Examples:
  phapdien settings set embedding.provider ollama
  phapdien settings set embedding.api_key sk-...
  phapdien settings set embedding.api_key -      # prompt without echo
  phapdien settings set store.backend qdrant
  phapdien settings set ingest.min_word 300`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, k := range settingKeys() {
			cmd.Printf("  %-32s %s\n", k, settingSetters[k].help)
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if settings.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", settings.Embedding.RequestsPerSecond)
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend.Description())
	cmd.Printf("  Collection: %s\n", settings.Store.Collection)
	switch settings.Store.Backend {
	case domain.StoreBackendSQLite:
		dataDir := settings.Store.DataDir
		if dataDir == "" {
			dataDir = "~/.phapdien/data"
		}
		cmd.Printf("  Data dir: %s\n", dataDir)
	case domain.StoreBackendQdrant:
		cmd.Printf("  URL: %s\n", settings.Store.QdrantURL)
		if settings.Store.QdrantAPIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Store.QdrantAPIKey))
		}
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Minimum words: %d\n", settings.Ingest.MinWord)
	cmd.Printf("  OCR language: %s\n", settings.Ingest.OCRLanguage)
	cmd.Printf("  DPI: %d\n", settings.Ingest.DPI)
	cmd.Printf("  OCR workers: %d\n", settings.Ingest.OCRWorkers)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key, value := args[0], args[1]

	setter, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (see 'phapdien settings keys')", domain.ErrInvalidInput, key)
	}

	// Provider and backend changes go through the service so their
	// dependent defaults are applied.
	switch key {
	case "embedding.provider":
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		provider := domain.AIProvider(value)
		model := ""
		if provider == settings.Embedding.Provider {
			model = settings.Embedding.Model
		}
		if err := settingsService.SetEmbeddingProvider(provider, model, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	case "store.backend":
		if err := settingsService.SetStoreBackend(domain.StoreBackend(value)); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	default:
		if setter.secret && value == "-" {
			cmd.Printf("%s: ", key)
			value = readSecret(cmd)
			cmd.Println()
		}
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if err := setter.apply(settings, value); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	cmd.Printf("%s updated.\n", key)
	return nil
}

// settingSetter writes one key into AppSettings. Keys handled by a
// dedicated service method have no apply func. A secret key given as "-"
// is read from the terminal.
type settingSetter struct {
	help   string
	secret bool
	apply  func(s *domain.AppSettings, value string) error
}

var settingSetters = map[string]settingSetter{
	"embedding.provider": {help: "ollama or openai"},
	"embedding.model": {help: "embedding model name", apply: func(s *domain.AppSettings, v string) error {
		s.Embedding.Model = v
		return nil
	}},
	"embedding.base_url": {help: "provider endpoint", apply: func(s *domain.AppSettings, v string) error {
		s.Embedding.BaseURL = v
		return nil
	}},
	"embedding.api_key": {help: "API key (OpenAI), - to prompt", secret: true, apply: func(s *domain.AppSettings, v string) error {
		s.Embedding.APIKey = v
		return nil
	}},
	"embedding.requests_per_second": {help: "rate limit, 0 disables", apply: func(s *domain.AppSettings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return errors.New("must be a non-negative number")
		}
		s.Embedding.RequestsPerSecond = f
		return nil
	}},
	"store.backend": {help: "sqlite, memory or qdrant"},
	"store.data_dir": {help: "SQLite data directory", apply: func(s *domain.AppSettings, v string) error {
		s.Store.DataDir = v
		return nil
	}},
	"store.collection": {help: "default collection", apply: func(s *domain.AppSettings, v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("must not be empty")
		}
		s.Store.Collection = v
		return nil
	}},
	"store.qdrant_url": {help: "Qdrant REST endpoint", apply: func(s *domain.AppSettings, v string) error {
		s.Store.QdrantURL = v
		return nil
	}},
	"store.qdrant_api_key": {help: "Qdrant API key, - to prompt", secret: true, apply: func(s *domain.AppSettings, v string) error {
		s.Store.QdrantAPIKey = v
		return nil
	}},
	"ingest.min_word": {help: "minimum words per article", apply: func(s *domain.AppSettings, v string) error {
		return setInt(&s.Ingest.MinWord, v, 1)
	}},
	"ingest.ocr_language": {help: "Tesseract language code", apply: func(s *domain.AppSettings, v string) error {
		s.Ingest.OCRLanguage = v
		return nil
	}},
	"ingest.dpi": {help: "render resolution for scanned pages", apply: func(s *domain.AppSettings, v string) error {
		return setInt(&s.Ingest.DPI, v, 1)
	}},
	"ingest.ocr_workers": {help: "pages recognised in parallel", apply: func(s *domain.AppSettings, v string) error {
		return setInt(&s.Ingest.OCRWorkers, v, 1)
	}},
}

func setInt(dst *int, value string, minVal int) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < minVal {
		return fmt.Errorf("must be an integer >= %d", minVal)
	}
	*dst = n
	return nil
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readSecret reads a value without echo when stdin is a terminal and
// falls back to a plain line read otherwise.
//
//nolint:errcheck // CLI helper, a failed read yields an empty value
func readSecret(cmd *cobra.Command) string {
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		secret, err := term.ReadPassword(int(in.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
