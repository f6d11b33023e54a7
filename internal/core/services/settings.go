package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyStoreBackend    = "store.backend"
	keyStoreDataDir    = "store.data_dir"
	keyStoreCollection = "store.collection"
	keyQdrantURL       = "store.qdrant_url"
	keyQdrantAPIKey    = "store.qdrant_api_key"
	keyIngestMinWord   = "ingest.min_word"
	keyIngestLanguage  = "ingest.ocr_language"
	keyIngestDPI       = "ingest.dpi"
	keyIngestWorkers   = "ingest.ocr_workers"
	keyPipeline        = "pipeline.processors"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
		},
		Store: domain.StoreSettings{
			Backend:      s.getBackend(defaults.Store.Backend),
			DataDir:      s.configStore.GetString(keyStoreDataDir),
			Collection:   s.getString(keyStoreCollection, defaults.Store.Collection),
			QdrantURL:    s.getString(keyQdrantURL, defaults.Store.QdrantURL),
			QdrantAPIKey: s.configStore.GetString(keyQdrantAPIKey),
		},
		Ingest: domain.IngestSettings{
			MinWord:     s.getInt(keyIngestMinWord, defaults.Ingest.MinWord),
			OCRLanguage: s.getString(keyIngestLanguage, defaults.Ingest.OCRLanguage),
			DPI:         s.getInt(keyIngestDPI, defaults.Ingest.DPI),
			OCRWorkers:  s.getInt(keyIngestWorkers, defaults.Ingest.OCRWorkers),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyStoreBackend, settings.Store.Backend.String()},
		{keyStoreDataDir, settings.Store.DataDir},
		{keyStoreCollection, settings.Store.Collection},
		{keyQdrantURL, settings.Store.QdrantURL},
		{keyIngestMinWord, settings.Ingest.MinWord},
		{keyIngestLanguage, settings.Ingest.OCRLanguage},
		{keyIngestDPI, settings.Ingest.DPI},
		{keyIngestWorkers, settings.Ingest.OCRWorkers},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when present so an env-only key is never blanked.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.Store.QdrantAPIKey != "" {
		if err := s.configStore.Set(keyQdrantAPIKey, settings.Store.QdrantAPIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyQdrantAPIKey, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetStoreBackend selects the unit store backend.
func (s *SettingsService) SetStoreBackend(backend domain.StoreBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: store backend %q", domain.ErrInvalidInput, backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Store.Backend = backend
	return s.Save(settings)
}

// Validate checks if current settings are usable for ingestion.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: run 'phapdien settings set embedding.provider <ollama|openai>'",
			domain.ErrEmbeddingUnavailable)
	}
	if !settings.Store.Backend.IsValid() {
		return fmt.Errorf("%w: store backend %q", domain.ErrInvalidInput, settings.Store.Backend)
	}
	if settings.Store.Backend == domain.StoreBackendQdrant && settings.Store.QdrantURL == "" {
		return fmt.Errorf("%w: qdrant backend needs %s", domain.ErrInvalidInput, keyQdrantURL)
	}
	if settings.Ingest.MinWord < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, keyIngestMinWord)
	}
	if settings.Ingest.DPI <= 0 || settings.Ingest.OCRWorkers <= 0 {
		return fmt.Errorf("%w: %s and %s must be positive", domain.ErrInvalidInput, keyIngestDPI, keyIngestWorkers)
	}
	if err := validatePipeline(s.configStore.GetStringSlice(keyPipeline)); err != nil {
		return err
	}

	if s.aiValidator != nil {
		return s.aiValidator.ValidateEmbedding(&settings.Embedding)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// A configured processor list is used only when it keeps the default
// stages first and in order; the length filter threshold follows
// ingest.min_word.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()
	processors := s.configStore.GetStringSlice(keyPipeline)
	if len(processors) > 0 && validatePipeline(processors) == nil {
		cfg.Processors = processors
	}
	cfg.ProcessorConfigs["lengthfilter"] = map[string]any{
		"min_word": s.getInt(keyIngestMinWord, domain.DefaultMinWord),
	}
	return cfg
}

// validatePipeline rejects a processor list that drops or reorders the
// segmenter, lengthfilter and normaliser stages. Extra stages may follow.
// An empty list means the default order.
func validatePipeline(processors []string) error {
	if len(processors) == 0 {
		return nil
	}
	required := domain.DefaultPipelineConfig().Processors
	if len(processors) < len(required) || !slices.Equal(processors[:len(required)], required) {
		return fmt.Errorf("%w: %s must start with %v, got %v",
			domain.ErrInvalidInput, keyPipeline, required, processors)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	val := s.configStore.GetString(keyStoreBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StoreBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
