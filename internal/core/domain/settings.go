package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond caps calls to the provider. Zero disables limiting.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// StoreBackend selects the unit store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendSQLite persists units in a local SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendMemory keeps units in process memory.
	StoreBackendMemory StoreBackend = "memory"

	// StoreBackendQdrant writes units to a Qdrant server over REST.
	StoreBackendQdrant StoreBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendMemory, StoreBackendQdrant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreBackendSQLite:
		return "SQLite (local file)"
	case StoreBackendMemory:
		return "Memory (lost on exit)"
	case StoreBackendQdrant:
		return "Qdrant (remote)"
	default:
		return unknownDescription
	}
}

// StoreSettings holds unit store configuration.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// DataDir is the SQLite data directory. Empty uses ~/.phapdien/data.
	DataDir string

	// Collection is the default collection name.
	Collection string

	// QdrantURL is the Qdrant REST endpoint.
	QdrantURL string

	// QdrantAPIKey is sent as the api-key header when set.
	QdrantAPIKey string
}

// IngestSettings holds ingestion pipeline configuration.
type IngestSettings struct {
	// MinWord is the minimum raw word count for an article to be kept.
	MinWord int

	// OCRLanguage is the Tesseract language code.
	OCRLanguage string

	// DPI is the render resolution for scanned pages.
	DPI int

	// OCRWorkers bounds concurrent page recognition.
	OCRWorkers int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Store holds unit store settings.
	Store StoreSettings

	// Ingest holds ingestion settings.
	Ingest IngestSettings
}

// Default ingestion values.
const (
	DefaultMinWord     = 512
	DefaultOCRLanguage = "vie"
	DefaultDPI         = 500
	DefaultOCRWorkers  = 4
	DefaultCollection  = "legal_units"

	// DefaultPageSegMode treats each page as a single uniform block of text.
	DefaultPageSegMode = 6
)

// DefaultAppSettings returns settings with sensible defaults.
// Embedding is left unconfigured; users must set a provider before ingesting.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{},
		Store: StoreSettings{
			Backend:    StoreBackendSQLite,
			Collection: DefaultCollection,
			QdrantURL:  "http://localhost:6333",
		},
		Ingest: IngestSettings{
			MinWord:     DefaultMinWord,
			OCRLanguage: DefaultOCRLanguage,
			DPI:         DefaultDPI,
			OCRWorkers:  DefaultOCRWorkers,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllStoreBackends returns every available store backend.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{
		StoreBackendSQLite,
		StoreBackendMemory,
		StoreBackendQdrant,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"bge-m3":            1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration:
// segment into articles, drop short ones, then normalise the survivors.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"segmenter", "lengthfilter", "normaliser"},
		ProcessorConfigs: map[string]map[string]any{
			"lengthfilter": {
				"min_word": DefaultMinWord,
			},
		},
	}
}
