package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.False(t, AIProvider("anthropic").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestStoreBackend_IsValid(t *testing.T) {
	for _, b := range AllStoreBackends() {
		assert.True(t, b.IsValid(), b)
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, StoreBackend("weaviate").IsValid())
	assert.Equal(t, unknownDescription, StoreBackend("weaviate").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.False(t, s.Embedding.IsConfigured())
	assert.Equal(t, StoreBackendSQLite, s.Store.Backend)
	assert.Equal(t, DefaultCollection, s.Store.Collection)
	assert.Equal(t, 512, s.Ingest.MinWord)
	assert.Equal(t, "vie", s.Ingest.OCRLanguage)
	assert.Equal(t, 500, s.Ingest.DPI)
	assert.Equal(t, DefaultOCRWorkers, s.Ingest.OCRWorkers)
}

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	assert.Equal(t, []string{"segmenter", "lengthfilter", "normaliser"}, cfg.Processors)
	assert.Equal(t, DefaultMinWord, cfg.GetProcessorConfig("lengthfilter")["min_word"])
	assert.Nil(t, cfg.GetProcessorConfig("segmenter"))

	var empty PipelineConfig
	assert.Nil(t, empty.GetProcessorConfig("lengthfilter"))
}

func TestDefaultEmbeddingModels(t *testing.T) {
	models := DefaultEmbeddingModels()
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, models[p])
		_, ok := EmbeddingDimensions()[models[p]]
		assert.True(t, ok, "default model %s has known dimensions", models[p])
	}
}
