// Command phapdien ingests Vietnamese legal documents into a vector store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/phapdien/cgo/tesseract"
	"github.com/custodia-labs/phapdien/internal/adapters/driven/ai"
	"github.com/custodia-labs/phapdien/internal/adapters/driven/config/file"
	"github.com/custodia-labs/phapdien/internal/adapters/driven/poppler"
	"github.com/custodia-labs/phapdien/internal/adapters/driven/storage"
	"github.com/custodia-labs/phapdien/internal/adapters/driving/cli"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
	"github.com/custodia-labs/phapdien/internal/core/services"
	"github.com/custodia-labs/phapdien/internal/logger"
	"github.com/custodia-labs/phapdien/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	cli.SetSettingsService(settingsService)
	cli.SetVersion(version)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	backend, err := storage.Open(settings.Store)
	if err != nil {
		// Settings commands must still work with a broken store config.
		logger.Warn("store unavailable: %v", err)
		return cli.Execute(ctx)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}()

	// Nil when no provider is configured; ingestion then plans only.
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("embedding service unavailable: %v", err)
	}

	var ocr driven.OCREngine
	if tesseract.Available() {
		ocr = tesseract.New()
		logger.Debug("tesseract %s", tesseract.Version())
	} else {
		logger.Debug("built without OCR; scanned documents will fail")
	}

	acquirer := services.NewAcquirer(
		poppler.NewExtractor(),
		poppler.NewRenderer(),
		ocr,
		services.WithOCRLanguage(settings.Ingest.OCRLanguage),
		services.WithDPI(settings.Ingest.DPI),
		services.WithOCRWorkers(settings.Ingest.OCRWorkers),
	)

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	newPipeline := func(minWord int) (driven.PostProcessorPipeline, error) {
		cfg := settingsService.GetPipelineConfig()
		cfg.ProcessorConfigs["lengthfilter"] = map[string]any{"min_word": minWord}
		pipeline, err := registry.BuildPipeline(cfg)
		if err != nil {
			return nil, err
		}
		return pipeline, nil
	}

	locks := services.NewKeyLock()
	engine := services.NewReconciliationEngine(embedder, backend.Units)
	ingestService := services.NewIngestService(acquirer, newPipeline, engine, backend.Units,
		services.WithDefaultCollection(settings.Store.Collection),
		services.WithDefaultMinWord(settings.Ingest.MinWord),
		services.WithKeyLock(locks),
		services.WithJobStore(backend.Jobs),
	)
	cli.SetIngestService(ingestService)
	cli.SetUnitService(services.NewUnitService(backend.Units, embedder, locks))

	return cli.Execute(ctx)
}
