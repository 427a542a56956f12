package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/export/jsonfile"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/filewatcher"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/vector"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arielle-cli/internal/core/services"
	"github.com/custodia-labs/arielle-cli/internal/logger"
	"github.com/custodia-labs/arielle-cli/internal/openapi"
)

// dependencies holds what every command shares: the config directory,
// the settings service and the prompt store.
type dependencies struct {
	configDir string
	settings  *services.SettingsService
	prompts   *file.PromptStore
	logOut    io.Writer
}

// newDependencies opens the config store under configDir. An empty
// configDir means ~/.arielle.
func newDependencies(configDir string, logOut io.Writer) (*dependencies, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	return &dependencies{
		configDir: configDir,
		settings:  services.NewSettingsService(configStore, ai.NewConfigValidator()),
		prompts:   prompts,
		logOut:    logOut,
	}, nil
}

// buildServices wires the services for one command invocation.
// Providers that are not configured or not reachable are reported as
// warnings and leave the services depending on them unset.
func (d *dependencies) buildServices(ctx context.Context, o cli.Overrides) (*cli.Services, error) {
	settings, err := d.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	applyOverrides(settings, o)

	log := logger.New(d.logOut, o.Verbose)
	log.Debug("Vector store: %s %s (collection %s)",
		settings.VectorStore.Kind, settings.VectorStore.URL, settings.VectorStore.Collection)

	aiResult := ai.Init(ctx, settings, log)
	store, err := vector.NewStore(&settings.VectorStore)
	if err != nil {
		aiResult.Close()
		return nil, err
	}

	svc := &cli.Services{
		Catalog:      services.NewCatalogService(),
		ResultAction: services.NewResultActionService(),
		Watcher:      filewatcher.New(0, log),
		Log:          log,
		Warnings:     aiResult.Warnings,
		Cleanup: func() {
			aiResult.Close()
			if err := store.Close(); err != nil {
				log.Warn("Closing vector store: %v", err)
			}
		},
	}

	search := services.NewSearchService(aiResult.EmbeddingService, store, log)
	search.SetDefaults(settings.Search.Limit, settings.Search.MinScore)
	svc.Search = search

	idx := services.NewIndexService(aiResult.EmbeddingService, store, log)
	idx.SetBatchSize(settings.Indexing.BatchSize)
	idx.SetRateLimit(settings.Indexing.RequestsPerSecond)
	svc.Index = idx

	// Without embeddings the pipeline can still extract, but not index.
	var indexer driving.IndexService
	if aiResult.EmbeddingService != nil {
		indexer = idx
	}

	if aiResult.EmbeddingService != nil && aiResult.LLMService != nil {
		assistant := services.NewAssistantService(
			aiResult.LLMService, aiResult.EmbeddingService, store, d.prompts, log)
		assistant.SetGeneration(settings.LLM.Temperature, settings.LLM.MaxTokens)
		svc.Assistant = assistant
	}

	outputDir := settings.Output.Dir
	if outputDir == "" {
		outputDir = "."
	}
	svc.Pipeline = services.NewPipelineService(
		openapi.NewLoader(nil, log),
		jsonfile.NewWriter(outputDir),
		indexer,
		log,
	)

	return svc, nil
}

// applyOverrides replaces settings with per-invocation overrides.
func applyOverrides(settings *domain.AppSettings, o cli.Overrides) {
	if o.EmbeddingModel != "" {
		settings.Embedding.Model = o.EmbeddingModel
	}
	if o.Store == "" || o.Store == settings.VectorStore.Kind {
		return
	}
	settings.VectorStore.Kind = o.Store
	switch o.Store {
	case domain.VectorStoreChroma:
		settings.VectorStore.URL = domain.DefaultChromaURL
	case domain.VectorStoreQdrant:
		settings.VectorStore.URL = domain.DefaultQdrantURL
	default:
		settings.VectorStore.URL = ""
	}
}
