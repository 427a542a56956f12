package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arielle-cli/internal/extraction"
	"github.com/custodia-labs/arielle-cli/internal/logger"
	"github.com/custodia-labs/arielle-cli/internal/openapi"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService runs load, validate, process, extract, write and index.
type PipelineService struct {
	loader    driven.SpecLoader
	writer    driven.ExtractionWriter
	indexer   driving.IndexService
	validator *openapi.Validator
	processor *openapi.Processor
	engine    *extraction.Engine
	log       *logger.Logger
}

// NewPipelineService creates a pipeline. writer and indexer are optional.
func NewPipelineService(
	loader driven.SpecLoader,
	writer driven.ExtractionWriter,
	indexer driving.IndexService,
	log *logger.Logger,
) *PipelineService {
	return &PipelineService{
		loader:    loader,
		writer:    writer,
		indexer:   indexer,
		validator: openapi.NewValidator(log),
		processor: openapi.NewProcessor(log),
		engine:    extraction.NewEngine(log),
		log:       log,
	}
}

// Run processes opts.Source end to end. Load and validation failures abort
// the run; single operations that fail are skipped by the processor.
func (p *PipelineService) Run(ctx context.Context, opts domain.RunOptions) (*domain.RunResult, error) {
	if opts.Source == "" {
		return nil, fmt.Errorf("%w: spec source is required", domain.ErrInvalidInput)
	}

	result := &domain.RunResult{RunID: uuid.NewString()}
	p.log.Section("Load")
	p.log.Debug("Run %s: %s", result.RunID, opts.Source)

	raw, err := p.loader.Load(ctx, opts.Source)
	if err != nil {
		return nil, err
	}

	spec, err := p.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	result.API = domain.NewAPIInfo(spec)

	p.log.Section("Process")
	result.Endpoints = p.processor.Process(spec)
	result.Groups = domain.GroupByTag(result.Endpoints)

	p.log.Section("Extract")
	infos := p.engine.Extract(result.Endpoints)
	docs := p.engine.FormatForEmbedding(infos)
	result.Records = make([]domain.ExtractionRecord, len(infos))
	for i := range infos {
		result.Records[i] = domain.NewExtractionRecord(infos[i], docs[i])
	}

	if p.writer != nil {
		path, err := p.writer.Write(ctx, opts.OutputDir, result.Records)
		if err != nil {
			return nil, fmt.Errorf("write extraction: %w", err)
		}
		result.OutputPath = path
		p.log.Info("Extraction saved to %s", path)
	}

	if !opts.Index {
		return result, nil
	}

	p.log.Section("Index")
	if p.indexer == nil {
		if opts.IndexOptional {
			p.log.Warn("Indexing skipped: no vector store is configured")
			result.IndexSkipped = true
			return result, nil
		}
		return nil, fmt.Errorf("%w: indexing requested but no vector store is configured, run 'arielle settings embedding' or pass --no-index",
			domain.ErrVectorStoreUnavailable)
	}
	if opts.ClearCache {
		if err := p.indexer.Clear(ctx); err != nil {
			return nil, err
		}
	}
	if len(result.Records) == 0 {
		p.log.Warn("No endpoints provided for indexing")
		result.Index = &domain.IndexStats{}
		return result, nil
	}

	stats, err := p.indexer.Index(ctx, result.Records)
	if err != nil {
		return nil, fmt.Errorf("index endpoints: %w", err)
	}
	result.Index = &stats
	return result, nil
}
