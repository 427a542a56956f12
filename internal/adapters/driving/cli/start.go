package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/openapi"
)

var (
	startSource         string
	startOutputDir      string
	startIndex          bool
	startNoIndex        bool
	startClearCache     bool
	startQuery          string
	startEmbeddingModel string
	startStore          string
	startWatch          bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Process an OpenAPI document and index its endpoints",
	Long: `Loads an OpenAPI 3.0 document from a file or URL, validates it, extracts one
document per endpoint, writes the extraction to a JSON file and indexes the
documents in the configured vector store.

Examples:
  arielle start -s ./petstore.yaml
  arielle start -s https://example.com/openapi.json --no-index
  arielle start -s ./petstore.yaml --clear-cache --query "list pets"
  arielle start -s ./petstore.yaml --store sqlite --watch`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startSource, "spec", "s", "", "path or URL of the OpenAPI document")
	startCmd.Flags().StringVarP(&startOutputDir, "output", "o", "", "directory for the extraction output")
	startCmd.Flags().BoolVar(&startIndex, "index", false, "index endpoints in the vector store")
	startCmd.Flags().BoolVar(&startNoIndex, "no-index", false, "skip vector indexing")
	startCmd.Flags().BoolVar(&startClearCache, "clear-cache", false, "empty the vector store collection before indexing")
	startCmd.Flags().StringVar(&startQuery, "query", "", "search the indexed endpoints after processing")
	startCmd.Flags().StringVar(&startEmbeddingModel, "embedding-model", "", "override the configured embedding model")
	startCmd.Flags().StringVar(&startStore, "store", "", "override the vector store (chroma, qdrant, sqlite, memory)")
	startCmd.Flags().BoolVar(&startWatch, "watch", false, "re-run when the document file changes")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	if startSource == "" {
		return errors.New("--spec is required")
	}
	if startIndex && startNoIndex {
		return errors.New("--index and --no-index are mutually exclusive")
	}
	if startWatch && openapi.IsURL(startSource) {
		return errors.New("--watch needs a local file, not a URL")
	}

	overrides := Overrides{EmbeddingModel: startEmbeddingModel}
	if startStore != "" {
		kind := domain.VectorStoreKind(startStore)
		if !kind.IsValid() {
			return fmt.Errorf("%w: unknown vector store %q", domain.ErrInvalidInput, startStore)
		}
		overrides.Store = kind
	}

	svc, err := loadServices(cmd, overrides)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := domain.RunOptions{
		Source:        startSource,
		OutputDir:     startOutputDir,
		Index:         indexRequested(),
		IndexOptional: !startIndex,
		ClearCache:    startClearCache,
	}

	if err := runPipeline(cmd, svc, opts); err != nil {
		return err
	}

	if startQuery != "" {
		hits, err := svc.Search.Search(cmd.Context(), startQuery, domain.SearchOptions{})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		cmd.Printf("\nQuery: %s\n", startQuery)
		outputSearchTable(cmd, hits)
	}

	if startWatch {
		return watchSource(cmd, svc, opts)
	}
	return nil
}

// indexRequested resolves --index/--no-index against the indexing.enabled setting.
func indexRequested() bool {
	switch {
	case startNoIndex:
		return false
	case startIndex:
		return true
	default:
		return currentSettings().Indexing.Enabled
	}
}

// runPipeline runs one pass, loads the catalog and prints a summary.
func runPipeline(cmd *cobra.Command, svc *Services, opts domain.RunOptions) error {
	result, err := svc.Pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if svc.Catalog != nil {
		svc.Catalog.Load(result)
	}

	cmd.Printf("API: %s (version %s)\n", result.API.Title, result.API.Version)
	cmd.Printf("Endpoints: %d in %d groups\n", len(result.Endpoints), len(result.Groups))
	for _, group := range result.Groups {
		cmd.Printf("  %s: %d\n", group.Tag, len(group.Endpoints))
	}
	if result.OutputPath != "" {
		cmd.Printf("Extraction saved to %s\n", result.OutputPath)
	}
	if result.Index != nil {
		cmd.Printf("Indexed %d of %d endpoints", result.Index.Indexed, result.Index.Total)
		if result.Index.Failed > 0 {
			cmd.Printf(" (%d failed)", result.Index.Failed)
		}
		cmd.Printf(" in %s\n", result.Index.Duration.Round(time.Millisecond))
	}
	if result.IndexSkipped {
		cmd.Println("Warning: indexing skipped, no embedding provider is configured. Run 'arielle settings embedding' to enable it.")
	}
	return nil
}

// watchSource re-runs the pipeline each time the document changes until
// the command context is cancelled. Failed runs are reported and skipped.
func watchSource(cmd *cobra.Command, svc *Services, opts domain.RunOptions) error {
	if svc.Watcher == nil {
		return errors.New("file watching is not available")
	}

	ctx := cmd.Context()
	changes, err := svc.Watcher.Watch(ctx, opts.Source)
	if err != nil {
		return fmt.Errorf("watch %s: %w", opts.Source, err)
	}
	cmd.Printf("\nWatching %s for changes (Ctrl+C to stop)\n", opts.Source)

	// Later passes replace the collection so removed endpoints disappear.
	opts.ClearCache = opts.Index
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			cmd.Println("\nChange detected, processing again")
			if err := runPipeline(cmd, svc, opts); err != nil {
				cmd.PrintErrf("Error: %v\n", err)
			}
		}
	}
}
