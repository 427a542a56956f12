// Package cli provides the cobra commands of the arielle binary.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driving"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// settingsService backs the settings command and command defaults.
var settingsService driving.SettingsService

// buildServices creates the services a command runs against.
var buildServices ServiceBuilder

// Overrides adjust the persisted settings for one invocation.
type Overrides struct {
	// Verbose enables debug logging.
	Verbose bool

	// EmbeddingModel replaces the configured embedding model when set.
	EmbeddingModel string

	// Store replaces the configured vector store backend when set.
	Store domain.VectorStoreKind
}

// Services holds the driving ports available to a command.
// Pipeline and Search are always set; the others are nil when their
// backing provider is not configured.
type Services struct {
	Pipeline     driving.PipelineService
	Index        driving.IndexService
	Search       driving.SearchService
	Assistant    driving.AssistantService
	Catalog      driving.CatalogService
	ResultAction driving.ResultActionService
	Watcher      driven.FileWatcher
	Log          *logger.Logger

	// Warnings are non-fatal problems found while wiring, such as an
	// unreachable LLM provider.
	Warnings []string

	// Cleanup releases provider clients and store handles.
	Cleanup func()
}

// Close runs Cleanup once.
func (s *Services) Close() {
	if s == nil || s.Cleanup == nil {
		return
	}
	s.Cleanup()
	s.Cleanup = nil
}

// ServiceBuilder creates Services from the persisted settings and overrides.
type ServiceBuilder func(ctx context.Context, o Overrides) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "arielle",
	Short: "Ask questions about an OpenAPI document",
	Long: `Arielle turns an OpenAPI 3.0 document into searchable endpoint documents
and answers natural-language questions about the API.

Process and index a document first, then ask about it:

  arielle start -s ./openapi.yaml
  arielle ask "how do I create a customer and charge them"
  arielle chat`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetServiceBuilder sets the function commands use to create services.
func SetServiceBuilder(b ServiceBuilder) {
	buildServices = b
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadServices builds services for cmd and prints wiring warnings to stderr.
func loadServices(cmd *cobra.Command, o Overrides) (*Services, error) {
	if buildServices == nil {
		return nil, errors.New("services not configured")
	}
	o.Verbose = o.Verbose || verbose

	svc, err := buildServices(cmd.Context(), o)
	if err != nil {
		return nil, err
	}
	for _, w := range svc.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	return svc, nil
}

// currentSettings returns the persisted settings, or defaults when none can be read.
func currentSettings() domain.AppSettings {
	if settingsService == nil {
		return domain.DefaultAppSettings()
	}
	settings, err := settingsService.Get()
	if err != nil || settings == nil {
		return domain.DefaultAppSettings()
	}
	return *settings
}
