package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
)

var (
	searchLimit    int
	searchMinScore float64
	searchMethod   string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed endpoints",
	Long: `Performs semantic vector search across the indexed endpoints and prints the
closest matches with their similarity. No LLM is involved.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "drop results below this similarity (0 uses the setting)")
	searchCmd.Flags().StringVarP(&searchMethod, "method", "m", "", "only return endpoints with this HTTP method")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	svc, err := loadServices(cmd, Overrides{})
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := domain.SearchOptions{
		Limit:    searchLimit,
		MinScore: searchMinScore,
		Method:   strings.ToUpper(searchMethod),
	}

	hits, err := svc.Search.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}

	outputSearchTable(cmd, hits)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.SearchHit) {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		// Format: [N] METHOD /path (similarity)
		cmd.Printf("  [%d] %s %s (%.2f)\n", i+1, hits[i].Method, hits[i].Path, hits[i].Similarity)
		if hits[i].OperationID != "" {
			cmd.Printf("      Operation: %s\n", hits[i].OperationID)
		}
		if len(hits[i].Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(hits[i].Tags, ", "))
		}
		cmd.Println()
	}
}
