package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

// errNoAssistant is returned when no LLM provider could be wired.
var errNoAssistant = errors.New("assistant not available, configure an LLM and an embedding provider with 'arielle settings'")

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed API",
	Long: `Answers a natural-language question using the indexed endpoints as context.

Compound questions such as "create a customer and charge them" are split into
separate intents, answered independently and combined. Intents that fail are
reported after the answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	svc, err := loadServices(cmd, Overrides{})
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.Assistant == nil {
		return errNoAssistant
	}

	answer, err := svc.Assistant.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Intents) > 1 {
		cmd.Println()
		cmd.Println("Intents:")
		for _, intent := range answer.Intents {
			cmd.Printf("  - %s\n", intent)
		}
	}
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(answer.Sources, ", "))
	}
	if answer.Warnings != "" {
		cmd.Println()
		cmd.Println(answer.Warnings)
	}
	return nil
}
