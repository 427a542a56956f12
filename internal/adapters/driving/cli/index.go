package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexClearForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect or clear the vector store collection",
}

var indexCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of indexed endpoints",
	Args:  cobra.NoArgs,
	RunE:  runIndexCount,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every indexed endpoint",
	Long: `Removes every document from the configured collection. The next
'arielle start' indexes the document again.`,
	Args: cobra.NoArgs,
	RunE: runIndexClear,
}

func init() {
	indexClearCmd.Flags().BoolVarP(&indexClearForce, "force", "f", false, "skip the confirmation prompt")
	indexCmd.AddCommand(indexCountCmd)
	indexCmd.AddCommand(indexClearCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexCount(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd, Overrides{})
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.Index == nil {
		return errors.New("vector store not configured")
	}
	count, err := svc.Index.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	cmd.Printf("%d endpoints indexed\n", count)
	return nil
}

func runIndexClear(cmd *cobra.Command, _ []string) error {
	if !indexClearForce {
		cmd.Print("Remove every indexed endpoint? [y/N]: ")
		answer := readLine(newStdinReader(cmd))
		if answer != "y" && answer != "Y" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	svc, err := loadServices(cmd, Overrides{})
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.Index == nil {
		return errors.New("vector store not configured")
	}
	if err := svc.Index.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	cmd.Println("Collection cleared.")
	return nil
}
