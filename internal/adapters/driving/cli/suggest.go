package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show suggested questions",
	Long: `Prints questions worth asking: recent real questions when history
exists, a starter list otherwise.`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	questions, err := answerService.SuggestedQuestions(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to get suggestions: %w", err)
	}

	if len(questions) == 0 {
		cmd.Println("No suggestions available.")
		return nil
	}

	cmd.Println("Suggested questions:")
	for i, q := range questions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
	return nil
}
