package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	Long:  `Prints document, chunk, session, and feedback figures for the tenant.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	ctx := context.Background()
	stats, err := statsService.Usage(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Println("Usage")
	cmd.Println("=====")
	cmd.Println()
	cmd.Printf("  Documents:  %d (%d indexed)\n", stats.Documents, stats.IndexedDocuments)
	cmd.Printf("  Chunks:     %d\n", stats.Chunks)
	cmd.Printf("  Sessions:   %d\n", stats.Sessions)
	cmd.Printf("  Messages:   %d\n", stats.Messages)
	cmd.Printf("  Feedback:   %d\n", stats.FeedbackCount)
	if stats.FeedbackCount > 0 {
		cmd.Printf("  Mean score: %.2f / 5 (%.0f%% accuracy)\n", stats.MeanScore, stats.AccuracyPercent)
	}
	return nil
}
